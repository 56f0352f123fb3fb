// Package dataset loads the campaign workbook and shapes its sheets into
// gota tables: one table per cohort, then a merged table with a group label.
package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/abtest-cli/internal/model"
)

// Errors returned by the loader. All of them are fatal for a run.
var (
	ErrMissingSheet  = eris.New("sheet not found")
	ErrMissingColumn = eris.New("missing column")
	ErrUnknownColumn = eris.New("unexpected column")
	ErrNonNumeric    = eris.New("non-numeric value")
	ErrEmptySheet    = eris.New("sheet has no observations")
	ErrUnknownGroup  = eris.New("unknown group label")
)

// Source identifies the workbook and the two cohort sheets inside it.
type Source struct {
	Path         string
	ControlSheet string
	TestSheet    string
}

// Tables holds the two cohort tables as loaded, before annotation.
type Tables struct {
	Control dataframe.DataFrame
	Test    dataframe.DataFrame
}

// Get returns the table of the given cohort.
func (t *Tables) Get(g model.Group) dataframe.DataFrame {
	if g == model.GroupTest {
		return t.Test
	}
	return t.Control
}

// Load reads both cohort sheets of src. Any missing file, sheet, or column
// and any non-numeric cell aborts the load.
func Load(src Source) (*Tables, error) {
	f, err := openWorkbook(src.Path)
	if err != nil {
		return nil, err
	}

	control, err := loadSheet(f, src.ControlSheet)
	if err != nil {
		return nil, err
	}
	test, err := loadSheet(f, src.TestSheet)
	if err != nil {
		return nil, err
	}
	return &Tables{Control: control, Test: test}, nil
}

func loadSheet(f *xlsx.File, name string) (dataframe.DataFrame, error) {
	sheet, err := getSheet(f, name)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	return buildTable(name, sheetRows(sheet))
}

// buildTable parses raw sheet rows (header first) into a table with the
// metric columns in canonical order.
func buildTable(sheet string, rows []sheetRow) (dataframe.DataFrame, error) {
	obs, err := parseObservations(sheet, rows)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	df := dataframe.LoadStructs(obs)
	if df.Err != nil {
		return dataframe.DataFrame{}, eris.Wrapf(df.Err, "dataset: build table for sheet %q", sheet)
	}
	return df, nil
}

func parseObservations(sheet string, rows []sheetRow) ([]model.Observation, error) {
	if len(rows) < 2 {
		return nil, eris.Wrapf(ErrEmptySheet, "dataset: sheet %q", sheet)
	}

	index, err := columnIndex(sheet, rows[0].cells)
	if err != nil {
		return nil, err
	}

	obs := make([]model.Observation, 0, len(rows)-1)
	for _, row := range rows[1:] {
		var o model.Observation
		for _, col := range model.MetricColumns {
			raw := ""
			if j := index[col]; j < len(row.cells) {
				raw = row.cells[j]
			}
			v, err := parseCell(raw)
			if err != nil {
				return nil, eris.Wrapf(ErrNonNumeric, "dataset: sheet %q row %d column %s: %q", sheet, row.line, col, raw)
			}
			o.Set(col, v)
		}
		obs = append(obs, o)
	}
	return obs, nil
}

// columnIndex maps each metric column to its position in the header row.
// Blank header cells are ignored.
func columnIndex(sheet string, header []string) (map[string]int, error) {
	index := make(map[string]int, len(model.MetricColumns))
	for j, name := range header {
		if name == "" {
			continue
		}
		if !model.IsMetricColumn(name) {
			return nil, eris.Wrapf(ErrUnknownColumn, "dataset: sheet %q column %q", sheet, name)
		}
		if _, dup := index[name]; dup {
			return nil, eris.Errorf("dataset: sheet %q has duplicate column %q", sheet, name)
		}
		index[name] = j
	}
	for _, col := range model.MetricColumns {
		if _, ok := index[col]; !ok {
			return nil, eris.Wrapf(ErrMissingColumn, "dataset: sheet %q column %q", sheet, col)
		}
	}
	return index, nil
}

// naTokens are the cell values read as missing. The set and its case
// sensitivity match the pandas read_excel defaults.
var naTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// parseCell converts a raw cell value. Blank cells and NA tokens are NaN;
// infinities are rejected.
func parseCell(raw string) (float64, error) {
	if _, ok := naTokens[raw]; ok {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, eris.Errorf("non-finite value %q", raw)
	}
	return v, nil
}

// Annotate returns a copy of df with a constant group column appended.
func Annotate(df dataframe.DataFrame, g model.Group) (dataframe.DataFrame, error) {
	if !g.Valid() {
		return dataframe.DataFrame{}, eris.Wrapf(ErrUnknownGroup, "dataset: annotate %q", g)
	}
	labels := make([]string, df.Nrow())
	for i := range labels {
		labels[i] = string(g)
	}
	out := df.Mutate(series.New(labels, series.String, model.ColGroup))
	if out.Err != nil {
		return dataframe.DataFrame{}, eris.Wrap(out.Err, "dataset: annotate")
	}
	return out, nil
}

// Merge concatenates tables row-wise, keeping the column order of the first.
// All tables must carry the same column set. Rows are never deduplicated.
func Merge(tables ...dataframe.DataFrame) (dataframe.DataFrame, error) {
	if len(tables) == 0 {
		return dataframe.DataFrame{}, eris.New("dataset: merge needs at least one table")
	}

	out := tables[0]
	want := out.Nrow()
	for i, t := range tables[1:] {
		if t.Ncol() != out.Ncol() {
			return dataframe.DataFrame{}, eris.Errorf("dataset: merge table %d has %d columns, want %d", i+1, t.Ncol(), out.Ncol())
		}
		out = out.RBind(t)
		want += t.Nrow()
	}
	if out.Err != nil {
		return dataframe.DataFrame{}, eris.Wrap(out.Err, "dataset: merge")
	}
	if out.Nrow() != want {
		return dataframe.DataFrame{}, eris.Errorf("dataset: merged %d rows, want %d", out.Nrow(), want)
	}
	return out, nil
}

// Combine annotates both cohort tables and merges them, control first.
func Combine(t *Tables) (dataframe.DataFrame, error) {
	control, err := Annotate(t.Control, model.GroupControl)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	test, err := Annotate(t.Test, model.GroupTest)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	return Merge(control, test)
}

// GroupValues returns the values of column for the rows labelled g, in row
// order. NaN values are kept; see DropMissing.
func GroupValues(df dataframe.DataFrame, g model.Group, column string) ([]float64, error) {
	if !hasColumn(df, model.ColGroup) {
		return nil, eris.Wrapf(ErrMissingColumn, "dataset: group values: column %q", model.ColGroup)
	}
	if !hasColumn(df, column) {
		return nil, eris.Wrapf(ErrMissingColumn, "dataset: group values: column %q", column)
	}

	sub := df.Filter(dataframe.F{
		Colname:    model.ColGroup,
		Comparator: series.Eq,
		Comparando: string(g),
	})
	if sub.Err != nil {
		return nil, eris.Wrapf(sub.Err, "dataset: filter group %q", g)
	}
	if sub.Nrow() == 0 {
		return nil, nil
	}
	return sub.Col(column).Float(), nil
}

// GroupCounts counts the rows of each cohort. A label outside the known
// cohorts is an error.
func GroupCounts(df dataframe.DataFrame) (map[model.Group]int, error) {
	if !hasColumn(df, model.ColGroup) {
		return nil, eris.Wrapf(ErrMissingColumn, "dataset: group counts: column %q", model.ColGroup)
	}
	counts := make(map[model.Group]int, len(model.Groups))
	for i, label := range df.Col(model.ColGroup).Records() {
		g := model.Group(label)
		if !g.Valid() {
			return nil, eris.Wrapf(ErrUnknownGroup, "dataset: row %d label %q", i, label)
		}
		counts[g]++
	}
	return counts, nil
}

func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// DropMissing returns the rows of df whose column value is not NaN, and the
// number of rows removed.
func DropMissing(df dataframe.DataFrame, column string) (dataframe.DataFrame, int, error) {
	if !hasColumn(df, column) {
		return dataframe.DataFrame{}, 0, eris.Wrapf(ErrMissingColumn, "dataset: drop missing: column %q", column)
	}
	values := df.Col(column).Float()
	keep := make([]int, 0, len(values))
	for i, v := range values {
		if !math.IsNaN(v) {
			keep = append(keep, i)
		}
	}
	if len(keep) == len(values) {
		return df, 0, nil
	}
	out := df.Subset(keep)
	if out.Err != nil {
		return dataframe.DataFrame{}, 0, eris.Wrapf(out.Err, "dataset: drop missing %q", column)
	}
	return out, len(values) - len(keep), nil
}

// GroupMeans aggregates column by cohort and returns the count and mean of
// each, control first. NaN values propagate into the mean; drop them first
// with DropMissing.
func GroupMeans(df dataframe.DataFrame, column string) ([]model.GroupMean, error) {
	if !hasColumn(df, model.ColGroup) {
		return nil, eris.Wrapf(ErrMissingColumn, "dataset: group means: column %q", model.ColGroup)
	}
	if !hasColumn(df, column) {
		return nil, eris.Wrapf(ErrMissingColumn, "dataset: group means: column %q", column)
	}

	agg := df.GroupBy(model.ColGroup).Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_MEAN, dataframe.Aggregation_COUNT},
		[]string{column, column},
	)
	if agg.Err != nil {
		return nil, eris.Wrapf(agg.Err, "dataset: aggregate %q by group", column)
	}

	var meanCol, countCol string
	for _, name := range agg.Names() {
		switch {
		case strings.HasSuffix(name, "MEAN"):
			meanCol = name
		case strings.HasSuffix(name, "COUNT"):
			countCol = name
		}
	}
	if meanCol == "" || countCol == "" {
		return nil, eris.Errorf("dataset: aggregate %q by group: unexpected columns %v", column, agg.Names())
	}

	labels := agg.Col(model.ColGroup).Records()
	means := agg.Col(meanCol).Float()
	counts := agg.Col(countCol).Float()
	byGroup := make(map[model.Group]model.GroupMean, len(labels))
	for i, label := range labels {
		g := model.Group(label)
		if !g.Valid() {
			return nil, eris.Wrapf(ErrUnknownGroup, "dataset: group means label %q", label)
		}
		byGroup[g] = model.GroupMean{Group: g, N: int(counts[i]), Mean: means[i]}
	}

	out := make([]model.GroupMean, 0, len(model.Groups))
	for _, g := range model.Groups {
		gm, ok := byGroup[g]
		if !ok {
			return nil, eris.Wrapf(ErrEmptySheet, "dataset: group %q has no rows", g)
		}
		out = append(out, gm)
	}
	return out, nil
}
