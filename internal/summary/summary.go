// Package summary computes the descriptive inspection of a table: shape,
// column types, head and tail rows, null counts and quantiles.
package summary

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/stat"

	"github.com/sells-group/abtest-cli/internal/model"
)

// DefaultPercentiles are the quantiles reported for every numeric column.
var DefaultPercentiles = []float64{0, 0.05, 0.50, 0.95, 0.99, 1}

// DefaultHeadRows is the number of rows shown at each end of a table.
const DefaultHeadRows = 5

// Options tunes Describe.
type Options struct {
	HeadRows    int       // rows shown in head and tail; DefaultHeadRows if zero
	Percentiles []float64 // DefaultPercentiles if nil
}

func (o Options) withDefaults() Options {
	if o.HeadRows <= 0 {
		o.HeadRows = DefaultHeadRows
	}
	if o.Percentiles == nil {
		o.Percentiles = DefaultPercentiles
	}
	return o
}

// Describe inspects df. Nothing downstream depends on the result other
// than the report.
func Describe(name string, df dataframe.DataFrame, opts Options) (model.Summary, error) {
	if df.Err != nil {
		return model.Summary{}, eris.Wrapf(df.Err, "summary: table %q", name)
	}
	opts = opts.withDefaults()
	for _, p := range opts.Percentiles {
		if p < 0 || p > 1 || math.IsNaN(p) {
			return model.Summary{}, eris.Errorf("summary: percentile %v outside [0, 1]", p)
		}
	}

	rows, cols := df.Dims()
	s := model.Summary{
		Name:        name,
		Rows:        rows,
		Cols:        cols,
		Columns:     df.Names(),
		Types:       make(map[string]string, cols),
		Nulls:       make(map[string]int, cols),
		Percentiles: append([]float64(nil), opts.Percentiles...),
	}

	headEnd := min(opts.HeadRows, rows)
	tailStart := max(rows-opts.HeadRows, 0)
	s.Head = formatRows(df, 0, headEnd)
	s.Tail = formatRows(df, tailStart, rows)
	s.TailStart = tailStart

	for _, col := range df.Names() {
		sr := df.Col(col)
		s.Types[col] = DType(sr.Type())
		s.Nulls[col] = countNaN(sr)
		if sr.Type() != series.Float && sr.Type() != series.Int {
			continue
		}
		s.Stats = append(s.Stats, columnStats(col, sr.Float(), opts.Percentiles))
	}
	return s, nil
}

// DType names a series type the way dataframe libraries conventionally
// print it.
func DType(t series.Type) string {
	switch t {
	case series.Float:
		return "float64"
	case series.Int:
		return "int64"
	case series.Bool:
		return "bool"
	default:
		return "object"
	}
}

func columnStats(col string, values []float64, percentiles []float64) model.ColumnStats {
	xs := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			xs = append(xs, v)
		}
	}
	sort.Float64s(xs)

	cs := model.ColumnStats{
		Column:    col,
		Count:     len(xs),
		Mean:      math.NaN(),
		Std:       math.NaN(),
		Min:       math.NaN(),
		Max:       math.NaN(),
		Quantiles: make([]float64, len(percentiles)),
	}
	if len(xs) > 0 {
		cs.Min, cs.Max = xs[0], xs[len(xs)-1]
		cs.Mean = stat.Mean(xs, nil)
	}
	if len(xs) > 1 {
		cs.Std = stat.StdDev(xs, nil)
	}
	for i, p := range percentiles {
		cs.Quantiles[i] = Quantile(xs, p)
	}
	return cs
}

// Quantile returns the p-quantile of the ascending slice sorted,
// interpolating linearly between the two closest ranks (Hyndman-Fan
// type 7). It returns NaN for an empty slice.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	h := float64(n-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i >= n-1 {
		return sorted[n-1]
	}
	if i < 0 {
		return sorted[0]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

func countNaN(s series.Series) int {
	var n int
	if s.Type() == series.Float {
		for _, v := range s.Float() {
			if math.IsNaN(v) {
				n++
			}
		}
		return n
	}
	for _, na := range s.IsNaN() {
		if na {
			n++
		}
	}
	return n
}

// formatRows renders rows [from, to) with floats at five decimals.
func formatRows(df dataframe.DataFrame, from, to int) [][]string {
	if from >= to {
		return nil
	}
	out := make([][]string, 0, to-from)
	for r := from; r < to; r++ {
		row := make([]string, df.Ncol())
		for c := range row {
			row[c] = FormatElem(df.Elem(r, c))
		}
		out = append(out, row)
	}
	return out
}

// FormatElem renders one cell: floats at five decimals, NaN for missing.
func FormatElem(e series.Element) string {
	if e.IsNA() {
		return "NaN"
	}
	if e.Type() == series.Float {
		v := e.Float()
		if math.IsNaN(v) {
			return "NaN"
		}
		return fmt.Sprintf("%.5f", v)
	}
	return e.String()
}
