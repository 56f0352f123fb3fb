package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"

	"github.com/sells-group/abtest-cli/internal/model"
)

// TextWriter prints the console report: one banner per section, tables
// aligned with tabwriter.
type TextWriter struct {
	out io.Writer
}

// NewTextWriter creates a TextWriter.
func NewTextWriter(out io.Writer) *TextWriter {
	return &TextWriter{out: out}
}

// Write renders r. Sections whose data is absent (a describe-only run)
// are skipped.
func (w *TextWriter) Write(r *model.AnalysisResult) error {
	var b strings.Builder
	fmt.Fprintf(&b, "A/B test %s: %s (metric %s, alpha %g)\n", r.RunID, r.Source, r.Metric, r.Alpha)

	for _, s := range r.Summaries {
		writeSummary(&b, s)
	}

	if r.MergedRows > 0 {
		banner(&b, "Merged")
		fmt.Fprintf(&b, "(%d, %d)\n", r.MergedRows, mergedCols(r))
	}

	if len(r.GroupMeans) > 0 {
		banner(&b, "Group Means")
		table(&b, []string{"group", "n", r.Metric}, groupMeanRows(r.GroupMeans))
	}

	if len(r.Normality) > 0 {
		banner(&b, "Normality: "+r.Normality[0].Result.Test)
		fmt.Fprintf(&b, "H0: %s\n", r.Normality[0].Result.Hypothesis)
		for _, n := range r.Normality {
			fmt.Fprintf(&b, "%s: %s (%s)\n", groupTitle(string(n.Group)), testLine(n.Result), n.Result.Verdict(r.Alpha))
		}
	}

	if r.Variance != nil {
		writeTest(&b, "Variance Homogeneity", *r.Variance, r.Alpha)
	}
	if r.Significance != nil {
		writeTest(&b, "Significance", *r.Significance, r.Alpha)
	}

	if len(r.Warnings) > 0 {
		banner(&b, "Warnings")
		for _, warn := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", warn)
		}
	}

	if _, err := io.WriteString(w.out, b.String()); err != nil {
		return eris.Wrap(err, "report: write text")
	}
	return nil
}

func writeSummary(b *strings.Builder, s model.Summary) {
	banner(b, groupTitle(s.Name)+" Group")
	banner(b, "Shape")
	fmt.Fprintf(b, "(%d, %d)\n", s.Rows, s.Cols)

	banner(b, "Types")
	types := make([][]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		types = append(types, []string{c, s.Types[c]})
	}
	table(b, nil, types)

	banner(b, "Head")
	table(b, append([]string{""}, s.Columns...), indexRows(s.Head, 0))
	banner(b, "Tail")
	table(b, append([]string{""}, s.Columns...), indexRows(s.Tail, s.TailStart))

	banner(b, "NA")
	nulls := make([][]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		nulls = append(nulls, []string{c, strconv.Itoa(s.Nulls[c])})
	}
	table(b, nil, nulls)

	banner(b, "Quantiles")
	table(b, describeHeader(s.Percentiles), describeRows(s))
}

func writeTest(b *strings.Builder, section string, r model.TestResult, alpha float64) {
	banner(b, section+": "+r.Test)
	fmt.Fprintf(b, "H0: %s\n", r.Hypothesis)
	fmt.Fprintf(b, "%s (%s)\n", testLine(r), r.Verdict(alpha))
}

func banner(b *strings.Builder, title string) {
	fmt.Fprintf(b, "##################### %s #####################\n", title)
}

// table writes header (if any) and rows as tab-aligned columns.
func table(b *strings.Builder, header []string, rows [][]string) {
	tw := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)
	if header != nil {
		fmt.Fprintln(tw, strings.Join(header, "\t"))
	}
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	// Flushing into a strings.Builder cannot fail.
	_ = tw.Flush()
}

// indexRows prefixes each row with its row index, starting at first.
func indexRows(rows [][]string, first int) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string{strconv.Itoa(first + i)}, r...)
	}
	return out
}

func groupMeanRows(means []model.GroupMean) [][]string {
	rows := make([][]string, len(means))
	for i, gm := range means {
		rows[i] = []string{string(gm.Group), strconv.Itoa(gm.N), decimal(gm.Mean)}
	}
	return rows
}

// mergedCols is the column count of the merged table: the cohort columns
// plus the group label.
func mergedCols(r *model.AnalysisResult) int {
	if len(r.Summaries) == 0 {
		return 0
	}
	return r.Summaries[0].Cols + 1
}
