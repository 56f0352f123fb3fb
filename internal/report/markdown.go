package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/rotisserie/eris"

	"github.com/sells-group/abtest-cli/internal/model"
)

// MarkdownWriter renders the report as a Markdown document.
type MarkdownWriter struct {
	out io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter.
func NewMarkdownWriter(out io.Writer) *MarkdownWriter {
	return &MarkdownWriter{out: out}
}

// Write renders r.
func (w *MarkdownWriter) Write(r *model.AnalysisResult) error {
	md := markdown.NewMarkdown(w.out)

	md.H1("A/B Test: " + r.Metric)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run", "`" + r.RunID + "`"},
			{"Workbook", "`" + r.Source + "`"},
			{"Metric", r.Metric},
			{"Alpha", strconv.FormatFloat(r.Alpha, 'g', -1, 64)},
			{"Started", r.StartedAt.Format("2006-01-02 15:04:05 MST")},
		},
	})
	md.PlainText("")

	for _, s := range r.Summaries {
		w.writeSummary(md, s)
	}

	if len(r.GroupMeans) > 0 {
		md.H2("Group Means")
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"Group", "N", r.Metric},
			Rows:   groupMeanRows(r.GroupMeans),
		})
		md.PlainText("")
	}

	if w.hasTests(r) {
		w.writeTests(md, r)
	}

	if len(r.Warnings) > 0 {
		md.H2("Warnings")
		md.PlainText("")
		for _, warn := range r.Warnings {
			md.Warning(warn)
		}
		md.PlainText("")
	}

	if err := md.Build(); err != nil {
		return eris.Wrap(err, "report: write markdown")
	}
	return nil
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, s model.Summary) {
	md.H2(groupTitle(s.Name) + " Group")
	md.PlainText("")
	md.PlainTextf("Shape: %d rows, %d columns.", s.Rows, s.Cols)
	md.PlainText("")

	cols := make([][]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		cols = append(cols, []string{c, s.Types[c], strconv.Itoa(s.Nulls[c])})
	}
	md.H3("Columns")
	md.PlainText("")
	md.Table(markdown.TableSet{Header: []string{"Column", "Type", "Nulls"}, Rows: cols})
	md.PlainText("")

	header := append([]string{"#"}, s.Columns...)
	md.H3("Head")
	md.PlainText("")
	md.Table(markdown.TableSet{Header: header, Rows: indexRows(s.Head, 0)})
	md.PlainText("")
	md.H3("Tail")
	md.PlainText("")
	md.Table(markdown.TableSet{Header: header, Rows: indexRows(s.Tail, s.TailStart)})
	md.PlainText("")

	qh := describeHeader(s.Percentiles)
	qh[0] = "Column"
	md.H3("Quantiles")
	md.PlainText("")
	md.Table(markdown.TableSet{Header: qh, Rows: describeRows(s)})
	md.PlainText("")
}

func (w *MarkdownWriter) hasTests(r *model.AnalysisResult) bool {
	return len(r.Normality) > 0 || r.Variance != nil || r.Significance != nil
}

func (w *MarkdownWriter) writeTests(md *markdown.Markdown, r *model.AnalysisResult) {
	md.H2("Hypothesis Tests")
	md.PlainText("")

	rows := make([][]string, 0, len(r.Normality)+2)
	for _, n := range r.Normality {
		rows = append(rows, testRow(n.Result.Test+" ("+string(n.Group)+")", n.Result, r.Alpha))
	}
	if r.Variance != nil {
		rows = append(rows, testRow(r.Variance.Test, *r.Variance, r.Alpha))
	}
	if r.Significance != nil {
		rows = append(rows, testRow("**"+r.Significance.Test+"**", *r.Significance, r.Alpha))
	}
	md.Table(markdown.TableSet{
		Header: []string{"Test", "H0", "Statistic", "p-value", "Decision"},
		Rows:   rows,
	})
	md.PlainText("")
}

func testRow(name string, r model.TestResult, alpha float64) []string {
	return []string{
		name,
		r.Hypothesis,
		fmt.Sprintf("%.4f", r.Statistic),
		fmt.Sprintf("%.4f", r.PValue),
		r.Verdict(alpha),
	}
}
