// Package report renders an analysis result for the terminal, as Markdown,
// or as YAML. Every writer targets an io.Writer; nothing is written to disk.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/abtest-cli/internal/model"
)

// Format names an output format.
type Format string

// Supported formats.
const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatYAML     Format = "yaml"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatMarkdown, FormatYAML}

// ParseFormat resolves a configured format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatMarkdown, FormatYAML:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", eris.Errorf("report: unknown format %q (want text, markdown or yaml)", s)
	}
}

// Writer renders one analysis result.
type Writer interface {
	Write(r *model.AnalysisResult) error
}

// New returns the writer for format f.
func New(f Format, out io.Writer) (Writer, error) {
	switch f {
	case FormatText:
		return NewTextWriter(out), nil
	case FormatMarkdown:
		return NewMarkdownWriter(out), nil
	case FormatYAML:
		return NewYAMLWriter(out), nil
	default:
		return nil, eris.Errorf("report: unknown format %q", f)
	}
}

var titleCaser = cases.Title(language.English)

// groupTitle renders a cohort label for headings ("control" -> "Control").
func groupTitle(name string) string {
	return titleCaser.String(name)
}

// percentLabel renders a quantile as a column header ("0.05" -> "5%").
func percentLabel(p float64) string {
	return fmt.Sprintf("%g%%", math.Round(p*1e4)/100)
}

// decimal renders a describe value at five decimals, the way the summary
// renders table cells.
func decimal(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.5f", v)
}

// testLine is the one-line rendering of a test outcome.
func testLine(r model.TestResult) string {
	return fmt.Sprintf("Test Stat = %.4f, p-value = %.4f", r.Statistic, r.PValue)
}

// describeHeader is the header of the quantile table.
func describeHeader(percentiles []float64) []string {
	h := []string{"", "count", "mean", "std", "min"}
	for _, p := range percentiles {
		h = append(h, percentLabel(p))
	}
	return append(h, "max")
}

// describeRows renders one row per numeric column.
func describeRows(s model.Summary) [][]string {
	rows := make([][]string, 0, len(s.Stats))
	for _, cs := range s.Stats {
		row := []string{cs.Column, decimal(float64(cs.Count)), decimal(cs.Mean), decimal(cs.Std), decimal(cs.Min)}
		for _, q := range cs.Quantiles {
			row = append(row, decimal(q))
		}
		rows = append(rows, append(row, decimal(cs.Max)))
	}
	return rows
}
