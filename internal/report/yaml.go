package report

import (
	"io"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/abtest-cli/internal/model"
)

// YAMLWriter serializes the full result for machine consumption.
type YAMLWriter struct {
	out io.Writer
}

// NewYAMLWriter creates a YAMLWriter.
func NewYAMLWriter(out io.Writer) *YAMLWriter {
	return &YAMLWriter{out: out}
}

// Write encodes r as a single YAML document.
func (w *YAMLWriter) Write(r *model.AnalysisResult) error {
	enc := yaml.NewEncoder(w.out)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return eris.Wrap(err, "report: encode yaml")
	}
	if err := enc.Close(); err != nil {
		return eris.Wrap(err, "report: encode yaml")
	}
	return nil
}
