package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/sponge/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because:
// 1. It's part of the standard library (no extra dependencies)
// 2. It's sufficient for our needs
// 3. It provides consistent behavior across Go versions
type JSONWriter struct {
	baseWriter

	// version is the Sponge version recorded in the report.
	version string

	// indent enables pretty-printed JSON output.
	indent bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// WithVersion records the generating Sponge version in the report.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// JSONReport wraps the summary with derived totals.
//
// Design decision: We wrap the summary rather than adding output-specific
// fields to model.CrawlSummary so the core data structure stays minimal.
type JSONReport struct {
	// Version is the Sponge version that generated this report.
	Version string `json:"version,omitempty"`

	// Summary is the crawl summary.
	Summary *model.CrawlSummary `json:"summary"`

	// TotalBytes is the sum of all downloaded bytes.
	TotalBytes int64 `json:"totalBytes"`

	// Extensions groups downloads by file extension.
	Extensions []model.ExtensionStat `json:"extensions"`
}

// Write outputs the summary in JSON format.
func (w *JSONWriter) Write(summary *model.CrawlSummary) (int, error) {
	wrapped := JSONReport{
		Version:    w.version,
		Summary:    summary,
		TotalBytes: summary.TotalBytes(),
		Extensions: summary.ExtensionStats(),
	}
	if wrapped.Extensions == nil {
		wrapped.Extensions = []model.ExtensionStat{}
	}

	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(wrapped, "", "  ")
	} else {
		data, err = json.Marshal(wrapped)
	}
	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')
	return w.output.Write(data)
}
