package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/nao1215/sponge/internal/model"
)

// ruleWidth is the width of section separators.
const ruleWidth = 70

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose lists every downloaded file, not only the totals.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose lists every download in the output.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the summary in human-readable format.
func (w *SimpleWriter) Write(summary *model.CrawlSummary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeTotals(&sb, summary)
	w.writeExtensions(&sb, summary)
	if w.verbose {
		w.writeDownloads(&sb, summary)
	}
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the report header with crawl information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *model.CrawlSummary) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("                          SPONGE REPORT\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Root URI:       %s\n", summary.Root)
	fmt.Fprintf(sb, "Output:         %s\n", summary.OutputDir)
	fmt.Fprintf(sb, "Depth:          %d\n", summary.MaxDepth)
	fmt.Fprintf(sb, "Started:        %s\n", summary.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Elapsed:        %s\n", summary.Elapsed.Round(time.Millisecond))
	sb.WriteString("\n")
}

// writeTotals writes the crawl counters.
func (w *SimpleWriter) writeTotals(sb *strings.Builder, summary *model.CrawlSummary) {
	writeSection(sb, "TOTALS")
	fmt.Fprintf(sb, "  Pages expanded: %d\n", summary.PagesExpanded)
	fmt.Fprintf(sb, "  URIs resolved:  %d\n", summary.URIsResolved)
	fmt.Fprintf(sb, "  Files saved:    %d (%s)\n", len(summary.Downloads), humanize.Bytes(uint64(max(summary.TotalBytes(), 0))))
	sb.WriteString("\n")
}

// writeExtensions writes the per-extension breakdown.
func (w *SimpleWriter) writeExtensions(sb *strings.Builder, summary *model.CrawlSummary) {
	stats := summary.ExtensionStats()
	if len(stats) == 0 {
		return
	}

	writeSection(sb, "BY FILE TYPE")
	for _, s := range stats {
		fmt.Fprintf(sb, "  %-12s %5d file(s)  %10s\n", s.Extension, s.Files, humanize.Bytes(uint64(max(s.Bytes, 0))))
	}
	sb.WriteString("\n")
}

// writeDownloads lists every saved file.
func (w *SimpleWriter) writeDownloads(sb *strings.Builder, summary *model.CrawlSummary) {
	writeSection(sb, "DOWNLOADS")
	if len(summary.Downloads) == 0 {
		sb.WriteString("  No files downloaded\n\n")
		return
	}
	for _, d := range summary.Downloads {
		fmt.Fprintf(sb, "  [+] %s\n", d.URI)
		fmt.Fprintf(sb, "      -> %s (%s)\n", d.Path, humanize.Bytes(uint64(max(d.Bytes, 0))))
	}
	sb.WriteString("\n")
}

// writeSection writes a titled separator.
func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}
