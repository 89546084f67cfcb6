package report

import (
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/sponge/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts and mermaid charts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *model.CrawlSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeFileTypes(md, summary)
	w.writeDownloads(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with crawl information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.CrawlSummary) {
	md.H1("Sponge Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Root URI", "`" + summary.Root.String() + "`"},
			{"Output", "`" + summary.OutputDir + "`"},
			{"Depth", strconv.Itoa(summary.MaxDepth)},
			{"Started", summary.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", summary.Elapsed.Round(time.Millisecond).String()},
			{"Pages Expanded", strconv.Itoa(summary.PagesExpanded)},
			{"URIs Resolved", strconv.Itoa(summary.URIsResolved)},
			{"Files Saved", strconv.Itoa(len(summary.Downloads))},
			{"Total Size", humanize.Bytes(uint64(max(summary.TotalBytes(), 0)))},
		},
	})
	md.PlainText("")

	if len(summary.Downloads) == 0 {
		md.Note("No files matched the download criteria.")
		md.PlainText("")
	}
}

// writeFileTypes writes the per-extension table and size distribution chart.
func (w *MarkdownWriter) writeFileTypes(md *markdown.Markdown, summary *model.CrawlSummary) {
	stats := summary.ExtensionStats()
	if len(stats) == 0 {
		return
	}

	md.H2("File Types")
	md.PlainText("")

	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{s.Extension, strconv.Itoa(s.Files), humanize.Bytes(uint64(max(s.Bytes, 0)))})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Extension", "Files", "Size"},
		Rows:   rows,
	})
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Downloaded Bytes by Extension"),
		piechart.WithShowData(true),
	)
	for _, s := range stats {
		if s.Bytes > 0 {
			chart.LabelAndIntValue(s.Extension, uint64(s.Bytes))
		}
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeDownloads writes one table row per saved file.
func (w *MarkdownWriter) writeDownloads(md *markdown.Markdown, summary *model.CrawlSummary) {
	if len(summary.Downloads) == 0 {
		return
	}

	md.H2("Downloads")
	md.PlainText("")

	rows := make([][]string, 0, len(summary.Downloads))
	for _, d := range summary.Downloads {
		rows = append(rows, []string{d.URI.String(), "`" + d.Path + "`", humanize.Bytes(uint64(max(d.Bytes, 0)))})
	}
	md.Table(markdown.TableSet{
		Header: []string{"URI", "Path", "Size"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [Sponge](https://github.com/nao1215/sponge)*")
}
