package model

import (
	"path"
	"sort"
	"strings"
	"time"
)

// noExtension labels downloads whose file name has no extension.
const noExtension = "(none)"

// DownloadRecord describes one completed transfer.
type DownloadRecord struct {
	// URI is the downloaded resource.
	URI CrawlURI `json:"uri"`

	// Path is the file the resource was written to.
	Path string `json:"path"`

	// Bytes is the number of bytes written.
	Bytes int64 `json:"bytes"`
}

// CrawlSummary describes a finished crawl run.
// Failed URIs are reported one by one while crawling and are deliberately
// not part of the summary.
type CrawlSummary struct {
	// Root is the URI the crawl started from.
	Root CrawlURI `json:"root"`

	// OutputDir is the directory downloads were written to.
	OutputDir string `json:"outputDir"`

	// MaxDepth is the configured depth bound.
	MaxDepth int `json:"maxDepth"`

	// StartedAt is when the crawl started.
	StartedAt time.Time `json:"startedAt"`

	// Elapsed is the wall-clock duration of the crawl.
	Elapsed time.Duration `json:"elapsed"`

	// PagesExpanded is the number of distinct pages whose links were extracted.
	PagesExpanded int `json:"pagesExpanded"`

	// URIsResolved is the number of distinct URIs with a cached disposition.
	URIsResolved int `json:"urisResolved"`

	// Downloads lists completed transfers sorted by path.
	Downloads []DownloadRecord `json:"downloads"`
}

// TotalBytes returns the sum of all downloaded bytes.
func (s *CrawlSummary) TotalBytes() int64 {
	var total int64
	for _, d := range s.Downloads {
		total += d.Bytes
	}
	return total
}

// SortDownloads orders downloads by path for reproducible output.
func (s *CrawlSummary) SortDownloads() {
	sort.Slice(s.Downloads, func(i, j int) bool {
		return s.Downloads[i].Path < s.Downloads[j].Path
	})
}

// ExtensionStat aggregates downloads sharing a file extension.
type ExtensionStat struct {
	Extension string `json:"extension"`
	Files     int    `json:"files"`
	Bytes     int64  `json:"bytes"`
}

// ExtensionStats groups downloads by lowercased file extension, largest
// total size first.
func (s *CrawlSummary) ExtensionStats() []ExtensionStat {
	index := make(map[string]int)
	var stats []ExtensionStat
	for _, d := range s.Downloads {
		ext := strings.ToLower(strings.TrimPrefix(path.Ext(d.URI.Path()), "."))
		if ext == "" {
			ext = noExtension
		}
		i, ok := index[ext]
		if !ok {
			i = len(stats)
			index[ext] = i
			stats = append(stats, ExtensionStat{Extension: ext})
		}
		stats[i].Files++
		stats[i].Bytes += d.Bytes
	}
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Bytes != stats[j].Bytes {
			return stats[i].Bytes > stats[j].Bytes
		}
		return stats[i].Extension < stats[j].Extension
	})
	return stats
}
