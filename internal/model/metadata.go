package model

// Disposition is the classifier's verdict for a URI.
type Disposition int

const (
	// DispositionIgnore means the URI is neither a page nor a wanted file.
	// It also marks URIs that were already downloaded or failed processing.
	DispositionIgnore Disposition = iota

	// DispositionDownload means the resource should be saved to disk.
	DispositionDownload

	// DispositionExpand means the resource is an HTML page whose links are
	// candidates for the next crawl level.
	DispositionExpand
)

// String returns the disposition name used in logs and reports.
func (d Disposition) String() string {
	switch d {
	case DispositionIgnore:
		return "ignore"
	case DispositionDownload:
		return "download"
	case DispositionExpand:
		return "expand"
	default:
		return "unknown"
	}
}

// URIMetadata is the resolved disposition of a CrawlURI.
// Exactly one of the variants is meaningful, selected by Disposition:
//   - DispositionDownload: Path is the destination file
//   - DispositionExpand: Children are the candidate URIs of the page
//   - DispositionIgnore: no payload
//
// Values are computed once per URI and never mutated afterwards; the
// Children slice must be treated as read-only.
type URIMetadata struct {
	Disposition Disposition
	Path        string
	Children    []CrawlURI
}

// DownloadMetadata returns metadata for a resource saved to path.
func DownloadMetadata(path string) URIMetadata {
	return URIMetadata{Disposition: DispositionDownload, Path: path}
}

// ExpandMetadata returns metadata for a page with the given children.
func ExpandMetadata(children []CrawlURI) URIMetadata {
	return URIMetadata{Disposition: DispositionExpand, Children: children}
}

// IgnoreMetadata returns the ignore sentinel.
func IgnoreMetadata() URIMetadata {
	return URIMetadata{Disposition: DispositionIgnore}
}

// IsDownload reports whether the metadata designates a download target.
func (m URIMetadata) IsDownload() bool {
	return m.Disposition == DispositionDownload
}

// IsExpand reports whether the metadata designates an expandable page.
func (m URIMetadata) IsExpand() bool {
	return m.Disposition == DispositionExpand
}

// IsIgnore reports whether the metadata is the ignore sentinel.
func (m URIMetadata) IsIgnore() bool {
	return m.Disposition == DispositionIgnore
}
