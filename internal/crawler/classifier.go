package crawler

import (
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/nao1215/sponge/internal/model"
	"golang.org/x/text/unicode/norm"
)

// indexFileName names files whose URI path ends in a directory.
const indexFileName = "index"

// htmlMediaTypes are the media types of pages that may be expanded.
var htmlMediaTypes = map[string]struct{}{
	"text/html":             {},
	"application/xhtml+xml": {},
}

// Classifier decides what a fetched URI is.
//
// Design decision: We keep the wanted extensions and MIME types in sets
// normalized at construction because:
//  1. Classification runs once per URI and must be cheap
//  2. Matching is case-insensitive on both criteria
//  3. The classifier is immutable and safe for concurrent use
type Classifier struct {
	outputDir  string
	extensions map[string]struct{}
	mimeTypes  map[string]struct{}
}

// NewClassifier creates a Classifier saving files below outputDir.
// Extensions may be given with or without a leading dot.
func NewClassifier(outputDir string, extensions, mimeTypes []string) *Classifier {
	c := &Classifier{
		outputDir:  outputDir,
		extensions: make(map[string]struct{}, len(extensions)),
		mimeTypes:  make(map[string]struct{}, len(mimeTypes)),
	}
	for _, ext := range extensions {
		if ext = normalizeExtension(ext); ext != "" {
			c.extensions[ext] = struct{}{}
		}
	}
	for _, mt := range mimeTypes {
		if mt = mediaType(mt); mt != "" {
			c.mimeTypes[mt] = struct{}{}
		}
	}
	return c
}

// Classify maps uri and the content type it was served with to metadata.
//
// Wanted files win over pages: an HTML document whose extension or media type
// is wanted is downloaded, not expanded. Expand metadata is returned without
// children; the caller fills them in after link extraction.
func (c *Classifier) Classify(uri model.CrawlURI, contentType string) model.URIMetadata {
	mt := mediaType(contentType)
	if c.wantsExtension(uri) || c.wantsMediaType(mt) {
		return model.DownloadMetadata(c.BuildPath(uri))
	}
	if _, ok := htmlMediaTypes[mt]; ok {
		return model.ExpandMetadata(nil)
	}
	return model.IgnoreMetadata()
}

// BuildPath returns the destination of uri: outputDir/host/dir/name.
// The query is not part of the path. A URI path that names a directory is
// stored as "index" inside it. The cleaned path never leaves outputDir/host.
// Names are stored in Unicode NFC so composed and decomposed spellings of
// one name land on the same file.
func (c *Classifier) BuildPath(uri model.CrawlURI) string {
	raw := norm.NFC.String(uri.Path())
	p := path.Clean("/" + raw)
	if raw == "" || strings.HasSuffix(raw, "/") {
		p = path.Join(p, indexFileName)
	}
	dir, name := path.Split(p)
	return filepath.Join(c.outputDir, uri.Host(), filepath.FromSlash(dir), name)
}

// wantsExtension reports whether the last path segment of uri carries a
// wanted extension.
func (c *Classifier) wantsExtension(uri model.CrawlURI) bool {
	if len(c.extensions) == 0 {
		return false
	}
	ext := normalizeExtension(path.Ext(uri.Path()))
	if ext == "" {
		return false
	}
	_, ok := c.extensions[ext]
	return ok
}

// wantsMediaType reports whether mt is a wanted media type.
func (c *Classifier) wantsMediaType(mt string) bool {
	if mt == "" {
		return false
	}
	_, ok := c.mimeTypes[mt]
	return ok
}

// normalizeExtension lowercases ext and strips a leading dot.
func normalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// mediaType extracts the lowercased media type from a Content-Type value,
// dropping parameters such as charset. Malformed values fall back to the
// text before the first ';'.
func mediaType(contentType string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return strings.ToLower(mt)
	}
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}
