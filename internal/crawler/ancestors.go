package crawler

import "github.com/nao1215/sponge/internal/model"

// ancestorPath is the chain of URIs visited on the current crawl branch,
// from the root down to the parent of the URI being visited.
//
// Design decision: We use an immutable linked list rather than a shared set
// because:
//  1. Sibling branches extend the same parent without copying
//  2. Each goroutine owns its view; no locking is needed
//  3. The path is discarded with the recursive call that created it
//
// The nil *ancestorPath is the empty path.
type ancestorPath struct {
	uri    model.CrawlURI
	parent *ancestorPath
	length int
}

// Len returns the number of URIs on the path.
func (p *ancestorPath) Len() int {
	if p == nil {
		return 0
	}
	return p.length
}

// Contains reports whether uri is on the path.
func (p *ancestorPath) Contains(uri model.CrawlURI) bool {
	for n := p; n != nil; n = n.parent {
		if n.uri == uri {
			return true
		}
	}
	return false
}

// With returns a new path extended by uri. The receiver is not modified.
func (p *ancestorPath) With(uri model.CrawlURI) *ancestorPath {
	return &ancestorPath{uri: uri, parent: p, length: p.Len() + 1}
}
