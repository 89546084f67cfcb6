package cache

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/nao1215/sponge/internal/model"
	"golang.org/x/sync/singleflight"
)

// DefaultShardCount is the number of lock stripes used by New.
const DefaultShardCount = 32

// ComputeFunc produces the metadata of a URI that is not cached yet.
type ComputeFunc func() (model.URIMetadata, error)

// shard is one lock stripe of the cache.
type shard struct {
	mu      sync.RWMutex
	entries map[model.CrawlURI]model.URIMetadata
}

// MetadataCache maps URIs to their resolved metadata.
// Entries are created lazily and live for the lifetime of the cache.
type MetadataCache struct {
	shards []*shard

	// flights deduplicates concurrent computations of the same URI.
	flights singleflight.Group
}

// Option configures a MetadataCache.
type Option func(*MetadataCache)

// WithShardCount sets the number of lock stripes. Values below 1 are ignored.
func WithShardCount(n int) Option {
	return func(c *MetadataCache) {
		if n > 0 {
			c.shards = newShards(n)
		}
	}
}

// New creates an empty MetadataCache.
func New(opts ...Option) *MetadataCache {
	c := &MetadataCache{
		shards: newShards(DefaultShardCount),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// newShards allocates n empty shards.
func newShards(n int) []*shard {
	shards := make([]*shard, n)
	for i := range shards {
		shards[i] = &shard{entries: make(map[model.CrawlURI]model.URIMetadata)}
	}
	return shards
}

// shardFor returns the stripe owning uri.
func (c *MetadataCache) shardFor(uri model.CrawlURI) *shard {
	return c.shards[xxhash.Sum64String(string(uri))%uint64(len(c.shards))]
}

// Get returns the cached metadata of uri, if any.
func (c *MetadataCache) Get(uri model.CrawlURI) (model.URIMetadata, bool) {
	s := c.shardFor(uri)
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.entries[uri]
	return m, ok
}

// Resolve returns the metadata of uri, computing it on first use.
//
// If uri already has an entry, compute is not called. Otherwise exactly one
// concurrent caller runs compute and installs its result; the other callers
// for the same uri wait and receive that result.
//
// A failed computation stores the ignore sentinel before its error is
// returned to the callers of that flight, so a failed URI is never computed
// again.
func (c *MetadataCache) Resolve(uri model.CrawlURI, compute ComputeFunc) (model.URIMetadata, error) {
	if m, ok := c.Get(uri); ok {
		return m, nil
	}

	v, err, _ := c.flights.Do(string(uri), func() (any, error) {
		// A flight for uri may have completed between the lookup above and
		// joining this one; its result is then already stored.
		if m, ok := c.Get(uri); ok {
			return m, nil
		}

		m, err := compute()

		s := c.shardFor(uri)
		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			s.entries[uri] = model.IgnoreMetadata()
			return model.URIMetadata{}, err
		}
		if existing, ok := s.entries[uri]; ok {
			// MarkIgnored raced with the computation and wins.
			return existing, nil
		}
		s.entries[uri] = m
		return m, nil
	})
	if err != nil {
		return model.URIMetadata{}, err
	}
	return v.(model.URIMetadata), nil
}

// MarkIgnored unconditionally overwrites the entry of uri with the ignore
// sentinel. It is used for URIs whose processing failed.
func (c *MetadataCache) MarkIgnored(uri model.CrawlURI) {
	s := c.shardFor(uri)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[uri] = model.IgnoreMetadata()
}

// Claim atomically turns a download entry into the ignore sentinel and
// returns its destination path. Only the first caller for a given download
// entry gets ok == true; every later caller, and callers for URIs that are
// not download targets, get ok == false.
//
// Claiming in the same critical section that reads the entry guarantees a
// single transfer per URI even when several crawl branches reach the same
// file at once.
func (c *MetadataCache) Claim(uri model.CrawlURI) (string, bool) {
	s := c.shardFor(uri)
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.entries[uri]
	if !ok || !m.IsDownload() {
		return "", false
	}
	s.entries[uri] = model.IgnoreMetadata()
	return m.Path, true
}

// Len returns the number of cached URIs.
func (c *MetadataCache) Len() int {
	n := 0
	for _, s := range c.shards {
		s.mu.RLock()
		n += len(s.entries)
		s.mu.RUnlock()
	}
	return n
}
