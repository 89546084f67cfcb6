// Package cache provides the compute-once metadata store of the crawl engine.
//
// Every URI met during a crawl is fetched and classified at most once per
// run. The MetadataCache is the single source of truth for that decision:
// callers ask it to resolve a URI, and it either returns the stored
// disposition or runs the supplied computation exactly once, however many
// goroutines ask for the same URI at the same time.
//
// Design decision: We stripe the map into shards selected by an xxhash of
// the URI rather than guarding a single map with one lock because:
//  1. Lookups from many crawl goroutines would otherwise serialize
//  2. Operations on different keys are independent
//  3. The computation itself runs outside any shard lock
//
// In-flight deduplication is delegated to golang.org/x/sync/singleflight.
package cache
