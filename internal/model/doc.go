// Package model defines the core data structures used throughout Sponge.
//
// This package contains the following main types:
//   - CrawlURI: A normalized absolute URI, the unit of traversal and caching
//   - URIMetadata: The resolved disposition of a URI (download, expand, ignore)
//   - Response: What the transport returns for a fetched URI
//   - CrawlSummary: The result of a finished crawl run
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The crawler, cache, transport and report packages all need
// these types, so centralizing them prevents import cycles.
package model
