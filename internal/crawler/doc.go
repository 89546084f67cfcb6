// Package crawler implements the depth-bounded crawl engine.
//
// # Architecture
//
// The package is designed around the Spider type, which walks the link graph
// of one site starting from a root URI. Every discovered URI is resolved to a
// model.URIMetadata exactly once per run through the metadata cache:
//
//   - Download: the resource matches the wanted file extensions or MIME
//     types and is saved under the output directory
//   - Expand: the resource is an HTML page whose same-site links become the
//     next crawl level
//   - Ignore: anything else, and every URI that failed or was already saved
//
// Design decision: We recurse with one goroutine per child instead of a
// shared work queue because:
//  1. The ancestor path of a branch lives on the goroutine's own stack
//  2. errgroup.Group joins a whole subtree without extra bookkeeping
//  3. Waiting parents hold no worker slot, so deep trees cannot deadlock
//
// # Components
//
//   - Spider: recursive scheduler bounded by depth and ancestor path
//   - Classifier: maps a URI and its content type to a disposition
//   - LinkExtractor: parses HTML and returns same-site child URIs
//   - download: claims a download entry and transfers it exactly once
//
// # Concurrency
//
// Two independent weighted semaphores bound the work in flight:
//   - requests: held while fetching, classifying and extracting one URI
//   - downloads: held while transferring one file
//
// # Failure handling
//
// Failures never abort the crawl. Errors and panics raised while processing
// one URI are caught where that URI is visited, the URI is marked as ignored
// in the cache and a warning with the root cause is logged.
//
// # Usage
//
//	spider, err := crawler.NewSpider(root, client, client,
//		crawler.WithOutputDir("out"),
//		crawler.WithMaxDepth(2),
//		crawler.WithFileExtensions([]string{"pdf"}),
//	)
//	summary, err := spider.Crawl(ctx)
package crawler
