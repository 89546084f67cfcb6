// Package transport provides the HTTP client used by the crawler.
//
// The Client implements both collaborator contracts of the crawl engine:
// Fetch returns the status, content type and unread body of a URI, and
// Download streams a URI into a file through the storage package.
//
// Requests may go through an HTTP(S) or SOCKS5 proxy, and every request
// carries the configured User-Agent, cookie and extra headers.
package transport
