package model

import "io"

// Response is what the transport returns for a fetched URI.
//
// Design decision: Body is left unread because:
//  1. Only HTML pages need their body (for link extraction)
//  2. Downloadable files are transferred separately by the downloader
//  3. Reading large files here would double the traffic
//
// The receiver must close Body.
type Response struct {
	// URL is the final URL after redirects. Relative links on the page are
	// resolved against it.
	URL string

	// StatusCode is the HTTP status code.
	StatusCode int

	// ContentType is the raw Content-Type header value.
	ContentType string

	// Body is the unread response body.
	Body io.ReadCloser
}
