package transport

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/nao1215/sponge/internal/model"
	"github.com/nao1215/sponge/internal/storage"
	"golang.org/x/net/proxy"
)

// Defaults for a new Client.
const (
	// DefaultTimeout bounds one request, including reading the body.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies the crawler to servers.
	DefaultUserAgent = "sponge/1.0 (+https://github.com/nao1215/sponge)"

	// maxRedirects limits redirect chains to prevent loops.
	maxRedirects = 10
)

// Client fetches and downloads URIs over HTTP.
//
// Design decision: We build one http.Client per crawl and share it between
// fetches and downloads because:
//  1. Connection pooling works across both kinds of request
//  2. Proxy, timeout and header settings stay consistent
//  3. Tests can point it at an httptest server without any proxy
type Client struct {
	httpClient *http.Client

	userAgent string
	cookie    string
	headers   map[string]string
	timeout   time.Duration
	proxyURL  string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header. An empty value keeps the default.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithCookie sets a raw cookie string (e.g., "session_id=abc123") sent with
// every request.
func WithCookie(cookie string) Option {
	return func(c *Client) {
		c.cookie = cookie
	}
}

// WithHeaders sets extra headers sent with every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		c.headers = headers
	}
}

// WithProxy routes every request through proxyURL.
// Supported schemes are http, https, socks5 and socks5h.
func WithProxy(proxyURL string) Option {
	return func(c *Client) {
		c.proxyURL = proxyURL
	}
}

// NewClient creates a Client.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		userAgent: DefaultUserAgent,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	base, err := c.newTransport()
	if err != nil {
		return nil, err
	}

	c.httpClient = &http.Client{
		Transport: &headerInjectingTransport{
			base:      base,
			userAgent: c.userAgent,
			cookie:    c.cookie,
			headers:   c.headers,
		},
		Timeout: c.timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("%w: stopped after %d", ErrTooManyRedirects, len(via))
			}
			return nil
		},
	}
	return c, nil
}

// newTransport creates the base round tripper, routed through the proxy
// when one is configured.
func (c *Client) newTransport() (*http.Transport, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert // DefaultTransport is always *http.Transport
	transport.Proxy = nil

	if c.proxyURL == "" {
		return transport, nil
	}

	u, err := url.Parse(c.proxyURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProxy, c.proxyURL)
	}

	switch u.Scheme {
	case "http", "https":
		transport.Proxy = http.ProxyURL(u)
	case "socks5", "socks5h":
		dialer, err := proxy.FromURL(u, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.DialContext = contextDialer(dialer)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProxyScheme, u.Scheme)
	}
	return transport, nil
}

// contextDialer adapts a proxy.Dialer to http.Transport.DialContext.
// Dialers without context support are raced against ctx in a goroutine; the
// dial attempt may then continue briefly after cancellation.
func contextDialer(d proxy.Dialer) func(ctx context.Context, network, address string) (net.Conn, error) {
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext
	}
	return func(ctx context.Context, network, address string) (net.Conn, error) {
		type dialResult struct {
			conn net.Conn
			err  error
		}
		resultCh := make(chan dialResult, 1)
		go func() {
			conn, err := d.Dial(network, address)
			resultCh <- dialResult{conn, err}
		}()

		select {
		case result := <-resultCh:
			return result.conn, result.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Fetch requests uri and returns the response for classification.
// The caller must close the returned body. Non-2xx responses are errors.
func (c *Client) Fetch(ctx context.Context, uri model.CrawlURI) (*model.Response, error) {
	resp, err := c.get(ctx, uri)
	if err != nil {
		return nil, err
	}
	return &model.Response{
		URL:         resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        resp.Body,
	}, nil
}

// Download requests uri and writes the body to path.
// It returns the number of bytes written.
func (c *Client) Download(ctx context.Context, uri model.CrawlURI, path string) (int64, error) {
	resp, err := c.get(ctx, uri)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	return storage.WriteFile(path, resp.Body)
}

// get performs a GET request and rejects non-2xx responses.
func (c *Client) get(ctx context.Context, uri model.CrawlURI) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", uri, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", uri, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Drain a little so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096) //nolint:errcheck // best effort
		resp.Body.Close()
		return nil, fmt.Errorf("%s: %w", uri, &StatusError{Code: resp.StatusCode})
	}
	return resp, nil
}

// headerInjectingTransport wraps an http.RoundTripper to inject the
// User-Agent, cookie and custom headers into every request.
//
// Design decision: We inject in a RoundTripper rather than on each request
// because redirects then carry the same values as the original request.
type headerInjectingTransport struct {
	base      http.RoundTripper
	userAgent string
	cookie    string
	headers   map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	if t.userAgent != "" {
		clone.Header.Set("User-Agent", t.userAgent)
	}
	if t.cookie != "" {
		if existing := clone.Header.Get("Cookie"); existing != "" {
			clone.Header.Set("Cookie", existing+"; "+t.cookie)
		} else {
			clone.Header.Set("Cookie", t.cookie)
		}
	}
	for key, value := range t.headers {
		clone.Header.Set(key, value)
	}

	return t.base.RoundTrip(clone)
}
