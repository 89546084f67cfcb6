package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/nao1215/sponge/internal/model"
)

// Default configuration values.
const (
	// DefaultDepth expands the root page only: files it links to are
	// downloaded, pages it links to are classified but not expanded.
	DefaultDepth = 1

	// DefaultConcurrentRequests is one fetch at a time, the politest setting.
	DefaultConcurrentRequests = 1

	// DefaultConcurrentDownloads is one transfer at a time.
	DefaultConcurrentDownloads = 1

	// DefaultTimeout bounds one request, including reading the body.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies Sponge in HTTP requests.
	// Using a descriptive User-Agent is good practice and allows operators
	// to identify crawler traffic in their logs.
	DefaultUserAgent = "Sponge/1.0 (+https://github.com/nao1215/sponge)"

	// DefaultMaxBodySize limits the bytes parsed from one HTML page.
	// 10MB is sufficient for most HTML pages while preventing memory exhaustion
	// from unexpectedly large responses. Downloads are not limited.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// AppName is the application name used for XDG directory paths.
	AppName = "sponge"
)

// mimeTypePattern matches "type/subtype" without parameters.
var mimeTypePattern = regexp.MustCompile(`^[-\w.+]+/[-\w.+]+$`)

// Config holds all configuration options for Sponge.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// URI is the root of the crawl. Its host is the site boundary.
	URI string

	// OutputDirectory receives downloads below one directory per host.
	OutputDirectory string

	// MimeTypes are the media types to download (e.g., "application/pdf").
	MimeTypes []string

	// FileExtensions are the extensions to download, without the dot.
	FileExtensions []string

	// Depth is the number of page levels expanded from the root.
	// 1 expands the root page only.
	Depth int

	// IncludeSubdomains widens the site boundary to subdomains of the root.
	IncludeSubdomains bool

	// ConcurrentRequests bounds how many URIs are fetched at once.
	ConcurrentRequests int

	// ConcurrentDownloads bounds how many files are transferred at once.
	ConcurrentDownloads int

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// Cookie is a raw cookie string sent with every request.
	Cookie string

	// Headers are extra headers sent with every request.
	Headers map[string]string

	// Proxy routes requests through an http, https or socks5 proxy URL.
	Proxy string

	// MaxBodySize is the maximum number of bytes parsed per HTML page.
	// Set to 0 to use the default (10MB).
	MaxBodySize int64

	// Verbose enables debug logging.
	Verbose bool

	// Quiet limits logging to warnings and errors.
	Quiet bool

	// LogJSON switches log output to JSON lines.
	LogJSON bool

	// JSONReport enables JSON report output instead of the simple table.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of the simple table.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the default locations are searched (see FindConfigFile).
	ConfigFilePath string

	// SiteConfigs holds the configuration file contents, if any.
	SiteConfigs *File
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., depth, budgets).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Depth:               DefaultDepth,
		ConcurrentRequests:  DefaultConcurrentRequests,
		ConcurrentDownloads: DefaultConcurrentDownloads,
		Timeout:             DefaultTimeout,
		UserAgent:           DefaultUserAgent,
		MaxBodySize:         DefaultMaxBodySize,
		Headers:             make(map[string]string),
	}
}

// XDGConfigDir returns the XDG config directory for Sponge.
// On Linux: ~/.config/sponge
// On macOS: ~/Library/Application Support/sponge
// On Windows: %APPDATA%\sponge
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any crawling begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.URI == "" {
		return ErrNoURI
	}
	if _, err := model.ParseURI(c.URI); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidURI, c.URI)
	}

	if c.OutputDirectory == "" {
		return ErrNoOutputDir
	}

	if len(c.MimeTypes) == 0 && len(c.FileExtensions) == 0 {
		return ErrNoCriteria
	}
	for _, mt := range c.MimeTypes {
		if !mimeTypePattern.MatchString(mt) {
			return fmt.Errorf("%w: %q", ErrInvalidMimeType, mt)
		}
	}
	for _, ext := range c.FileExtensions {
		if !validExtension(ext) {
			return fmt.Errorf("%w: %q", ErrInvalidFileExtension, ext)
		}
	}

	if c.Depth < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidDepth, c.Depth)
	}
	if c.ConcurrentRequests < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidConcurrentRequests, c.ConcurrentRequests)
	}
	if c.ConcurrentDownloads < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidConcurrentDownloads, c.ConcurrentDownloads)
	}

	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.Proxy != "" && !validProxy(c.Proxy) {
		return fmt.Errorf("%w: %q", ErrInvalidProxy, c.Proxy)
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.Verbose && c.Quiet {
		return ErrConflictingVerbosity
	}
	return nil
}

// NormalizedExtensions returns the file extensions lowercased and without
// a leading dot.
func (c *Config) NormalizedExtensions() []string {
	exts := make([]string, 0, len(c.FileExtensions))
	for _, ext := range c.FileExtensions {
		exts = append(exts, strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), ".")))
	}
	return exts
}

// NormalizedMimeTypes returns the MIME types lowercased.
func (c *Config) NormalizedMimeTypes() []string {
	types := make([]string, 0, len(c.MimeTypes))
	for _, mt := range c.MimeTypes {
		types = append(types, strings.ToLower(strings.TrimSpace(mt)))
	}
	return types
}

// validExtension reports whether ext names a file extension.
func validExtension(ext string) bool {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	return ext != "" && !strings.ContainsAny(ext, `/\ `)
}

// validProxy reports whether raw is a supported proxy URL.
func validProxy(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	switch u.Scheme {
	case "http", "https", "socks5", "socks5h":
		return true
	default:
		return false
	}
}

// ParseHeaders converts "Name: value" strings into a header map.
// Later entries overwrite earlier ones with the same name.
func ParseHeaders(raw []string) (map[string]string, error) {
	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		name, value, ok := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" || strings.ContainsAny(name, " \t") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidHeader, h)
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers, nil
}
