package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Offending values are added by wrapping.
var (
	// ErrNoURI is returned when no root URI is specified.
	ErrNoURI = errors.New("no URI specified: use --uri")

	// ErrInvalidURI is returned when the root URI is not an absolute http(s) URI.
	ErrInvalidURI = errors.New("invalid URI: must be an absolute http or https URI")

	// ErrNoOutputDir is returned when no output directory is specified.
	ErrNoOutputDir = errors.New("no output directory specified: use --output")

	// ErrNoCriteria is returned when neither MIME types nor file extensions
	// are given. Such a crawl could never download anything.
	ErrNoCriteria = errors.New("no download criteria: use --mime-type or --file-extension")

	// ErrInvalidMimeType is returned when a MIME type is not of the form type/subtype.
	ErrInvalidMimeType = errors.New("invalid MIME type: expected type/subtype")

	// ErrInvalidFileExtension is returned when a file extension is empty or
	// contains a path separator.
	ErrInvalidFileExtension = errors.New("invalid file extension")

	// ErrInvalidDepth is returned when the depth is below 1.
	ErrInvalidDepth = errors.New("invalid depth: must be at least 1")

	// ErrInvalidConcurrentRequests is returned when the request budget is below 1.
	ErrInvalidConcurrentRequests = errors.New("invalid concurrent requests: must be at least 1")

	// ErrInvalidConcurrentDownloads is returned when the download budget is below 1.
	ErrInvalidConcurrentDownloads = errors.New("invalid concurrent downloads: must be at least 1")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate connection failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// A negative body size is invalid; use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidHeader is returned when a header is not of the form "Name: value".
	ErrInvalidHeader = errors.New(`invalid header: expected "Name: value"`)

	// ErrInvalidProxy is returned when the proxy is not an http, https or
	// socks5 URL with a host.
	ErrInvalidProxy = errors.New("invalid proxy: expected http://, https:// or socks5:// URL")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrConflictingVerbosity is returned when both --verbose and --quiet are set.
	ErrConflictingVerbosity = errors.New("conflicting verbosity: --verbose and --quiet cannot be used together")
)
