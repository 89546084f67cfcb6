// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// Crawls are often run with session cookies, bearer tokens or an
// authenticated proxy. None of these should end up in a log that is shared
// when reporting a problem, so every logger built here wraps its handler in
// a SecureHandler that masks:
//   - attributes whose key names a credential (cookie, authorization, token)
//   - attributes whose key is one of the custom header names in use
//   - values that look like credentials (bearer/basic tokens, JWTs)
//   - the password part of URLs with user information
//
// # Usage
//
//	logger := log.New(os.Stderr, log.Options{
//		Level:   log.Level(verbose, quiet),
//		JSON:    jsonLogs,
//		Redact:  []string{"X-Api-Key"},
//	})
//	slog.SetDefault(logger)
package log
