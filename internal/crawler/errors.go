package crawler

import (
	"errors"
	"fmt"
)

// Sentinel errors for the crawl engine.
var (
	// ErrNoCriteria is returned when neither file extensions nor MIME types
	// were configured; such a crawl could never download anything.
	ErrNoCriteria = errors.New("at least one file extension or MIME type is required")

	// ErrInvalidDepth is returned when the maximum depth is below 1.
	ErrInvalidDepth = errors.New("max depth must be at least 1")

	// ErrInvalidConcurrency is returned when a worker budget is below 1.
	ErrInvalidConcurrency = errors.New("concurrency must be at least 1")

	// ErrNoOutputDir is returned when no output directory was configured.
	ErrNoOutputDir = errors.New("output directory is required")

	// ErrNilCollaborator is returned when the fetcher or downloader is nil.
	ErrNilCollaborator = errors.New("fetcher and downloader are required")

	// ErrPanic wraps a panic recovered while processing a URI.
	ErrPanic = errors.New("panic while processing uri")
)

// PanicError carries the value recovered from a panic while processing a URI.
// It matches ErrPanic with errors.Is.
type PanicError struct {
	Value any
}

// Error implements error.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Is reports whether target is ErrPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrPanic
}

// RootCause returns the innermost error of a wrap chain.
// Joined errors are followed through their first element.
func RootCause(err error) error {
	for err != nil {
		switch x := err.(type) { //nolint:errorlint // walks the chain one level at a time
		case interface{ Unwrap() error }:
			next := x.Unwrap()
			if next == nil {
				return err
			}
			err = next
		case interface{ Unwrap() []error }:
			errs := x.Unwrap()
			if len(errs) == 0 {
				return err
			}
			err = errs[0]
		default:
			return err
		}
	}
	return nil
}
