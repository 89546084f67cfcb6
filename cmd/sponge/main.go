// Package main provides the entry point for the Sponge CLI.
//
// Sponge crawls one website to a bounded link depth and downloads every
// resource matching the requested file extensions or MIME types.
//
// Usage:
//
//	sponge crawl -u https://example.com -o out -e pdf
//	sponge crawl -u https://example.com -o out -t text/csv -d 3
//
// See --help for all available options.
package main

// main is the entry point for Sponge.
func main() {
	Execute()
}
