// Package storage writes downloaded resources to disk.
//
// Design decision: We write every file to a temporary sibling and rename it
// into place because:
//  1. An interrupted transfer never leaves a truncated file at the final path
//  2. Re-running a crawl overwrites earlier results atomically
//  3. Readers of the output directory only ever see complete files
package storage
