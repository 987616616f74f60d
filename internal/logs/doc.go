// Package logs reads the mediadock daemon log file for `mediadock logs`.
//
// Tail returns the last N lines (or everything after a byte offset) with
// bounded memory, optionally filtered by a substring. Follow keeps polling
// from the returned offset until its context is cancelled.
package logs
