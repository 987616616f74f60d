// Package daemon coordinates the long-running mediadock process.
//
// It wires configuration, the SQLite store, the image service, the alert
// relay and the HTTP surfaces into a single lifecycle with flock-based
// locking so two daemons never share one database. Surfaces with an empty
// bind address are not started.
//
// Keep orchestration logic here: request handling lives in the server
// package and domain behaviour in images, relay and web.
package daemon
