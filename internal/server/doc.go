// Package server runs the application's HTTP transport.
//
// It owns the listener lifecycle: startup, serving until the supplied
// context is cancelled, and graceful shutdown that lets in-flight requests
// finish within a bounded grace period.
package server
