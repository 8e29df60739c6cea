package server

import "context"

// Server defines the lifecycle contract for transport servers managed by
// this package.
type Server interface {
	// RunServer starts serving requests and blocks until ctx is cancelled
	// and shutdown completes, or until serving fails.
	RunServer(ctx context.Context) error

	// Shutdown gracefully stops the server. In-flight requests are given
	// until ctx expires.
	Shutdown(ctx context.Context) error
}
