// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error values used across the library.

package api

import "fmt"

// Common errors used across the library.
var (
	// ErrReactorRunning is returned by Start when the reactor's event loop
	// has already been started.
	ErrReactorRunning = fmt.Errorf("reactor already running")

	// ErrReactorNotRunning is returned, or panicked on the call paths that
	// have no error result, when the reactor has not been started or has
	// already been closed.
	ErrReactorNotRunning = fmt.Errorf("reactor not running")

	// ErrFutureResolved is the panic value of a Future polled again after
	// it returned Ready.
	ErrFutureResolved = fmt.Errorf("future polled after resolution")

	// ErrNotSupported is returned on platforms without an event queue
	// implementation.
	ErrNotSupported = fmt.Errorf("operation not supported")
)
