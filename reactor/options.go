// File: reactor/options.go
// Package reactor defines functional options for the Reactor.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package reactor

import "github.com/rs/zerolog"

// Option customizes reactor initialization.
type Option func(*Reactor)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Reactor) { r.log = log }
}

// WithEventBufferSize overrides the per-Wait event batch capacity.
func WithEventBufferSize(n int) Option {
	return func(r *Reactor) {
		if n > 0 {
			r.bufSize = n
		}
	}
}
