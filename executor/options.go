// File: executor/options.go
// Package executor defines functional options for the Executor.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package executor

import "github.com/rs/zerolog"

// Option customizes executor initialization.
type Option func(*Executor)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Executor) { e.log = log }
}
