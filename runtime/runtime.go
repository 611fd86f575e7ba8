// File: runtime/runtime.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Runtime wires one reactor and one executor together behind explicit
// handles. Nothing here is process-global: tests and programs may build
// and tear down as many runtimes as they want, each with its own event
// loop thread.

package runtime

import (
	"github.com/momentics/hioload-async/api"
	"github.com/momentics/hioload-async/executor"
	"github.com/momentics/hioload-async/reactor"
	"github.com/rs/zerolog"
)

// Runtime owns a started reactor and the executor bound to the goroutine
// that drives BlockOn.
type Runtime struct {
	reactor  *reactor.Reactor
	executor *executor.Executor
}

type config struct {
	log     zerolog.Logger
	bufSize int
}

// Option customizes runtime initialization.
type Option func(*config)

// WithLogger sets the structured logger for every component.
func WithLogger(log zerolog.Logger) Option {
	return func(c *config) { c.log = log }
}

// WithEventBufferSize overrides the reactor's event batch capacity.
func WithEventBufferSize(n int) Option {
	return func(c *config) { c.bufSize = n }
}

// Init builds a reactor, starts its event loop and pairs it with a fresh
// executor.
func Init(opts ...Option) (*Runtime, error) {
	cfg := config{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	ropts := []reactor.Option{reactor.WithLogger(cfg.log)}
	if cfg.bufSize > 0 {
		ropts = append(ropts, reactor.WithEventBufferSize(cfg.bufSize))
	}
	r := reactor.New(ropts...)
	if err := r.Start(); err != nil {
		return nil, err
	}
	return &Runtime{
		reactor:  r,
		executor: executor.New(executor.WithLogger(cfg.log)),
	}, nil
}

// Reactor returns the event side of the runtime.
func (rt *Runtime) Reactor() *reactor.Reactor { return rt.reactor }

// Executor returns the task side of the runtime.
func (rt *Runtime) Executor() *executor.Executor { return rt.executor }

// Close stops the reactor's event loop and releases the event queue.
func (rt *Runtime) Close() error { return rt.reactor.Close() }

// BlockOn drives f to completion on the calling goroutine.
func BlockOn[T any](rt *Runtime, f api.Future[T]) T {
	return executor.BlockOn(rt.executor, f)
}

// Spawn queues f as a detached task; it runs during the next blocking
// BlockOn and its value is discarded.
func Spawn[T any](rt *Runtime, f api.Future[T]) {
	executor.Spawn(rt.executor, f)
}
