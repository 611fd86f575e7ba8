//go:build !linux
// +build !linux

// File: poll/poll_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.

package poll

import (
	"github.com/momentics/hioload-async/api"
	"github.com/rs/zerolog"
)

// Poll is unavailable on this platform.
type Poll struct {
	log zerolog.Logger
}

// Registry is unavailable on this platform.
type Registry struct{}

// New returns api.ErrNotSupported on platforms without an event queue.
func New(opts ...Option) (*Poll, error) {
	return nil, api.ErrNotSupported
}

// Registry returns nil on unsupported platforms.
func (p *Poll) Registry() *Registry { return nil }

// Wait returns api.ErrNotSupported.
func (p *Poll) Wait(events []Event, timeoutMs int) (int, error) {
	return 0, api.ErrNotSupported
}

// Wake returns api.ErrNotSupported.
func (p *Poll) Wake() error { return api.ErrNotSupported }

// DrainWake is a no-op.
func (p *Poll) DrainWake() {}

// Close is a no-op.
func (p *Poll) Close() {}

// Register returns api.ErrNotSupported.
func (r *Registry) Register(src api.Source, tok api.Token, interest api.Interest) error {
	return api.ErrNotSupported
}

// Deregister returns api.ErrNotSupported.
func (r *Registry) Deregister(src api.Source) error {
	return api.ErrNotSupported
}
