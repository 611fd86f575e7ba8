//go:build !linux
// +build !linux

// File: client/stream_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.

package client

import (
	"github.com/momentics/hioload-async/api"
	"github.com/rs/zerolog"
)

type stream struct {
	fd int
}

func (s *stream) FD() int { return s.fd }

func dial(addr string) (*stream, error) {
	return nil, api.ErrNotSupported
}

func (s *stream) read(p []byte) (int, error) {
	return 0, api.ErrNotSupported
}

func (s *stream) writeAll(p []byte) error {
	return api.ErrNotSupported
}

func (s *stream) close(log zerolog.Logger) {}
