//go:build linux
// +build linux

// File: client/stream_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Raw-socket plumbing for the GET future: blocking connect, then a
// nonblocking fd the reactor can watch edge-triggered.

package client

import (
	"fmt"
	"net"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// stream is one connected TCP socket.
type stream struct {
	fd int
}

// FD satisfies api.Source.
func (s *stream) FD() int { return s.fd }

// dial resolves addr, connects a blocking IPv4 socket, then switches it to
// nonblocking mode.
func dial(addr string) (*stream, error) {
	tcp, err := net.ResolveTCPAddr("tcp4", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", addr, err)
	}
	ip4 := tcp.IP.To4()
	if ip4 == nil {
		return nil, fmt.Errorf("resolve %s: no IPv4 address", addr)
	}
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("socket: %w", err)
	}
	sa := &unix.SockaddrInet4{Port: tcp.Port}
	copy(sa.Addr[:], ip4)
	for {
		err = unix.Connect(fd, sa)
		if err != unix.EINTR {
			break
		}
	}
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("connect %s: %w", addr, err)
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("set nonblock: %w", err)
	}
	// Small request/response traffic; disable Nagle.
	if err := unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("set nodelay: %w", err)
	}
	return &stream{fd: fd}, nil
}

// read fills p from the socket. EOF is (0, nil); an empty socket reports
// errWouldBlock; signal interruptions are retried in place.
func (s *stream) read(p []byte) (int, error) {
	for {
		n, err := unix.Read(s.fd, p)
		switch err {
		case nil:
			return n, nil
		case unix.EINTR:
			continue
		case unix.EAGAIN:
			return 0, errWouldBlock
		default:
			return 0, err
		}
	}
}

// writeAll writes p fully. The request always fits a fresh connection's
// send buffer, so EAGAIN only yields and retries.
func (s *stream) writeAll(p []byte) error {
	for len(p) > 0 {
		n, err := unix.Write(s.fd, p)
		switch err {
		case nil:
			p = p[n:]
		case unix.EINTR:
		case unix.EAGAIN:
			runtime.Gosched()
		default:
			return err
		}
	}
	return nil
}

// close releases the socket. Failure is logged, never returned.
func (s *stream) close(log zerolog.Logger) {
	if err := unix.Close(s.fd); err != nil {
		log.Error().Err(err).Int("fd", s.fd).Msg("client: close stream")
	}
}
