//go:build linux
// +build linux

// File: poll/poll_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Thin wrapper over the Linux epoll facility. The only addition over the
// raw syscalls is an eventfd wake channel registered under WakeToken so a
// closing reactor can interrupt a blocked Wait.

package poll

import (
	"encoding/binary"
	"fmt"

	"github.com/momentics/hioload-async/api"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// Poll owns the epoll instance and the wake eventfd.
type Poll struct {
	registry *Registry
	wakeFd   int
	log      zerolog.Logger

	// raw is the kernel-facing event buffer. Wait is single-waiter (only
	// the reactor loop blocks on the queue), so one scratch slice suffices.
	raw []unix.EpollEvent
}

// Registry registers and deregisters event sources with the OS queue. It
// keeps no per-source state; the kernel tracks registrations.
type Registry struct {
	epfd int
}

// New creates an epoll instance with a wake channel attached.
func New(opts ...Option) (*Poll, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll create: %w", err)
	}
	wakeFd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		unix.Close(epfd)
		return nil, fmt.Errorf("eventfd: %w", err)
	}
	p := &Poll{
		registry: &Registry{epfd: epfd},
		wakeFd:   wakeFd,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	// The wake channel is level-triggered so an undrained wake keeps
	// reporting readable across Wait calls.
	ev := unix.EpollEvent{Events: unix.EPOLLIN}
	encodeToken(&ev, WakeToken)
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, wakeFd, &ev); err != nil {
		unix.Close(wakeFd)
		unix.Close(epfd)
		return nil, fmt.Errorf("epoll ctl add wake: %w", err)
	}
	return p, nil
}

// Registry returns the registration half of the queue.
func (p *Poll) Registry() *Registry {
	return p.registry
}

// Wait blocks until at least one event is ready or the timeout elapses,
// then copies up to len(events) notifications into events and returns the
// count. timeoutMs < 0 blocks indefinitely, 0 polls without blocking. A
// Wait interrupted by a signal returns (0, nil). An empty events slice is
// substituted with an internal one-event buffer whose result is dropped,
// since the kernel rejects a zero-length wait.
func (p *Poll) Wait(events []Event, timeoutMs int) (int, error) {
	want := len(events)
	if want == 0 {
		want = 1 // the kernel rejects maxevents == 0
	}
	if len(p.raw) < want {
		p.raw = make([]unix.EpollEvent, want)
	}
	if timeoutMs < 0 {
		timeoutMs = -1
	}
	n, err := unix.EpollWait(p.registry.epfd, p.raw[:want], timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, fmt.Errorf("epoll wait: %w", err)
	}
	if n > len(events) {
		n = len(events)
	}
	for i := 0; i < n; i++ {
		events[i] = Event{Bits: p.raw[i].Events, Token: decodeToken(p.raw[i])}
	}
	return n, nil
}

// Wake makes the wake channel readable, interrupting a blocked Wait. The
// resulting event carries WakeToken.
func (p *Poll) Wake() error {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], 1)
	for {
		_, err := unix.Write(p.wakeFd, buf[:])
		switch err {
		case nil, unix.EAGAIN:
			// EAGAIN means a wake is already pending; that is enough.
			return nil
		case unix.EINTR:
			continue
		default:
			return fmt.Errorf("eventfd write: %w", err)
		}
	}
}

// DrainWake consumes pending wakes so the wake channel stops reporting
// readable.
func (p *Poll) DrainWake() {
	var buf [8]byte
	for {
		_, err := unix.Read(p.wakeFd, buf[:])
		if err == unix.EINTR {
			continue
		}
		// nil means drained; EAGAIN means it was already empty.
		return
	}
}

// Close releases both descriptors. Failures are logged, never returned.
func (p *Poll) Close() {
	if err := unix.Close(p.wakeFd); err != nil {
		p.log.Error().Err(err).Msg("poll: close wake fd")
	}
	if err := unix.Close(p.registry.epfd); err != nil {
		p.log.Error().Err(err).Msg("poll: close epoll fd")
	}
}

// Register subscribes src to the interest set under tok. Edge-triggered
// delivery must be requested explicitly via api.EdgeTriggered.
func (r *Registry) Register(src api.Source, tok api.Token, interest api.Interest) error {
	ev := unix.EpollEvent{Events: uint32(interest)}
	encodeToken(&ev, tok)
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, src.FD(), &ev); err != nil {
		return fmt.Errorf("epoll ctl add: %w", err)
	}
	return nil
}

// Deregister removes src from the queue. Events already collected into a
// batch may still be delivered for its token afterwards.
func (r *Registry) Deregister(src api.Source) error {
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, src.FD(), nil); err != nil {
		return fmt.Errorf("epoll ctl del: %w", err)
	}
	return nil
}

// The token rides in the epoll user-data union, split across the Fd and
// Pad halves of the event struct.
func encodeToken(ev *unix.EpollEvent, tok api.Token) {
	ev.Fd = int32(uint32(tok))
	ev.Pad = int32(uint32(tok >> 32))
}

func decodeToken(ev unix.EpollEvent) api.Token {
	return api.Token(uint32(ev.Fd)) | api.Token(uint32(ev.Pad))<<32
}
