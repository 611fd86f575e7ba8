// Package api
// Author: momentics <momentics@gmail.com>
//
// Event-queue vocabulary: registration tokens, interest flags and pollable
// sources.

package api

// Token identifies one registration with the event queue. The reactor
// allocates tokens and routes readiness notifications back through them.
type Token uint64

// Interest selects which readiness events a registration subscribes to.
// The values mirror the Linux epoll event mask verbatim.
type Interest uint32

const (
	// Readable subscribes to read readiness (EPOLLIN).
	Readable Interest = 0x1
	// Writable subscribes to write readiness (EPOLLOUT).
	Writable Interest = 0x4
	// EdgeTriggered requests edge-triggered delivery (EPOLLET).
	EdgeTriggered Interest = 1 << 31
)

// Source is anything backed by a pollable file descriptor.
type Source interface {
	FD() int
}
