// File: internal/sched/parker.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// One-token block/resume primitive with the coalescing semantics of a
// parked OS thread: an Unpark before Park is consumed by the next Park,
// and repeated Unparks collapse into one stored token.

package sched

// Parker blocks one goroutine until another hands it the token.
type Parker struct {
	token chan struct{}
}

// NewParker returns a Parker with no stored token.
func NewParker() *Parker {
	return &Parker{token: make(chan struct{}, 1)}
}

// Park blocks until the token is available and consumes it. Returns
// immediately when an earlier Unpark already stored it.
func (p *Parker) Park() {
	<-p.token
}

// Unpark stores the token, resuming the parked goroutine if there is one.
// Safe to call from any goroutine; extra tokens are dropped.
func (p *Parker) Unpark() {
	select {
	case p.token <- struct{}{}:
	default:
	}
}
