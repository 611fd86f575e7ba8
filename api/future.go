// Package api
// Author: momentics <momentics@gmail.com>
//
// Cooperative polling contract shared by the executor, the reactor and
// every leaf future in the library.

package api

// Waker resumes the task that owns it. Wake must be safe to call from any
// goroutine, including the reactor's event loop thread.
type Waker interface {
	Wake()
}

// PollState is the outcome of one Future.Poll call: either a final value or
// "not ready yet".
type PollState[T any] struct {
	value T
	ready bool
}

// Ready wraps a final value.
func Ready[T any](v T) PollState[T] {
	return PollState[T]{value: v, ready: true}
}

// Pending reports that the future is not ready yet.
func Pending[T any]() PollState[T] {
	return PollState[T]{}
}

// IsReady reports whether the state carries a final value.
func (s PollState[T]) IsReady() bool { return s.ready }

// Value returns the final value. Meaningful only when IsReady is true.
func (s PollState[T]) Value() T { return s.value }

// Future is a lazy computation driven by repeated Poll calls.
//
// Poll either returns Ready with the final value, or arranges for w.Wake to
// be called when progress is possible and returns Pending. A future that
// stays pending must hold the waker from its most recent Poll; wakers from
// earlier polls are stale and must not be woken. Polling a future again
// after it returned Ready panics with ErrFutureResolved.
type Future[T any] interface {
	Poll(w Waker) PollState[T]
}
