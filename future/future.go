// File: future/future.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Basic future constructors shared by examples, composition and tests.

package future

import "github.com/momentics/hioload-async/api"

// ReadyFuture resolves to a fixed value on its first poll.
type ReadyFuture[T any] struct {
	value T
	done  bool
}

// Ready wraps v in a future that resolves immediately.
func Ready[T any](v T) *ReadyFuture[T] {
	return &ReadyFuture[T]{value: v}
}

// Poll resolves on the first call and panics on any later one.
func (f *ReadyFuture[T]) Poll(api.Waker) api.PollState[T] {
	if f.done {
		panic(api.ErrFutureResolved)
	}
	f.done = true
	return api.Ready(f.value)
}

// PollFunc adapts a plain function to the Future interface.
type PollFunc[T any] func(w api.Waker) api.PollState[T]

// Poll calls fn.
func (fn PollFunc[T]) Poll(w api.Waker) api.PollState[T] { return fn(w) }
