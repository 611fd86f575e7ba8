// File: future/then.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Sequential composition: run one future, feed its value to a constructor
// for the next.

package future

import "github.com/momentics/hioload-async/api"

type thenFuture[A, B any] struct {
	first  api.Future[A]
	next   func(A) api.Future[B]
	second api.Future[B]
	done   bool
}

// Then chains f into the future built by next from f's value. The second
// future is constructed lazily when f resolves and polled in the same
// call, so a chain of ready futures resolves in one poll.
func Then[A, B any](f api.Future[A], next func(A) api.Future[B]) api.Future[B] {
	return &thenFuture[A, B]{first: f, next: next}
}

func (t *thenFuture[A, B]) Poll(w api.Waker) api.PollState[B] {
	if t.done {
		panic(api.ErrFutureResolved)
	}
	if t.second == nil {
		st := t.first.Poll(w)
		if !st.IsReady() {
			return api.Pending[B]()
		}
		t.first = nil
		t.second = t.next(st.Value())
	}
	st := t.second.Poll(w)
	if !st.IsReady() {
		return api.Pending[B]()
	}
	t.done = true
	return st
}
