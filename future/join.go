// File: future/join.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fan-in composition. JoinAll polls every still-pending child on each
// wake; children rotate through a FIFO so one slow child cannot starve
// the others.

package future

import (
	"github.com/eapache/queue"

	"github.com/momentics/hioload-async/api"
)

type joinFuture[T any] struct {
	pending *queue.Queue
	results []T
	done    bool
}

// JoinAll resolves once every child has resolved. Results appear in
// completion order, not argument order. Joining nothing resolves to an
// empty slice on the first poll.
func JoinAll[T any](children ...api.Future[T]) api.Future[[]T] {
	q := queue.New()
	for _, c := range children {
		q.Add(c)
	}
	return &joinFuture[T]{pending: q, results: make([]T, 0, len(children))}
}

func (j *joinFuture[T]) Poll(w api.Waker) api.PollState[[]T] {
	if j.done {
		panic(api.ErrFutureResolved)
	}
	// Children see the same waker: any child's wake re-polls the join,
	// and each pending child re-stores the newest waker on its own.
	for n := j.pending.Length(); n > 0; n-- {
		child := j.pending.Remove().(api.Future[T])
		st := child.Poll(w)
		if st.IsReady() {
			j.results = append(j.results, st.Value())
			continue
		}
		j.pending.Add(child)
	}
	if j.pending.Length() == 0 {
		j.done = true
		return api.Ready(j.results)
	}
	return api.Pending[[]T]()
}
