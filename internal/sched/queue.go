// File: internal/sched/queue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Shared ready list for one executor. Wakers push task ids from any
// goroutine; the executor pops from the same end, newest first.

package sched

import "sync"

// Queue is a mutex-guarded LIFO stack of task ids.
type Queue struct {
	mu  sync.Mutex
	ids []uint64
}

// NewQueue returns an empty ready queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends id. Duplicates are allowed; the executor skips ids whose
// task is no longer in its table.
func (q *Queue) Push(id uint64) {
	q.mu.Lock()
	q.ids = append(q.ids, id)
	q.mu.Unlock()
}

// Pop removes and returns the most recently pushed id.
func (q *Queue) Pop() (uint64, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.ids)
	if n == 0 {
		return 0, false
	}
	id := q.ids[n-1]
	q.ids = q.ids[:n-1]
	return id, true
}

// Len reports the number of queued ids.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ids)
}
