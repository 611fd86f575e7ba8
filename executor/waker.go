// File: executor/waker.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Waker re-schedules one task: it pushes the task id onto the executor's
// ready queue, then unparks the executor. Push happens first so a woken
// executor always finds the id waiting.

package executor

import "github.com/momentics/hioload-async/internal/sched"

// Waker resumes one task. Safe to call from any goroutine and at any time,
// including for tasks that already resolved; the executor drops ids it no
// longer knows.
type Waker struct {
	id     uint64
	ready  *sched.Queue
	parker *sched.Parker
}

// Wake schedules the task for another poll.
func (w Waker) Wake() {
	w.ready.Push(w.id)
	w.parker.Unpark()
}
