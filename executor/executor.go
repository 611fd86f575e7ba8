// File: executor/executor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Thread-confined task executor. Tasks are type-erased futures keyed by a
// monotonically increasing id; a shared LIFO ready queue carries the ids
// to poll next. When the queue is empty and unresolved tasks remain, the
// executor parks its goroutine until a waker hands back the token.

package executor

import (
	"sync/atomic"

	"github.com/momentics/hioload-async/api"
	"github.com/momentics/hioload-async/internal/sched"
	"github.com/rs/zerolog"
)

// taskFn polls the erased future once and reports whether it resolved.
type taskFn func(w api.Waker) bool

// Executor drives futures on a single goroutine. Spawn and BlockOn must be
// called from that goroutine; only Wakers may cross goroutines.
type Executor struct {
	log    zerolog.Logger
	tasks  map[uint64]taskFn
	ready  *sched.Queue
	parker *sched.Parker
	next   uint64

	// statistics
	spawned  uint64
	polled   uint64
	parked   uint64
	spurious uint64
}

// New returns an executor with an empty task table.
func New(opts ...Option) *Executor {
	e := &Executor{
		log:    zerolog.Nop(),
		tasks:  make(map[uint64]taskFn),
		ready:  sched.NewQueue(),
		parker: sched.NewParker(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Spawn adds f as a top-level task and queues it for its first poll. The
// resolved value is discarded; use BlockOn when the value matters.
func Spawn[T any](e *Executor, f api.Future[T]) {
	id := e.nextID()
	e.tasks[id] = erase(f, nil)
	e.ready.Push(id)
	atomic.AddUint64(&e.spawned, 1)
	e.log.Debug().Uint64("task", id).Msg("executor: spawned")
}

// BlockOn polls f once immediately; a future that resolves on that first
// poll returns its value without ever touching the task table. Otherwise f
// joins the table under the same id its first poll handed out, so the
// waker f stored stays valid, and the scheduling loop runs until the whole
// table has drained. The value of f is returned; values of tasks spawned
// alongside it are discarded as they resolve.
func BlockOn[T any](e *Executor, f api.Future[T]) T {
	id := e.nextID()
	atomic.AddUint64(&e.polled, 1)
	if st := f.Poll(e.waker(id)); st.IsReady() {
		return st.Value()
	}
	var out T
	e.tasks[id] = erase(f, &out)
	e.ready.Push(id)
	atomic.AddUint64(&e.spawned, 1)
	e.run()
	return out
}

// Pending reports the number of unresolved tasks in the table. Call it
// from the executor's goroutine.
func (e *Executor) Pending() int { return len(e.tasks) }

// Stats returns execution counters. The map is a snapshot.
func (e *Executor) Stats() map[string]int64 {
	return map[string]int64{
		"spawned":  int64(atomic.LoadUint64(&e.spawned)),
		"polled":   int64(atomic.LoadUint64(&e.polled)),
		"parked":   int64(atomic.LoadUint64(&e.parked)),
		"spurious": int64(atomic.LoadUint64(&e.spurious)),
	}
}

// run is the scheduling loop: drain the ready queue, then park while tasks
// remain. A panicking task unwinds through here to BlockOn's caller.
func (e *Executor) run() {
	for {
		for {
			id, ok := e.ready.Pop()
			if !ok {
				break
			}
			task, ok := e.tasks[id]
			if !ok {
				// Spurious wakeup: the task resolved after this id
				// was queued, or a stale waker fired.
				atomic.AddUint64(&e.spurious, 1)
				continue
			}
			delete(e.tasks, id)
			atomic.AddUint64(&e.polled, 1)
			if task(e.waker(id)) {
				e.log.Debug().Uint64("task", id).Msg("executor: task resolved")
				continue
			}
			// Still pending; whatever registration now holds the fresh
			// waker will queue the id again.
			e.tasks[id] = task
		}
		if len(e.tasks) == 0 {
			e.log.Debug().Msg("executor: drained")
			return
		}
		atomic.AddUint64(&e.parked, 1)
		e.log.Debug().Int("pending", len(e.tasks)).Msg("executor: parking")
		e.parker.Park()
	}
}

func (e *Executor) nextID() uint64 {
	e.next++
	return e.next
}

func (e *Executor) waker(id uint64) api.Waker {
	return Waker{id: id, ready: e.ready, parker: e.parker}
}

// erase adapts a typed future to the executor's task shape. When out is
// non-nil the resolved value is stored through it.
func erase[T any](f api.Future[T], out *T) taskFn {
	return func(w api.Waker) bool {
		st := f.Poll(w)
		if !st.IsReady() {
			return false
		}
		if out != nil {
			*out = st.Value()
		}
		return true
	}
}
