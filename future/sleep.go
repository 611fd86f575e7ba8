// File: future/sleep.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Timer future. Sleep is the simplest leaf: readiness comes from a timer
// callback instead of an I/O source, but the waker discipline is the
// usual one: store the newest waker on every pending poll, wake once.

package future

import (
	"sync"
	"time"

	"github.com/momentics/hioload-async/api"
)

type sleepFuture struct {
	d time.Duration

	mu    sync.Mutex
	waker api.Waker
	armed bool
	fired bool
	done  bool
}

// Sleep returns a future that resolves once d has elapsed, counted from
// its first poll.
func Sleep(d time.Duration) api.Future[struct{}] {
	return &sleepFuture{d: d}
}

func (f *sleepFuture) Poll(w api.Waker) api.PollState[struct{}] {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.done {
		panic(api.ErrFutureResolved)
	}
	if f.fired {
		f.done = true
		return api.Ready(struct{}{})
	}
	f.waker = w
	if !f.armed {
		f.armed = true
		time.AfterFunc(f.d, f.fire)
	}
	return api.Pending[struct{}]()
}

func (f *sleepFuture) fire() {
	f.mu.Lock()
	f.fired = true
	w := f.waker
	f.mu.Unlock()
	// The waker is set before the timer is armed, never nil here.
	w.Wake()
}
