// File: reactor/reactor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Reactor owns the event queue, the token allocator and the token-to-waker
// routing table. Start launches the event loop on a dedicated OS thread;
// the loop blocks in Wait and forwards each readiness notification to the
// waker registered for its token. Events whose token has no waker are
// counted and skipped.

package reactor

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/momentics/hioload-async/api"
	"github.com/momentics/hioload-async/poll"
	"github.com/rs/zerolog"
)

const defaultEventBuffer = 128

// Reactor routes OS readiness events to task wakers.
type Reactor struct {
	log     zerolog.Logger
	bufSize int

	queue *poll.Poll

	mu     sync.Mutex
	wakers map[api.Token]api.Waker

	next    uint64 // atomic token counter
	running int32  // atomic: 1 once Start succeeded
	closing int32  // atomic: 1 once Close began
	done    chan struct{}

	// statistics
	dispatched uint64
	skipped    uint64
}

// New returns a stopped reactor. Call Start before registering sources.
func New(opts ...Option) *Reactor {
	r := &Reactor{
		log:     zerolog.Nop(),
		bufSize: defaultEventBuffer,
		wakers:  make(map[api.Token]api.Waker),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start creates the event queue and launches the event loop on its own OS
// thread. Starting an already started reactor returns api.ErrReactorRunning.
func (r *Reactor) Start() error {
	if !atomic.CompareAndSwapInt32(&r.running, 0, 1) {
		return api.ErrReactorRunning
	}
	q, err := poll.New(poll.WithLogger(r.log))
	if err != nil {
		atomic.StoreInt32(&r.running, 0)
		return err
	}
	r.queue = q
	go r.eventLoop()
	r.log.Debug().Msg("reactor: started")
	return nil
}

// stopped reports whether the reactor is outside its serving window,
// either not started yet or already closing.
func (r *Reactor) stopped() bool {
	return atomic.LoadInt32(&r.running) == 0 || atomic.LoadInt32(&r.closing) == 1
}

// NextToken allocates a unique registration token. Tokens are never reused
// for the life of the reactor and never collide with poll.WakeToken.
// Panics with api.ErrReactorNotRunning on a stopped reactor.
func (r *Reactor) NextToken() api.Token {
	if r.stopped() {
		panic(api.ErrReactorNotRunning)
	}
	return api.Token(atomic.AddUint64(&r.next, 1))
}

// Register subscribes src to interest under tok. Install the waker for tok
// with SetWaker; registration alone routes nothing.
func (r *Reactor) Register(src api.Source, interest api.Interest, tok api.Token) error {
	if r.stopped() {
		return api.ErrReactorNotRunning
	}
	return r.queue.Registry().Register(src, tok, interest)
}

// SetWaker installs w as the waker for tok, replacing any previous one.
// Leaf futures call this on every pending poll so the newest waker wins.
// Panics with api.ErrReactorNotRunning on a stopped reactor.
func (r *Reactor) SetWaker(tok api.Token, w api.Waker) {
	if r.stopped() {
		panic(api.ErrReactorNotRunning)
	}
	r.mu.Lock()
	r.wakers[tok] = w
	r.mu.Unlock()
}

// Deregister removes the waker for tok and drops src from the event queue.
// Events already collected into a batch are skipped when dispatched.
func (r *Reactor) Deregister(src api.Source, tok api.Token) error {
	if r.stopped() {
		return api.ErrReactorNotRunning
	}
	r.mu.Lock()
	delete(r.wakers, tok)
	r.mu.Unlock()
	return r.queue.Registry().Deregister(src)
}

// Close interrupts the event loop, waits for it to exit and releases the
// event queue. The reactor cannot be restarted afterwards.
func (r *Reactor) Close() error {
	if atomic.LoadInt32(&r.running) == 0 {
		return api.ErrReactorNotRunning
	}
	if atomic.CompareAndSwapInt32(&r.closing, 0, 1) {
		if err := r.queue.Wake(); err != nil {
			r.log.Error().Err(err).Msg("reactor: wake for close")
		}
		<-r.done
		r.queue.Close()
		r.log.Debug().Msg("reactor: closed")
		return nil
	}
	<-r.done
	return nil
}

// Stats returns dispatch counters.
func (r *Reactor) Stats() map[string]int64 {
	return map[string]int64{
		"dispatched": int64(atomic.LoadUint64(&r.dispatched)),
		"skipped":    int64(atomic.LoadUint64(&r.skipped)),
		"tokens":     int64(atomic.LoadUint64(&r.next)),
	}
}

// eventLoop blocks in Wait and dispatches readiness events until Close
// wakes it through the queue's wake channel.
func (r *Reactor) eventLoop() {
	// The loop owns its thread; Wait parks in the kernel, not in the Go
	// scheduler.
	runtime.LockOSThread()
	defer close(r.done)

	events := make([]poll.Event, r.bufSize)
	for {
		n, err := r.queue.Wait(events, -1)
		if err != nil {
			if atomic.LoadInt32(&r.closing) == 1 {
				return
			}
			r.log.Error().Err(err).Msg("reactor: wait failed")
			continue
		}
		for i := 0; i < n; i++ {
			ev := events[i]
			if ev.Token == poll.WakeToken {
				if atomic.LoadInt32(&r.closing) == 1 {
					return
				}
				r.queue.DrainWake()
				continue
			}
			r.mu.Lock()
			w, ok := r.wakers[ev.Token]
			r.mu.Unlock()
			if !ok {
				atomic.AddUint64(&r.skipped, 1)
				r.log.Debug().Uint64("token", uint64(ev.Token)).Msg("reactor: no waker for token")
				continue
			}
			atomic.AddUint64(&r.dispatched, 1)
			w.Wake()
		}
	}
}
