//go:build linux
// +build linux

// Copyright 2025 momentics@gmail.com
// Licensed under the Apache License, Version 2.0.

// reactor_linux_test.go — Reactor contract: lifecycle errors, token
// allocation, waker routing, staleness, deregistration.
package reactor_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/momentics/hioload-async/api"
	"github.com/momentics/hioload-async/reactor"
	"golang.org/x/sys/unix"
)

type pipeSource struct{ fd int }

func (p pipeSource) FD() int { return p.fd }

func newPipe(t *testing.T) (r, w pipeSource) {
	t.Helper()
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		t.Fatalf("pipe2: %v", err)
	}
	t.Cleanup(func() {
		unix.Close(fds[0])
		unix.Close(fds[1])
	})
	return pipeSource{fds[0]}, pipeSource{fds[1]}
}

// chanWaker records wakes on a buffered channel.
type chanWaker struct{ ch chan struct{} }

func newChanWaker() chanWaker {
	return chanWaker{ch: make(chan struct{}, 16)}
}

func (w chanWaker) Wake() {
	select {
	case w.ch <- struct{}{}:
	default:
	}
}

func startedReactor(t *testing.T) *reactor.Reactor {
	t.Helper()
	r := reactor.New()
	if err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestStartTwiceFails(t *testing.T) {
	r := startedReactor(t)
	if err := r.Start(); !errors.Is(err, api.ErrReactorRunning) {
		t.Errorf("second Start = %v, want ErrReactorRunning", err)
	}
}

func TestCloseBeforeStartFails(t *testing.T) {
	r := reactor.New()
	if err := r.Close(); !errors.Is(err, api.ErrReactorNotRunning) {
		t.Errorf("Close before Start = %v, want ErrReactorNotRunning", err)
	}
}

func TestCloseTwice(t *testing.T) {
	r := reactor.New()
	if err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
}

func TestNextTokenPanicsWhenStopped(t *testing.T) {
	r := reactor.New()
	defer func() {
		v := recover()
		if v == nil {
			t.Fatal("NextToken on stopped reactor did not panic")
		}
		err, ok := v.(error)
		if !ok || !errors.Is(err, api.ErrReactorNotRunning) {
			t.Errorf("panic value = %v, want ErrReactorNotRunning", v)
		}
	}()
	r.NextToken()
}

func TestUseAfterCloseFails(t *testing.T) {
	r := reactor.New()
	if err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	src, _ := newPipe(t)
	if err := r.Register(src, api.Readable, 1); !errors.Is(err, api.ErrReactorNotRunning) {
		t.Errorf("Register after Close = %v, want ErrReactorNotRunning", err)
	}
	defer func() {
		if recover() == nil {
			t.Error("NextToken after Close did not panic")
		}
	}()
	r.NextToken()
}

func TestRegisterWhenStoppedFails(t *testing.T) {
	r := reactor.New()
	src, _ := newPipe(t)
	if err := r.Register(src, api.Readable, 1); !errors.Is(err, api.ErrReactorNotRunning) {
		t.Errorf("Register on stopped reactor = %v, want ErrReactorNotRunning", err)
	}
	if err := r.Deregister(src, 1); !errors.Is(err, api.ErrReactorNotRunning) {
		t.Errorf("Deregister on stopped reactor = %v, want ErrReactorNotRunning", err)
	}
}

func TestNextTokenUniqueAcrossGoroutines(t *testing.T) {
	r := startedReactor(t)

	const goroutines = 4
	const perG = 1000
	var mu sync.Mutex
	seen := make(map[api.Token]bool, goroutines*perG)
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perG; i++ {
				tok := r.NextToken()
				mu.Lock()
				if seen[tok] {
					t.Errorf("token %d allocated twice", tok)
				}
				seen[tok] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if len(seen) != goroutines*perG {
		t.Errorf("allocated %d unique tokens, want %d", len(seen), goroutines*perG)
	}
}

func TestDispatchWakesRegisteredWaker(t *testing.T) {
	r := startedReactor(t)
	src, w := newPipe(t)

	tok := r.NextToken()
	if err := r.Register(src, api.Readable|api.EdgeTriggered, tok); err != nil {
		t.Fatalf("Register: %v", err)
	}
	waker := newChanWaker()
	r.SetWaker(tok, waker)

	if _, err := unix.Write(w.fd, []byte("x")); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case <-waker.ch:
	case <-time.After(time.Second):
		t.Fatal("waker was not called within 1s of readiness")
	}
	if got := r.Stats()["dispatched"]; got < 1 {
		t.Errorf("dispatched = %d, want at least 1", got)
	}
}

func TestSetWakerReplacesPrevious(t *testing.T) {
	r := startedReactor(t)
	src, w := newPipe(t)

	tok := r.NextToken()
	if err := r.Register(src, api.Readable|api.EdgeTriggered, tok); err != nil {
		t.Fatalf("Register: %v", err)
	}
	stale := newChanWaker()
	fresh := newChanWaker()
	r.SetWaker(tok, stale)
	r.SetWaker(tok, fresh)

	if _, err := unix.Write(w.fd, []byte("x")); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case <-fresh.ch:
	case <-time.After(time.Second):
		t.Fatal("replacement waker was not called")
	}
	select {
	case <-stale.ch:
		t.Error("stale waker was called after replacement")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDeregisterSilencesToken(t *testing.T) {
	r := startedReactor(t)
	src, w := newPipe(t)

	tok := r.NextToken()
	if err := r.Register(src, api.Readable|api.EdgeTriggered, tok); err != nil {
		t.Fatalf("Register: %v", err)
	}
	waker := newChanWaker()
	r.SetWaker(tok, waker)
	if err := r.Deregister(src, tok); err != nil {
		t.Fatalf("Deregister: %v", err)
	}

	if _, err := unix.Write(w.fd, []byte("x")); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case <-waker.ch:
		t.Error("waker called for a deregistered token")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestEventWithoutWakerIsSkipped(t *testing.T) {
	r := startedReactor(t)
	src, w := newPipe(t)

	tok := r.NextToken()
	if err := r.Register(src, api.Readable|api.EdgeTriggered, tok); err != nil {
		t.Fatalf("Register: %v", err)
	}
	// No SetWaker for tok: the dispatch must skip it without panicking.
	if _, err := unix.Write(w.fd, []byte("x")); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if r.Stats()["skipped"] >= 1 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Errorf("skipped = %d, want at least 1", r.Stats()["skipped"])
}
