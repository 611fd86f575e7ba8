// Copyright 2025 momentics@gmail.com
// Licensed under the Apache License, Version 2.0.

// benchmark_executor_test.go — Benchmark the first-poll fast path and the
// spawn/drain cycle.
package executor_test

import (
	"testing"

	"github.com/momentics/hioload-async/api"
	"github.com/momentics/hioload-async/executor"
)

type readyInt struct{ v int }

func (f readyInt) Poll(api.Waker) api.PollState[int] { return api.Ready(f.v) }

func Benchmark_BlockOnReadyFastPath(b *testing.B) {
	e := executor.New()
	for i := 0; i < b.N; i++ {
		executor.BlockOn[int](e, readyInt{v: i})
	}
}

func Benchmark_SpawnAndDrain(b *testing.B) {
	e := executor.New()
	for i := 0; i < b.N; i++ {
		for s := 0; s < 8; s++ {
			executor.Spawn[int](e, readyInt{v: s})
		}
		executor.BlockOn[int](e, selfWaking())
	}
}

// selfWaking forces one trip through the scheduling loop.
func selfWaking() api.Future[int] {
	polled := false
	return pollFunc2(func(w api.Waker) api.PollState[int] {
		if polled {
			return api.Ready(1)
		}
		polled = true
		w.Wake()
		return api.Pending[int]()
	})
}

type pollFunc2 func(api.Waker) api.PollState[int]

func (fn pollFunc2) Poll(w api.Waker) api.PollState[int] { return fn(w) }
