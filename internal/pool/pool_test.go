package pool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSubmitRunsAllJobs(t *testing.T) {
	p := New(4)
	defer p.Shutdown()

	const n = 200
	var counter int64
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		p.Submit(func() {
			atomic.AddInt64(&counter, 1)
			wg.Done()
		})
	}
	wg.Wait()
	if got := atomic.LoadInt64(&counter); got != n {
		t.Fatalf("counter = %d, want %d", got, n)
	}
}

func TestPanicInJobDoesNotStopPool(t *testing.T) {
	p := New(2)
	defer p.Shutdown()

	p.Submit(func() { panic("boom") })

	var wg sync.WaitGroup
	wg.Add(1)
	var ran bool
	p.Submit(func() {
		ran = true
		wg.Done()
	})

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pool stopped processing jobs after a panic")
	}
	if !ran {
		t.Fatal("expected job after panicking job to run")
	}
}

func TestShutdownJoinsAllWorkers(t *testing.T) {
	p := New(3)
	done := make(chan struct{})
	go func() {
		p.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Shutdown() did not return")
	}
}

func TestSubmitAfterShutdownIsNoop(t *testing.T) {
	p := New(1)
	p.Shutdown()
	p.Submit(func() { t.Fatal("job must not run after shutdown") })
	time.Sleep(10 * time.Millisecond)
}
