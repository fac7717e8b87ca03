package pool

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestExecuteRunsAllStagedTasks(t *testing.T) {
	p := New(Regular, 4)
	defer p.Close()

	var count atomic.Int64
	for i := 0; i < 100; i++ {
		p.AddTask(func() error {
			count.Add(1)
			return nil
		})
	}
	if err := p.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if count.Load() != 100 {
		t.Fatalf("count = %d, want 100", count.Load())
	}
}

func TestExecuteReturnsFirstTaskError(t *testing.T) {
	p := New(Persistent, 4)
	defer p.Close()

	boom := errTestSentinel{}
	p.AddTask(func() error { return nil })
	p.AddTask(func() error { return boom })
	p.AddTask(func() error { return nil })

	if err := p.Execute(); err != boom {
		t.Fatalf("Execute error = %v, want sentinel", err)
	}
}

type errTestSentinel struct{}

func (errTestSentinel) Error() string { return "boom" }

func TestSingleThreadFallbackUsesErrgroup(t *testing.T) {
	p := New(Regular, 1)
	defer p.Close()

	var count atomic.Int64
	for i := 0; i < 10; i++ {
		p.AddTask(func() error {
			count.Add(1)
			return nil
		})
	}
	if err := p.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if count.Load() != 10 {
		t.Fatalf("count = %d, want 10", count.Load())
	}
}

// TestThreadCountChangeStillDrainsQueue checks that after resizing from
// 4 workers down to 1, Execute still runs every staged task to
// completion.
func TestThreadCountChangeStillDrainsQueue(t *testing.T) {
	p := New(Persistent, 4)
	defer p.Close()

	var count atomic.Int64
	for i := 0; i < 50; i++ {
		p.AddTask(func() error { count.Add(1); return nil })
	}
	if err := p.Execute(); err != nil {
		t.Fatal(err)
	}

	p.ChangeThreadCount(1)

	for i := 0; i < 50; i++ {
		p.AddTask(func() error { count.Add(1); return nil })
	}
	if err := p.Execute(); err != nil {
		t.Fatal(err)
	}

	if count.Load() != 100 {
		t.Fatalf("count = %d, want 100", count.Load())
	}
}

func TestEmptyExecuteIsNoop(t *testing.T) {
	p := New(Regular, 2)
	defer p.Close()
	if err := p.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
}

func TestGateSignalsDoNotBlockExecute(t *testing.T) {
	p := New(Persistent, 2)
	defer p.Close()

	p.SignalReset()
	var ran atomic.Bool
	p.AddTask(func() error { ran.Store(true); return nil })

	done := make(chan struct{})
	go func() {
		p.Execute()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Execute did not return after SignalReset")
	}
	if !ran.Load() {
		t.Fatal("task did not run")
	}
	p.SignalWait()
}
