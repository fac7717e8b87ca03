package pool

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Task is a unit of work submitted to the pool. A non-nil return is
// recorded as the step's first error; the pool keeps draining the
// remaining queued tasks rather than aborting mid-execute.
type Task func() error

// ThreadModel selects how idle background workers wait for work.
type ThreadModel int

const (
	// Regular workers block on the queue between executes.
	Regular ThreadModel = iota
	// Persistent workers keep polling the queue between executes,
	// trading CPU occupancy for lower wake latency.
	Persistent
)

type worker struct {
	stop  chan struct{}
	ready chan struct{}
}

// Pool is a process-scoped worker pool with N-1 background workers; the
// goroutine that calls Execute participates as worker N. It is not
// thread-safe against ChangeThreadCount running concurrently with
// Execute; the caller is responsible for coordinating the two.
type Pool struct {
	model ThreadModel

	queue chan Task

	workers []*worker
	wg      sync.WaitGroup

	gateOpen atomic.Bool

	tasksLeft atomic.Int64
	firstErr  atomic.Pointer[error]

	staging []Task // single-producer; no lock.
}

// New builds a pool with the given thread model and n-1 background
// workers (n is the total worker count including the calling goroutine).
func New(model ThreadModel, n int) *Pool {
	p := &Pool{
		model: model,
		queue: make(chan Task, 1024),
	}
	p.gateOpen.Store(true)
	p.ChangeThreadCount(n)
	return p
}

// ChangeThreadCount joins all current background workers, then starts
// n-1 fresh ones, each signalling readiness through a one-shot handshake
// before ChangeThreadCount returns. Must not be called concurrently with
// Execute.
func (p *Pool) ChangeThreadCount(n int) {
	p.stopWorkers()

	count := n - 1
	if count < 0 {
		count = 0
	}
	p.workers = make([]*worker, count)
	for i := range p.workers {
		w := &worker{stop: make(chan struct{}), ready: make(chan struct{})}
		p.workers[i] = w
		p.wg.Add(1)
		go func(w *worker) {
			defer p.wg.Done()
			close(w.ready)
			p.workerLoop(w)
		}(w)
		<-w.ready
	}
}

func (p *Pool) stopWorkers() {
	for _, w := range p.workers {
		close(w.stop)
	}
	p.wg.Wait()
	p.workers = nil
}

// Close joins all background workers and releases the pool.
func (p *Pool) Close() {
	p.stopWorkers()
}

// AddTask enqueues fn into the producer's staging list. Single-producer,
// not synchronized — callers must not call AddTask concurrently.
func (p *Pool) AddTask(fn Task) {
	p.staging = append(p.staging, fn)
}

// SignalWait opens the gate: persistent workers resume polling instead of
// blocking between executes.
func (p *Pool) SignalWait() {
	p.gateOpen.Store(true)
}

// SignalReset closes the gate: persistent workers fall back to blocking
// until the next task arrives.
func (p *Pool) SignalReset() {
	p.gateOpen.Store(false)
}

// Execute publishes the staged tasks to the shared queue, participates as
// worker N until tasksLeft drains to zero, and returns the first task
// error encountered (if any). With zero background workers, it skips the
// queue entirely and runs the staged tasks through a single-slot errgroup
// instead, the pool's single-thread fallback path.
func (p *Pool) Execute() error {
	tasks := p.staging
	p.staging = nil
	if len(tasks) == 0 {
		return nil
	}

	if len(p.workers) == 0 {
		return p.executeSerial(tasks)
	}

	p.firstErr.Store(nil)
	p.tasksLeft.Store(int64(len(tasks)))
	for _, t := range tasks {
		p.queue <- t
	}

	p.drainOne()
	spinWait(func() bool { return p.tasksLeft.Load() == 0 })

	if errPtr := p.firstErr.Load(); errPtr != nil {
		return *errPtr
	}
	return nil
}

// executeSerial is the single-thread fallback: no background workers
// exist, so the calling goroutine runs every task through an errgroup
// limited to one in-flight task, rather than standing up the full
// queue/spin machinery for a pool that has nobody else to share it with.
func (p *Pool) executeSerial(tasks []Task) error {
	g := new(errgroup.Group)
	g.SetLimit(1)
	for _, t := range tasks {
		t := t
		g.Go(func() error { return t() })
	}
	return g.Wait()
}

// drainOne runs tasks from the queue until it is empty, playing the role
// of worker N (the calling goroutine).
func (p *Pool) drainOne() {
	for {
		select {
		case t := <-p.queue:
			p.run(t)
		default:
			return
		}
	}
}

func (p *Pool) run(t Task) {
	if err := t(); err != nil {
		p.firstErr.CompareAndSwap(nil, &err)
	}
	p.tasksLeft.Add(-1)
}

func (p *Pool) workerLoop(w *worker) {
	for {
		select {
		case <-w.stop:
			return
		case t := <-p.queue:
			p.run(t)
			continue
		default:
		}

		if p.model == Persistent && p.gateOpen.Load() {
			runtime.Gosched()
			continue
		}

		select {
		case <-w.stop:
			return
		case t := <-p.queue:
			p.run(t)
		}
	}
}

// spinWait busy-waits on done with a SpinWait-style micro-backoff,
// falling back to a short sleep once the tail exceeds a few thousand
// spins, without ever parking on a channel or condition variable.
func spinWait(done func() bool) {
	spins := 0
	for !done() {
		if spins < 4000 {
			spins++
			runtime.Gosched()
			continue
		}
		time.Sleep(time.Microsecond)
	}
}
