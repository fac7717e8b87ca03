// Package pool implements the process-wide worker pool the step pipeline
// uses to run constraint-row partitions concurrently: N-1 background
// goroutines plus the calling goroutine as worker N, a gate that controls
// whether idle workers keep polling or block, and a producer that waits
// for the task count to drain with a short yielding spin before falling
// back to 1µs sleeps.
//
// This generalizes an ad hoc WaitGroup fan-out into a longer-lived pool
// with an explicit lifecycle: build once, dispatch many partitions, close
// once.
package pool
