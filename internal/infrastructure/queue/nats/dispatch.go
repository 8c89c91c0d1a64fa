package nats

import "sync"

// dispatcher runs jobs on their own goroutines while capping how many run at
// once, so a single multi-minute inference does not stall every queued
// submission behind it. The cap is per worker process; scaling beyond it is
// the queue group's job.
type dispatcher struct {
	slots chan struct{}
	wg    sync.WaitGroup
}

func newDispatcher(maxConcurrent int) *dispatcher {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &dispatcher{slots: make(chan struct{}, maxConcurrent)}
}

// Dispatch blocks until a slot is free, then runs fn concurrently. Blocking
// here applies backpressure to the subscription instead of buffering jobs
// without bound.
func (d *dispatcher) Dispatch(fn func()) {
	d.slots <- struct{}{}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() { <-d.slots }()
		fn()
	}()
}

// Wait blocks until every dispatched job has finished.
func (d *dispatcher) Wait() {
	d.wg.Wait()
}
