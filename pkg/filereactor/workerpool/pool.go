// Package workerpool is a thin wrapper around github.com/panjf2000/ants over
// the fixed-size thread pool each worker reactor dispatches doRead/doWrite
// tasks onto. Submission falls back to inline execution when the pool's
// queue rejects a task, matching the "run inline when the pool can't accept
// more work" escape hatch the spec allows as an implementation-defined
// optimization.
package workerpool

import (
	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"
)

// Pool is a fixed-size goroutine pool for independent, non-blocking tasks.
// Tasks submitted to a Pool carry no ordering guarantees relative to each
// other.
type Pool struct {
	inner *ants.Pool
	log   logrus.FieldLogger
}

// New creates a pool with size workers. log may be nil.
func New(size int, log logrus.FieldLogger) (*Pool, error) {
	inner, err := ants.NewPool(size, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}
	return &Pool{inner: inner, log: log}, nil
}

// Run submits task to the pool. If the pool's internal queue is saturated
// (every worker busy and no room to queue), task executes inline on the
// calling goroutine rather than being dropped -- this keeps doRead/doWrite
// dispatch lossless under load at the cost of occasionally serializing onto
// the reactor loop.
func (p *Pool) Run(task func()) {
	if err := p.inner.Submit(task); err != nil {
		if p.log != nil {
			p.log.WithError(err).Debug("workerpool: submit rejected, running inline")
		}
		task()
	}
}

// Running reports the number of currently running goroutines in the pool.
func (p *Pool) Running() int {
	return p.inner.Running()
}

// Stop releases the pool. It returns without waiting for tasks that are
// already running.
func (p *Pool) Stop() {
	p.inner.Release()
}
