package internal

import (
	"sync"

	"github.com/eapache/queue"
)

// Loop serializes every mutation of scope state onto a single logical
// thread. Jobs can be posted from any goroutine; whichever goroutine
// finds the loop idle drains it, so sequential code observes its own
// posts synchronously.
type Loop struct {
	mu sync.Mutex

	jobs *queue.Queue

	// each nested batch increases the depth by 1
	// if depth > 0, jobs are queued until the outermost batch is complete
	batchDepth int

	draining bool
}

func NewLoop() *Loop {
	return &Loop{
		jobs: queue.New(),
	}
}

// Post enqueues fn. A job posted while another job is running executes
// one queue turn later, after the running job returns.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.jobs.Add(fn)

	if l.draining || l.batchDepth > 0 {
		l.mu.Unlock()
		return
	}

	l.drain()
}

// Batch holds back delivery of jobs posted during fn so they land as
// a single queue turn once fn returns.
func (l *Loop) Batch(fn func()) {
	l.mu.Lock()
	l.batchDepth++
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.batchDepth--

		if l.batchDepth == 0 && !l.draining && l.jobs.Length() > 0 {
			l.drain()
			return
		}

		l.mu.Unlock()
	}()

	fn()
}

// drain must be entered with the mutex held and unlocks it before
// returning. A panic escaping a job propagates to the caller; the loop
// stays usable, jobs still queued run on the next Post.
func (l *Loop) drain() {
	l.draining = true

	defer func() {
		l.draining = false
		l.mu.Unlock()
	}()

	for l.jobs.Length() > 0 {
		job := l.jobs.Remove().(func())

		l.mu.Unlock()
		func() {
			defer l.mu.Lock()
			job()
		}()
	}
}
