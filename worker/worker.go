package worker

import (
	"runtime"
	"sync"

	"github.com/getsentry/sentry-go"
)

var workerQueue = make(chan func(), runtime.NumCPU())

func init() {
	for i := 0; i < runtime.NumCPU(); i++ {
		go worker(workerQueue)
	}
}

func worker(jobs <-chan func()) {
	for f := range jobs {
		run(f)
	}
}

// run calls f, reporting a panic in it to sentry instead of taking down the worker.
func run(f func()) {
	defer sentry.Recover()
	f()
}

// Submit runs f on the shared pool. It is meant for work that does not need to run in a particular order,
// such as exporting a finished recording.
func Submit(f func()) {
	workerQueue <- f
}

// Queue runs the functions submitted to it one at a time, in submission order, on a goroutine of its own.
type Queue struct {
	mu     sync.Mutex
	closed bool
	jobs   chan func()
	done   chan struct{}
}

// NewQueue creates a Queue buffering up to size functions before Submit blocks.
func NewQueue(size int) *Queue {
	q := &Queue{jobs: make(chan func(), size), done: make(chan struct{})}
	go func() {
		defer close(q.done)
		worker(q.jobs)
	}()
	return q
}

// Submit schedules f to run after every function submitted before it. False is returned if the queue was
// closed, in which case f never runs.
func (q *Queue) Submit(f func()) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.jobs <- f
	return true
}

// Close stops the queue from accepting new functions and waits for the pending ones to finish.
func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()
	<-q.done
}
