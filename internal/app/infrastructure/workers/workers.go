package workers

import (
	"errors"
	"sync"
	"sync/atomic"
)

var (
	ErrQueueFull = errors.New("worker pool queue is full")
	ErrStopped   = errors.New("worker pool is stopped")
)

// Pool runs tasks on a fixed set of workers in submission order.
type Pool struct {
	wg       sync.WaitGroup
	tasks    chan func()
	mu       sync.RWMutex
	stopped  bool
	overflow atomic.Int64
}

func New(workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	p := &Pool{tasks: make(chan func(), queueSize)}
	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

// TrySubmit enqueues the task without blocking.
func (p *Pool) TrySubmit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrStopped
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Submit enqueues the task, or runs it on its own goroutine when the queue
// is full. Tasks are never dropped; after Stop they run detached.
func (p *Pool) Submit(task func()) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		go task()
		return
	}

	select {
	case p.tasks <- task:
		return
	default:
	}

	p.overflow.Add(1)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		task()
	}()
}

// Overflow reports how many tasks bypassed the queue.
func (p *Pool) Overflow() int64 {
	return p.overflow.Load()
}

// Stop closes the queue and waits for queued and overflow tasks to finish.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.stopped {
		p.stopped = true
		close(p.tasks)
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for task := range p.tasks {
		task()
	}
}
