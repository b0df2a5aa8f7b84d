// Package workq runs render jobs on a fixed set of goroutines. Each
// goroutine has a stable id so jobs can use per-worker scratch state.
package workq

import "sync"

// WorkerFunc handles one item on the worker with the given id.
type WorkerFunc[T any] func(id int, item T)

type job[T any] struct {
	fn   WorkerFunc[T]
	item T
}

// Q is a fixed pool of workers fed from a buffered channel.
type Q[T any] struct {
	c       chan job[T]
	wg      sync.WaitGroup
	worker  WorkerFunc[T]
	workers int
	once    sync.Once
}

// NewQ starts workerCount goroutines draining a queue of chanSize items.
func NewQ[T any](workerCount, chanSize int, worker WorkerFunc[T]) *Q[T] {
	if worker == nil {
		panic("worker cannot be nil")
	}
	if workerCount <= 0 {
		panic("workerCount must be at least 1")
	}

	q := &Q[T]{
		c:       make(chan job[T], chanSize),
		worker:  worker,
		workers: workerCount,
	}
	for id := range workerCount {
		go func() {
			for j := range q.c {
				q.run(id, j)
			}
		}()
	}
	return q
}

func (q *Q[T]) run(id int, j job[T]) {
	defer q.wg.Done()
	j.fn(id, j.item)
}

// Workers returns the number of goroutines.
func (q *Q[T]) Workers() int { return q.workers }

// Submit queues item for the default worker function.
func (q *Q[T]) Submit(item T) {
	q.wg.Add(1)
	q.c <- job[T]{q.worker, item}
}

// Wait blocks until every submitted item has been handled.
func (q *Q[T]) Wait() {
	q.wg.Wait()
}

// Close stops the workers once the queue drains. Submitting after Close
// panics.
func (q *Q[T]) Close() {
	q.once.Do(func() { close(q.c) })
}
