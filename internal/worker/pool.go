package worker

import (
	"context"
	"sync"
)

// Task is one unit of work run by a Pool.
type Task[T any] func(ctx context.Context) (T, error)

// Outcome pairs a task's value with its error. Outcomes keep submission order.
type Outcome[T any] struct {
	Index int
	Value T
	Err   error
}

// Pool runs tasks on a bounded number of goroutines.
type Pool[T any] struct {
	workers int
}

// NewPool creates a pool with the given number of workers (minimum 1).
func NewPool[T any](workers int) *Pool[T] {
	if workers <= 0 {
		workers = 1
	}
	return &Pool[T]{workers: workers}
}

// Run executes every task and returns outcomes in the order tasks were given.
// Tasks not yet started when ctx is cancelled report ctx.Err().
func (p *Pool[T]) Run(ctx context.Context, tasks []Task[T]) []Outcome[T] {
	outcomes := make([]Outcome[T], len(tasks))
	if len(tasks) == 0 {
		return outcomes
	}

	queue := make(chan int)
	var wg sync.WaitGroup

	workers := min(p.workers, len(tasks))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range queue {
				outcomes[i] = p.execute(ctx, i, tasks[i])
			}
		}()
	}

	for i := range tasks {
		select {
		case queue <- i:
		case <-ctx.Done():
			outcomes[i] = Outcome[T]{Index: i, Err: ctx.Err()}
		}
	}
	close(queue)
	wg.Wait()

	return outcomes
}

func (p *Pool[T]) execute(ctx context.Context, i int, task Task[T]) Outcome[T] {
	if err := ctx.Err(); err != nil {
		return Outcome[T]{Index: i, Err: err}
	}
	v, err := task(ctx)
	return Outcome[T]{Index: i, Value: v, Err: err}
}
