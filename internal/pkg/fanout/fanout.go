// Package fanout runs a fixed set of named tasks concurrently and reports a
// per-source outcome instead of failing the whole join on the first error.
package fanout

import (
	"context"
	"sync"
)

type Result[T any] struct {
	Source string
	Value  T
	Err    error
}

func (r Result[T]) OK() bool {
	return r.Err == nil
}

type Task[T any] struct {
	Source string
	Run    func(ctx context.Context) (T, error)
}

// JoinSettled runs every task, waits for all of them, and returns results in
// task order. One source failing never cancels or hides the others.
func JoinSettled[T any](ctx context.Context, tasks []Task[T]) []Result[T] {
	results := make([]Result[T], len(tasks))

	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func(i int, task Task[T]) {
			defer wg.Done()
			defer func() {
				// A panicking source is reported as its own failure.
				if rec := recover(); rec != nil {
					results[i] = Result[T]{Source: task.Source, Err: &PanicError{Source: task.Source, Value: rec}}
				}
			}()
			value, err := task.Run(ctx)
			results[i] = Result[T]{Source: task.Source, Value: value, Err: err}
		}(i, task)
	}
	wg.Wait()

	return results
}

type PanicError struct {
	Source string
	Value  any
}

func (e *PanicError) Error() string {
	return "panic in fanout source " + e.Source
}
