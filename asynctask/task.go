// Copyright 2026 The Canopy Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package asynctask runs a function on its own goroutine and lets the
// owner join it later. The pipeline runner uses it for the background
// consumer task.
package asynctask

import (
	"context"
	"fmt"
	"sync"
)

// Task is a running or completed background computation.
type Task[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	done   bool
	result Result[T]
}

// Result is the outcome of a Task. A panic inside the task function is
// captured as an error.
type Result[T any] struct {
	Value T
	Error error
}

// Await blocks until the task completes and returns its result. It may be
// called any number of times.
func (t *Task[T]) Await() Result[T] {
	t.cond.L.Lock()
	for !t.done {
		t.cond.Wait()
	}
	t.cond.L.Unlock()
	return t.result
}

// IsDone reports whether the task has completed.
func (t *Task[T]) IsDone() bool {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()
	return done
}

// Create starts fn on a new goroutine and returns its Task.
func Create[T any](ctx context.Context, fn func(context.Context) (T, error)) *Task[T] {
	t := new(Task[T])
	t.cond = sync.NewCond(&t.mu)

	go func() {
		var value T
		var err error

		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("task panicked: %v", r)
			}
			t.cond.L.Lock()
			t.result = Result[T]{Value: value, Error: err}
			t.done = true
			t.cond.L.Unlock()
			t.cond.Broadcast()
		}()

		value, err = fn(ctx)
	}()

	return t
}

// TaskNoValue is a Task carrying no value, only a completion and an
// optional error.
type TaskNoValue = Task[struct{}]

// CreateNoValue starts fn on a new goroutine and returns its Task.
func CreateNoValue(ctx context.Context, fn func(context.Context) error) *TaskNoValue {
	return Create(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
}
