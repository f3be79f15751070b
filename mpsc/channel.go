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

// Package mpsc provides an unbounded multi-producer/single-consumer
// channel with a closeable receiving half.
//
// Sends never block and capacity is unbounded by design: the pipeline
// favors never stalling the instrumented path over bounding memory, so a
// bursty producer can grow the backlog arbitrarily. Delivery is FIFO per
// producer; interleaving across producers is unspecified.
package mpsc

import (
	"errors"
	"sync"
)

// ErrClosed is returned by Sender.Send after the receiving half has been
// closed.
var ErrClosed = errors.New("mpsc: channel closed")

// New returns the two halves of an unbounded channel. The Sender may be
// shared across goroutines; the Receiver must be owned by exactly one
// consumer.
func New[T any]() (*Sender[T], *Receiver[T]) {
	ch := &channel[T]{cond: sync.NewCond(new(sync.Mutex))}
	return &Sender[T]{ch: ch}, &Receiver[T]{ch: ch}
}

type channel[T any] struct {
	cond   *sync.Cond
	values []T
	closed bool
}

func (ch *channel[T]) pop() T {
	v := ch.values[0]
	copy(ch.values[:len(ch.values)-1], ch.values[1:])
	clear(ch.values[len(ch.values)-1:]) // helps GC
	ch.values = ch.values[:len(ch.values)-1]
	return v
}

// Sender is the producing half of the channel.
type Sender[T any] struct {
	ch *channel[T]
}

// Send enqueues v without blocking. It fails with ErrClosed only when the
// receiving half has been closed; the value is then not enqueued and
// remains with the caller.
func (s *Sender[T]) Send(v T) error {
	ch := s.ch
	ch.cond.L.Lock()
	defer ch.cond.L.Unlock()
	if ch.closed {
		return ErrClosed
	}
	ch.values = append(ch.values, v)
	ch.cond.Broadcast()
	return nil
}

// Receiver is the consuming half of the channel.
type Receiver[T any] struct {
	ch *channel[T]
}

// Recv blocks until a value is available or the channel is closed and
// fully drained. Values buffered before Close are still delivered, in
// order; false means closed and empty.
func (r *Receiver[T]) Recv() (T, bool) {
	ch := r.ch
	ch.cond.L.Lock()
	defer ch.cond.L.Unlock()
	for len(ch.values) == 0 && !ch.closed {
		ch.cond.Wait()
	}
	if len(ch.values) == 0 {
		var zero T
		return zero, false
	}
	return ch.pop(), true
}

// TryRecv returns the next buffered value without blocking.
func (r *Receiver[T]) TryRecv() (T, bool) {
	ch := r.ch
	ch.cond.L.Lock()
	defer ch.cond.L.Unlock()
	if len(ch.values) == 0 {
		var zero T
		return zero, false
	}
	return ch.pop(), true
}

// Close rejects further sends and wakes a blocked Recv. Values already
// buffered remain receivable. Close is idempotent.
func (r *Receiver[T]) Close() {
	ch := r.ch
	ch.cond.L.Lock()
	ch.closed = true
	ch.cond.L.Unlock()
	ch.cond.Broadcast()
}
