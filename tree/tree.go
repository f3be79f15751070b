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

// Package tree defines the immutable trace trees that flow through a
// canopy pipeline. A Tree is produced once per completed scope and is
// never mutated after construction.
package tree

import "errors"

var (
	// ErrNotAnEvent is returned by Tree.Event when the tree holds a span.
	ErrNotAnEvent = errors.New("tree: not an event")

	// ErrNotASpan is returned by Tree.Span when the tree holds an event.
	ErrNotASpan = errors.New("tree: not a span")
)

// Tree is one completed unit of trace data: either a standalone event, or
// a closed span together with everything that was recorded inside it.
//
// Exactly one of the two kinds is set. Use Event or Span to inspect it.
type Tree struct {
	event *Event
	span  *Span
}

// FromEvent wraps a standalone event into a Tree.
func FromEvent(event Event) Tree {
	return Tree{event: &event}
}

// FromSpan wraps a closed span into a Tree.
func FromSpan(span Span) Tree {
	return Tree{span: &span}
}

// IsEvent reports whether the tree holds a standalone event.
func (t Tree) IsEvent() bool { return t.event != nil }

// IsSpan reports whether the tree holds a span.
func (t Tree) IsSpan() bool { return t.span != nil }

// Event returns the underlying event, or ErrNotAnEvent if the tree holds
// a span.
func (t Tree) Event() (*Event, error) {
	if t.event == nil {
		return nil, ErrNotAnEvent
	}
	return t.event, nil
}

// Span returns the underlying span, or ErrNotASpan if the tree holds an
// event.
func (t Tree) Span() (*Span, error) {
	if t.span == nil {
		return nil, ErrNotASpan
	}
	return t.span, nil
}

// Export returns the tree as a dictionary, suitable for serialization.
func (t Tree) Export() map[string]any {
	switch {
	case t.event != nil:
		return t.event.Export()
	case t.span != nil:
		return t.span.Export()
	default:
		return nil
	}
}
