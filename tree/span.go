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

package tree

import (
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Span is a closed traced scope: a name, its timing, and the ordered
// events and sub-spans recorded while it was open.
type Span struct {
	uuid      uuid.UUID
	timestamp time.Time
	level     slog.Level
	name      string
	total     time.Duration
	inner     time.Duration
	children  []Tree
	fields    []Field
}

// NewSpan returns a completed span. The inner duration (time not spent in
// child spans) is derived from total and the children; the slices are
// cloned.
func NewSpan(
	level slog.Level,
	name string,
	timestamp time.Time,
	total time.Duration,
	children []Tree,
	fields []Field,
) Span {
	inner := total
	for _, child := range children {
		if sub, err := child.Span(); err == nil {
			inner -= sub.Total()
		}
	}
	if inner < 0 {
		inner = 0
	}
	return Span{
		uuid:      uuid.New(),
		timestamp: timestamp,
		level:     level,
		name:      name,
		total:     total,
		inner:     inner,
		children:  slices.Clone(children),
		fields:    slices.Clone(fields),
	}
}

func (s *Span) UUID() uuid.UUID      { return s.uuid }
func (s *Span) Timestamp() time.Time { return s.timestamp }
func (s *Span) Level() slog.Level    { return s.level }
func (s *Span) Name() string         { return s.name }

// Total is the wall-clock duration the span was open.
func (s *Span) Total() time.Duration { return s.total }

// Inner is the share of Total not attributed to child spans.
func (s *Span) Inner() time.Duration { return s.inner }

// Children returns the ordered events and sub-spans recorded inside the
// span. The returned slice must not be modified.
func (s *Span) Children() []Tree { return s.children }

// Fields returns the recorded attributes. The returned slice must not be
// modified.
func (s *Span) Fields() []Field { return s.fields }

// Export returns the span and its children as a dictionary, suitable for
// serialization.
func (s *Span) Export() map[string]any {
	children := make([]map[string]any, len(s.children))
	for i, child := range s.children {
		children[i] = child.Export()
	}
	return map[string]any{
		"object":    "tree.span",
		"id":        s.uuid.String(),
		"timestamp": s.timestamp.Format(time.RFC3339Nano),
		"level":     s.level.String(),
		"name":      s.name,
		"total_ns":  s.total.Nanoseconds(),
		"inner_ns":  s.inner.Nanoseconds(),
		"fields":    exportFields(s.fields),
		"children":  children,
	}
}
