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

package canopy

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/canopytrace/canopy/processor"
	"github.com/canopytrace/canopy/tree"
)

// Field builds a key-value attribute for an event or span.
func Field(key, value string) tree.Field {
	return tree.Field{Key: key, Value: value}
}

// TagParser maps an event's raw attributes to a routing tag. It is
// applied to every recorded event; returning false leaves the event
// untagged.
type TagParser func(level slog.Level, message string, fields []tree.Field) (tree.Tag, bool)

// Collector builds trace trees from instrumented code and hands each
// completed tree to the producer-side processor. It is configured by the
// pipeline builder and activated either process-wide or per context.
type Collector struct {
	sink     processor.Processor
	tag      TagParser
	minLevel slog.Level
	disabled bool
}

func (c *Collector) enabled(level slog.Level) bool {
	return !c.disabled && level >= c.minLevel
}

// submit hands a completed tree to the producer-side processor. A failure
// of the full producer-side chain goes to the failure hook; it never
// propagates into the instrumented code path.
func (c *Collector) submit(ctx context.Context, t tree.Tree) {
	if err := c.sink.Process(ctx, t); err != nil {
		reportFailure(err)
	}
}

// openSpan accumulates the children of a span that is still open. The
// lock only matters when the instrumented scope shares its context across
// goroutines.
type openSpan struct {
	mu       sync.Mutex
	started  time.Time
	children []tree.Tree
}

func (s *openSpan) addChild(t tree.Tree) {
	s.mu.Lock()
	s.children = append(s.children, t)
	s.mu.Unlock()
}

// Event records a standalone event. Inside an open span it attaches to
// that span; at the top level it completes an event-only tree and submits
// it immediately.
func Event(ctx context.Context, level slog.Level, message string, fields ...tree.Field) {
	c := collectorFrom(ctx)
	if c == nil || !c.enabled(level) {
		return
	}
	var tg *tree.Tag
	if c.tag != nil {
		if parsed, ok := c.tag(level, message, fields); ok {
			tg = &parsed
		}
	}
	t := tree.FromEvent(tree.NewEvent(level, message, tg, fields))
	if span := openSpanFrom(ctx); span != nil {
		span.addChild(t)
		return
	}
	c.submit(ctx, t)
}

// Debug records an event at level DEBUG.
func Debug(ctx context.Context, message string, fields ...tree.Field) {
	Event(ctx, slog.LevelDebug, message, fields...)
}

// Info records an event at level INFO.
func Info(ctx context.Context, message string, fields ...tree.Field) {
	Event(ctx, slog.LevelInfo, message, fields...)
}

// Warn records an event at level WARN.
func Warn(ctx context.Context, message string, fields ...tree.Field) {
	Event(ctx, slog.LevelWarn, message, fields...)
}

// Error records an event at level ERROR.
func Error(ctx context.Context, message string, fields ...tree.Field) {
	Event(ctx, slog.LevelError, message, fields...)
}

// Span runs fn inside a traced scope. When the scope closes, the span and
// everything recorded inside it become immutable; a root span completes a
// tree and submits it, a nested span attaches to its parent.
//
// fn's error passes through untouched. If no collector is active, or the
// level is filtered out, fn simply runs uninstrumented.
func Span(
	ctx context.Context,
	level slog.Level,
	name string,
	fn func(context.Context) error,
	fields ...tree.Field,
) error {
	c := collectorFrom(ctx)
	if c == nil || !c.enabled(level) {
		return fn(ctx)
	}

	parent := openSpanFrom(ctx)
	span := &openSpan{started: time.Now()}
	err := fn(contextWithOpenSpan(ctx, span))
	total := time.Since(span.started)

	span.mu.Lock()
	children := span.children
	span.mu.Unlock()
	completed := tree.FromSpan(tree.NewSpan(level, name, span.started, total, children, fields))

	if parent != nil {
		parent.addChild(completed)
	} else {
		c.submit(ctx, completed)
	}
	return err
}

// InfoSpan runs fn inside a traced scope at level INFO.
func InfoSpan(ctx context.Context, name string, fn func(context.Context) error, fields ...tree.Field) error {
	return Span(ctx, slog.LevelInfo, name, fn, fields...)
}
