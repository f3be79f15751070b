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

// Package otelforward replays completed trace trees into an OpenTelemetry
// TracerProvider, so a canopy pipeline can feed whatever exporter the
// host application already ships with.
package otelforward

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/canopytrace/canopy/tree"
)

const scopeName = "github.com/canopytrace/canopy/otelforward"

// Processor forwards each tree as OpenTelemetry spans: spans keep their
// recorded start/end timestamps, events become span events, fields become
// attributes. Standalone events are wrapped in a zero-length span named
// "event".
type Processor struct {
	tracer trace.Tracer
}

// New returns a Processor forwarding into the given provider.
func New(tp trace.TracerProvider) *Processor {
	return &Processor{tracer: tp.Tracer(scopeName)}
}

func (p *Processor) Process(ctx context.Context, t tree.Tree) error {
	p.replay(ctx, t)
	return nil
}

func (p *Processor) replay(ctx context.Context, t tree.Tree) {
	if event, err := t.Event(); err == nil {
		_, span := p.tracer.Start(ctx, "event",
			trace.WithTimestamp(event.Timestamp()),
			trace.WithAttributes(eventAttributes(event)...),
		)
		span.AddEvent(event.Message(), trace.WithTimestamp(event.Timestamp()))
		span.End(trace.WithTimestamp(event.Timestamp()))
		return
	}

	node, err := t.Span()
	if err != nil {
		return
	}
	ctx, span := p.tracer.Start(ctx, node.Name(),
		trace.WithTimestamp(node.Timestamp()),
		trace.WithAttributes(spanAttributes(node)...),
	)
	for _, child := range node.Children() {
		if event, err := child.Event(); err == nil {
			span.AddEvent(event.Message(),
				trace.WithTimestamp(event.Timestamp()),
				trace.WithAttributes(eventAttributes(event)...),
			)
			continue
		}
		p.replay(ctx, child)
	}
	span.End(trace.WithTimestamp(node.Timestamp().Add(node.Total())))
}

func spanAttributes(s *tree.Span) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("canopy.id", s.UUID().String()),
		attribute.String("canopy.level", s.Level().String()),
	}
	return append(attrs, fieldAttributes(s.Fields())...)
}

func eventAttributes(e *tree.Event) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("canopy.id", e.UUID().String()),
		attribute.String("canopy.level", e.Level().String()),
	}
	if tag := e.Tag(); tag != nil {
		attrs = append(attrs, attribute.String("canopy.tag", tag.String()))
	}
	return append(attrs, fieldAttributes(e.Fields())...)
}

func fieldAttributes(fields []tree.Field) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, len(fields))
	for i, f := range fields {
		attrs[i] = attribute.String(f.Key, f.Value)
	}
	return attrs
}
