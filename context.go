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

import "context"

type collectorContextKey struct{}
type openSpanContextKey struct{}

// contextWithCollector binds a collector to the context for scoped
// activation. Scoped pipelines are isolated from each other, which is
// what concurrently running tests want.
func contextWithCollector(ctx context.Context, c *Collector) context.Context {
	return context.WithValue(ctx, collectorContextKey{}, c)
}

// collectorFrom resolves the active collector: a context-scoped one takes
// precedence over the process-wide default. Nil means collection is not
// active and instrumentation is a no-op.
func collectorFrom(ctx context.Context) *Collector {
	if c, ok := ctx.Value(collectorContextKey{}).(*Collector); ok {
		return c
	}
	return globalCollector.Load()
}

func contextWithOpenSpan(ctx context.Context, s *openSpan) context.Context {
	return context.WithValue(ctx, openSpanContextKey{}, s)
}

func openSpanFrom(ctx context.Context) *openSpan {
	s, _ := ctx.Value(openSpanContextKey{}).(*openSpan)
	return s
}
