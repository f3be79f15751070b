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

// Package processor defines the capability contract for consuming
// completed trace trees, and the fallback algebra for composing
// processors into failure-recovery chains.
package processor

import (
	"context"

	"github.com/canopytrace/canopy/tree"
)

// Processor consumes one completed trace tree. This can mean many things:
// writing to a destination, forwarding to a channel, storing in memory,
// or discarding.
//
// A failed attempt must be reported as a *Report, never silently
// swallowed. Implementations are invoked from a single consumer at a time
// for a given pipeline, so they do not need internal locking to satisfy
// this contract alone. They must return in bounded time: a processor that
// hangs stalls the entire drain, including shutdown.
type Processor interface {
	Process(ctx context.Context, t tree.Tree) error
}

// Func adapts a plain function into a Processor.
type Func func(ctx context.Context, t tree.Tree) error

func (f Func) Process(ctx context.Context, t tree.Tree) error { return f(ctx, t) }

// Sink is a Processor that discards every tree it receives.
//
// This processor cannot fail. Discarding is an explicit opt-in, not a
// default.
type Sink struct{}

func (Sink) Process(context.Context, tree.Tree) error { return nil }
