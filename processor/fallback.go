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

package processor

import (
	"context"
	"errors"

	"github.com/canopytrace/canopy/tree"
)

// WithFallback returns a Processor that first attempts processing with
// primary and resorts to fallback on failure.
//
// A lost report from the primary is propagated unchanged: there is no
// tree left to retry. Chains compose; wrapping an already-composed
// processor yields an attempt chain evaluated left to right, stopping at
// the first success. A failed fallback is not retried further.
func WithFallback(primary, fallback Processor) Processor {
	return &withFallback{primary: primary, fallback: fallback}
}

// WithSinkFallback returns a Processor that silently discards the tree if
// primary fails to process it.
func WithSinkFallback(primary Processor) Processor {
	return WithFallback(primary, Sink{})
}

type withFallback struct {
	primary  Processor
	fallback Processor
}

func (p *withFallback) Process(ctx context.Context, t tree.Tree) error {
	err := p.primary.Process(ctx, t)
	if err == nil {
		return nil
	}
	var report *Report
	if errors.As(err, &report) && report.Lost() {
		return err
	}
	return p.fallback.Process(ctx, t)
}
