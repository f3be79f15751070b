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
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/canopytrace/canopy/asynctask"
	"github.com/canopytrace/canopy/mpsc"
	"github.com/canopytrace/canopy/processor"
	"github.com/canopytrace/canopy/tree"
)

// Pipeline is a configured Process-mode pipeline. Its only remaining
// operation is On; a Pipeline runs at most once.
type Pipeline struct {
	collector *Collector
	receiver  processor.Processor
	rx        *mpsc.Receiver[tree.Tree]
	global    bool
	ran       atomic.Bool
}

// WithMinLevel drops events and spans below level before they are
// recorded.
func (p *Pipeline) WithMinLevel(level slog.Level) *Pipeline {
	p.collector.minLevel = level
	return p
}

// On runs fn under this pipeline's collector while a background task
// drains the transport and feeds each completed tree to the consumer-side
// processor.
//
// When fn returns, the transport intake is closed, every tree enqueued
// before that point is processed (success or reported failure), and the
// background task is joined — only then does On return, with fn's error.
// Running a pipeline twice panics.
func (p *Pipeline) On(ctx context.Context, fn func(context.Context) error) error {
	if !p.ran.CompareAndSwap(false, true) {
		panic("canopy: pipeline has already run")
	}

	rx := p.rx
	receiver := p.receiver
	// The worker must survive cancellation of the caller's context: the
	// shutdown drain is unconditional.
	workerCtx := context.WithoutCancel(ctx)
	worker := asynctask.CreateNoValue(workerCtx, func(ctx context.Context) error {
		for {
			t, ok := rx.Recv()
			if !ok {
				return nil
			}
			if err := receiver.Process(ctx, t); err != nil {
				reportFailure(err)
			}
		}
	})

	if p.global {
		if err := setGlobalCollector(p.collector); err != nil {
			panic(err)
		}
	} else {
		ctx = contextWithCollector(ctx, p.collector)
	}
	err := fn(ctx)

	// Shutdown: stop intake, let the worker drain the backlog, join it.
	rx.Close()
	if res := worker.Await(); res.Error != nil {
		panic(fmt.Errorf("canopy: failed to join the processing task: %w", res.Error))
	}
	return err
}

// CapturePipeline is a configured Capture-mode pipeline. Its only
// remaining operation is On; a CapturePipeline runs at most once.
type CapturePipeline struct {
	collector *Collector
	rx        *mpsc.Receiver[tree.Tree]
	global    bool
	ran       atomic.Bool
}

// WithMinLevel drops events and spans below level before they are
// recorded.
func (p *CapturePipeline) WithMinLevel(level slog.Level) *CapturePipeline {
	p.collector.minLevel = level
	return p
}

// On runs fn under this pipeline's collector, then closes the transport
// and returns every tree produced during the scope, in production order.
//
// No processor is invoked and no background task runs: the trees are the
// deliverable. fn's error is returned alongside whatever was captured.
// Running a pipeline twice panics.
func (p *CapturePipeline) On(ctx context.Context, fn func(context.Context) error) ([]tree.Tree, error) {
	if !p.ran.CompareAndSwap(false, true) {
		panic("canopy: pipeline has already run")
	}

	if p.global {
		if err := setGlobalCollector(p.collector); err != nil {
			panic(err)
		}
	} else {
		ctx = contextWithCollector(ctx, p.collector)
	}
	err := fn(ctx)

	p.rx.Close()
	var trees []tree.Tree
	for {
		t, ok := p.rx.TryRecv()
		if !ok {
			break
		}
		trees = append(trees, t)
	}
	return trees, err
}
