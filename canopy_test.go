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
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canopytrace/canopy/processor"
	"github.com/canopytrace/canopy/tree"
)

// recording accumulates every tree it is offered, optionally failing.
// Safe for use as a consumer-side processor: the pipeline invokes it from
// a single task.
type recording struct {
	mu    sync.Mutex
	trees []tree.Tree
	fail  error
}

func (r *recording) Process(_ context.Context, t tree.Tree) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return processor.NewReport(t, r.fail)
	}
	r.trees = append(r.trees, t)
	return nil
}

func (r *recording) all() []tree.Tree {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.trees
}

func countFailures(t *testing.T) *int {
	t.Helper()
	count := new(int)
	SetFailureHook(func(error) { *count++ })
	t.Cleanup(ResetFailureHook)
	return count
}

func TestProcessModeNoLossUnderGracefulShutdown(t *testing.T) {
	const n = 100

	sink := &recording{}
	err := New().
		SetGlobal(false).
		MapReceiver(func(processor.Processor) processor.Processor { return sink }).
		Build().
		On(context.Background(), func(ctx context.Context) error {
			for i := 0; i < n; i++ {
				Info(ctx, fmt.Sprintf("tree %d", i))
			}
			return nil
		})
	require.NoError(t, err)

	trees := sink.all()
	require.Len(t, trees, n, "every tree enqueued before shutdown must be processed")
	for i, tr := range trees {
		event, err := tr.Event()
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("tree %d", i), event.Message(), "single-producer order must hold")
	}
}

func TestProcessModePerTreeFailureIsIsolated(t *testing.T) {
	failures := countFailures(t)

	err := New().
		SetGlobal(false).
		MapReceiver(func(processor.Processor) processor.Processor {
			return &recording{fail: errors.New("sink down")}
		}).
		Build().
		On(context.Background(), func(ctx context.Context) error {
			Info(ctx, "one")
			Info(ctx, "two")
			Info(ctx, "three")
			return nil
		})
	require.NoError(t, err)

	assert.Equal(t, 3, *failures, "each failed tree is reported individually")
}

func TestProcessModeDiscardFallbackSuppressesFailures(t *testing.T) {
	failures := countFailures(t)

	err := New().
		SetGlobal(false).
		MapReceiver(func(processor.Processor) processor.Processor {
			return processor.WithSinkFallback(&recording{fail: errors.New("sink down")})
		}).
		Build().
		On(context.Background(), func(ctx context.Context) error {
			Info(ctx, "one")
			Info(ctx, "two")
			Info(ctx, "three")
			return nil
		})
	require.NoError(t, err)

	assert.Zero(t, *failures, "the discard fallback absorbs every failure")
}

func TestProcessModeReturnsScopeError(t *testing.T) {
	wantErr := errors.New("scope failed")

	err := New().
		SetGlobal(false).
		MapReceiver(func(processor.Processor) processor.Processor { return processor.Sink{} }).
		Build().
		On(context.Background(), func(ctx context.Context) error {
			Info(ctx, "still delivered")
			return wantErr
		})

	assert.ErrorIs(t, err, wantErr)
}

func TestProcessModeRunTwicePanics(t *testing.T) {
	p := New().
		SetGlobal(false).
		MapReceiver(func(processor.Processor) processor.Processor { return processor.Sink{} }).
		Build()

	require.NoError(t, p.On(context.Background(), func(context.Context) error { return nil }))
	assert.Panics(t, func() {
		_ = p.On(context.Background(), func(context.Context) error { return nil })
	})
}

func TestCaptureCompletenessAndOrdering(t *testing.T) {
	trees, err := Capture().
		Build().
		On(context.Background(), func(ctx context.Context) error {
			Info(ctx, "Hello, world!")
			return InfoSpan(ctx, "my_span", func(ctx context.Context) error {
				Info(ctx, "Relevant information")
				return nil
			})
		})
	require.NoError(t, err)
	require.Len(t, trees, 2)

	// The event-only tree comes first.
	hello, err := trees[0].Event()
	require.NoError(t, err)
	assert.Equal(t, "Hello, world!", hello.Message())

	span, err := trees[1].Span()
	require.NoError(t, err)
	assert.Equal(t, "my_span", span.Name())
	require.Len(t, span.Children(), 1)

	info, err := span.Children()[0].Event()
	require.NoError(t, err)
	assert.Equal(t, "Relevant information", info.Message())
}

func TestCaptureNestedSpans(t *testing.T) {
	trees, err := Capture().
		Build().
		On(context.Background(), func(ctx context.Context) error {
			return InfoSpan(ctx, "outer", func(ctx context.Context) error {
				Debug(ctx, "before")
				return Span(ctx, slog.LevelWarn, "inner", func(ctx context.Context) error {
					Error(ctx, "inside")
					return nil
				})
			})
		})
	require.NoError(t, err)
	require.Len(t, trees, 1)

	outer, err := trees[0].Span()
	require.NoError(t, err)
	require.Len(t, outer.Children(), 2)

	before, err := outer.Children()[0].Event()
	require.NoError(t, err)
	assert.Equal(t, "before", before.Message())

	inner, err := outer.Children()[1].Span()
	require.NoError(t, err)
	assert.Equal(t, "inner", inner.Name())
	assert.Equal(t, slog.LevelWarn, inner.Level())
	require.Len(t, inner.Children(), 1)
}

func TestCaptureConcurrentProducers(t *testing.T) {
	const producers = 4
	const perProducer = 25

	trees, err := Capture().
		Build().
		On(context.Background(), func(ctx context.Context) error {
			var wg sync.WaitGroup
			for p := 0; p < producers; p++ {
				p := p
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < perProducer; i++ {
						Info(ctx, fmt.Sprintf("producer %d tree %d", p, i))
					}
				}()
			}
			wg.Wait()
			return nil
		})
	require.NoError(t, err)

	// Interleaving across producers is unspecified; totals are not.
	assert.Len(t, trees, producers*perProducer)
}

func TestCaptureScopedPipelinesAreIsolated(t *testing.T) {
	var wg sync.WaitGroup
	results := make([][]tree.Tree, 2)

	for i := 0; i < 2; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			trees, err := Capture().
				Build().
				On(context.Background(), func(ctx context.Context) error {
					Info(ctx, fmt.Sprintf("pipeline %d", i))
					return nil
				})
			assert.NoError(t, err)
			results[i] = trees
		}()
	}
	wg.Wait()

	for i := 0; i < 2; i++ {
		require.Len(t, results[i], 1)
		event, err := results[i][0].Event()
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("pipeline %d", i), event.Message())
	}
}

func TestCaptureRunTwicePanics(t *testing.T) {
	p := Capture().Build()

	_, err := p.On(context.Background(), func(context.Context) error { return nil })
	require.NoError(t, err)
	assert.Panics(t, func() {
		_, _ = p.On(context.Background(), func(context.Context) error { return nil })
	})
}

func TestGlobalActivationTwicePanics(t *testing.T) {
	t.Cleanup(resetGlobalCollector)

	_, err := Capture().
		SetGlobal(true).
		Build().
		On(context.Background(), func(ctx context.Context) error {
			// Global activation collects from contexts that never saw
			// the pipeline.
			Info(context.Background(), "via global")
			return nil
		})
	require.NoError(t, err)

	assert.Panics(t, func() {
		_, _ = Capture().
			SetGlobal(true).
			Build().
			On(context.Background(), func(context.Context) error { return nil })
	})
}

func TestGlobalActivationCollects(t *testing.T) {
	t.Cleanup(resetGlobalCollector)

	trees, err := Capture().
		SetGlobal(true).
		Build().
		On(context.Background(), func(context.Context) error {
			Info(context.Background(), "no scoped context needed")
			return nil
		})
	require.NoError(t, err)
	require.Len(t, trees, 1)
}

func TestSendAfterShutdownReportsTransportClosed(t *testing.T) {
	var hookErr error
	SetFailureHook(func(err error) { hookErr = err })
	t.Cleanup(ResetFailureHook)

	var escaped context.Context
	_, err := Capture().
		Build().
		On(context.Background(), func(ctx context.Context) error {
			escaped = ctx
			return nil
		})
	require.NoError(t, err)

	// The scope is over and the transport is closed; a late producer
	// gets a transport-closed report through the failure hook instead
	// of a panic or a silent drop.
	Info(escaped, "too late")

	require.Error(t, hookErr)
	assert.ErrorIs(t, hookErr, ErrTransportClosed)

	var report *processor.Report
	require.ErrorAs(t, hookErr, &report)
	got, ok := report.Tree()
	require.True(t, ok, "a transport-closed report is recoverable")
	event, eventErr := got.Event()
	require.NoError(t, eventErr)
	assert.Equal(t, "too late", event.Message())
}

func TestLateProducerRecoversViaFallback(t *testing.T) {
	rescue := &recording{}

	var escaped context.Context
	_, err := Capture().
		MapSender(func(p processor.Processor) processor.Processor {
			return processor.WithFallback(p, rescue)
		}).
		Build().
		On(context.Background(), func(ctx context.Context) error {
			escaped = ctx
			return nil
		})
	require.NoError(t, err)

	Info(escaped, "rescued")

	require.Len(t, rescue.all(), 1)
	event, err := rescue.all()[0].Event()
	require.NoError(t, err)
	assert.Equal(t, "rescued", event.Message())
}

func TestChanSenderLostReport(t *testing.T) {
	ch := make(chan tree.Tree)
	close(ch)

	err := ChanSender{C: ch}.Process(context.Background(), tree.FromEvent(
		tree.NewEvent(slog.LevelInfo, "gone", nil, nil),
	))

	var report *processor.Report
	require.ErrorAs(t, err, &report)
	assert.True(t, report.Lost())
	assert.ErrorIs(t, err, ErrTransportClosed)
}

func TestChanSenderDelivers(t *testing.T) {
	ch := make(chan tree.Tree, 1)

	require.NoError(t, ChanSender{C: ch}.Process(context.Background(), tree.FromEvent(
		tree.NewEvent(slog.LevelInfo, "delivered", nil, nil),
	)))

	event, err := (<-ch).Event()
	require.NoError(t, err)
	assert.Equal(t, "delivered", event.Message())
}

func TestMinLevelFiltersEventsAndSpans(t *testing.T) {
	trees, err := Capture().
		Build().
		WithMinLevel(slog.LevelWarn).
		On(context.Background(), func(ctx context.Context) error {
			Info(ctx, "dropped")
			Warn(ctx, "kept")
			return InfoSpan(ctx, "dropped_span", func(ctx context.Context) error {
				// The filtered span leaves its contents at the top level.
				Error(ctx, "still kept")
				return nil
			})
		})
	require.NoError(t, err)
	require.Len(t, trees, 2)

	first, err := trees[0].Event()
	require.NoError(t, err)
	assert.Equal(t, "kept", first.Message())

	second, err := trees[1].Event()
	require.NoError(t, err)
	assert.Equal(t, "still kept", second.Message())
}

func TestTagParserAppliesTags(t *testing.T) {
	parser := func(level slog.Level, _ string, _ []tree.Field) (tree.Tag, bool) {
		if level < slog.LevelError {
			return tree.Tag{}, false
		}
		return tree.NewTag("alert", "error", '🚨'), true
	}

	trees, err := Capture().
		SetTag(parser).
		Build().
		On(context.Background(), func(ctx context.Context) error {
			Info(ctx, "untagged")
			Error(ctx, "tagged")
			return nil
		})
	require.NoError(t, err)
	require.Len(t, trees, 2)

	untagged, err := trees[0].Event()
	require.NoError(t, err)
	assert.Nil(t, untagged.Tag())

	tagged, err := trees[1].Event()
	require.NoError(t, err)
	require.NotNil(t, tagged.Tag())
	assert.Equal(t, "alert.error", tagged.Tag().String())
}

func TestDisableViaEnv(t *testing.T) {
	t.Setenv("CANOPY_DISABLE", "1")

	trees, err := Capture().
		Build().
		On(context.Background(), func(ctx context.Context) error {
			Info(ctx, "invisible")
			return InfoSpan(ctx, "invisible_span", func(context.Context) error { return nil })
		})
	require.NoError(t, err)
	assert.Empty(t, trees)
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv("CANOPY_LEVEL", "ERROR")

	trees, err := Capture().
		Build().
		On(context.Background(), func(ctx context.Context) error {
			Warn(ctx, "dropped")
			Error(ctx, "kept")
			return nil
		})
	require.NoError(t, err)
	require.Len(t, trees, 1)
}
