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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeKinds(t *testing.T) {
	eventTree := FromEvent(NewEvent(slog.LevelInfo, "hello", nil, nil))

	assert.True(t, eventTree.IsEvent())
	assert.False(t, eventTree.IsSpan())

	event, err := eventTree.Event()
	require.NoError(t, err)
	assert.Equal(t, "hello", event.Message())
	assert.Equal(t, slog.LevelInfo, event.Level())
	assert.NotZero(t, event.UUID())

	_, err = eventTree.Span()
	assert.ErrorIs(t, err, ErrNotASpan)

	spanTree := FromSpan(NewSpan(slog.LevelInfo, "work", time.Now(), time.Millisecond, nil, nil))

	assert.True(t, spanTree.IsSpan())
	_, err = spanTree.Event()
	assert.ErrorIs(t, err, ErrNotAnEvent)

	span, err := spanTree.Span()
	require.NoError(t, err)
	assert.Equal(t, "work", span.Name())
	assert.Equal(t, time.Millisecond, span.Total())
}

func TestSpanInnerDuration(t *testing.T) {
	start := time.Now()
	child := FromSpan(NewSpan(slog.LevelInfo, "child", start, 30*time.Millisecond, nil, nil))
	event := FromEvent(NewEvent(slog.LevelInfo, "note", nil, nil))

	root := NewSpan(slog.LevelInfo, "root", start, 100*time.Millisecond, []Tree{event, child}, nil)

	// Inner excludes child span time; events cost nothing.
	assert.Equal(t, 70*time.Millisecond, root.Inner())
	assert.Len(t, root.Children(), 2)
}

func TestSpanInnerNeverNegative(t *testing.T) {
	start := time.Now()
	child := FromSpan(NewSpan(slog.LevelInfo, "child", start, 2*time.Second, nil, nil))
	root := NewSpan(slog.LevelInfo, "root", start, time.Second, []Tree{child}, nil)

	assert.Equal(t, time.Duration(0), root.Inner())
}

func TestTagString(t *testing.T) {
	assert.Equal(t, "auth.login", NewTag("auth", "login", '🔒').String())
	assert.Equal(t, "login", NewTag("", "login", 0).String())
}

func TestEventExport(t *testing.T) {
	tag := NewTag("auth", "denied", '🔒')
	event := NewEvent(slog.LevelWarn, "access denied", &tag, []Field{{Key: "user", Value: "alice"}})

	export := event.Export()
	assert.Equal(t, "tree.event", export["object"])
	assert.Equal(t, "WARN", export["level"])
	assert.Equal(t, "access denied", export["message"])
	assert.Equal(t, "auth.denied", export["tag"])
	assert.Equal(t, map[string]any{"user": "alice"}, export["fields"])
}

func TestSpanExport(t *testing.T) {
	start := time.Now()
	child := FromEvent(NewEvent(slog.LevelInfo, "inside", nil, nil))
	span := NewSpan(slog.LevelInfo, "request", start, 5*time.Millisecond, []Tree{child}, nil)

	export := span.Export()
	assert.Equal(t, "tree.span", export["object"])
	assert.Equal(t, "request", export["name"])
	assert.Equal(t, int64(5_000_000), export["total_ns"])

	children, ok := export["children"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, children, 1)
	assert.Equal(t, "inside", children[0]["message"])
}
