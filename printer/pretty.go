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

package printer

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/canopytrace/canopy/tree"
)

// Pretty renders a tree as indented human-readable text, one line per
// node: a level column, the tag icon and label for events, and the
// duration with root-relative percentages for spans.
type Pretty struct{}

func (Pretty) Format(t tree.Tree) ([]byte, error) {
	var sb strings.Builder
	rootTotal := time.Duration(0)
	if span, err := t.Span(); err == nil {
		rootTotal = span.Total()
	}
	prettyTree(&sb, t, 0, rootTotal)
	return []byte(sb.String()), nil
}

func prettyTree(sb *strings.Builder, t tree.Tree, depth int, rootTotal time.Duration) {
	if event, err := t.Event(); err == nil {
		prettyEvent(sb, event, depth)
		return
	}
	span, err := t.Span()
	if err != nil {
		return
	}

	writeIndent(sb, span.Level(), depth)
	fmt.Fprintf(sb, "%s [ %s | ", span.Name(), formatDuration(span.Total()))
	if rootTotal > 0 {
		totalPct := 100 * float64(span.Total()) / float64(rootTotal)
		innerPct := 100 * float64(span.Inner()) / float64(rootTotal)
		if span.Inner() != span.Total() {
			fmt.Fprintf(sb, "%.3f%% / %.3f%%", innerPct, totalPct)
		} else {
			fmt.Fprintf(sb, "%.3f%%", totalPct)
		}
	} else {
		sb.WriteString("100.000%")
	}
	sb.WriteString(" ]")
	for _, f := range span.Fields() {
		fmt.Fprintf(sb, " | %s: %s", f.Key, f.Value)
	}
	sb.WriteByte('\n')

	for _, child := range span.Children() {
		prettyTree(sb, child, depth+1, rootTotal)
	}
}

func prettyEvent(sb *strings.Builder, event *tree.Event, depth int) {
	writeIndent(sb, event.Level(), depth)

	icon := levelIcon(event.Level())
	label := strings.ToLower(event.Level().String())
	if tag := event.Tag(); tag != nil {
		label = tag.String()
		if tag.Icon() != 0 {
			icon = tag.Icon()
		}
	}
	fmt.Fprintf(sb, "%c [%s]: %s", icon, label, event.Message())
	for _, f := range event.Fields() {
		fmt.Fprintf(sb, " | %s: %s", f.Key, f.Value)
	}
	sb.WriteByte('\n')
}

func writeIndent(sb *strings.Builder, level slog.Level, depth int) {
	fmt.Fprintf(sb, "%-8s ", level.String())
	if depth > 0 {
		sb.WriteString(strings.Repeat("   ", depth-1))
		sb.WriteString("┕━ ")
	}
}

func levelIcon(level slog.Level) rune {
	switch {
	case level < slog.LevelDebug:
		return '📍'
	case level < slog.LevelInfo:
		return '🐛'
	case level < slog.LevelWarn:
		return '💬'
	case level < slog.LevelError:
		return '🚧'
	default:
		return '🚨'
	}
}

// formatDuration prints a duration scaled to the largest fitting unit
// with three significant digits, e.g. "26.0µs" or "1.50s".
func formatDuration(d time.Duration) string {
	ns := float64(d.Nanoseconds())
	for _, unit := range []struct {
		suffix string
		scale  float64
	}{
		{"s", 1e9},
		{"ms", 1e6},
		{"µs", 1e3},
	} {
		if ns >= unit.scale {
			v := ns / unit.scale
			switch {
			case v >= 100:
				return fmt.Sprintf("%.0f%s", v, unit.suffix)
			case v >= 10:
				return fmt.Sprintf("%.1f%s", v, unit.suffix)
			default:
				return fmt.Sprintf("%.2f%s", v, unit.suffix)
			}
		}
	}
	return fmt.Sprintf("%.0fns", ns)
}
