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

// Field is a single key/value attribute recorded on an event or a span.
type Field struct {
	Key   string
	Value string
}

// Tag is a routing label attached to an event by a tag parser, carrying an
// optional prefix and a display icon.
type Tag struct {
	prefix  string
	message string
	icon    rune
}

// NewTag returns a Tag. An empty prefix is allowed; a zero icon falls back
// to the level icon at rendering time.
func NewTag(prefix, message string, icon rune) Tag {
	return Tag{prefix: prefix, message: message, icon: icon}
}

func (t Tag) Prefix() string  { return t.prefix }
func (t Tag) Message() string { return t.message }
func (t Tag) Icon() rune      { return t.icon }

// String returns the tag in "prefix.message" form, or just the message
// when no prefix is set.
func (t Tag) String() string {
	if t.prefix == "" {
		return t.message
	}
	return t.prefix + "." + t.message
}

// Event is a single log event. It either stands alone as an event-only
// tree or is attached to the span that was open when it was recorded.
type Event struct {
	uuid      uuid.UUID
	timestamp time.Time
	level     slog.Level
	message   string
	tag       *Tag
	fields    []Field
}

// NewEvent returns a completed event stamped with a fresh UUID and the
// current time. The fields slice is cloned.
func NewEvent(level slog.Level, message string, tag *Tag, fields []Field) Event {
	return Event{
		uuid:      uuid.New(),
		timestamp: time.Now(),
		level:     level,
		message:   message,
		tag:       tag,
		fields:    slices.Clone(fields),
	}
}

func (e *Event) UUID() uuid.UUID      { return e.uuid }
func (e *Event) Timestamp() time.Time { return e.timestamp }
func (e *Event) Level() slog.Level    { return e.level }
func (e *Event) Message() string      { return e.message }

// Tag returns the routing tag, or nil if no tag parser matched.
func (e *Event) Tag() *Tag { return e.tag }

// Fields returns the recorded attributes. The returned slice must not be
// modified.
func (e *Event) Fields() []Field { return e.fields }

// Export returns the event as a dictionary, suitable for serialization.
func (e *Event) Export() map[string]any {
	var tag any
	if e.tag != nil {
		tag = e.tag.String()
	}
	return map[string]any{
		"object":    "tree.event",
		"id":        e.uuid.String(),
		"timestamp": e.timestamp.Format(time.RFC3339Nano),
		"level":     e.level.String(),
		"message":   e.message,
		"tag":       tag,
		"fields":    exportFields(e.fields),
	}
}

func exportFields(fields []Field) map[string]any {
	if len(fields) == 0 {
		return nil
	}
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		out[f.Key] = f.Value
	}
	return out
}
