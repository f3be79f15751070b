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
	"log/slog"

	"github.com/canopytrace/canopy/mpsc"
	"github.com/canopytrace/canopy/printer"
	"github.com/canopytrace/canopy/processor"
	"github.com/canopytrace/canopy/tree"
)

// builderConfig is the state shared by the two builder variants. Process
// and Capture are distinct types from the first call onward, so the final
// run operation's signature is fixed before any scope runs.
type builderConfig struct {
	sender   processor.Processor
	rx       *mpsc.Receiver[tree.Tree]
	tag      TagParser
	global   bool
	minLevel slog.Level
	disabled bool
}

func newBuilderConfig(global bool) builderConfig {
	tx, rx := mpsc.New[tree.Tree]()
	return builderConfig{
		sender:   TreeSender{tx: tx},
		rx:       rx,
		global:   global,
		minLevel: levelFromEnv(),
		disabled: disabledFromEnv(),
	}
}

func (cfg *builderConfig) collector() *Collector {
	return &Collector{
		sink:     cfg.sender,
		tag:      cfg.tag,
		minLevel: cfg.minLevel,
		disabled: cfg.disabled,
	}
}

// New returns a Builder for a pipeline that sends completed trees to a
// background processing task.
//
// New defaults to global activation, which is required to collect trees
// from code that does not thread the pipeline's context, but prevents any
// further global pipeline afterwards. Disable it with SetGlobal.
func New() *Builder {
	return &Builder{
		cfg:      newBuilderConfig(true),
		receiver: printer.NewStdout(),
	}
}

// Capture returns a CaptureBuilder for a pipeline that stores completed
// trees and returns them when the scope ends.
//
// Capture defaults to scoped activation, which keeps concurrently running
// unit tests isolated, but only collects trees from code using the
// context passed to the scope. Enable global activation with SetGlobal.
func Capture() *CaptureBuilder {
	return &CaptureBuilder{
		cfg: newBuilderConfig(false),
	}
}

// Builder configures a Process-mode pipeline. Each method returns the
// builder for chaining; Build moves on to the run handle.
type Builder struct {
	cfg      builderConfig
	receiver processor.Processor
}

// MapSender replaces the producer-side processor with a wrapping of the
// current one, typically to add fallbacks:
//
//	canopy.New().MapSender(canopy.WithStderrFallback)
//
// The returned processor must wrap the one passed in; a processor that
// drops the original sender disconnects the pipeline.
func (b *Builder) MapSender(f func(processor.Processor) processor.Processor) *Builder {
	b.cfg.sender = f(b.cfg.sender)
	return b
}

// MapReceiver replaces the consumer-side processor with a derivation of
// the current one (a pretty printer to stdout by default):
//
//	canopy.New().MapReceiver(func(processor.Processor) processor.Processor {
//		return printer.New(printer.JSON{}, logFile)
//	})
func (b *Builder) MapReceiver(f func(processor.Processor) processor.Processor) *Builder {
	b.receiver = f(b.receiver)
	return b
}

// SetTag sets the tag parser applied to every recorded event.
func (b *Builder) SetTag(tag TagParser) *Builder {
	b.cfg.tag = tag
	return b
}

// SetGlobal sets whether the pipeline's collector is installed
// process-wide for the duration of the run.
func (b *Builder) SetGlobal(global bool) *Builder {
	b.cfg.global = global
	return b
}

// Build finishes configuration and returns the pipeline's run handle.
func (b *Builder) Build() *Pipeline {
	return &Pipeline{
		collector: b.cfg.collector(),
		receiver:  b.receiver,
		rx:        b.cfg.rx,
		global:    b.cfg.global,
	}
}

// CaptureBuilder configures a Capture-mode pipeline. No consumer-side
// processor exists in this mode; the deliverable is the raw sequence of
// trees.
type CaptureBuilder struct {
	cfg builderConfig
}

// MapSender replaces the producer-side processor with a wrapping of the
// current one. See Builder.MapSender.
func (b *CaptureBuilder) MapSender(f func(processor.Processor) processor.Processor) *CaptureBuilder {
	b.cfg.sender = f(b.cfg.sender)
	return b
}

// SetTag sets the tag parser applied to every recorded event.
func (b *CaptureBuilder) SetTag(tag TagParser) *CaptureBuilder {
	b.cfg.tag = tag
	return b
}

// SetGlobal sets whether the pipeline's collector is installed
// process-wide for the duration of the run.
func (b *CaptureBuilder) SetGlobal(global bool) *CaptureBuilder {
	b.cfg.global = global
	return b
}

// Build finishes configuration and returns the pipeline's run handle.
func (b *CaptureBuilder) Build() *CapturePipeline {
	return &CapturePipeline{
		collector: b.cfg.collector(),
		rx:        b.cfg.rx,
		global:    b.cfg.global,
	}
}
