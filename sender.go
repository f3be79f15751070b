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

	"github.com/canopytrace/canopy/mpsc"
	"github.com/canopytrace/canopy/printer"
	"github.com/canopytrace/canopy/processor"
	"github.com/canopytrace/canopy/tree"
)

// ErrTransportClosed is the cause carried by reports for trees that could
// not be enqueued because the pipeline transport was already shut down.
var ErrTransportClosed = errors.New("canopy: transport closed")

// TreeSender is the producer-side processor: "process" means "enqueue
// into the pipeline transport". It never blocks and fails only after the
// receiving half has been closed, returning a report that carries the
// tree so a fallback can bypass the transport.
//
// TreeSender values are created by New and Capture; MapSender callbacks
// must wrap the sender they receive rather than replace it, otherwise no
// tree ever reaches the pipeline.
type TreeSender struct {
	tx *mpsc.Sender[tree.Tree]
}

func (s TreeSender) Process(_ context.Context, t tree.Tree) error {
	if err := s.tx.Send(t); err != nil {
		return processor.NewReport(t, ErrTransportClosed)
	}
	return nil
}

// ChanSender forwards trees into a native Go channel, bridging a pipeline
// into an existing consumer. The send blocks until the consumer accepts.
//
// If the consumer closed the channel, the failure is only detected after
// ownership of the tree has transferred, so the report cannot return it.
// This is the pipeline's one lossy path; fallback chains propagate it
// without retrying.
type ChanSender struct {
	C chan<- tree.Tree
}

func (s ChanSender) Process(_ context.Context, t tree.Tree) (err error) {
	defer func() {
		if recover() != nil {
			err = processor.NewLostReport(ErrTransportClosed)
		}
	}()
	s.C <- t
	return nil
}

// WithStdoutFallback returns a processor that resorts to pretty-printing
// to stdout when p fails.
func WithStdoutFallback(p processor.Processor) processor.Processor {
	return processor.WithFallback(p, printer.NewStdout())
}

// WithStderrFallback returns a processor that resorts to pretty-printing
// to stderr when p fails.
func WithStderrFallback(p processor.Processor) processor.Processor {
	return processor.WithFallback(p, printer.NewStderr())
}
