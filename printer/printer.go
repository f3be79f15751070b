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

// Package printer renders trace trees to byte destinations. A Printer is
// a processor pairing a Formatter with a writer, typically used as the
// consumer side of a pipeline or as a last-resort fallback.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/canopytrace/canopy/processor"
	"github.com/canopytrace/canopy/tree"
)

// Formatter renders one tree into bytes, including any trailing
// separator.
type Formatter interface {
	Format(t tree.Tree) ([]byte, error)
}

// MakeWriter returns the destination for one rendered tree. Returning a
// fresh value per call lets a Printer follow redirected streams in tests.
type MakeWriter func() io.Writer

// Printer renders each tree with its Formatter and writes it to the
// destination produced by MakeWriter.
//
// A Printer locks around the write, so one instance may be shared by
// several pipelines without interleaving output.
type Printer struct {
	formatter Formatter
	make      MakeWriter
	mu        sync.Mutex
}

// New returns a Printer with the given formatter and destination.
func New(formatter Formatter, make MakeWriter) *Printer {
	return &Printer{formatter: formatter, make: make}
}

// NewStdout returns a pretty-printing Printer writing to stdout.
func NewStdout() *Printer {
	return New(Pretty{}, func() io.Writer { return os.Stdout })
}

// NewStderr returns a pretty-printing Printer writing to stderr.
func NewStderr() *Printer {
	return New(Pretty{}, func() io.Writer { return os.Stderr })
}

// Process renders and writes one tree. Formatting and write failures are
// reported with the tree attached, so a fallback can retry it elsewhere.
func (p *Printer) Process(_ context.Context, t tree.Tree) error {
	b, err := p.formatter.Format(t)
	if err != nil {
		return processor.NewReport(t, fmt.Errorf("printer: format: %w", err))
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.make().Write(b); err != nil {
		return processor.NewReport(t, fmt.Errorf("printer: write: %w", err))
	}
	return nil
}
