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
	"github.com/canopytrace/canopy/tree"
)

// Report is the failure outcome of a processing attempt. It carries the
// tree that could not be processed, so a fallback can retry it, and the
// cause of the failure.
//
// The one exception is a lost report: when a processor has already handed
// the tree to a downstream sink before the failure was detected (for
// example, a forwarding channel whose closure is noticed after the send),
// the tree cannot be returned and no fallback can retry it.
type Report struct {
	tree  *tree.Tree
	cause error
}

// NewReport returns a Report carrying the unprocessed tree.
func NewReport(t tree.Tree, cause error) *Report {
	return &Report{tree: &t, cause: cause}
}

// NewLostReport returns a Report for a tree that was handed downstream
// before the failure was detected and is therefore unrecoverable.
func NewLostReport(cause error) *Report {
	return &Report{cause: cause}
}

// Tree returns the unprocessed tree. The second result is false for lost
// reports.
func (r *Report) Tree() (tree.Tree, bool) {
	if r.tree == nil {
		return tree.Tree{}, false
	}
	return *r.tree, true
}

// Lost reports whether the tree was irrecoverably handed downstream.
func (r *Report) Lost() bool { return r.tree == nil }

func (r *Report) Error() string {
	if r.cause == nil {
		return "tree processing failed"
	}
	return "tree processing failed: " + r.cause.Error()
}

func (r *Report) Unwrap() error { return r.cause }
