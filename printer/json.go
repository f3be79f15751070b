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
	"encoding/json"

	"github.com/canopytrace/canopy/tree"
)

// JSON renders each tree's export dictionary as one JSON document per
// line.
type JSON struct {
	// Indent, when non-empty, switches to multi-line output with the
	// given indentation string.
	Indent string
}

func (f JSON) Format(t tree.Tree) ([]byte, error) {
	var (
		b   []byte
		err error
	)
	if f.Indent == "" {
		b, err = json.Marshal(t.Export())
	} else {
		b, err = json.MarshalIndent(t.Export(), "", f.Indent)
	}
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
