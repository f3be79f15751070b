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
	"github.com/vmihailenco/msgpack/v5"

	"github.com/canopytrace/canopy/tree"
)

// Msgpack renders each tree's export dictionary as one MessagePack
// document, for compact storage or forwarding to a byte sink.
type Msgpack struct{}

func (Msgpack) Format(t tree.Tree) ([]byte, error) {
	return msgpack.Marshal(t.Export())
}
