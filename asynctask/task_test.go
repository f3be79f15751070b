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

package asynctask

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskAwait(t *testing.T) {
	task := Create(context.Background(), func(context.Context) (int, error) {
		return 42, nil
	})

	res := task.Await()
	require.NoError(t, res.Error)
	assert.Equal(t, 42, res.Value)
	assert.True(t, task.IsDone())

	// Await may be called again after completion.
	assert.Equal(t, 42, task.Await().Value)
}

func TestTaskError(t *testing.T) {
	wantErr := errors.New("boom")
	task := CreateNoValue(context.Background(), func(context.Context) error {
		return wantErr
	})

	assert.ErrorIs(t, task.Await().Error, wantErr)
}

func TestTaskPanicIsCaptured(t *testing.T) {
	task := CreateNoValue(context.Background(), func(context.Context) error {
		panic("unexpected")
	})

	err := task.Await().Error
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task panicked")
}
