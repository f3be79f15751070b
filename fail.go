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
	"sync/atomic"
)

// FailureHook receives the error of a processing attempt whose full
// fallback chain still failed. It is the only unrecoverable-failure
// surface of the pipeline; it must not panic or block for long.
type FailureHook func(error)

var failureHook atomic.Pointer[FailureHook]

func init() {
	ResetFailureHook()
}

// SetFailureHook sets the process-wide failure hook.
// A nil value is ignored.
func SetFailureHook(hook FailureHook) {
	if hook != nil {
		failureHook.Store(&hook)
	}
}

// ResetFailureHook restores the default hook, which logs the failure.
func ResetFailureHook() {
	SetFailureHook(func(err error) {
		Logger().Error("Failed to process tree", slog.String("error", err.Error()))
	})
}

// reportFailure routes a terminal processing failure to the hook. One
// tree's failure never halts the pipeline.
func reportFailure(err error) {
	(*failureHook.Load())(err)
}
