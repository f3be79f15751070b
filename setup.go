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
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

var globalCollector atomic.Pointer[Collector]

// setGlobalCollector installs the process-wide collector. Installing a
// second one is a configuration mistake, reported as an error so the
// caller can fail loudly at setup time.
func setGlobalCollector(c *Collector) error {
	if !globalCollector.CompareAndSwap(nil, c) {
		return errors.New("canopy: global collector already set")
	}
	return nil
}

// resetGlobalCollector exists for tests that exercise global activation.
func resetGlobalCollector() {
	globalCollector.Store(nil)
}

// disabledFromEnv reports whether collection is disabled via the
// CANOPY_DISABLE environment variable.
func disabledFromEnv() bool {
	v := strings.ToLower(os.Getenv("CANOPY_DISABLE"))
	return v == "true" || v == "1"
}

// levelFromEnv returns the default minimum level, taken from the
// CANOPY_LEVEL environment variable when set (e.g. "DEBUG", "WARN").
func levelFromEnv() slog.Level {
	v := os.Getenv("CANOPY_LEVEL")
	if v == "" {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		Logger().Warn("Invalid CANOPY_LEVEL value, ignoring", slog.String("value", v))
		return slog.LevelDebug
	}
	return level
}
