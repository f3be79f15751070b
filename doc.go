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

// Package canopy is an asynchronous delivery-and-processing pipeline for
// hierarchical trace trees.
//
// Instrumented code records events and spans through a context-bound
// collector; each closed root scope becomes an immutable tree that is
// enqueued, without blocking the producing path, into an unbounded
// transport drained by a background task. Every tree produced during a
// monitored scope is processed before control returns to the caller, even
// across graceful shutdown.
//
// # Nonblocking processing with New
//
// New configures a pipeline whose consumer side runs on a background
// task. Trees are handed to the configured processor as they arrive; when
// the scope ends the transport is drained before On returns.
//
//	err := canopy.New().
//		MapSender(canopy.WithStderrFallback).
//		Build().
//		On(ctx, func(ctx context.Context) error {
//			canopy.Info(ctx, "Hello, world!")
//			return canopy.InfoSpan(ctx, "my_span", func(ctx context.Context) error {
//				canopy.Info(ctx, "Relevant information")
//				return nil
//			})
//		})
//
// Output:
//
//	INFO     💬 [info]: Hello, world!
//	INFO     my_span [ 26.0µs | 100.000% ]
//	INFO     ┕━ 💬 [info]: Relevant information
//
// # Inspecting trees in unit tests with Capture
//
// Capture configures a pipeline with no consumer: the trees themselves
// are returned, in production order, once the scope finishes.
//
//	trees, err := canopy.Capture().
//		Build().
//		On(ctx, func(ctx context.Context) error {
//			canopy.Info(ctx, "Hello, world!")
//			return nil
//		})
//
// Both builders follow the same two stages: configuration (MapSender,
// MapReceiver, SetTag, SetGlobal), then Build, after which the only
// remaining operation is On.
package canopy
