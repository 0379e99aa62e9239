/*
 * Copyright 2025 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package reactor wraps internal/iouring into the spec's third layer: a
// single-goroutine event loop exposing schedule/read/cancel senders
// that any goroutine can Start() safely, submission coming in over an
// mpscqueue.
package reactor

// Config controls how a Reactor's ring is sized.
type Config struct {
	// Entries is the io_uring submission queue depth. Must be a power
	// of two; the kernel rounds up otherwise.
	Entries uint32
}

// DefaultConfig returns the reactor's default ring depth, matching the
// spec's stated default.
func DefaultConfig() *Config {
	return &Config{Entries: 128}
}
