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

package async

import "errors"

// ErrCancelled is returned by Wait when the underlying operation
// completed via SetDone rather than SetValue or SetError — the Go
// sentinel-error substitution for the teacher-language's cancellation
// exception.
var ErrCancelled = errors.New("async: operation cancelled")

// Wait connects s to an internal receiver, starts it, and blocks the
// calling goroutine until it completes, returning the value, the error
// (if SetError was called), or ErrCancelled (if SetDone was called).
// It is the synchronous bridge from a Sender chain into ordinary Go
// code such as a test or main.
func Wait[T any](s Sender[T]) (T, error) {
	r := &waitReceiver[T]{notify: make(chan struct{}, 1)}
	op := s.Connect(r)
	op.Start()
	<-r.notify
	return r.val, r.err
}

// waitReceiver uses a single-slot buffered channel as its notification,
// the same "one slot, one send" idiom the teacher's io_uring bindings
// use for cross-goroutine completion signaling.
type waitReceiver[T any] struct {
	notify chan struct{}
	val    T
	err    error
}

func (r *waitReceiver[T]) SetValue(v T) {
	r.val = v
	r.notify <- struct{}{}
}

func (r *waitReceiver[T]) SetError(err error) {
	r.err = err
	r.notify <- struct{}{}
}

func (r *waitReceiver[T]) SetDone() {
	r.err = ErrCancelled
	r.notify <- struct{}{}
}
