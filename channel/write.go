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

package channel

import "github.com/cor3ntin/corio-go/async"

type writeSender[T any] struct {
	ch    *Channel[T]
	value T
}

func (s writeSender[T]) Connect(r async.Receiver[struct{}]) async.Operation {
	return &writeOperation[T]{ch: s.ch, value: s.value, receiver: r}
}

type writeOperation[T any] struct {
	ch       *Channel[T]
	value    T
	receiver async.Receiver[struct{}]
}

func (op *writeOperation[T]) Start() {
	c := op.ch
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		op.receiver.SetError(ErrClosed)
		return
	}

	if len(c.readers) > 0 {
		r := c.readers[0]
		c.readers = c.readers[1:]
		c.mu.Unlock()
		r.receiver.SetValue(op.value)
		op.receiver.SetValue(struct{}{})
		return
	}

	if c.buf != nil && !c.buf.Full() {
		c.buf.Push(op.value)
		c.mu.Unlock()
		op.receiver.SetValue(struct{}{})
		return
	}

	// Rendezvous with no reader waiting, or a full buffer: always
	// queue rather than error. A rendezvous write with no matching
	// reader yet is not a failure, it is the common case.
	c.writers = append(c.writers, &writeWaiter[T]{value: op.value, receiver: op.receiver})
	c.mu.Unlock()
}
