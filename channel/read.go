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

type readSender[T any] struct {
	ch *Channel[T]
}

func (s readSender[T]) Connect(r async.Receiver[T]) async.Operation {
	return &readOperation[T]{ch: s.ch, receiver: r}
}

type readOperation[T any] struct {
	ch       *Channel[T]
	receiver async.Receiver[T]
}

func (op *readOperation[T]) Start() {
	c := op.ch
	c.mu.Lock()

	if c.buf != nil {
		if v, ok := c.buf.Pop(); ok {
			var woken *writeWaiter[T]
			if len(c.writers) > 0 {
				woken = c.writers[0]
				c.writers = c.writers[1:]
				c.buf.Push(woken.value)
			}
			c.mu.Unlock()
			if woken != nil {
				woken.complete()
			}
			op.receiver.SetValue(v)
			return
		}
	}

	if c.closed {
		c.mu.Unlock()
		op.receiver.SetError(ErrClosed)
		return
	}

	if len(c.writers) > 0 {
		w := c.writers[0]
		c.writers = c.writers[1:]
		c.mu.Unlock()
		w.complete()
		op.receiver.SetValue(w.value)
		return
	}

	c.readers = append(c.readers, &readWaiter[T]{receiver: op.receiver})
	c.mu.Unlock()
}
