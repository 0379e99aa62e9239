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

// Package channel implements a generic, async-algebra-native channel:
// Read and Write are senders, not blocking calls, so they compose with
// Then/Spawn/Wait like anything else in this module. Omitting a
// capacity gives a rendezvous channel (a write only completes once a
// matching read has claimed it); any capacity >= 1 gives a buffered
// channel backed by a fixed-size ring.
package channel

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/cor3ntin/corio-go/container/ring"
)

// ErrClosed is delivered to any pending or future Read/Write once the
// channel has been closed. A Read on a buffered channel still receives
// the values buffered before the close, and gets ErrClosed only after
// they have all been read.
var ErrClosed = errors.New("channel: closed")

// Channel is safe for concurrent use by multiple readers and writers.
// Pairing of pending readers/writers, and all buffer bookkeeping, is
// guarded by a single mutex — this is a few-writers/few-readers
// coordination point, not a lock-free hot path, so a mutex-guarded FIFO
// is the right tool here even though the rest of the module avoids
// locks where it can.
type Channel[T any] struct {
	mu      sync.Mutex
	buf     *ring.Ring[T] // nil means rendezvous (no buffering)
	closed  bool
	readers []*readWaiter[T]
	writers []*writeWaiter[T]

	readerRefs int32
	writerRefs int32
}

// NewChannel creates a Channel. With no capacity argument it is a
// rendezvous channel; capacity[0] >= 1 makes it buffered with that
// capacity.
func NewChannel[T any](capacity ...int) *Channel[T] {
	c := &Channel[T]{}
	if len(capacity) > 0 && capacity[0] > 0 {
		c.buf = ring.New[T](capacity[0])
	}
	return c
}

type readWaiter[T any] struct {
	receiver receiver[T]
}

func (w *readWaiter[T]) fail(err error) {
	w.receiver.SetError(err)
}

type writeWaiter[T any] struct {
	value    T
	receiver receiver[struct{}]
}

func (w *writeWaiter[T]) complete() {
	w.receiver.SetValue(struct{}{})
}

func (w *writeWaiter[T]) fail(err error) {
	w.receiver.SetError(err)
}

// receiver is a narrowed view of async.Receiver[T], declared locally so
// this file doesn't need to import async just to spell the type out
// inline above.
type receiver[T any] interface {
	SetValue(T)
	SetError(error)
	SetDone()
}

// Close closes the channel. It is idempotent. Every reader and writer
// still queued at the time of the call receives ErrClosed; every Write
// started afterwards does too, and so does every Read started once no
// buffered values remain.
func (c *Channel[T]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	readers := c.readers
	writers := c.writers
	c.readers = nil
	c.writers = nil
	c.mu.Unlock()

	for _, r := range readers {
		r.fail(ErrClosed)
	}
	for _, w := range writers {
		w.fail(ErrClosed)
	}
}

// addReaderRef, releaseReader, addWriterRef and releaseWriter implement
// the reference-counted handle lifecycle. The read side and write side
// are counted independently: the channel closes as soon as either count
// drops to zero, so a rendezvous channel with a live writer but no
// remaining readers closes immediately (and fails any write still
// queued) instead of waiting for the writer to go away too.
func (c *Channel[T]) addReaderRef() {
	atomic.AddInt32(&c.readerRefs, 1)
}

func (c *Channel[T]) releaseReader() {
	if atomic.AddInt32(&c.readerRefs, -1) == 0 {
		c.Close()
	}
}

func (c *Channel[T]) addWriterRef() {
	atomic.AddInt32(&c.writerRefs, 1)
}

func (c *Channel[T]) releaseWriter() {
	if atomic.AddInt32(&c.writerRefs, -1) == 0 {
		c.Close()
	}
}
