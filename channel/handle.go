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

// ReadHandle is a reference-counted handle granting read access to a
// Channel. Obtain one with Channel.Reader and Close it when done.
type ReadHandle[T any] struct {
	ch *Channel[T]
}

// Reader returns a new read handle on c.
func (c *Channel[T]) Reader() *ReadHandle[T] {
	c.addReaderRef()
	return &ReadHandle[T]{ch: c}
}

// Read returns a sender that completes with the next value written to
// the channel (or ErrClosed if the channel is or becomes closed before
// one arrives).
func (h *ReadHandle[T]) Read() async.Sender[T] {
	return readSender[T]{ch: h.ch}
}

// Close releases this handle's reference on the channel. Once every
// ReadHandle obtained from Reader has been closed, the channel closes
// even if write handles are still open.
func (h *ReadHandle[T]) Close() {
	h.ch.releaseReader()
}

// WriteHandle is a reference-counted handle granting write access to a
// Channel. Obtain one with Channel.Writer and Close it when done.
type WriteHandle[T any] struct {
	ch *Channel[T]
}

// Writer returns a new write handle on c.
func (c *Channel[T]) Writer() *WriteHandle[T] {
	c.addWriterRef()
	return &WriteHandle[T]{ch: c}
}

// Write returns a sender that completes once v has been accepted by
// the channel: immediately if a reader is already waiting or the
// buffer has room; otherwise it is queued and completes once a later
// Read claims it (rendezvous) or frees a buffer slot for it (full
// buffer).
func (h *WriteHandle[T]) Write(v T) async.Sender[struct{}] {
	return writeSender[T]{ch: h.ch, value: v}
}

// Close releases this handle's reference on the channel. Once every
// WriteHandle obtained from Writer has been closed, the channel closes
// even if read handles are still open.
func (h *WriteHandle[T]) Close() {
	h.ch.releaseWriter()
}
