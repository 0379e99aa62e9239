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

// Package mpscqueue implements a Vyukov-style lock-free multi-producer,
// single-consumer queue. Producers may call Push concurrently from any
// number of goroutines; Pop must only ever be called from one goroutine
// at a time (in this module, the reactor loop that owns the queue).
package mpscqueue

import "sync/atomic"

// Node must be embedded (by value, as a field) in whatever struct a
// caller wants to push through a Queue. Because the node travels with
// its owner rather than being separately allocated, Push and Pop never
// allocate.
type Node[T any] struct {
	next  atomic.Pointer[Node[T]]
	value T
}

// Queue is a lock-free MPSC queue using the stub-node technique: a
// permanent dummy node absorbs the otherwise-racy empty/non-empty
// transition between a producer's Push and the consumer's Pop.
type Queue[T any] struct {
	head atomic.Pointer[Node[T]] // producer-owned insertion point
	tail *Node[T]                // consumer-owned, never touched by producers
	stub Node[T]
}

// New returns an empty Queue ready for use.
func New[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.head.Store(&q.stub)
	q.tail = &q.stub
	return q
}

// Push enqueues value using n as its carrier node. n must not be reused
// by the caller until the value has been observed by Pop (the queue
// itself gives no signal for that; callers that reuse nodes must pair
// Push with a completion protocol of their own).
func (q *Queue[T]) Push(n *Node[T], value T) {
	n.value = value
	n.next.Store(nil)
	prev := q.head.Swap(n)
	prev.next.Store(n)
}

// Pop removes and returns the oldest pushed value. It returns false if
// the queue is empty, or if a concurrent Push is between its two steps
// (the swap and the link) — in that case the queue is momentarily
// inconsistent rather than truly empty, and the caller should retry.
func (q *Queue[T]) Pop() (T, bool) {
	tail := q.tail
	next := tail.next.Load()

	if tail == &q.stub {
		if next == nil {
			var zero T
			return zero, false
		}
		q.tail = next
		tail = next
		next = next.next.Load()
	}

	if next != nil {
		q.tail = next
		return tail.value, true
	}

	if tail != q.head.Load() {
		// A producer has swapped head but not yet linked next; from
		// the consumer's point of view this is a transient empty.
		var zero T
		return zero, false
	}

	q.pushStub()

	next = tail.next.Load()
	if next != nil {
		q.tail = next
		return tail.value, true
	}

	var zero T
	return zero, false
}

func (q *Queue[T]) pushStub() {
	var zero T
	q.Push(&q.stub, zero)
}
