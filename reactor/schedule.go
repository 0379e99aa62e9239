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

package reactor

import (
	"syscall"
	"time"
	"unsafe"

	"github.com/cor3ntin/corio-go/async"
	"github.com/cor3ntin/corio-go/internal/iouring"
)

// Cancellable is implemented by the Operation that a schedule or read
// sender's Connect returns; the Operation of a Cancel sender does not
// implement it. Callers that want to cancel an in-flight reactor
// operation keep hold of it and pass it to Reactor.Cancel.
type Cancellable interface {
	async.Operation
	reactorAddr() uintptr
}

// Scheduler produces reactor-backed schedule senders.
type Scheduler struct {
	reactor *Reactor
}

// Scheduler returns this Reactor's Scheduler value.
func (r *Reactor) Scheduler() Scheduler {
	return Scheduler{reactor: r}
}

// Schedule returns a sender that completes, with no value, as soon as
// the reactor submits an io_uring NOP for it and the kernel completes
// it — i.e. "run on the reactor".
func (s Scheduler) Schedule() async.Sender[struct{}] {
	return scheduleSender{reactor: s.reactor, delay: 0}
}

// ScheduleAfter returns a sender that completes after d elapses,
// backed by an io_uring TIMEOUT. A non-positive d behaves exactly like
// Schedule (a zero-duration schedule is a NOP, not a zero timeout).
func (s Scheduler) ScheduleAfter(d time.Duration) async.Sender[struct{}] {
	return scheduleSender{reactor: s.reactor, delay: d}
}

type scheduleSender struct {
	reactor *Reactor
	delay   time.Duration
}

func (s scheduleSender) Connect(r async.Receiver[struct{}]) async.Operation {
	return &scheduleOperation{reactor: s.reactor, delay: s.delay, receiver: r}
}

type scheduleOperation struct {
	node     opNode
	reactor  *Reactor
	delay    time.Duration
	receiver async.Receiver[struct{}]
	ts       iouring.TimeSpec
}

func (op *scheduleOperation) Start() {
	op.reactor.submit(&op.node, op)
}

func (op *scheduleOperation) addr() uintptr        { return uintptr(unsafe.Pointer(op)) }
func (op *scheduleOperation) reactorAddr() uintptr { return op.addr() }

func (op *scheduleOperation) prepare(sqe *iouring.IOUringSQE) {
	if op.delay <= 0 {
		sqe.Opcode = iouring.IORING_OP_NOP
		return
	}
	op.ts.TvSec = int64(op.delay / time.Second)
	op.ts.TvNsec = int64(op.delay % time.Second)
	sqe.Opcode = iouring.IORING_OP_TIMEOUT
	sqe.Addr = uint64(uintptr(unsafe.Pointer(&op.ts)))
	sqe.Len = 1
}

func (op *scheduleOperation) setResult(res int32) {
	if res < 0 {
		errno := syscall.Errno(-res)
		switch errno {
		case syscall.ETIME:
			// The kernel completes a well-behaved TIMEOUT with -ETIME;
			// that is this operation's success case, not an error.
			op.receiver.SetValue(struct{}{})
		case syscall.ECANCELED:
			op.receiver.SetDone()
		default:
			op.receiver.SetError(IOError{Errno: errno})
		}
		return
	}
	op.receiver.SetValue(struct{}{})
}

func (op *scheduleOperation) setDone() {
	op.receiver.SetDone()
}
