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
	"unsafe"

	"github.com/cor3ntin/corio-go/async"
	"github.com/cor3ntin/corio-go/internal/iouring"
)

// Cancel returns a sender that asks the reactor to cancel target. The
// cancel sender itself completes once the cancellation request has
// been processed by the kernel (whether or not target was still
// in flight); target's own sender completes separately, via SetDone,
// once the cancellation actually lands.
func (r *Reactor) Cancel(target Cancellable) async.Sender[struct{}] {
	return cancelSender{reactor: r, target: target.reactorAddr()}
}

type cancelSender struct {
	reactor *Reactor
	target  uintptr
}

func (s cancelSender) Connect(r async.Receiver[struct{}]) async.Operation {
	return &cancelOperation{reactor: s.reactor, target: s.target, receiver: r}
}

type cancelOperation struct {
	node     opNode
	reactor  *Reactor
	target   uintptr
	receiver async.Receiver[struct{}]
}

func (op *cancelOperation) Start() {
	op.reactor.submit(&op.node, op)
}

func (op *cancelOperation) addr() uintptr { return uintptr(unsafe.Pointer(op)) }

func (op *cancelOperation) prepare(sqe *iouring.IOUringSQE) {
	sqe.Opcode = iouring.IORING_OP_ASYNC_CANCEL
	sqe.Addr = uint64(op.target)
}

func (op *cancelOperation) setResult(res int32) {
	// ENOENT (target already gone) and EALREADY (already being
	// cancelled) both mean the cancel request was processed; neither is
	// reported as an error to the caller who just wanted it gone.
	op.receiver.SetValue(struct{}{})
}

func (op *cancelOperation) setDone() {
	op.receiver.SetDone()
}
