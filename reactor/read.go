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
	"unsafe"

	"github.com/cor3ntin/corio-go/async"
	"github.com/cor3ntin/corio-go/cache/mempool"
	"github.com/cor3ntin/corio-go/internal/iouring"
)

// Read returns a sender that reads from fd into buf (which the caller
// owns and must keep alive and unmodified until the sender completes)
// and produces the number of bytes read.
func (r *Reactor) Read(fd int, buf []byte) async.Sender[int] {
	return readSender{reactor: r, fd: fd, buf: buf}
}

// ReadPooled is like Read but the scratch buffer is borrowed from
// cache/mempool instead of supplied by the caller, avoiding an
// allocation for callers that don't need to control buffer reuse
// themselves. The returned slice must be released with
// mempool.Free when the caller is done with it.
func (r *Reactor) ReadPooled(fd int, size int) async.Sender[[]byte] {
	return readPooledSender{reactor: r, fd: fd, size: size}
}

type readSender struct {
	reactor *Reactor
	fd      int
	buf     []byte
}

func (s readSender) Connect(r async.Receiver[int]) async.Operation {
	return &readOperation{reactor: s.reactor, fd: s.fd, buf: s.buf, receiver: r}
}

type readOperation struct {
	node     opNode
	reactor  *Reactor
	fd       int
	buf      []byte
	iov      iouring.Iovec
	receiver async.Receiver[int]
}

func (op *readOperation) Start() {
	op.reactor.submit(&op.node, op)
}

func (op *readOperation) addr() uintptr        { return uintptr(unsafe.Pointer(op)) }
func (op *readOperation) reactorAddr() uintptr { return op.addr() }

func (op *readOperation) prepare(sqe *iouring.IOUringSQE) {
	op.iov.Set(op.buf)
	sqe.Opcode = iouring.IORING_OP_READV
	sqe.Fd = int32(op.fd)
	sqe.Addr = uint64(uintptr(unsafe.Pointer(&op.iov)))
	sqe.Len = 1
}

func (op *readOperation) setResult(res int32) {
	if res < 0 {
		errno := syscall.Errno(-res)
		if errno == syscall.ECANCELED {
			op.receiver.SetDone()
			return
		}
		op.receiver.SetError(IOError{Errno: errno})
		return
	}
	op.receiver.SetValue(int(res))
}

func (op *readOperation) setDone() {
	op.receiver.SetDone()
}

type readPooledSender struct {
	reactor *Reactor
	fd      int
	size    int
}

func (s readPooledSender) Connect(r async.Receiver[[]byte]) async.Operation {
	return &readPooledOperation{reactor: s.reactor, fd: s.fd, buf: mempool.Malloc(s.size), receiver: r}
}

type readPooledOperation struct {
	node     opNode
	reactor  *Reactor
	fd       int
	buf      []byte
	iov      iouring.Iovec
	receiver async.Receiver[[]byte]
}

func (op *readPooledOperation) Start() {
	op.reactor.submit(&op.node, op)
}

func (op *readPooledOperation) addr() uintptr        { return uintptr(unsafe.Pointer(op)) }
func (op *readPooledOperation) reactorAddr() uintptr { return op.addr() }

func (op *readPooledOperation) prepare(sqe *iouring.IOUringSQE) {
	op.iov.Set(op.buf)
	sqe.Opcode = iouring.IORING_OP_READV
	sqe.Fd = int32(op.fd)
	sqe.Addr = uint64(uintptr(unsafe.Pointer(&op.iov)))
	sqe.Len = 1
}

func (op *readPooledOperation) setResult(res int32) {
	if res < 0 {
		mempool.Free(op.buf)
		errno := syscall.Errno(-res)
		if errno == syscall.ECANCELED {
			op.receiver.SetDone()
			return
		}
		op.receiver.SetError(IOError{Errno: errno})
		return
	}
	op.receiver.SetValue(op.buf[:res])
}

func (op *readPooledOperation) setDone() {
	mempool.Free(op.buf)
	op.receiver.SetDone()
}
