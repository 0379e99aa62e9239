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
	"context"
	"log"
	"sync"
	"syscall"
	"unsafe"

	"github.com/cor3ntin/corio-go/internal/iouring"
	"github.com/cor3ntin/corio-go/mpscqueue"
)

// IOError wraps a negative io_uring completion result (a -errno) as a
// regular Go error.
type IOError struct {
	Errno syscall.Errno
}

func (e IOError) Error() string {
	return "reactor: " + e.Errno.Error()
}

// Reactor owns one io_uring instance and runs it on a single dedicated
// goroutine (Run). Any other goroutine may submit work by calling
// Start() on an operation returned from Scheduler/Read/Cancel; the
// actual SQE preparation and CQE dispatch only ever happens on the Run
// goroutine.
type Reactor struct {
	ring    *iouring.IOUring
	submitQ *mpscqueue.Queue[operation]
	wakeFd  int
	wakeOp  wakeOperation

	mu       sync.Mutex
	inflight map[uintptr]operation
}

// New creates a Reactor. It does not start the event loop; call Run in
// its own goroutine to do that.
func New(cfg *Config) (*Reactor, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	ring, err := iouring.NewIOUring(cfg.Entries)
	if err != nil {
		return nil, err
	}
	wakeFd, err := newEventfd()
	if err != nil {
		ring.Close()
		return nil, err
	}
	r := &Reactor{
		ring:     ring,
		submitQ:  mpscqueue.New[operation](),
		wakeFd:   wakeFd,
		inflight: make(map[uintptr]operation),
	}
	r.wakeOp = wakeOperation{reactor: r}
	return r, nil
}

// submit pushes op onto the submission queue and wakes the reactor
// goroutine if it is blocked in WaitCQE. Safe to call from any
// goroutine.
func (r *Reactor) submit(node *opNode, op operation) {
	r.submitQ.Push(node, op)
	_ = writeEventfd(r.wakeFd)
}

// Run drives the event loop until ctx is cancelled. It submits queued
// operations, blocks for completions, and dispatches them back to their
// receivers. When ctx is cancelled, every still-in-flight operation is
// delivered SetDone and Run returns ctx.Err().
func (r *Reactor) Run(ctx context.Context) error {
	defer r.ring.Close()
	defer syscall.Close(r.wakeFd)

	// Wake WaitCQE once ctx is cancelled; the watcher is joined before
	// wakeFd is closed.
	stopWatch := make(chan struct{})
	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		select {
		case <-ctx.Done():
			_ = writeEventfd(r.wakeFd)
		case <-stopWatch:
		}
	}()
	defer func() { close(stopWatch); <-watchDone }()

	r.armWake()

	for {
		r.drainSubmissions()

		if ctx.Err() != nil {
			r.cancelAll()
			return ctx.Err()
		}

		if r.ring.PendingSQEs() > 0 {
			if _, errno := r.ring.Submit(); errno != 0 {
				log.Printf("reactor: submit failed: %v", errno)
			}
		}

		cqe, err := r.ring.WaitCQE()
		if err != nil {
			log.Printf("reactor: wait failed: %v", err)
			continue
		}
		r.dispatch(cqe)
		r.ring.AdvanceCQ()
	}
}

// drainSubmissions moves every operation currently queued by submit
// into the ring and the in-flight table.
func (r *Reactor) drainSubmissions() {
	for {
		op, ok := r.submitQ.Pop()
		if !ok {
			return
		}
		r.arm(op)
	}
}

// arm prepares op's SQE, submitting what's already pending first if the
// ring is momentarily full.
func (r *Reactor) arm(op operation) {
	sqe := r.ring.PeekSQE(true)
	if sqe == nil {
		if _, errno := r.ring.Submit(); errno != 0 {
			log.Printf("reactor: submit while arming failed: %v", errno)
		}
		sqe = r.ring.PeekSQE(true)
		if sqe == nil {
			log.Printf("reactor: ring full, dropping operation")
			op.setDone()
			return
		}
	}
	addr := op.addr()
	op.prepare(sqe)
	sqe.UserData = uint64(addr)
	r.ring.AdvanceSQ()

	r.mu.Lock()
	r.inflight[addr] = op
	r.mu.Unlock()
}

func (r *Reactor) dispatch(cqe *iouring.IOUringCQE) {
	addr := uintptr(cqe.UserData)

	if addr == r.wakeOp.addr() {
		drainEventfd(r.wakeFd)
		r.armWake()
		return
	}

	r.mu.Lock()
	op, ok := r.inflight[addr]
	if ok {
		delete(r.inflight, addr)
	}
	r.mu.Unlock()

	if !ok {
		return
	}
	op.setResult(cqe.Res)
}

// cancelAll delivers SetDone to every operation still in flight, used
// when Run is shutting down.
func (r *Reactor) cancelAll() {
	r.mu.Lock()
	ops := make([]operation, 0, len(r.inflight))
	for _, op := range r.inflight {
		ops = append(ops, op)
	}
	r.inflight = make(map[uintptr]operation)
	r.mu.Unlock()

	for _, op := range ops {
		op.setDone()
	}
}

func (r *Reactor) armWake() {
	sqe := r.ring.PeekSQE(true)
	if sqe == nil {
		if _, errno := r.ring.Submit(); errno != 0 {
			log.Printf("reactor: submit while arming wake failed: %v", errno)
		}
		sqe = r.ring.PeekSQE(true)
		if sqe == nil {
			log.Printf("reactor: ring full, could not re-arm wake fd")
			return
		}
	}
	r.wakeOp.prepare(sqe)
	sqe.UserData = uint64(r.wakeOp.addr())
	r.ring.AdvanceSQ()
}

// wakeOperation is the reactor's own permanently re-armed POLL_ADD on
// its wake eventfd. It is never placed in the in-flight table: dispatch
// recognizes its address directly and re-arms it in place.
type wakeOperation struct {
	reactor *Reactor
}

func (w wakeOperation) addr() uintptr {
	return uintptr(unsafe.Pointer(w.reactor)) ^ wakeAddrTag
}

// wakeAddrTag perturbs the wake operation's identity away from the
// Reactor's own address, which is never otherwise used as a CQE
// UserData, so the two cannot collide.
const wakeAddrTag = 1

func (w wakeOperation) prepare(sqe *iouring.IOUringSQE) {
	sqe.Opcode = iouring.IORING_OP_POLL_ADD
	sqe.Fd = int32(w.reactor.wakeFd)
	sqe.OpcodeFlags = iouring.POLLIN
}

func (w wakeOperation) setResult(int32) {}
func (w wakeOperation) setDone()        {}
