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

package pool

import "github.com/cor3ntin/corio-go/async"

// Scheduler is a small value type whose only capability is producing a
// sender that runs on its Pool.
type Scheduler struct {
	pool *Pool
}

// Schedule returns a sender that completes, with no value, on one of
// the pool's worker goroutines.
func (s Scheduler) Schedule() async.Sender[struct{}] {
	return scheduleSender{pool: s.pool}
}

type scheduleSender struct {
	pool *Pool
}

func (s scheduleSender) Connect(r async.Receiver[struct{}]) async.Operation {
	return &scheduleOperation{pool: s.pool, receiver: r}
}

type scheduleOperation struct {
	pool     *Pool
	receiver async.Receiver[struct{}]
}

func (op *scheduleOperation) Start() {
	ok := op.pool.enqueue(job{
		run:    func() { op.receiver.SetValue(struct{}{}) },
		cancel: func() { op.receiver.SetDone() },
	})
	if !ok {
		op.receiver.SetDone()
	}
}

type depletedSender struct {
	pool *Pool
}

func (s depletedSender) Connect(r async.Receiver[struct{}]) async.Operation {
	return &depletedOperation{pool: s.pool, receiver: r}
}

type depletedOperation struct {
	pool     *Pool
	receiver async.Receiver[struct{}]
}

func (op *depletedOperation) Start() {
	ok := op.pool.addBarrier(barrier{
		fire:   func() { op.receiver.SetValue(struct{}{}) },
		cancel: func() { op.receiver.SetDone() },
	})
	if !ok {
		op.receiver.SetDone()
	}
}
