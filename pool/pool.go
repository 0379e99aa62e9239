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

// Package pool implements a fixed-size goroutine pool fed by a single
// central FIFO queue, with a "depleted" barrier sender that completes
// once the queue next drains to empty. Goroutines here are the
// idiomatic stand-in for the OS threads this pool is modeled after —
// Go's scheduler multiplexes them onto real threads itself.
package pool

import (
	"log"
	"runtime/debug"
	"sync"

	"github.com/cor3ntin/corio-go/async"
)

type job struct {
	run    func()
	cancel func()
}

type barrier struct {
	fire   func()
	cancel func()
}

// Pool runs a fixed number of worker goroutines against one shared FIFO
// work queue.
type Pool struct {
	mu       sync.Mutex
	cond     *sync.Cond
	jobs     []job
	barriers []barrier
	stopped  bool
	wg       sync.WaitGroup
}

// New starts a Pool with n worker goroutines. n must be > 0.
func New(n int) *Pool {
	if n <= 0 {
		panic("pool: New requires a positive worker count")
	}
	p := &Pool{}
	p.cond = sync.NewCond(&p.mu)
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for len(p.jobs) == 0 && !p.stopped {
			p.cond.Wait()
		}
		if len(p.jobs) == 0 {
			p.mu.Unlock()
			return
		}
		j := p.jobs[0]
		p.jobs = p.jobs[1:]

		var fired []barrier
		if len(p.jobs) == 0 {
			fired = p.barriers
			p.barriers = nil
		}
		p.mu.Unlock()

		runJob(j)

		for _, b := range fired {
			b.fire()
		}
	}
}

func runJob(j job) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("pool: panic in job: %v: %s", r, debug.Stack())
		}
	}()
	j.run()
}

// enqueue appends j to the work queue, returning false if the pool has
// already been stopped.
func (p *Pool) enqueue(j job) bool {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return false
	}
	p.jobs = append(p.jobs, j)
	p.mu.Unlock()
	p.cond.Signal()
	return true
}

// addBarrier registers b to fire the next time the queue drains to
// empty, or immediately if it already is empty. Returns false if the
// pool has already been stopped.
func (p *Pool) addBarrier(b barrier) bool {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return false
	}
	if len(p.jobs) == 0 {
		p.mu.Unlock()
		b.fire()
		return true
	}
	p.barriers = append(p.barriers, b)
	p.mu.Unlock()
	return true
}

// Scheduler returns a value exposing this pool's scheduling capability
// to the async algebra, without exposing the pool's internals.
func (p *Pool) Scheduler() Scheduler {
	return Scheduler{pool: p}
}

// Depleted returns a sender that completes the next time this pool's
// work queue drains to empty: after the job that emptied the queue
// returns. If the work queue is already empty, it completes as soon as
// it is Started. Only the queue is checked: jobs that other workers
// have already taken may still be running when the barrier completes.
func (p *Pool) Depleted() async.Sender[struct{}] {
	return depletedSender{pool: p}
}

// Stop is idempotent: the first call stops accepting new work, cancels
// everything still queued (via SetDone) and blocks until every worker
// goroutine has exited. Later calls return immediately.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	pending := p.jobs
	p.jobs = nil
	pendingBarriers := p.barriers
	p.barriers = nil
	p.mu.Unlock()

	p.cond.Broadcast()

	for _, j := range pending {
		j.cancel()
	}
	for _, b := range pendingBarriers {
		b.cancel()
	}
	p.wg.Wait()
}
