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
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cor3ntin/corio-go/async"
)

func skipIfUnsupported(t *testing.T) *Reactor {
	t.Helper()
	if runtime.GOOS != "linux" {
		t.Skip("reactor requires Linux io_uring")
	}
	r, err := New(DefaultConfig())
	if err != nil {
		t.Skipf("io_uring unavailable: %v", err)
	}
	return r
}

func startReactor(t *testing.T, r *Reactor) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = r.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return cancel
}

func TestScheduleCompletes(t *testing.T) {
	r := skipIfUnsupported(t)
	startReactor(t, r)

	v, err := async.Wait[struct{}](r.Scheduler().Schedule())
	require.NoError(t, err)
	require.Equal(t, struct{}{}, v)
}

func TestScheduleAfterOrdering(t *testing.T) {
	r := skipIfUnsupported(t)
	startReactor(t, r)

	type result struct {
		label string
	}
	order := make(chan string, 3)

	for label, delay := range map[string]time.Duration{
		"30ms": 30 * time.Millisecond,
		"10ms": 10 * time.Millisecond,
		"20ms": 20 * time.Millisecond,
	} {
		label, delay := label, delay
		go func() {
			_, err := async.Wait[struct{}](r.Scheduler().ScheduleAfter(delay))
			require.NoError(t, err)
			order <- label
		}()
	}

	require.Equal(t, "10ms", <-order)
	require.Equal(t, "20ms", <-order)
	require.Equal(t, "30ms", <-order)
}

func TestCancelScheduleYieldsErrCancelled(t *testing.T) {
	r := skipIfUnsupported(t)
	startReactor(t, r)

	recv := &cancelTestReceiver{done: make(chan struct{})}
	sender := r.Scheduler().ScheduleAfter(time.Second)
	op := sender.Connect(recv)
	op.Start()

	_, err := async.Wait[struct{}](r.Cancel(op.(Cancellable)))
	require.NoError(t, err)

	select {
	case <-recv.done:
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled schedule never completed")
	}
	require.ErrorIs(t, recv.err, async.ErrCancelled)
}

type cancelTestReceiver struct {
	done chan struct{}
	err  error
}

func (r *cancelTestReceiver) SetValue(struct{}) { close(r.done) }
func (r *cancelTestReceiver) SetError(err error) {
	r.err = err
	close(r.done)
}
func (r *cancelTestReceiver) SetDone() {
	r.err = async.ErrCancelled
	close(r.done)
}
