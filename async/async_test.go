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

package async

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// immediateSender completes synchronously within Start, which is enough
// to exercise Then/Spawn/Wait without needing the pool or reactor.
type immediateSender[T any] struct {
	value T
	err   error
	done  bool
}

func (s immediateSender[T]) Connect(r Receiver[T]) Operation {
	return &immediateOperation[T]{sender: s, receiver: r}
}

type immediateOperation[T any] struct {
	sender   immediateSender[T]
	receiver Receiver[T]
}

func (op *immediateOperation[T]) Start() {
	switch {
	case op.sender.done:
		op.receiver.SetDone()
	case op.sender.err != nil:
		op.receiver.SetError(op.sender.err)
	default:
		op.receiver.SetValue(op.sender.value)
	}
}

func TestWaitValue(t *testing.T) {
	v, err := Wait[int](immediateSender[int]{value: 42})
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func TestWaitError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Wait[int](immediateSender[int]{err: boom})
	require.ErrorIs(t, err, boom)
}

func TestWaitCancelled(t *testing.T) {
	_, err := Wait[int](immediateSender[int]{done: true})
	require.ErrorIs(t, err, ErrCancelled)
}

func TestThenTransformsValue(t *testing.T) {
	s := Then(immediateSender[int]{value: 10}, func(v int) (string, error) {
		return "got 10", nil
	})
	v, err := Wait[string](s)
	require.NoError(t, err)
	require.Equal(t, "got 10", v)
}

func TestThenPropagatesTransformError(t *testing.T) {
	boom := errors.New("transform failed")
	s := Then(immediateSender[int]{value: 10}, func(v int) (string, error) {
		return "", boom
	})
	_, err := Wait[string](s)
	require.ErrorIs(t, err, boom)
}

func TestThenPropagatesUpstreamError(t *testing.T) {
	boom := errors.New("upstream failed")
	called := false
	s := Then(immediateSender[int]{err: boom}, func(v int) (string, error) {
		called = true
		return "", nil
	})
	_, err := Wait[string](s)
	require.ErrorIs(t, err, boom)
	require.False(t, called, "transform must not run when the predecessor errors")
}

func TestThenRecoversPanic(t *testing.T) {
	s := Then(immediateSender[int]{value: 1}, func(v int) (string, error) {
		panic("transform exploded")
	})
	_, err := Wait[string](s)
	require.Error(t, err)
	require.Contains(t, err.Error(), "transform exploded")
}

func TestThenChain(t *testing.T) {
	s1 := Then(immediateSender[int]{value: 1}, func(v int) (int, error) {
		return v + 1, nil
	})
	s2 := Then(s1, func(v int) (int, error) {
		return v * 10, nil
	})
	v, err := Wait[int](s2)
	require.NoError(t, err)
	require.Equal(t, 20, v)
}

type recordingReceiver[T any] struct {
	values []T
	errs   []error
	dones  int
}

func (r *recordingReceiver[T]) SetValue(v T)     { r.values = append(r.values, v) }
func (r *recordingReceiver[T]) SetError(e error) { r.errs = append(r.errs, e) }
func (r *recordingReceiver[T]) SetDone()         { r.dones++ }

func TestSpawnRunsAndDelivers(t *testing.T) {
	r := &recordingReceiver[int]{}
	Spawn[int](immediateSender[int]{value: 7}, r)
	require.Equal(t, []int{7}, r.values)
}
