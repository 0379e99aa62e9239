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

package mpscqueue

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPopEmpty(t *testing.T) {
	q := New[int]()
	_, ok := q.Pop()
	require.False(t, ok)
}

func TestPushPopFIFO(t *testing.T) {
	q := New[int]()
	nodes := make([]Node[int], 3)
	q.Push(&nodes[0], 1)
	q.Push(&nodes[1], 2)
	q.Push(&nodes[2], 3)

	for _, want := range []int{1, 2, 3} {
		got, ok := q.Pop()
		require.True(t, ok)
		require.Equal(t, want, got)
	}
	_, ok := q.Pop()
	require.False(t, ok)
}

func TestPushAfterDrain(t *testing.T) {
	q := New[int]()
	var a, b Node[int]
	q.Push(&a, 1)
	v, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, 1, v)

	q.Push(&b, 2)
	v, ok = q.Pop()
	require.True(t, ok)
	require.Equal(t, 2, v)
}

func TestConcurrentProducersSingleConsumer(t *testing.T) {
	q := New[int]()
	const producers = 8
	const perProducer = 500

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		p := p
		go func() {
			defer wg.Done()
			nodes := make([]Node[int], perProducer)
			for i := 0; i < perProducer; i++ {
				q.Push(&nodes[i], p*perProducer+i)
			}
		}()
	}
	wg.Wait()

	got := make([]int, 0, producers*perProducer)
	for len(got) < producers*perProducer {
		if v, ok := q.Pop(); ok {
			got = append(got, v)
		}
	}
	sort.Ints(got)
	for i, v := range got {
		require.Equal(t, i, v)
	}
}
