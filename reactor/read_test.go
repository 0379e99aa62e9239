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
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cor3ntin/corio-go/async"
	"github.com/cor3ntin/corio-go/cache/mempool"
)

func TestReadFromPipe(t *testing.T) {
	r := skipIfUnsupported(t)
	startReactor(t, r)

	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	defer pr.Close()
	defer pw.Close()

	_, err = pw.Write([]byte("hello"))
	require.NoError(t, err)

	buf := make([]byte, 16)
	n, err := async.Wait[int](r.Read(int(pr.Fd()), buf))
	require.NoError(t, err)
	require.Equal(t, "hello", string(buf[:n]))
}

func TestReadPooledFromPipe(t *testing.T) {
	r := skipIfUnsupported(t)
	startReactor(t, r)

	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	defer pr.Close()
	defer pw.Close()

	_, err = pw.Write([]byte("pooled"))
	require.NoError(t, err)

	got, err := async.Wait[[]byte](r.ReadPooled(int(pr.Fd()), 32))
	require.NoError(t, err)
	require.Equal(t, "pooled", string(got))
	mempool.Free(got)
}
