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
	"github.com/cor3ntin/corio-go/internal/iouring"
	"github.com/cor3ntin/corio-go/mpscqueue"
)

// operation is the taxonomy every reactor-submitted action implements:
// schedule (nop/timeout), read, and cancel all satisfy it. prepare
// fills in the SQE the reactor loop is about to submit on the
// operation's behalf; setResult/setDone deliver the eventual CQE back
// to whatever Receiver is waiting.
type operation interface {
	addr() uintptr
	prepare(sqe *iouring.IOUringSQE)
	setResult(res int32)
	setDone()
}

// opNode is the mpscqueue carrier every concrete operation embeds by
// value, so submitting it to the reactor never allocates.
type opNode = mpscqueue.Node[operation]
