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

// Spawn connects s to r and starts it, fire-and-forget. There is no
// explicit teardown to call afterwards: the Operation Connect returns
// is kept alive by whichever scheduler (pool, reactor) it is running
// on until it completes, and is then simply dropped for the garbage
// collector to reclaim — the idiomatic substitution for manual
// spawn+delete bookkeeping.
func Spawn[T any](s Sender[T], r Receiver[T]) {
	op := s.Connect(r)
	op.Start()
}
