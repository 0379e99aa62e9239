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

//go:build linux

package reactor

import "syscall"

// newEventfd creates a non-blocking eventfd used to wake the reactor's
// WaitCQE whenever a submission arrives or the stop context fires.
func newEventfd() (int, error) {
	fd, _, errno := syscall.Syscall(syscall.SYS_EVENTFD2, 0, syscall.O_NONBLOCK|syscall.O_CLOEXEC, 0)
	if errno != 0 {
		return -1, errno
	}
	return int(fd), nil
}

// writeEventfd bumps the eventfd's internal counter by one, which is
// enough to wake anything blocked polling it for readability.
func writeEventfd(fd int) error {
	var buf [8]byte
	buf[0] = 1
	_, err := syscall.Write(fd, buf[:])
	return err
}

// drainEventfd resets the eventfd's counter back to zero after a
// readability notification has been observed.
func drainEventfd(fd int) {
	var buf [8]byte
	_, _ = syscall.Read(fd, buf[:])
}
