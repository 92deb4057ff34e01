/*
 * Copyright 2026 Bluekit Authors.
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

package serial

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArguments reports a malformed pattern, address, or
	// parameter set.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrInProgress reports a duplicate connection request for the same
	// remote address and pattern.
	ErrInProgress = errors.New("connection attempt in progress")

	// ErrNotSupported reports that discovery returned no usable record.
	ErrNotSupported = errors.New("the service is not supported by the remote device")

	// ErrDoesNotExist reports an unknown port, proxy, or device.
	ErrDoesNotExist = errors.New("does not exist")

	// ErrAlreadyExists reports a duplicate port or proxy registration.
	ErrAlreadyExists = errors.New("already exists")

	// ErrAlreadyEnabled reports an Enable on a listening proxy.
	ErrAlreadyEnabled = errors.New("proxy already enabled")

	// ErrNotEnabled reports a Disable on a proxy with no listener.
	ErrNotEnabled = errors.New("proxy not enabled")

	// ErrNotAllowed reports an operation forbidden in the current
	// state, such as changing line settings under an active stream.
	ErrNotAllowed = errors.New("operation not allowed")

	// ErrNotAuthorized reports a disconnect attempt by a caller that
	// does not own the connection.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrCanceled reports an explicitly canceled connection attempt.
	ErrCanceled = errors.New("connection attempt canceled")

	// ErrNotConnected reports a disconnect of a device with no active
	// connection.
	ErrNotConnected = errors.New("not connected")
)

// OpError wraps a failure of one orchestration stage together with the
// underlying system error.
type OpError struct {
	// Op is the stage that failed: "connect", "open", "listen",
	// "bind", or "publish".
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func connectionFailed(err error) error {
	return &OpError{Op: "connect", Err: err}
}

func openFailed(err error) error {
	return &OpError{Op: "open", Err: err}
}

func listenFailed(err error) error {
	return &OpError{Op: "listen", Err: err}
}

func publishFailed(err error) error {
	return &OpError{Op: "publish", Err: err}
}
