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

package rfcomm

import (
	"context"
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/bluekit/serialbridge/pkg/models"
)

// connectPollInterval bounds how long a cancellation can go unnoticed
// while a connect is in flight.
const connectPollInterval = 200 // ms

// Connect opens a nonblocking stream socket bound to the local radio
// address and connects it to (dst, channel). It polls for completion so
// ctx cancellation is honored, then checks the socket's pending error.
// The returned descriptor stays nonblocking.
func Connect(ctx context.Context, src, dst models.Address, channel uint8) (int, error) {
	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, unix.BTPROTO_RFCOMM)
	if err != nil {
		return -1, fmt.Errorf("socket: %w", err)
	}

	laddr := &unix.SockaddrRFCOMM{Addr: src.Wire(), Channel: 0}
	if err := unix.Bind(fd, laddr); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("bind: %w", err)
	}

	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("set nonblock: %w", err)
	}

	raddr := &unix.SockaddrRFCOMM{Addr: dst.Wire(), Channel: channel}

	err = unix.Connect(fd, raddr)
	// The stack reports EAGAIN where EINPROGRESS is expected.
	if err != nil && !errors.Is(err, unix.EINPROGRESS) && !errors.Is(err, unix.EAGAIN) {
		unix.Close(fd)
		return -1, err
	}

	if err != nil {
		if err := waitWritable(ctx, fd); err != nil {
			unix.Close(fd)
			return -1, err
		}
	}

	soerr, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("getsockopt: %w", err)
	}

	if soerr != 0 {
		unix.Close(fd)
		return -1, unix.Errno(soerr)
	}

	return fd, nil
}

func waitWritable(ctx context.Context, fd int) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		pfd := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLOUT}}

		n, err := unix.Poll(pfd, connectPollInterval)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}

			return fmt.Errorf("poll: %w", err)
		}

		if n > 0 {
			return nil
		}
	}
}

// Listen opens a listening socket on the local radio address. A zero
// channel asks the kernel to assign one; the actual channel is read
// back from the bound address.
func Listen(src models.Address, channel uint8, backlog int) (fd int, boundChannel uint8, err error) {
	fd, err = unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, unix.BTPROTO_RFCOMM)
	if err != nil {
		return -1, 0, fmt.Errorf("socket: %w", err)
	}

	laddr := &unix.SockaddrRFCOMM{Addr: src.Wire(), Channel: channel}
	if err = unix.Bind(fd, laddr); err != nil {
		unix.Close(fd)
		return -1, 0, fmt.Errorf("bind: %w", err)
	}

	if err = unix.Listen(fd, backlog); err != nil {
		unix.Close(fd)
		return -1, 0, fmt.Errorf("listen: %w", err)
	}

	var raw unix.RawSockaddrRFCOMM

	rlen := uint32(unsafe.Sizeof(raw))

	_, _, errno := unix.Syscall(unix.SYS_GETSOCKNAME, uintptr(fd),
		uintptr(unsafe.Pointer(&raw)), uintptr(unsafe.Pointer(&rlen)))
	if errno != 0 {
		unix.Close(fd)
		return -1, 0, fmt.Errorf("getsockname: %w", errno)
	}

	return fd, raw.Channel, nil
}

// Accept takes the next inbound connection and reports the peer
// address.
func Accept(fd int) (int, models.Address, error) {
	var raw unix.RawSockaddrRFCOMM

	rlen := uint32(unsafe.Sizeof(raw))

	nfd, _, errno := unix.Syscall6(unix.SYS_ACCEPT4, uintptr(fd),
		uintptr(unsafe.Pointer(&raw)), uintptr(unsafe.Pointer(&rlen)),
		unix.SOCK_CLOEXEC, 0, 0)
	if errno != 0 {
		return -1, models.Address{}, errno
	}

	return int(nfd), models.AddressFromWire(raw.Bdaddr), nil
}
