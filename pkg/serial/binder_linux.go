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
	"context"
	"io"
	"net"
	"os"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/bluekit/serialbridge/pkg/models"
	"github.com/bluekit/serialbridge/pkg/rfcomm"
)

const acceptPollInterval = 500 // ms

// KernelBinder implements Binder on top of the kernel RFCOMM control
// interface.
type KernelBinder struct {
	ctl *rfcomm.Control
}

var _ Binder = (*KernelBinder)(nil)

func NewKernelBinder() (*KernelBinder, error) {
	ctl, err := rfcomm.NewControl()
	if err != nil {
		return nil, err
	}

	return &KernelBinder{ctl: ctl}, nil
}

func (b *KernelBinder) Close() error {
	return b.ctl.Close()
}

func (b *KernelBinder) Connect(ctx context.Context, src, dst models.Address, channel uint8) (int, error) {
	return rfcomm.Connect(ctx, src, dst, channel)
}

func (b *KernelBinder) BindSocket(fd int, src, dst models.Address, channel uint8) (int, error) {
	return b.ctl.CreateDeviceFromSocket(fd, src, dst, channel)
}

func (b *KernelBinder) BindPersistent(devID int, src, dst models.Address, channel uint8) (int, error) {
	return b.ctl.Bind(src, dst, devID, channel)
}

func (b *KernelBinder) Release(devID int) error {
	return b.ctl.Release(devID)
}

func (b *KernelBinder) DevicePath(devID int) string {
	return b.ctl.DevicePath(devID)
}

func (b *KernelBinder) OpenDevice(path string) (io.ReadWriteCloser, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, err
	}

	return os.NewFile(uintptr(fd), path), nil
}

func (b *KernelBinder) CloseSocket(fd int) error {
	return unix.Close(fd)
}

func (b *KernelBinder) Listen(src models.Address, channel uint8, backlog int) (Listener, uint8, error) {
	fd, bound, err := rfcomm.Listen(src, channel, backlog)
	if err != nil {
		return nil, 0, err
	}

	return &kernelListener{fd: fd}, bound, nil
}

// kernelListener wraps a nonblocking RFCOMM listen socket. Accept polls
// so that Close can unblock a waiting accept.
type kernelListener struct {
	fd     int
	mu     sync.Mutex
	closed bool
}

func (l *kernelListener) Accept() (io.ReadWriteCloser, models.Address, error) {
	for {
		l.mu.Lock()
		closed := l.closed
		l.mu.Unlock()

		if closed {
			return nil, models.Address{}, net.ErrClosed
		}

		fds := []unix.PollFd{{Fd: int32(l.fd), Events: unix.POLLIN}}

		n, err := unix.Poll(fds, acceptPollInterval)
		if err == unix.EINTR {
			continue
		}

		if err != nil {
			return nil, models.Address{}, err
		}

		if n == 0 {
			continue
		}

		connFd, peer, err := rfcomm.Accept(l.fd)
		if err == unix.EAGAIN {
			continue
		}

		if err != nil {
			return nil, models.Address{}, err
		}

		return os.NewFile(uintptr(connFd), "rfcomm"), peer, nil
	}
}

func (l *kernelListener) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}

	l.closed = true

	return unix.Close(l.fd)
}
