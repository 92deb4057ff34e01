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

// Package rfcomm wraps the kernel interface for RFCOMM virtual serial
// devices and connection-oriented sockets over the radio link.
package rfcomm

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/bluekit/serialbridge/pkg/models"
)

// ioctl request numbers from the kernel rfcomm header:
// _IOW('R', 200, int), _IOW('R', 201, int), _IOR('R', 211, int).
const (
	ioctlCreateDev  = 0x400452c8
	ioctlReleaseDev = 0x400452c9
	ioctlGetDevInfo = 0x800452d3
)

// Device request flag bits.
const (
	flagReuseDLC     = 1 << 0
	flagReleaseOnHup = 1 << 1
	flagHangupNow    = 1 << 2
)

// devRequest mirrors struct rfcomm_dev_req.
type devRequest struct {
	DevID   int16
	_       [2]byte
	Flags   uint32
	Src     [6]byte
	Dst     [6]byte
	Channel uint8
	_       [3]byte
}

// devInfo mirrors struct rfcomm_dev_info.
type devInfo struct {
	ID      int16
	_       [2]byte
	Flags   uint32
	Src     [6]byte
	Dst     [6]byte
	Channel uint8
	State   uint8
	_       [2]byte
}

// DeviceInfo describes an existing virtual serial device.
type DeviceInfo struct {
	ID      int
	Src     models.Address
	Dst     models.Address
	Channel uint8
}

// Control owns the raw RFCOMM control socket used for device
// creation and release.
type Control struct {
	fd int
}

// NewControl opens the control socket.
func NewControl() (*Control, error) {
	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_RAW|unix.SOCK_CLOEXEC, unix.BTPROTO_RFCOMM)
	if err != nil {
		return nil, fmt.Errorf("rfcomm control socket: %w", err)
	}

	return &Control{fd: fd}, nil
}

func (c *Control) Close() error {
	if c.fd < 0 {
		return nil
	}

	err := unix.Close(c.fd)
	c.fd = -1

	return err
}

func (c *Control) ioctl(req uintptr, arg unsafe.Pointer) (int, error) {
	r, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(c.fd), req, uintptr(arg))
	if errno != 0 {
		return 0, errno
	}

	return int(r), nil
}

// Bind creates a persistent virtual device for (src, dst, channel).
// devID -1 lets the kernel pick the identifier.
func (c *Control) Bind(src, dst models.Address, devID int, channel uint8) (int, error) {
	req := devRequest{
		DevID:   int16(devID),
		Src:     src.Wire(),
		Dst:     dst.Wire(),
		Channel: channel,
	}

	id, err := c.ioctl(ioctlCreateDev, unsafe.Pointer(&req))
	if err != nil {
		return -1, fmt.Errorf("create device: %w", err)
	}

	return id, nil
}

// Release destroys a virtual device. The hangup-now flag forces any
// attached connection down first.
func (c *Control) Release(devID int) error {
	req := devRequest{
		DevID: int16(devID),
		Flags: flagHangupNow,
	}

	if _, err := c.ioctl(ioctlReleaseDev, unsafe.Pointer(&req)); err != nil {
		return fmt.Errorf("release device %d: %w", devID, err)
	}

	return nil
}

// DeviceInfo looks up an existing device by identifier.
func (c *Control) DeviceInfo(devID int) (DeviceInfo, error) {
	di := devInfo{ID: int16(devID)}

	if _, err := c.ioctl(ioctlGetDevInfo, unsafe.Pointer(&di)); err != nil {
		return DeviceInfo{}, fmt.Errorf("device info %d: %w", devID, err)
	}

	return DeviceInfo{
		ID:      int(di.ID),
		Src:     models.AddressFromWire(di.Src),
		Dst:     models.AddressFromWire(di.Dst),
		Channel: di.Channel,
	}, nil
}

// CreateDeviceFromSocket binds a device to a connected socket, reusing
// its live connection and releasing the device on hangup.
func (c *Control) CreateDeviceFromSocket(fd int, src, dst models.Address, channel uint8) (int, error) {
	req := devRequest{
		DevID:   -1,
		Flags:   flagReuseDLC | flagReleaseOnHup,
		Src:     src.Wire(),
		Dst:     dst.Wire(),
		Channel: channel,
	}

	r, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), ioctlCreateDev,
		uintptr(unsafe.Pointer(&req)))
	if errno != 0 {
		return -1, fmt.Errorf("create device from socket: %w", errno)
	}

	return int(r), nil
}

// DevicePath returns the canonical device node path for an identifier.
func (c *Control) DevicePath(devID int) string {
	return fmt.Sprintf("/dev/rfcomm%d", devID)
}
