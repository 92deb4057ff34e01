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

//go:generate mockgen -destination=mock_serial.go -package=serial github.com/bluekit/serialbridge/pkg/serial Binder,Listener,Dialer,Emitter

// Package serial implements the channel orchestration core: it turns
// (remote address, pattern) requests into bound virtual devices and
// runs user-configured proxies that splice inbound radio connections
// onto local transports.
package serial

import (
	"context"
	"io"

	"github.com/bluekit/serialbridge/pkg/models"
)

// Binder abstracts the kernel-facing RFCOMM operations so the
// orchestrator and proxy engine can run against fakes in tests.
type Binder interface {
	// Connect establishes an outgoing connection and returns the
	// connected socket descriptor.
	Connect(ctx context.Context, src, dst models.Address, channel uint8) (int, error)

	// BindSocket creates a virtual channel device bound to a live
	// connected socket. The device hangs up and releases itself when
	// the connection drops.
	BindSocket(fd int, src, dst models.Address, channel uint8) (int, error)

	// BindPersistent creates a virtual channel device that connects on
	// first open and survives hangups. devID -1 lets the kernel pick
	// the identifier; replay passes the stored one.
	BindPersistent(devID int, src, dst models.Address, channel uint8) (int, error)

	// Release destroys a bound device. Releasing an already released
	// device is not an error.
	Release(devID int) error

	// DevicePath returns the device node path for a device identifier.
	DevicePath(devID int) string

	// OpenDevice attempts a single open of a device node.
	OpenDevice(path string) (io.ReadWriteCloser, error)

	// CloseSocket closes a socket descriptor from Connect.
	CloseSocket(fd int) error

	// Listen opens a listening socket on the local radio address.
	// Channel 0 asks the kernel to assign one; the bound channel is
	// returned.
	Listen(src models.Address, channel uint8, backlog int) (Listener, uint8, error)
}

// Listener accepts inbound radio connections for a proxy.
type Listener interface {
	// Accept blocks until a peer connects or the listener is closed.
	Accept() (conn io.ReadWriteCloser, peer models.Address, err error)

	Close() error
}

// Dialer opens the local side of a proxy according to its transport
// kind.
type Dialer interface {
	Dial(kind models.TransportKind, descriptor string, settings models.LineSettings) (io.ReadWriteCloser, error)
}

// Emitter is the outbound notification boundary. The D-Bus layer
// implements it with signals; tests implement it with recorders.
type Emitter interface {
	PortCreated(path string)
	PortRemoved(path string)
	ProxyCreated(path string)
	ProxyRemoved(path string)
	ServiceConnected(device string)
	ServiceDisconnected(device string)
}
