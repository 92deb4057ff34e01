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
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"github.com/bluekit/serialbridge/pkg/models"
	"github.com/bluekit/serialbridge/pkg/rfcomm"
)

// ClassifyTransport determines the transport kind of a proxy's local
// endpoint descriptor. An existing character device under /dev is a
// tty, a path to a socket file or an abstract socket name is a local
// socket, and a "localhost:<port>" string is loopback TCP.
func ClassifyTransport(descriptor string) models.TransportKind {
	if strings.HasPrefix(descriptor, "x00") {
		return models.LocalSocket
	}

	if strings.HasPrefix(descriptor, "localhost:") {
		return models.LoopbackTCP
	}

	info, err := os.Stat(descriptor)
	if err != nil {
		return models.UnknownTransport
	}

	switch {
	case info.Mode()&os.ModeCharDevice != 0:
		if strings.HasPrefix(descriptor, "/dev/") {
			return models.CharacterDevice
		}

		return models.UnknownTransport
	case info.Mode()&os.ModeSocket != 0:
		return models.LocalSocket
	}

	return models.UnknownTransport
}

// LocalDialer opens proxy endpoints on the host.
type LocalDialer struct{}

var _ Dialer = (*LocalDialer)(nil)

func (LocalDialer) Dial(kind models.TransportKind, descriptor string, settings models.LineSettings) (io.ReadWriteCloser, error) {
	switch kind {
	case models.CharacterDevice:
		fd, err := rfcomm.OpenTTY(descriptor, settings)
		if err != nil {
			return nil, err
		}

		return os.NewFile(uintptr(fd), descriptor), nil

	case models.LocalSocket:
		name := descriptor
		// "x00" marks an abstract socket name, which the kernel
		// addresses with a leading NUL byte.
		if strings.HasPrefix(name, "x00") {
			name = "\x00" + name[len("x00"):]
		}

		return net.Dial("unix", name)

	case models.LoopbackTCP:
		return net.Dial("tcp", descriptor)
	}

	return nil, fmt.Errorf("%w: transport %q", ErrInvalidArguments, descriptor)
}
