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
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluekit/serialbridge/pkg/models"
)

func TestClassifyTransport(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "bridge.sock")

	ln, err := net.Listen("unix", sockPath)
	require.NoError(t, err)
	defer ln.Close()

	regular := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(regular, []byte("x"), 0o600))

	// A character device reached outside the /dev namespace is not a
	// serviceable tty endpoint.
	strayDev := filepath.Join(t.TempDir(), "null")
	require.NoError(t, os.Symlink("/dev/null", strayDev))

	tests := []struct {
		name       string
		descriptor string
		want       models.TransportKind
	}{
		{"character device", "/dev/null", models.CharacterDevice},
		{"unix socket file", sockPath, models.LocalSocket},
		{"abstract socket", "x00serialbridge", models.LocalSocket},
		{"loopback tcp", "localhost:9000", models.LoopbackTCP},
		{"missing path", filepath.Join(t.TempDir(), "absent"), models.UnknownTransport},
		{"regular file rejected", regular, models.UnknownTransport},
		{"character device outside /dev", strayDev, models.UnknownTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyTransport(tt.descriptor))
		})
	}
}

func TestLocalDialerUnixSocket(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "bridge.sock")

	ln, err := net.Listen("unix", sockPath)
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)

	go func() {
		conn, aerr := ln.Accept()
		if aerr == nil {
			accepted <- conn
		}
	}()

	conn, err := LocalDialer{}.Dial(models.LocalSocket, sockPath, models.DefaultLineSettings())
	require.NoError(t, err)
	defer conn.Close()

	server := <-accepted
	defer server.Close()

	_, err = conn.Write([]byte("hi"))
	require.NoError(t, err)

	buf := make([]byte, 2)
	_, err = server.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "hi", string(buf))
}

func TestLocalDialerLoopbackTCP(t *testing.T) {
	ln, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	defer ln.Close()

	conn, err := LocalDialer{}.Dial(models.LoopbackTCP, ln.Addr().String(), models.DefaultLineSettings())
	require.NoError(t, err)

	conn.Close()
}

func TestLocalDialerUnknownKind(t *testing.T) {
	_, err := LocalDialer{}.Dial(models.UnknownTransport, "whatever", models.DefaultLineSettings())
	assert.ErrorIs(t, err, ErrInvalidArguments)
}
