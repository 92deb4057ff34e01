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

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluekit/serialbridge/pkg/models"
)

func mustAddr(t *testing.T, s string) models.Address {
	t.Helper()

	addr, err := models.ParseAddress(s)
	require.NoError(t, err)

	return addr
}

func TestPortKey(t *testing.T) {
	src := mustAddr(t, "00:11:22:33:44:55")
	dst := mustAddr(t, "AA:BB:CC:DD:EE:FF")

	key := PortKey(src, dst, 3)
	assert.Equal(t, "00:11:22:33:44:55/serial/AA:BB:CC:DD:EE:FF#3", key)

	adapter, kind, entry, err := SplitKey(key)
	require.NoError(t, err)
	assert.Equal(t, "00:11:22:33:44:55", adapter)
	assert.Equal(t, KindPorts, kind)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF#3", entry)
}

func TestSplitKeyInvalid(t *testing.T) {
	for _, key := range []string{"", "a/b", "/serial/x", "a/serial/"} {
		_, _, _, err := SplitKey(key)
		assert.Error(t, err, "key %q", key)
	}
}

func TestPortEntryRoundTrip(t *testing.T) {
	in := PortEntry{
		Remote:      mustAddr(t, "AA:BB:CC:DD:EE:FF"),
		DeviceID:    7,
		Channel:     12,
		ServiceName: "Dial-up Networking",
	}

	out, err := DecodePortEntry("AA:BB:CC:DD:EE:FF#7", in.Encode())
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodePortEntryInvalid(t *testing.T) {
	tests := []struct {
		name  string
		entry string
		value string
	}{
		{"missing device id", "AA:BB:CC:DD:EE:FF", "3:spp"},
		{"bad address", "nonsense#1", "3:spp"},
		{"bad device id", "AA:BB:CC:DD:EE:FF#x", "3:spp"},
		{"missing channel separator", "AA:BB:CC:DD:EE:FF#1", "3"},
		{"channel zero", "AA:BB:CC:DD:EE:FF#1", "0:spp"},
		{"channel too high", "AA:BB:CC:DD:EE:FF#1", "31:spp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePortEntry(tt.entry, tt.value)
			assert.Error(t, err)
		})
	}
}

func TestProxyEntryRoundTrip(t *testing.T) {
	in := ProxyEntry{
		Descriptor: "/dev/ttyS0",
		UUID:       "00001101-0000-1000-8000-00805F9B34FB",
		Channel:    5,
		Flags:      0x0003,
		Name:       "Port Proxy Entity",
		Settings:   models.DefaultLineSettings(),
	}

	key := ProxyKey(mustAddr(t, "00:11:22:33:44:55"), in.Descriptor)

	_, _, entry, err := SplitKey(key)
	require.NoError(t, err)

	out, err := DecodeProxyEntry(entry, in.Encode())
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeProxyEntryInvalid(t *testing.T) {
	entry := "2f6465762f747479533000"

	tests := []struct {
		name  string
		entry string
		value string
	}{
		{"bad descriptor hex", "zz", "1101 1 0x0000:n:00"},
		{"no colon", entry, "1101 1 0x0000"},
		{"bad head", entry, "garbage:n:00"},
		{"missing settings", entry, "1101 1 0x0000:n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeProxyEntry(tt.entry, tt.value)
			assert.Error(t, err)
		})
	}
}
