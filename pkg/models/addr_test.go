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

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("00:1a:2B:3c:4D:5e")
	require.NoError(t, err)
	assert.Equal(t, "00:1A:2B:3C:4D:5E", addr.String())

	for _, bad := range []string{"", "00:11:22:33:44", "00:11:22:33:44:GG", "001122334455"} {
		_, err := ParseAddress(bad)
		assert.Error(t, err, "address %q", bad)
	}
}

func TestAddressWireOrder(t *testing.T) {
	addr, err := ParseAddress("00:11:22:33:44:55")
	require.NoError(t, err)

	// The kernel carries the bytes least significant first.
	wire := addr.Wire()
	assert.Equal(t, [6]byte{0x55, 0x44, 0x33, 0x22, 0x11, 0x00}, wire)
	assert.Equal(t, addr, AddressFromWire(wire))
}

func TestAddressIsZero(t *testing.T) {
	assert.True(t, AnyAddress.IsZero())

	addr, err := ParseAddress("00:00:00:00:00:01")
	require.NoError(t, err)
	assert.False(t, addr.IsZero())
}
