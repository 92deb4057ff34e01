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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluekit/serialbridge/pkg/discovery"
	"github.com/bluekit/serialbridge/pkg/models"
)

func testRemote(t *testing.T) models.Address {
	t.Helper()

	addr, err := models.ParseAddress("AA:BB:CC:DD:EE:FF")
	require.NoError(t, err)

	return addr
}

func TestRegistryRejectsDuplicate(t *testing.T) {
	reg := NewRegistry()
	remote := testRemote(t)

	first := newPendingConnect(":1.10", discovery.Adapter{}, remote, "spp")
	require.NoError(t, reg.Add(first))

	second := newPendingConnect(":1.11", discovery.Adapter{}, remote, "spp")
	assert.ErrorIs(t, reg.Add(second), ErrInProgress)

	// The same pattern in different case is still the same request.
	third := newPendingConnect(":1.12", discovery.Adapter{}, remote, "SPP")
	assert.ErrorIs(t, reg.Add(third), ErrInProgress)

	assert.Same(t, first, reg.Find(remote, "spp"))
}

func TestRegistryRemoveOnlyDropsOwnEntry(t *testing.T) {
	reg := NewRegistry()
	remote := testRemote(t)

	first := newPendingConnect(":1.10", discovery.Adapter{}, remote, "dun")
	require.NoError(t, reg.Add(first))
	reg.Remove(first)

	second := newPendingConnect(":1.10", discovery.Adapter{}, remote, "dun")
	require.NoError(t, reg.Add(second))

	// Removing the stale first attempt must not evict the new one.
	reg.Remove(first)
	assert.True(t, reg.Contains(second))
}

func TestRegistryByOwner(t *testing.T) {
	reg := NewRegistry()
	remote := testRemote(t)

	a := newPendingConnect(":1.10", discovery.Adapter{}, remote, "spp")
	b := newPendingConnect(":1.10", discovery.Adapter{}, remote, "dun")
	c := newPendingConnect(":1.20", discovery.Adapter{}, remote, "ftp")

	require.NoError(t, reg.Add(a))
	require.NoError(t, reg.Add(b))
	require.NoError(t, reg.Add(c))

	assert.ElementsMatch(t, []*PendingConnect{a, b}, reg.ByOwner(":1.10"))
	assert.Empty(t, reg.ByOwner(":1.99"))
}
