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

//go:generate mockgen -destination=mock_discovery.go -package=discovery github.com/bluekit/serialbridge/pkg/discovery Client,AdapterSource

// Package discovery is the boundary to the remote service-discovery and
// record-directory service. The core only needs typed async calls; the
// wire protocol lives on the other side of these interfaces.
package discovery

import (
	"context"

	"github.com/bluekit/serialbridge/pkg/models"
)

// Adapter identifies a local radio.
type Adapter struct {
	ID      string
	Path    string
	Address models.Address
}

// Client performs discovery round trips against a remote peer and
// publishes records to the local directory.
type Client interface {
	// ServiceHandles returns the record handles matching a service
	// UUID on the remote peer.
	ServiceHandles(ctx context.Context, adapter Adapter, remote models.Address, uuid128 string) ([]uint32, error)

	// ServiceRecord fetches one record by handle.
	ServiceRecord(ctx context.Context, adapter Adapter, remote models.Address, handle uint32) ([]byte, error)

	// AddRecord publishes a record to the local directory and returns
	// its identifier.
	AddRecord(ctx context.Context, record []byte) (uint32, error)

	// RemoveRecord withdraws a previously published record.
	RemoveRecord(ctx context.Context, id uint32) error
}

// AdapterSource resolves local radios.
type AdapterSource interface {
	DefaultAdapter(ctx context.Context) (Adapter, error)
	AdapterByID(ctx context.Context, id string) (Adapter, error)
}
