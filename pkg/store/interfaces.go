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

//go:generate mockgen -destination=mock_store.go -package=store github.com/bluekit/serialbridge/pkg/store Store

// Package store persists port and proxy configuration keyed by local
// radio address so it can be replayed at startup.
package store

import (
	"context"
)

// Store is the key-value persistence boundary. Keys are slash-separated
// paths of the form <adapter>/<kind>/<entry>.
type Store interface {
	// Get retrieves the value for a key, reporting whether it exists.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Put stores a value under a key, replacing any existing value.
	Put(ctx context.Context, key, value string) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists all keys with the given prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Close releases backend resources.
	Close() error
}
