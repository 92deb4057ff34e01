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
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NatsStore backs the Store interface with a JetStream KV bucket so a
// fleet of bridges can share persisted port and proxy state.
type NatsStore struct {
	nc *nats.Conn
	kv jetstream.KeyValue
}

var _ Store = (*NatsStore)(nil)

func NewNatsStore(ctx context.Context, natsURL, bucket string) (*NatsStore, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()

		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	kv, err := js.CreateKeyValue(ctx, jetstream.KeyValueConfig{Bucket: bucket})
	if err != nil {
		nc.Close()

		return nil, fmt.Errorf("failed to create KV bucket: %w", err)
	}

	return &NatsStore{nc: nc, kv: kv}, nil
}

// JetStream KV keys allow [-/_=.a-zA-Z0-9] segments joined by dots.
// Store keys use '/' separators and carry ':' and '#' inside segments,
// so translate both ways.
func encodeNatsKey(key string) string {
	key = strings.ReplaceAll(key, ":", "-")
	key = strings.ReplaceAll(key, "#", "=")

	return strings.ReplaceAll(key, "/", ".")
}

func decodeNatsKey(key string) string {
	key = strings.ReplaceAll(key, ".", "/")
	key = strings.ReplaceAll(key, "=", "#")

	return strings.ReplaceAll(key, "-", ":")
}

func (n *NatsStore) Get(ctx context.Context, key string) (string, bool, error) {
	entry, err := n.kv.Get(ctx, encodeNatsKey(key))
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("failed to get key %s: %w", key, err)
	}

	return string(entry.Value()), true, nil
}

func (n *NatsStore) Put(ctx context.Context, key, value string) error {
	if _, err := n.kv.Put(ctx, encodeNatsKey(key), []byte(value)); err != nil {
		return fmt.Errorf("failed to put key %s: %w", key, err)
	}

	return nil
}

func (n *NatsStore) Delete(ctx context.Context, key string) error {
	err := n.kv.Delete(ctx, encodeNatsKey(key))
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}

	return nil
}

func (n *NatsStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	lister, err := n.kv.ListKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	var keys []string

	for encoded := range lister.Keys() {
		key := decodeNatsKey(encoded)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}

	sort.Strings(keys)

	return keys, nil
}

func (n *NatsStore) Close() error {
	n.nc.Close()

	return nil
}
