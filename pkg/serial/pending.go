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
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/bluekit/serialbridge/pkg/discovery"
	"github.com/bluekit/serialbridge/pkg/models"
	"github.com/bluekit/serialbridge/pkg/resolver"
	"github.com/bluekit/serialbridge/pkg/sdp"
)

const (
	openRetryDelay = 300 * time.Millisecond
	openAttempts   = 5
)

// PendingConnect is one outstanding request to turn a (remote address,
// pattern) pair into an open device node. It is mutated only by the
// goroutine driving it; Cancel flips a flag that the next stage
// observes.
type PendingConnect struct {
	Owner   string
	Adapter discovery.Adapter
	Remote  models.Address
	Pattern string

	channel uint8
	devID   int

	mu       sync.Mutex
	canceled bool
}

func newPendingConnect(owner string, adapter discovery.Adapter, remote models.Address, pattern string) *PendingConnect {
	return &PendingConnect{
		Owner:   owner,
		Adapter: adapter,
		Remote:  remote,
		Pattern: pattern,
		devID:   -1,
	}
}

// Cancel asks the attempt to stop at its next stage boundary.
func (p *PendingConnect) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.canceled = true
}

func (p *PendingConnect) isCanceled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.canceled
}

// checkpoint aborts the attempt if it was canceled or evicted from the
// registry while an async stage was in flight.
func (p *PendingConnect) checkpoint(reg *Registry) error {
	if p.isCanceled() || !reg.Contains(p) {
		return ErrCanceled
	}

	return nil
}

// runConnect drives one connection attempt through discovery, connect,
// device binding, and the bounded device-node open retry. It returns
// the device path and the open handle on success. Any bound device is
// released on failure or cancellation.
func (m *Manager) runConnect(ctx context.Context, p *PendingConnect) (string, io.ReadWriteCloser, error) {
	channel, _, err := m.resolveChannel(ctx, p)
	if err != nil {
		return "", nil, err
	}

	p.channel = channel

	if err := p.checkpoint(m.registry); err != nil {
		return "", nil, err
	}

	fd, err := m.binder.Connect(ctx, p.Adapter.Address, p.Remote, channel)
	if err != nil {
		return "", nil, connectionFailed(err)
	}

	if err := p.checkpoint(m.registry); err != nil {
		_ = m.binder.CloseSocket(fd)

		return "", nil, err
	}

	devID, err := m.binder.BindSocket(fd, p.Adapter.Address, p.Remote, channel)
	if err != nil {
		_ = m.binder.CloseSocket(fd)

		return "", nil, connectionFailed(err)
	}

	p.devID = devID
	path := m.binder.DevicePath(devID)

	handle, err := m.openWithRetry(p, path)

	// The bound device reuses the socket's DLC, so the socket itself is
	// finished with once the open has been decided.
	_ = m.binder.CloseSocket(fd)

	if err != nil {
		_ = m.binder.Release(devID)

		return "", nil, err
	}

	return path, handle, nil
}

// resolveChannel turns the request's pattern into an RFCOMM channel.
// Literal channels skip discovery entirely; record handles skip the
// handle lookup and fetch exactly one record.
func (m *Manager) resolveChannel(ctx context.Context, p *PendingConnect) (uint8, string, error) {
	res, err := resolver.Resolve(p.Pattern)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}

	if res.Kind == resolver.KindChannel {
		return res.Channel, "", nil
	}

	handle := res.Handle

	if res.Kind == resolver.KindUUID {
		handles, err := m.sdp.ServiceHandles(ctx, p.Adapter, p.Remote, res.UUID)
		if err != nil {
			return 0, "", fmt.Errorf("%w: %w", ErrNotSupported, err)
		}

		if len(handles) == 0 {
			return 0, "", fmt.Errorf("%w: no record for %s", ErrNotSupported, res.UUID)
		}

		handle = handles[0]

		if err := p.checkpoint(m.registry); err != nil {
			return 0, "", err
		}
	}

	record, err := m.sdp.ServiceRecord(ctx, p.Adapter, p.Remote, handle)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %w", ErrNotSupported, err)
	}

	if err := p.checkpoint(m.registry); err != nil {
		return 0, "", err
	}

	channel, err := sdp.ExtractChannel(record)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %w", ErrNotSupported, err)
	}

	return channel, sdp.ServiceName(record), nil
}

// openWithRetry opens the device node, retrying while the kernel is
// still materializing it.
func (m *Manager) openWithRetry(p *PendingConnect, path string) (io.ReadWriteCloser, error) {
	var lastErr error

	for attempt := 0; attempt < openAttempts; attempt++ {
		if err := p.checkpoint(m.registry); err != nil {
			return nil, err
		}

		if attempt > 0 {
			time.Sleep(openRetryDelay)
		}

		handle, err := m.binder.OpenDevice(path)
		if err == nil {
			return handle, nil
		}

		lastErr = err

		m.log.Debug().
			Str("device", path).
			Int("attempt", attempt+1).
			Err(err).
			Msg("Device node not ready")
	}

	return nil, openFailed(lastErr)
}
