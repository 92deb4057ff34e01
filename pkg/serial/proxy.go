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
	"sync"

	"golang.org/x/sys/unix"

	"github.com/bluekit/serialbridge/pkg/discovery"
	"github.com/bluekit/serialbridge/pkg/models"
	"github.com/bluekit/serialbridge/pkg/rfcomm"
	"github.com/bluekit/serialbridge/pkg/sdp"
)

// Proxy is a standing bridge between the radio transport and one local
// endpoint. Disabled it is just configuration; enabled it listens,
// publishes a service record, and splices at most one inbound
// connection onto the local endpoint at a time.
type Proxy struct {
	path       string
	adapter    discovery.Adapter
	uuid       string
	descriptor string
	kind       models.TransportKind

	m *Manager

	mu           sync.Mutex
	settings     models.LineSettings
	channel      uint8
	boundChannel uint8
	recordID     uint32
	listener     Listener
	fwd          *forwarder
	peer         models.Address
	connected    bool
	savedLine    *unix.Termios
}

// Path returns the proxy's object path.
func (p *Proxy) Path() string { return p.path }

// UUID returns the proxy's service UUID.
func (p *Proxy) UUID() string { return p.uuid }

// Descriptor returns the local endpoint descriptor.
func (p *Proxy) Descriptor() string { return p.descriptor }

// Enable opens the listen socket and publishes the service record.
func (p *Proxy) Enable(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.listener != nil {
		return ErrAlreadyEnabled
	}

	listener, bound, err := p.m.binder.Listen(p.adapter.Address, p.channel, 1)
	if err != nil {
		return listenFailed(err)
	}

	record, err := sdp.ProxyRecord(p.uuid, bound)
	if err != nil {
		listener.Close()

		return publishFailed(err)
	}

	recordID, err := p.m.sdp.AddRecord(ctx, record)
	if err != nil {
		listener.Close()

		return publishFailed(err)
	}

	// The endpoint's line discipline is put back on teardown, so
	// snapshot it before the first open can touch it.
	if p.kind == models.CharacterDevice {
		ti, err := rfcomm.SaveTermios(p.descriptor)
		if err != nil {
			p.m.log.Warn().
				Err(err).
				Str("proxy", p.path).
				Msg("Could not snapshot tty line settings")
		} else {
			p.savedLine = ti
		}
	}

	p.listener = listener
	p.boundChannel = bound
	p.recordID = recordID

	go p.acceptLoop(listener)

	p.m.log.Info().
		Str("proxy", p.path).
		Uint8("channel", bound).
		Msg("Proxy enabled")

	return nil
}

// Disable tears down the listener, any live forwarding pair, and the
// published record.
func (p *Proxy) Disable(ctx context.Context) error {
	p.mu.Lock()

	if p.listener == nil {
		p.mu.Unlock()

		return ErrNotEnabled
	}

	listener := p.listener
	fwd := p.fwd
	recordID := p.recordID
	savedLine := p.savedLine

	p.listener = nil
	p.fwd = nil
	p.recordID = 0
	p.boundChannel = 0
	p.connected = false
	p.peer = models.Address{}
	p.savedLine = nil

	p.mu.Unlock()

	listener.Close()

	if fwd != nil {
		fwd.stop()
	}

	if savedLine != nil {
		if err := rfcomm.RestoreTermios(p.descriptor, savedLine); err != nil {
			p.m.log.Warn().Err(err).Str("proxy", p.path).Msg("Could not restore tty line settings")
		}
	}

	if err := p.m.sdp.RemoveRecord(ctx, recordID); err != nil {
		p.m.log.Warn().Err(err).Str("proxy", p.path).Msg("Failed to remove service record")
	}

	p.m.log.Info().Str("proxy", p.path).Msg("Proxy disabled")

	return nil
}

func (p *Proxy) acceptLoop(listener Listener) {
	for {
		conn, peer, err := listener.Accept()
		if err != nil {
			return
		}

		p.mu.Lock()

		// A stale accept after Disable, or a second peer while one is
		// already bridged. Either way the connection is not wanted.
		if p.listener != listener || p.connected {
			p.mu.Unlock()
			conn.Close()

			continue
		}

		local, err := p.m.dialer.Dial(p.kind, p.descriptor, p.settings)
		if err != nil {
			p.mu.Unlock()
			conn.Close()

			p.m.log.Warn().
				Err(err).
				Str("proxy", p.path).
				Msg("Local endpoint open failed, dropping peer")

			continue
		}

		fwd := newForwarder(conn, local)
		p.fwd = fwd
		p.peer = peer
		p.connected = true
		p.mu.Unlock()

		p.m.log.Info().
			Str("proxy", p.path).
			Str("peer", peer.String()).
			Msg("Proxy peer connected")

		fwd.start(func() { p.connectionEnded(fwd) })
	}
}

// connectionEnded returns the proxy to the plain enabled state once
// both forwarding directions have finished.
func (p *Proxy) connectionEnded(fwd *forwarder) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.fwd != fwd {
		return
	}

	p.fwd = nil
	p.connected = false
	p.peer = models.Address{}

	p.m.log.Info().Str("proxy", p.path).Msg("Proxy peer disconnected")
}

// SetSerialParameters updates the line settings used on the next local
// device open. It is rejected while a peer is connected.
func (p *Proxy) SetSerialParameters(rate uint32, dataBits, stopBits uint8, parity string) error {
	settings := models.LineSettings{
		Rate:     rate,
		DataBits: dataBits,
		StopBits: stopBits,
		Parity:   parity,
	}

	if err := settings.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}

	p.mu.Lock()

	if p.connected {
		p.mu.Unlock()

		return ErrNotAllowed
	}

	p.settings = settings
	p.mu.Unlock()

	return p.m.saveProxy(context.Background(), p)
}

// Info returns a read-only snapshot of the proxy state. The peer
// address is only present while connected.
func (p *Proxy) Info() models.ProxyInfo {
	p.mu.Lock()
	defer p.mu.Unlock()

	info := models.ProxyInfo{
		UUID:      p.uuid,
		Address:   p.descriptor,
		Kind:      p.kind,
		Channel:   p.boundChannel,
		Enabled:   p.listener != nil,
		Connected: p.connected,
	}

	if p.connected {
		info.Peer = p.peer.String()
	}

	return info
}

func (p *Proxy) enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.listener != nil
}

func (p *Proxy) lineSettings() models.LineSettings {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.settings
}
