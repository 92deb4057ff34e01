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
	"sort"
	"strings"
	"sync"

	"github.com/bluekit/serialbridge/pkg/discovery"
	"github.com/bluekit/serialbridge/pkg/logger"
	"github.com/bluekit/serialbridge/pkg/models"
	"github.com/bluekit/serialbridge/pkg/resolver"
	"github.com/bluekit/serialbridge/pkg/store"
)

// BasePath is the root object path for ports and proxies.
const BasePath = "/org/bluekit/serialbridge"

// Port is a persistent binding of a remote channel to a local device
// node. It survives restarts through the store.
type Port struct {
	Path        string
	Adapter     discovery.Adapter
	Remote      models.Address
	Channel     uint8
	DevID       int
	ServiceName string
}

// activeConn is a live channel produced by ConnectService, owned by
// the requester that asked for it.
type activeConn struct {
	owner  string
	devID  int
	path   string
	handle io.ReadWriteCloser
}

// Manager owns the registry, the active port and proxy sets, and the
// collaborators every operation needs.
type Manager struct {
	log      logger.Logger
	sdp      discovery.Client
	adapters discovery.AdapterSource
	binder   Binder
	dialer   Dialer
	store    store.Store
	emit     Emitter
	registry *Registry

	mu        sync.Mutex
	ports     map[string]*Port
	proxies   map[string]*Proxy
	active    map[string]*activeConn
	nextProxy int
}

func NewManager(
	log logger.Logger,
	sdpClient discovery.Client,
	adapters discovery.AdapterSource,
	binder Binder,
	dialer Dialer,
	st store.Store,
	emit Emitter,
) *Manager {
	return &Manager{
		log:      log,
		sdp:      sdpClient,
		adapters: adapters,
		binder:   binder,
		dialer:   dialer,
		store:    st,
		emit:     emit,
		registry: NewRegistry(),
		ports:    make(map[string]*Port),
		proxies:  make(map[string]*Proxy),
		active:   make(map[string]*activeConn),
	}
}

func (m *Manager) defaultAdapter(ctx context.Context) (discovery.Adapter, error) {
	adapter, err := m.adapters.DefaultAdapter(ctx)
	if err != nil {
		return discovery.Adapter{}, fmt.Errorf("no usable adapter: %w", err)
	}

	return adapter, nil
}

// ConnectService resolves pattern against the remote device and hands
// back an open device node path. It blocks the calling goroutine for
// the duration of the attempt.
func (m *Manager) ConnectService(ctx context.Context, sender, address, pattern string) (string, error) {
	adapter, err := m.defaultAdapter(ctx)
	if err != nil {
		return "", err
	}

	return m.connectWith(ctx, sender, adapter, address, pattern)
}

// ConnectServiceFromAdapter is ConnectService pinned to one adapter.
func (m *Manager) ConnectServiceFromAdapter(ctx context.Context, sender, adapterID, address, pattern string) (string, error) {
	adapter, err := m.adapters.AdapterByID(ctx, adapterID)
	if err != nil {
		return "", fmt.Errorf("%w: adapter %s", ErrDoesNotExist, adapterID)
	}

	return m.connectWith(ctx, sender, adapter, address, pattern)
}

func (m *Manager) connectWith(ctx context.Context, sender string, adapter discovery.Adapter, address, pattern string) (string, error) {
	remote, err := models.ParseAddress(address)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}

	p := newPendingConnect(sender, adapter, remote, pattern)

	if err := m.registry.Add(p); err != nil {
		return "", err
	}
	defer m.registry.Remove(p)

	m.log.Info().
		Str("remote", remote.String()).
		Str("pattern", pattern).
		Str("sender", sender).
		Msg("Connection requested")

	path, handle, err := m.runConnect(ctx, p)
	if err != nil {
		m.log.Info().
			Str("remote", remote.String()).
			Str("pattern", pattern).
			Err(err).
			Msg("Connection attempt failed")

		return "", err
	}

	m.mu.Lock()
	m.active[path] = &activeConn{
		owner:  sender,
		devID:  p.devID,
		path:   path,
		handle: handle,
	}
	m.mu.Unlock()

	m.emit.ServiceConnected(path)

	m.log.Info().
		Str("remote", remote.String()).
		Str("device", path).
		Msg("Service connected")

	return path, nil
}

// CancelConnectService cancels the caller's pending attempt for
// (address, pattern). Only the requester that submitted it may cancel.
func (m *Manager) CancelConnectService(sender, address, pattern string) error {
	remote, err := models.ParseAddress(address)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}

	p := m.registry.Find(remote, pattern)
	if p == nil || p.Owner != sender {
		return ErrDoesNotExist
	}

	p.Cancel()

	return nil
}

// DisconnectService releases the device produced by a previous
// ConnectService. Only the owner may disconnect it.
func (m *Manager) DisconnectService(_ context.Context, sender, devicePath string) error {
	m.mu.Lock()

	ac, ok := m.active[devicePath]
	if !ok {
		m.mu.Unlock()

		return ErrDoesNotExist
	}

	if ac.owner != sender {
		m.mu.Unlock()

		return ErrNotAuthorized
	}

	delete(m.active, devicePath)
	m.mu.Unlock()

	m.teardownActive(ac)
	m.emit.ServiceDisconnected(devicePath)

	return nil
}

func (m *Manager) teardownActive(ac *activeConn) {
	if ac.handle != nil {
		ac.handle.Close()
	}

	if err := m.binder.Release(ac.devID); err != nil {
		m.log.Warn().Err(err).Str("device", ac.path).Msg("Device release failed")
	}
}

// OwnerExited cleans up after a requester that left the bus: pending
// attempts are canceled and live connections are torn down, all
// without error replies since nobody is left to receive them.
func (m *Manager) OwnerExited(owner string) {
	for _, p := range m.registry.ByOwner(owner) {
		p.Cancel()
	}

	m.mu.Lock()

	var orphaned []*activeConn

	for path, ac := range m.active {
		if ac.owner == owner {
			delete(m.active, path)
			orphaned = append(orphaned, ac)
		}
	}
	m.mu.Unlock()

	for _, ac := range orphaned {
		m.teardownActive(ac)
		m.emit.ServiceDisconnected(ac.path)
	}
}

// CreatePort resolves pattern like ConnectService but binds a
// persistent device instead of opening a connection, and records the
// binding in the store.
func (m *Manager) CreatePort(ctx context.Context, sender, address, pattern string) (string, error) {
	adapter, err := m.defaultAdapter(ctx)
	if err != nil {
		return "", err
	}

	remote, err := models.ParseAddress(address)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}

	p := newPendingConnect(sender, adapter, remote, pattern)

	if err := m.registry.Add(p); err != nil {
		return "", err
	}
	defer m.registry.Remove(p)

	channel, name, err := m.resolveChannel(ctx, p)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	for _, port := range m.ports {
		if port.Remote == remote && port.Channel == channel {
			m.mu.Unlock()

			return "", ErrAlreadyExists
		}
	}
	m.mu.Unlock()

	devID, err := m.binder.BindPersistent(-1, adapter.Address, remote, channel)
	if err != nil {
		return "", &OpError{Op: "bind", Err: err}
	}

	port := &Port{
		Path:        fmt.Sprintf("%s/rfcomm%d", BasePath, devID),
		Adapter:     adapter,
		Remote:      remote,
		Channel:     channel,
		DevID:       devID,
		ServiceName: name,
	}

	if err := m.savePort(ctx, port); err != nil {
		_ = m.binder.Release(devID)

		return "", err
	}

	m.mu.Lock()
	m.ports[port.Path] = port
	m.mu.Unlock()

	m.emit.PortCreated(port.Path)

	m.log.Info().
		Str("port", port.Path).
		Str("remote", remote.String()).
		Uint8("channel", channel).
		Msg("Port created")

	return port.Path, nil
}

// ListPorts returns the object paths of all persistent ports.
func (m *Manager) ListPorts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	paths := make([]string, 0, len(m.ports))
	for path := range m.ports {
		paths = append(paths, path)
	}

	sort.Strings(paths)

	return paths
}

// RemovePort releases a persistent port's device and forgets it.
func (m *Manager) RemovePort(ctx context.Context, path string) error {
	m.mu.Lock()

	port, ok := m.ports[path]
	if !ok {
		m.mu.Unlock()

		return ErrDoesNotExist
	}

	delete(m.ports, path)
	m.mu.Unlock()

	if err := m.binder.Release(port.DevID); err != nil {
		m.log.Warn().Err(err).Str("port", path).Msg("Device release failed")
	}

	key := store.PortKey(port.Adapter.Address, port.Remote, port.DevID)
	if err := m.store.Delete(ctx, key); err != nil {
		m.log.Warn().Err(err).Str("port", path).Msg("Failed to delete port entry")
	}

	m.emit.PortRemoved(path)

	return nil
}

func (m *Manager) savePort(ctx context.Context, port *Port) error {
	entry := store.PortEntry{
		Remote:      port.Remote,
		DeviceID:    port.DevID,
		Channel:     port.Channel,
		ServiceName: port.ServiceName,
	}

	key := store.PortKey(port.Adapter.Address, port.Remote, port.DevID)

	return m.store.Put(ctx, key, entry.Encode())
}

// CreateProxy registers a disabled proxy for a local endpoint.
func (m *Manager) CreateProxy(ctx context.Context, uuidPattern, descriptor string) (string, error) {
	adapter, err := m.defaultAdapter(ctx)
	if err != nil {
		return "", err
	}

	res, err := resolver.Resolve(uuidPattern)
	if err != nil || res.Kind != resolver.KindUUID {
		return "", fmt.Errorf("%w: uuid %q", ErrInvalidArguments, uuidPattern)
	}

	kind := ClassifyTransport(descriptor)
	if kind == models.UnknownTransport {
		return "", fmt.Errorf("%w: transport %q", ErrInvalidArguments, descriptor)
	}

	m.mu.Lock()

	for _, proxy := range m.proxies {
		if proxy.descriptor == descriptor {
			m.mu.Unlock()

			return "", ErrAlreadyExists
		}
	}

	proxy := &Proxy{
		path:       fmt.Sprintf("%s/proxy%d", BasePath, m.nextProxy),
		adapter:    adapter,
		uuid:       res.UUID,
		descriptor: descriptor,
		kind:       kind,
		settings:   models.DefaultLineSettings(),
		m:          m,
	}
	m.nextProxy++
	m.proxies[proxy.path] = proxy
	m.mu.Unlock()

	if err := m.saveProxy(ctx, proxy); err != nil {
		m.mu.Lock()
		delete(m.proxies, proxy.path)
		m.mu.Unlock()

		return "", err
	}

	m.emit.ProxyCreated(proxy.path)

	m.log.Info().
		Str("proxy", proxy.path).
		Str("endpoint", descriptor).
		Str("kind", kind.String()).
		Msg("Proxy created")

	return proxy.path, nil
}

// ListProxies returns the object paths of all registered proxies.
func (m *Manager) ListProxies() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	paths := make([]string, 0, len(m.proxies))
	for path := range m.proxies {
		paths = append(paths, path)
	}

	sort.Strings(paths)

	return paths
}

// ProxyAt returns the proxy registered at an object path.
func (m *Manager) ProxyAt(path string) (*Proxy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	proxy, ok := m.proxies[path]
	if !ok {
		return nil, ErrDoesNotExist
	}

	return proxy, nil
}

// RemoveProxy disables a proxy if needed and forgets it.
func (m *Manager) RemoveProxy(ctx context.Context, path string) error {
	m.mu.Lock()

	proxy, ok := m.proxies[path]
	if !ok {
		m.mu.Unlock()

		return ErrDoesNotExist
	}

	delete(m.proxies, path)
	m.mu.Unlock()

	if proxy.enabled() {
		if err := proxy.Disable(ctx); err != nil {
			m.log.Warn().Err(err).Str("proxy", path).Msg("Disable during removal failed")
		}
	}

	key := store.ProxyKey(proxy.adapter.Address, proxy.descriptor)
	if err := m.store.Delete(ctx, key); err != nil {
		m.log.Warn().Err(err).Str("proxy", path).Msg("Failed to delete proxy entry")
	}

	m.emit.ProxyRemoved(path)

	return nil
}

const proxyFlagEnabled = 0x0001

func (m *Manager) saveProxy(ctx context.Context, proxy *Proxy) error {
	var flags uint16
	if proxy.enabled() {
		flags |= proxyFlagEnabled
	}

	entry := store.ProxyEntry{
		Descriptor: proxy.descriptor,
		UUID:       proxy.uuid,
		Channel:    proxy.boundChannel,
		Flags:      flags,
		Name:       "Port Proxy Entity",
		Settings:   proxy.lineSettings(),
	}

	key := store.ProxyKey(proxy.adapter.Address, proxy.descriptor)

	return m.store.Put(ctx, key, entry.Encode())
}

// Replay restores persisted ports and proxies for the adapter. Ports
// get their devices rebound under the stored identifiers; proxies come
// back registered but disabled.
func (m *Manager) Replay(ctx context.Context) error {
	adapter, err := m.defaultAdapter(ctx)
	if err != nil {
		return err
	}

	keys, err := m.store.Keys(ctx, adapter.Address.String()+"/")
	if err != nil {
		return fmt.Errorf("failed to list persisted entries: %w", err)
	}

	for _, key := range keys {
		_, kind, entry, err := store.SplitKey(key)
		if err != nil {
			continue
		}

		value, found, err := m.store.Get(ctx, key)
		if err != nil || !found {
			continue
		}

		switch kind {
		case store.KindPorts:
			m.replayPort(adapter, entry, value)
		case store.KindProxies:
			m.replayProxy(adapter, entry, value)
		}
	}

	return nil
}

func (m *Manager) replayPort(adapter discovery.Adapter, entry, value string) {
	pe, err := store.DecodePortEntry(entry, value)
	if err != nil {
		m.log.Warn().Err(err).Str("entry", entry).Msg("Skipping bad port entry")

		return
	}

	devID, err := m.binder.BindPersistent(pe.DeviceID, adapter.Address, pe.Remote, pe.Channel)
	if err != nil {
		m.log.Warn().Err(err).Str("entry", entry).Msg("Failed to rebind port")

		return
	}

	port := &Port{
		Path:        fmt.Sprintf("%s/rfcomm%d", BasePath, devID),
		Adapter:     adapter,
		Remote:      pe.Remote,
		Channel:     pe.Channel,
		DevID:       devID,
		ServiceName: pe.ServiceName,
	}

	m.mu.Lock()
	m.ports[port.Path] = port
	m.mu.Unlock()

	m.log.Info().Str("port", port.Path).Msg("Port restored")
}

func (m *Manager) replayProxy(adapter discovery.Adapter, entry, value string) {
	pe, err := store.DecodeProxyEntry(entry, value)
	if err != nil {
		m.log.Warn().Err(err).Str("entry", entry).Msg("Skipping bad proxy entry")

		return
	}

	kind := ClassifyTransport(pe.Descriptor)
	if kind == models.UnknownTransport {
		m.log.Warn().Str("endpoint", pe.Descriptor).Msg("Skipping proxy with missing endpoint")

		return
	}

	m.mu.Lock()

	proxy := &Proxy{
		path:       fmt.Sprintf("%s/proxy%d", BasePath, m.nextProxy),
		adapter:    adapter,
		uuid:       strings.ToUpper(pe.UUID),
		descriptor: pe.Descriptor,
		kind:       kind,
		channel:    pe.Channel,
		settings:   pe.Settings,
		m:          m,
	}
	m.nextProxy++
	m.proxies[proxy.path] = proxy
	m.mu.Unlock()

	m.log.Info().Str("proxy", proxy.path).Msg("Proxy restored")
}

// Shutdown persists proxy state, disables everything, and releases all
// bound devices.
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.Lock()

	proxies := make([]*Proxy, 0, len(m.proxies))
	for _, proxy := range m.proxies {
		proxies = append(proxies, proxy)
	}

	ports := make([]*Port, 0, len(m.ports))
	for _, port := range m.ports {
		ports = append(ports, port)
	}

	actives := make([]*activeConn, 0, len(m.active))
	for _, ac := range m.active {
		actives = append(actives, ac)
	}

	m.active = make(map[string]*activeConn)
	m.mu.Unlock()

	for _, proxy := range proxies {
		if err := m.saveProxy(ctx, proxy); err != nil {
			m.log.Warn().Err(err).Str("proxy", proxy.path).Msg("Failed to persist proxy")
		}

		if proxy.enabled() {
			if err := proxy.Disable(ctx); err != nil {
				m.log.Warn().Err(err).Str("proxy", proxy.path).Msg("Disable failed")
			}
		}
	}

	for _, ac := range actives {
		m.teardownActive(ac)
	}

	for _, port := range ports {
		if err := m.binder.Release(port.DevID); err != nil {
			m.log.Warn().Err(err).Str("port", port.Path).Msg("Device release failed")
		}
	}
}
