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
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/bluekit/serialbridge/pkg/logger"
)

const (
	// ManagerInterface is the control interface exposed at BasePath.
	ManagerInterface = "org.bluekit.serialbridge.Manager"

	// ProxyInterface is exposed on every created proxy object.
	ProxyInterface = "org.bluekit.serialbridge.Proxy"

	errorPrefix = "org.bluekit.serialbridge.Error."
)

// Service exposes a Manager on the D-Bus system bus.
type Service struct {
	conn    *dbus.Conn
	mgr     *Manager
	log     logger.Logger
	busName string
}

func NewService(conn *dbus.Conn, mgr *Manager, busName string, log logger.Logger) *Service {
	return &Service{conn: conn, mgr: mgr, busName: busName, log: log}
}

// Start exports the manager and any replayed proxies, claims the bus
// name, and blocks until ctx is canceled.
func (s *Service) Start(ctx context.Context) error {
	if err := s.conn.Export(&managerObject{s: s}, BasePath, ManagerInterface); err != nil {
		return fmt.Errorf("failed to export manager: %w", err)
	}

	for _, path := range s.mgr.ListProxies() {
		if err := s.exportProxy(path); err != nil {
			return err
		}
	}

	reply, err := s.conn.RequestName(s.busName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}

	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", s.busName)
	}

	if err := s.watchOwners(ctx); err != nil {
		return err
	}

	s.log.Info().Str("bus_name", s.busName).Msg("Serial bridge ready")

	<-ctx.Done()

	return nil
}

// Stop tears down everything the manager owns and gives up the name.
func (s *Service) Stop(ctx context.Context) error {
	s.mgr.Shutdown(ctx)

	if _, err := s.conn.ReleaseName(s.busName); err != nil {
		return fmt.Errorf("failed to release bus name: %w", err)
	}

	return nil
}

// watchOwners cancels outstanding work when a requester drops off the
// bus.
func (s *Service) watchOwners(ctx context.Context) error {
	err := s.conn.AddMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
	)
	if err != nil {
		return fmt.Errorf("failed to match NameOwnerChanged: %w", err)
	}

	signals := make(chan *dbus.Signal, 16)
	s.conn.Signal(signals)

	go func() {
		for {
			select {
			case <-ctx.Done():
				s.conn.RemoveSignal(signals)

				return
			case sig, ok := <-signals:
				if !ok {
					return
				}

				if sig.Name != "org.freedesktop.DBus.NameOwnerChanged" || len(sig.Body) != 3 {
					continue
				}

				name, _ := sig.Body[0].(string)
				newOwner, _ := sig.Body[2].(string)

				if newOwner == "" && name != "" {
					s.mgr.OwnerExited(name)
				}
			}
		}
	}()

	return nil
}

func (s *Service) exportProxy(path string) error {
	obj := &proxyObject{s: s, path: path}

	if err := s.conn.Export(obj, dbus.ObjectPath(path), ProxyInterface); err != nil {
		return fmt.Errorf("failed to export proxy %s: %w", path, err)
	}

	return nil
}

func (s *Service) unexportProxy(path string) {
	if err := s.conn.Export(nil, dbus.ObjectPath(path), ProxyInterface); err != nil {
		s.log.Warn().Err(err).Str("proxy", path).Msg("Failed to unexport proxy")
	}
}

// busEmitter broadcasts manager signals on the bus.
type busEmitter struct {
	conn *dbus.Conn
	log  logger.Logger
}

// NewBusEmitter returns an Emitter that broadcasts signals from the
// manager object path.
func NewBusEmitter(conn *dbus.Conn, log logger.Logger) Emitter {
	return &busEmitter{conn: conn, log: log}
}

func (e *busEmitter) emit(member string, args ...interface{}) {
	err := e.conn.Emit(BasePath, ManagerInterface+"."+member, args...)
	if err != nil {
		e.log.Warn().Err(err).Str("signal", member).Msg("Failed to emit signal")
	}
}

func (e *busEmitter) PortCreated(path string)  { e.emit("PortCreated", dbus.ObjectPath(path)) }
func (e *busEmitter) PortRemoved(path string)  { e.emit("PortRemoved", dbus.ObjectPath(path)) }
func (e *busEmitter) ProxyCreated(path string) { e.emit("ProxyCreated", dbus.ObjectPath(path)) }
func (e *busEmitter) ProxyRemoved(path string) { e.emit("ProxyRemoved", dbus.ObjectPath(path)) }

func (e *busEmitter) ServiceConnected(device string)    { e.emit("ServiceConnected", device) }
func (e *busEmitter) ServiceDisconnected(device string) { e.emit("ServiceDisconnected", device) }

// managerObject is the method table exported at BasePath.
type managerObject struct {
	s *Service
}

func (o *managerObject) CreatePort(sender dbus.Sender, address, pattern string) (dbus.ObjectPath, *dbus.Error) {
	path, err := o.s.mgr.CreatePort(context.Background(), string(sender), address, pattern)
	if err != nil {
		return "", dbusError(err)
	}

	return dbus.ObjectPath(path), nil
}

func (o *managerObject) ListPorts() ([]dbus.ObjectPath, *dbus.Error) {
	return toObjectPaths(o.s.mgr.ListPorts()), nil
}

func (o *managerObject) RemovePort(path dbus.ObjectPath) *dbus.Error {
	if err := o.s.mgr.RemovePort(context.Background(), string(path)); err != nil {
		return dbusError(err)
	}

	return nil
}

func (o *managerObject) CreateProxy(uuid, address string) (dbus.ObjectPath, *dbus.Error) {
	path, err := o.s.mgr.CreateProxy(context.Background(), uuid, address)
	if err != nil {
		return "", dbusError(err)
	}

	if err := o.s.exportProxy(path); err != nil {
		return "", dbusError(err)
	}

	return dbus.ObjectPath(path), nil
}

func (o *managerObject) ListProxies() ([]dbus.ObjectPath, *dbus.Error) {
	return toObjectPaths(o.s.mgr.ListProxies()), nil
}

func (o *managerObject) RemoveProxy(path dbus.ObjectPath) *dbus.Error {
	if err := o.s.mgr.RemoveProxy(context.Background(), string(path)); err != nil {
		return dbusError(err)
	}

	o.s.unexportProxy(string(path))

	return nil
}

func (o *managerObject) ConnectService(sender dbus.Sender, address, pattern string) (string, *dbus.Error) {
	device, err := o.s.mgr.ConnectService(context.Background(), string(sender), address, pattern)
	if err != nil {
		return "", dbusError(err)
	}

	return device, nil
}

func (o *managerObject) ConnectServiceFromAdapter(sender dbus.Sender, adapter, address, pattern string) (string, *dbus.Error) {
	device, err := o.s.mgr.ConnectServiceFromAdapter(context.Background(), string(sender), adapter, address, pattern)
	if err != nil {
		return "", dbusError(err)
	}

	return device, nil
}

func (o *managerObject) DisconnectService(sender dbus.Sender, device string) *dbus.Error {
	if err := o.s.mgr.DisconnectService(context.Background(), string(sender), device); err != nil {
		return dbusError(err)
	}

	return nil
}

func (o *managerObject) CancelConnectService(sender dbus.Sender, address, pattern string) *dbus.Error {
	if err := o.s.mgr.CancelConnectService(string(sender), address, pattern); err != nil {
		return dbusError(err)
	}

	return nil
}

// proxyObject is the method table exported per proxy.
type proxyObject struct {
	s    *Service
	path string
}

func (o *proxyObject) proxy() (*Proxy, *dbus.Error) {
	proxy, err := o.s.mgr.ProxyAt(o.path)
	if err != nil {
		return nil, dbusError(err)
	}

	return proxy, nil
}

func (o *proxyObject) Enable() *dbus.Error {
	proxy, derr := o.proxy()
	if derr != nil {
		return derr
	}

	if err := proxy.Enable(context.Background()); err != nil {
		return dbusError(err)
	}

	return nil
}

func (o *proxyObject) Disable() *dbus.Error {
	proxy, derr := o.proxy()
	if derr != nil {
		return derr
	}

	if err := proxy.Disable(context.Background()); err != nil {
		return dbusError(err)
	}

	return nil
}

func (o *proxyObject) GetInfo() (map[string]dbus.Variant, *dbus.Error) {
	proxy, derr := o.proxy()
	if derr != nil {
		return nil, derr
	}

	info := proxy.Info()

	props := map[string]dbus.Variant{
		"uuid":      dbus.MakeVariant(info.UUID),
		"address":   dbus.MakeVariant(info.Address),
		"channel":   dbus.MakeVariant(info.Channel),
		"enabled":   dbus.MakeVariant(info.Enabled),
		"connected": dbus.MakeVariant(info.Connected),
	}

	if info.Connected {
		props["peer"] = dbus.MakeVariant(info.Peer)
	}

	return props, nil
}

func (o *proxyObject) SetSerialParameters(rate uint32, dataBits, stopBits uint8, parity string) *dbus.Error {
	proxy, derr := o.proxy()
	if derr != nil {
		return derr
	}

	if err := proxy.SetSerialParameters(rate, dataBits, stopBits, parity); err != nil {
		return dbusError(err)
	}

	return nil
}

func toObjectPaths(paths []string) []dbus.ObjectPath {
	out := make([]dbus.ObjectPath, len(paths))
	for i, p := range paths {
		out[i] = dbus.ObjectPath(p)
	}

	return out
}

// dbusError maps the package error taxonomy onto named bus errors.
func dbusError(err error) *dbus.Error {
	name := "Failed"

	var opErr *OpError

	switch {
	case errors.As(err, &opErr):
		switch opErr.Op {
		case "connect":
			name = "ConnectionAttemptFailed"
		case "open":
			name = "OpenFailed"
		case "listen":
			name = "ListenFailed"
		case "publish":
			name = "RecordPublishFailed"
		}
	case errors.Is(err, ErrInvalidArguments):
		name = "InvalidArguments"
	case errors.Is(err, ErrInProgress):
		name = "InProgress"
	case errors.Is(err, ErrNotSupported):
		name = "NotSupported"
	case errors.Is(err, ErrDoesNotExist):
		name = "DoesNotExist"
	case errors.Is(err, ErrAlreadyExists):
		name = "AlreadyExists"
	case errors.Is(err, ErrAlreadyEnabled):
		name = "AlreadyEnabled"
	case errors.Is(err, ErrNotEnabled):
		name = "NotEnabled"
	case errors.Is(err, ErrNotAllowed):
		name = "NotAllowed"
	case errors.Is(err, ErrNotAuthorized):
		name = "NotAuthorized"
	case errors.Is(err, ErrCanceled):
		name = "Canceled"
	case errors.Is(err, ErrNotConnected):
		name = "NotConnected"
	}

	return dbus.NewError(errorPrefix+name, []interface{}{err.Error()})
}
