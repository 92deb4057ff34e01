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

package discovery

import (
	"context"
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"

	"github.com/bluekit/serialbridge/pkg/logger"
	"github.com/bluekit/serialbridge/pkg/models"
)

const (
	bluezService     = "org.bluez"
	bluezRootPath    = dbus.ObjectPath("/org/bluez")
	managerInterface = "org.bluez.Manager"
	adapterInterface = "org.bluez.Adapter"
	dbInterface      = "org.bluez.Database"
)

// BlueZClient drives discovery and record publication through the
// system directory service.
type BlueZClient struct {
	conn *dbus.Conn
	log  zerolog.Logger
}

var (
	_ Client        = (*BlueZClient)(nil)
	_ AdapterSource = (*BlueZClient)(nil)
)

func NewBlueZClient(conn *dbus.Conn, log logger.Logger) *BlueZClient {
	return &BlueZClient{
		conn: conn,
		log:  log.WithComponent("discovery"),
	}
}

func (c *BlueZClient) ServiceHandles(ctx context.Context, adapter Adapter, remote models.Address, uuid128 string) ([]uint32, error) {
	var handles []uint32

	obj := c.conn.Object(bluezService, dbus.ObjectPath(adapter.Path))

	err := obj.CallWithContext(ctx, adapterInterface+".GetRemoteServiceHandles", 0,
		remote.String(), uuid128).Store(&handles)
	if err != nil {
		return nil, fmt.Errorf("get remote service handles: %w", err)
	}

	c.log.Debug().
		Str("remote", remote.String()).
		Str("uuid", uuid128).
		Int("handles", len(handles)).
		Msg("handle lookup finished")

	return handles, nil
}

func (c *BlueZClient) ServiceRecord(ctx context.Context, adapter Adapter, remote models.Address, handle uint32) ([]byte, error) {
	var record []byte

	obj := c.conn.Object(bluezService, dbus.ObjectPath(adapter.Path))

	err := obj.CallWithContext(ctx, adapterInterface+".GetRemoteServiceRecord", 0,
		remote.String(), handle).Store(&record)
	if err != nil {
		return nil, fmt.Errorf("get remote service record: %w", err)
	}

	return record, nil
}

func (c *BlueZClient) AddRecord(ctx context.Context, record []byte) (uint32, error) {
	var id uint32

	obj := c.conn.Object(bluezService, bluezRootPath)

	err := obj.CallWithContext(ctx, dbInterface+".AddServiceRecord", 0, record).Store(&id)
	if err != nil {
		return 0, fmt.Errorf("add service record: %w", err)
	}

	return id, nil
}

func (c *BlueZClient) RemoveRecord(ctx context.Context, id uint32) error {
	obj := c.conn.Object(bluezService, bluezRootPath)

	err := obj.CallWithContext(ctx, dbInterface+".RemoveServiceRecord", 0, id).Err
	if err != nil {
		return fmt.Errorf("remove service record %d: %w", id, err)
	}

	return nil
}

func (c *BlueZClient) DefaultAdapter(ctx context.Context) (Adapter, error) {
	var path dbus.ObjectPath

	obj := c.conn.Object(bluezService, bluezRootPath)

	err := obj.CallWithContext(ctx, managerInterface+".DefaultAdapter", 0).Store(&path)
	if err != nil {
		return Adapter{}, fmt.Errorf("default adapter: %w", err)
	}

	return c.adapterAt(ctx, path)
}

func (c *BlueZClient) AdapterByID(ctx context.Context, id string) (Adapter, error) {
	var path dbus.ObjectPath

	obj := c.conn.Object(bluezService, bluezRootPath)

	err := obj.CallWithContext(ctx, managerInterface+".FindAdapter", 0, id).Store(&path)
	if err != nil {
		return Adapter{}, fmt.Errorf("find adapter %q: %w", id, err)
	}

	return c.adapterAt(ctx, path)
}

func (c *BlueZClient) adapterAt(ctx context.Context, path dbus.ObjectPath) (Adapter, error) {
	var props map[string]dbus.Variant

	obj := c.conn.Object(bluezService, path)

	err := obj.CallWithContext(ctx, adapterInterface+".GetProperties", 0).Store(&props)
	if err != nil {
		return Adapter{}, fmt.Errorf("adapter properties: %w", err)
	}

	addrStr, _ := props["Address"].Value().(string)

	addr, err := models.ParseAddress(addrStr)
	if err != nil {
		return Adapter{}, fmt.Errorf("adapter %s: %w", path, err)
	}

	p := string(path)

	return Adapter{
		ID:      p[strings.LastIndex(p, "/")+1:],
		Path:    p,
		Address: addr,
	}, nil
}
