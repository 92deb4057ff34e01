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
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/bluekit/serialbridge/pkg/models"
)

// Key kinds under an adapter namespace.
const (
	KindPorts   = "serial"
	KindProxies = "proxy"
)

// PortKey builds the key for a persistent port binding:
// <src>/serial/<remote>#<devID>.
func PortKey(src, dst models.Address, devID int) string {
	return fmt.Sprintf("%s/%s/%s#%d", src, KindPorts, dst, devID)
}

// ProxyKey builds the key for a proxy registration. The local transport
// descriptor is hex encoded so it stays a single path segment.
func ProxyKey(src models.Address, descriptor string) string {
	return fmt.Sprintf("%s/%s/%s", src, KindProxies, hex.EncodeToString([]byte(descriptor)))
}

// SplitKey breaks a store key into adapter, kind, and entry.
func SplitKey(key string) (adapter, kind, entry string, err error) {
	parts := strings.SplitN(key, "/", 3)
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
		return "", "", "", fmt.Errorf("%w: %q", errInvalidKey, key)
	}

	return parts[0], parts[1], parts[2], nil
}

// PortEntry is the persisted value of a port binding.
type PortEntry struct {
	Remote      models.Address
	DeviceID    int
	Channel     uint8
	ServiceName string
}

// Encode renders the value in the `channel:serviceName` form.
func (e PortEntry) Encode() string {
	return fmt.Sprintf("%d:%s", e.Channel, e.ServiceName)
}

// DecodePortEntry parses a port key entry plus its value.
func DecodePortEntry(entry, value string) (PortEntry, error) {
	var e PortEntry

	addr, id, ok := strings.Cut(entry, "#")
	if !ok {
		return e, fmt.Errorf("%w: port entry %q", errInvalidEntry, entry)
	}

	remote, err := models.ParseAddress(addr)
	if err != nil {
		return e, fmt.Errorf("%w: %w", errInvalidEntry, err)
	}

	devID, err := strconv.Atoi(id)
	if err != nil {
		return e, fmt.Errorf("%w: device id %q", errInvalidEntry, id)
	}

	ch, name, ok := strings.Cut(value, ":")
	if !ok {
		return e, fmt.Errorf("%w: port value %q", errInvalidEntry, value)
	}

	channel, err := strconv.Atoi(ch)
	if err != nil || channel < 1 || channel > 30 {
		return e, fmt.Errorf("%w: channel %q", errInvalidEntry, ch)
	}

	e.Remote = remote
	e.DeviceID = devID
	e.Channel = uint8(channel)
	e.ServiceName = name

	return e, nil
}

// ProxyEntry is the persisted value of a proxy registration.
type ProxyEntry struct {
	Descriptor string
	UUID       string
	Channel    uint8
	Flags      uint16
	Name       string
	Settings   models.LineSettings
}

// Encode renders the `uuid channel 0xflags:name:hexSettings` form.
func (e ProxyEntry) Encode() string {
	return fmt.Sprintf("%s %d 0x%04X:%s:%s",
		e.UUID, e.Channel, e.Flags, e.Name, e.Settings.EncodeHex())
}

// DecodeProxyEntry parses a proxy key entry plus its value.
func DecodeProxyEntry(entry, value string) (ProxyEntry, error) {
	var e ProxyEntry

	desc, err := hex.DecodeString(entry)
	if err != nil {
		return e, fmt.Errorf("%w: proxy descriptor %q", errInvalidEntry, entry)
	}

	head, rest, ok := strings.Cut(value, ":")
	if !ok {
		return e, fmt.Errorf("%w: proxy value %q", errInvalidEntry, value)
	}

	var flags uint16

	if _, err := fmt.Sscanf(head, "%s %d 0x%04X", &e.UUID, &e.Channel, &flags); err != nil {
		return e, fmt.Errorf("%w: proxy value %q", errInvalidEntry, value)
	}

	name, settingsHex, ok := strings.Cut(rest, ":")
	if !ok {
		return e, fmt.Errorf("%w: proxy value %q", errInvalidEntry, value)
	}

	settings, err := models.DecodeLineSettingsHex(settingsHex)
	if err != nil {
		return e, err
	}

	e.Descriptor = string(desc)
	e.Flags = flags
	e.Name = name
	e.Settings = settings

	return e, nil
}
