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

package models

// TransportKind classifies the local side of a proxy. It is determined
// once when the proxy is created and stored, never re-derived.
type TransportKind uint8

const (
	CharacterDevice TransportKind = iota
	LocalSocket
	LoopbackTCP
	UnknownTransport TransportKind = 0xFF
)

func (k TransportKind) String() string {
	switch k {
	case CharacterDevice:
		return "character-device"
	case LocalSocket:
		return "local-socket"
	case LoopbackTCP:
		return "loopback-tcp"
	default:
		return "unknown"
	}
}

// ProxyInfo is the read-only snapshot returned by GetInfo.
type ProxyInfo struct {
	UUID      string
	Address   string
	Kind      TransportKind
	Channel   uint8
	Enabled   bool
	Connected bool
	// Peer is set only while Connected.
	Peer string
}
