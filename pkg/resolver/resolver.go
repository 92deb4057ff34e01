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

// Package resolver classifies client-supplied service patterns.
//
// A pattern is either a well-known short service name, a 128-bit service
// UUID, a numeric service-record handle, or a literal RFCOMM channel.
package resolver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	// MinChannel and MaxChannel bound the RFCOMM channel space.
	MinChannel = 1
	MaxChannel = 30

	// MinRecordHandle is the first valid remote service-record handle.
	MinRecordHandle = 0x10000
)

var ErrInvalidPattern = errors.New("invalid pattern")

// Kind is the classification outcome of a pattern.
type Kind uint8

const (
	// KindUUID resolves through discovery: handle lookup then record fetch.
	KindUUID Kind = iota
	// KindHandle fetches the record directly, skipping handle lookup.
	KindHandle
	// KindChannel connects on the literal channel with no discovery.
	KindChannel
)

// Resolution is a normalized pattern.
type Resolution struct {
	Kind    Kind
	UUID    string // canonical 128-bit form, set for KindUUID
	Handle  uint32 // set for KindHandle
	Channel uint8  // set for KindChannel
}

// Short service names accepted in place of a UUID.
var serviceClasses = map[string]uint16{
	"vcp":   0x1129, // video conferencing gateway
	"pbap":  0x1130,
	"sap":   0x112d,
	"ftp":   0x1106,
	"bpp":   0x1122,
	"bip":   0x111a,
	"synch": 0x1104,
	"dun":   0x1103,
	"opp":   0x1105,
	"fax":   0x1111,
	"spp":   0x1101,
}

// baseUUIDSuffix completes a 16-bit service class to its 128-bit form.
const baseUUIDSuffix = "-0000-1000-8000-00805F9B34FB"

// ClassUUID promotes a 16-bit service class to the canonical 128-bit
// UUID string.
func ClassUUID(class uint16) string {
	return fmt.Sprintf("%08X%s", uint32(class), baseUUIDSuffix)
}

// Resolve classifies and normalizes a pattern. The channel bound is
// enforced here for every entry point.
func Resolve(pattern string) (Resolution, error) {
	if pattern == "" {
		return Resolution{}, fmt.Errorf("%w: empty", ErrInvalidPattern)
	}

	if class, ok := serviceClasses[strings.ToLower(pattern)]; ok {
		return Resolution{Kind: KindUUID, UUID: ClassUUID(class)}, nil
	}

	if u, err := parseUUID(pattern); err == nil {
		return Resolution{Kind: KindUUID, UUID: u}, nil
	}

	val, err := strconv.ParseInt(pattern, 0, 64)
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}

	switch {
	case val >= MinRecordHandle && val <= int64(^uint32(0)):
		return Resolution{Kind: KindHandle, Handle: uint32(val)}, nil
	case val >= MinChannel && val <= MaxChannel:
		return Resolution{Kind: KindChannel, Channel: uint8(val)}, nil
	default:
		return Resolution{}, fmt.Errorf("%w: %d out of range", ErrInvalidPattern, val)
	}
}

// parseUUID accepts the dashed 36-char form and the bare 32-hex-digit
// form, returning the canonical upper-case dashed representation.
func parseUUID(pattern string) (string, error) {
	if len(pattern) != 36 && len(pattern) != 32 {
		return "", ErrInvalidPattern
	}

	u, err := uuid.Parse(pattern)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}

	return strings.ToUpper(u.String()), nil
}

// ValidChannel reports whether ch is inside the RFCOMM channel space.
func ValidChannel(ch int) bool {
	return ch >= MinChannel && ch <= MaxChannel
}
