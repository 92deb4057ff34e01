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

// Package models holds the shared domain types of the serial control plane.
package models

import (
	"errors"
	"fmt"
	"strings"
)

var errInvalidAddress = errors.New("invalid radio address")

// Address is a 48-bit radio device address in display byte order
// (most significant byte first, as printed).
type Address [6]byte

// AnyAddress binds to whichever local radio the kernel picks.
var AnyAddress = Address{}

// ParseAddress parses the colon-separated hex form "AA:BB:CC:DD:EE:FF".
func ParseAddress(s string) (Address, error) {
	var a Address

	parts := strings.Split(s, ":")
	if len(parts) != 6 {
		return a, fmt.Errorf("%w: %q", errInvalidAddress, s)
	}

	for i, p := range parts {
		var b byte
		if _, err := fmt.Sscanf(p, "%02x", &b); err != nil || len(p) != 2 {
			return a, fmt.Errorf("%w: %q", errInvalidAddress, s)
		}

		a[i] = b
	}

	return a, nil
}

func (a Address) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X",
		a[0], a[1], a[2], a[3], a[4], a[5])
}

// Wire returns the address in the kernel's reversed (little-endian) byte
// order used by bluetooth socket addresses.
func (a Address) Wire() [6]byte {
	var w [6]byte
	for i := 0; i < 6; i++ {
		w[i] = a[5-i]
	}

	return w
}

// AddressFromWire converts a kernel-order address back to display order.
func AddressFromWire(w [6]byte) Address {
	var a Address
	for i := 0; i < 6; i++ {
		a[i] = w[5-i]
	}

	return a
}

func (a Address) IsZero() bool {
	return a == Address{}
}
