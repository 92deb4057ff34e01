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

package sdp

import (
	"errors"
)

var (
	// ErrEmptyRecord is returned for a zero-length record payload.
	ErrEmptyRecord = errors.New("empty service record")
	// ErrMalformedRecord is returned when the payload is not a valid
	// record PDU or carries trailing bytes.
	ErrMalformedRecord = errors.New("malformed service record")
	// ErrNoChannel is returned when the protocol descriptor list does
	// not name an RFCOMM channel.
	ErrNoChannel = errors.New("no rfcomm channel in record")
	// ErrChannelOutOfRange is returned for channels outside 1..30.
	ErrChannelOutOfRange = errors.New("rfcomm channel out of range")

	errUnsupportedElement = errors.New("unsupported data element")
	errTruncatedElement   = errors.New("truncated data element")
)
