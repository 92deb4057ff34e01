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

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Parity values accepted for character-device proxies.
const (
	ParityNone  = "none"
	ParityEven  = "even"
	ParityOdd   = "odd"
	ParityMark  = "mark"
	ParitySpace = "space"
)

var (
	errInvalidLineSettings = errors.New("invalid line settings encoding")

	ErrUnsupportedRate = errors.New("unsupported baud rate")
	ErrInvalidDataBits = errors.New("data bits must be within 5..8")
	ErrInvalidStopBits = errors.New("stop bits must be 1 or 2")
	ErrInvalidParity   = errors.New("invalid parity")
)

// SupportedRates are the baud rates a character-device proxy accepts.
var SupportedRates = []uint32{
	50, 300, 600, 1200, 1800, 2400, 4800, 9600,
	19200, 38400, 57600, 115200,
}

// LineSettings describes the serial line parameters applied to a
// character device before forwarding starts.
type LineSettings struct {
	Rate     uint32 `json:"rate"`
	DataBits uint8  `json:"data_bits"`
	StopBits uint8  `json:"stop_bits"`
	Parity   string `json:"parity"`
}

// DefaultLineSettings matches a factory 115200 8N1 line.
func DefaultLineSettings() LineSettings {
	return LineSettings{Rate: 115200, DataBits: 8, StopBits: 1, Parity: ParityNone}
}

// Validate checks the settings against the supported rate table and the
// parameter ranges. 1.5 stop bits is not allowed.
func (s LineSettings) Validate() error {
	supported := false

	for _, r := range SupportedRates {
		if s.Rate == r {
			supported = true
			break
		}
	}

	if !supported {
		return fmt.Errorf("%w: %d", ErrUnsupportedRate, s.Rate)
	}

	if s.DataBits < 5 || s.DataBits > 8 {
		return fmt.Errorf("%w: %d", ErrInvalidDataBits, s.DataBits)
	}

	if s.StopBits != 1 && s.StopBits != 2 {
		return fmt.Errorf("%w: %d", ErrInvalidStopBits, s.StopBits)
	}

	switch strings.ToLower(s.Parity) {
	case ParityNone, ParityEven, ParityOdd, ParityMark, ParitySpace:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidParity, s.Parity)
	}
}

// EncodeHex packs the settings into the hex form used by the persisted
// proxy entries.
func (s LineSettings) EncodeHex() string {
	raw := fmt.Sprintf("%d,%d,%d,%s", s.Rate, s.DataBits, s.StopBits, s.Parity)
	return hex.EncodeToString([]byte(raw))
}

// DecodeLineSettingsHex is the inverse of EncodeHex.
func DecodeLineSettingsHex(enc string) (LineSettings, error) {
	var s LineSettings

	raw, err := hex.DecodeString(enc)
	if err != nil {
		return s, fmt.Errorf("%w: %w", errInvalidLineSettings, err)
	}

	fields := strings.Split(string(raw), ",")
	if len(fields) != 4 {
		return s, fmt.Errorf("%w: %q", errInvalidLineSettings, string(raw))
	}

	if _, err := fmt.Sscanf(fields[0], "%d", &s.Rate); err != nil {
		return s, fmt.Errorf("%w: %w", errInvalidLineSettings, err)
	}

	if _, err := fmt.Sscanf(fields[1], "%d", &s.DataBits); err != nil {
		return s, fmt.Errorf("%w: %w", errInvalidLineSettings, err)
	}

	if _, err := fmt.Sscanf(fields[2], "%d", &s.StopBits); err != nil {
		return s, fmt.Errorf("%w: %w", errInvalidLineSettings, err)
	}

	s.Parity = fields[3]

	return s, nil
}
