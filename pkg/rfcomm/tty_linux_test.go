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

package rfcomm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/bluekit/serialbridge/pkg/models"
)

func TestApplyLineSettings(t *testing.T) {
	var ti unix.Termios

	s := models.LineSettings{Rate: 9600, DataBits: 7, StopBits: 2, Parity: models.ParityEven}
	require.NoError(t, ApplyLineSettings(&ti, s))

	assert.Equal(t, uint32(unix.CS7), ti.Cflag&unix.CSIZE)
	assert.NotZero(t, ti.Cflag&unix.CSTOPB)
	assert.NotZero(t, ti.Cflag&unix.PARENB)
	assert.Zero(t, ti.Cflag&unix.PARODD)
	assert.NotZero(t, ti.Cflag&unix.CLOCAL)
	assert.NotZero(t, ti.Cflag&unix.CREAD)
	assert.Equal(t, uint32(unix.B9600), ti.Ispeed)
	assert.Equal(t, uint32(unix.B9600), ti.Ospeed)
}

func TestApplyLineSettingsOdd(t *testing.T) {
	var ti unix.Termios

	s := models.LineSettings{Rate: 115200, DataBits: 8, StopBits: 1, Parity: models.ParityOdd}
	require.NoError(t, ApplyLineSettings(&ti, s))

	assert.Equal(t, uint32(unix.CS8), ti.Cflag&unix.CSIZE)
	assert.Zero(t, ti.Cflag&unix.CSTOPB)
	assert.NotZero(t, ti.Cflag&unix.PARENB)
	assert.NotZero(t, ti.Cflag&unix.PARODD)
}

func TestApplyLineSettingsRejectsInvalid(t *testing.T) {
	var ti unix.Termios

	tests := []struct {
		name     string
		settings models.LineSettings
		want     error
	}{
		{
			"bad rate",
			models.LineSettings{Rate: 110, DataBits: 8, StopBits: 1, Parity: models.ParityNone},
			models.ErrUnsupportedRate,
		},
		{
			"bad data bits",
			models.LineSettings{Rate: 9600, DataBits: 4, StopBits: 1, Parity: models.ParityNone},
			models.ErrInvalidDataBits,
		},
		{
			"bad stop bits",
			models.LineSettings{Rate: 9600, DataBits: 8, StopBits: 3, Parity: models.ParityNone},
			models.ErrInvalidStopBits,
		},
		{
			"bad parity",
			models.LineSettings{Rate: 9600, DataBits: 8, StopBits: 1, Parity: "weird"},
			models.ErrInvalidParity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ApplyLineSettings(&ti, tt.settings)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
