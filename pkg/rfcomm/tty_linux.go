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
	"fmt"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/bluekit/serialbridge/pkg/models"
)

var rateFlags = map[uint32]uint32{
	50:     unix.B50,
	300:    unix.B300,
	600:    unix.B600,
	1200:   unix.B1200,
	1800:   unix.B1800,
	2400:   unix.B2400,
	4800:   unix.B4800,
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	57600:  unix.B57600,
	115200: unix.B115200,
}

// OpenTTY opens a character device and applies the line settings.
func OpenTTY(path string, settings models.LineSettings) (int, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
	if err != nil {
		return -1, fmt.Errorf("open %s: %w", path, err)
	}

	ti, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("tcgetattr %s: %w", path, err)
	}

	if err := ApplyLineSettings(ti, settings); err != nil {
		unix.Close(fd)
		return -1, err
	}

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, ti); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("tcsetattr %s: %w", path, err)
	}

	return fd, nil
}

// SaveTermios snapshots a device's current line discipline so it can be
// restored when the proxy goes away.
func SaveTermios(path string) (*unix.Termios, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer unix.Close(fd)

	ti, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return nil, fmt.Errorf("tcgetattr %s: %w", path, err)
	}

	return ti, nil
}

// RestoreTermios writes a saved line discipline back, flushing pending
// output first.
func RestoreTermios(path string, ti *unix.Termios) error {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer unix.Close(fd)

	if err := unix.IoctlSetTermios(fd, unix.TCSETSF, ti); err != nil {
		return fmt.Errorf("tcsetattr %s: %w", path, err)
	}

	return nil
}

// ApplyLineSettings folds validated line settings into a termios
// structure.
func ApplyLineSettings(ti *unix.Termios, s models.LineSettings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	speed := rateFlags[s.Rate]

	ctrl := ti.Cflag

	ctrl &^= unix.CSIZE
	switch s.DataBits {
	case 5:
		ctrl |= unix.CS5
	case 6:
		ctrl |= unix.CS6
	case 7:
		ctrl |= unix.CS7
	case 8:
		ctrl |= unix.CS8
	}

	if s.StopBits == 2 {
		ctrl |= unix.CSTOPB
	} else {
		ctrl &^= unix.CSTOPB
	}

	switch strings.ToLower(s.Parity) {
	case models.ParityEven:
		ctrl |= unix.PARENB
		ctrl &^= unix.PARODD
	case models.ParityOdd:
		ctrl |= unix.PARENB
		ctrl |= unix.PARODD
	case models.ParityMark:
		ctrl |= unix.PARENB
	case models.ParityNone, models.ParitySpace:
		ctrl &^= unix.PARENB
	}

	ctrl |= unix.CLOCAL | unix.CREAD

	ti.Cflag = ctrl
	ti.Cflag &^= unix.CBAUD
	ti.Cflag |= speed
	ti.Ispeed = speed
	ti.Ospeed = speed

	return nil
}
