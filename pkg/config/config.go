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

// Package config loads and validates the bridge daemon configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/bluekit/serialbridge/pkg/logger"
)

const (
	StorageFile = "file"
	StorageNATS = "nats"
)

var (
	ErrInvalidStorage = errors.New("storage backend must be \"file\" or \"nats\"")
	ErrMissingRoot    = errors.New("storage_root is required for the file backend")
	ErrMissingNATS    = errors.New("nats_url and nats_bucket are required for the nats backend")
)

// Config is the daemon configuration, normally read from
// /etc/serialbridge/serialbridged.json.
type Config struct {
	// BusName is the well-known D-Bus name to claim.
	BusName string `json:"bus_name"`

	// Adapter optionally pins the daemon to one adapter (e.g. "hci0").
	// Empty means use the default adapter.
	Adapter string `json:"adapter,omitempty"`

	// Storage selects the persistence backend, "file" or "nats".
	Storage string `json:"storage"`

	// StorageRoot is the directory for the file backend.
	StorageRoot string `json:"storage_root,omitempty"`

	NATSURL    string `json:"nats_url,omitempty"`
	NATSBucket string `json:"nats_bucket,omitempty"`

	Logging *logger.Config `json:"logging,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		BusName:     "org.bluekit.serialbridge",
		Storage:     StorageFile,
		StorageRoot: "/var/lib/serialbridge",
		Logging:     logger.DefaultConfig(),
	}
}

// Validate checks the configuration, filling defaults for empty fields.
func (c *Config) Validate() error {
	if c.BusName == "" {
		c.BusName = "org.bluekit.serialbridge"
	}

	if c.Storage == "" {
		c.Storage = StorageFile
	}

	if c.Logging == nil {
		c.Logging = logger.DefaultConfig()
	}

	switch c.Storage {
	case StorageFile:
		if c.StorageRoot == "" {
			return ErrMissingRoot
		}
	case StorageNATS:
		if c.NATSURL == "" || c.NATSBucket == "" {
			return ErrMissingNATS
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStorage, c.Storage)
	}

	return nil
}

// LoadAndValidate reads a JSON config file into cfg and validates it.
// A missing file leaves cfg untouched apart from validation defaults.
func LoadAndValidate(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	return cfg.Validate()
}
