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

package main

import (
	"context"
	"flag"
	"log"

	"github.com/godbus/dbus/v5"

	"github.com/bluekit/serialbridge/pkg/config"
	"github.com/bluekit/serialbridge/pkg/discovery"
	"github.com/bluekit/serialbridge/pkg/lifecycle"
	"github.com/bluekit/serialbridge/pkg/logger"
	"github.com/bluekit/serialbridge/pkg/serial"
	"github.com/bluekit/serialbridge/pkg/store"
)

func main() {
	configPath := flag.String("config", "/etc/serialbridge/serialbridged.json", "Path to config file")
	flag.Parse()

	ctx := context.Background()

	cfg := config.Default()
	if err := config.LoadAndValidate(*configPath, &cfg); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lg, err := logger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	st, err := openStore(ctx, &cfg)
	if err != nil {
		lg.Fatal().Err(err).Msg("Failed to open store")
	}
	defer st.Close()

	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		lg.Fatal().Err(err).Msg("Failed to connect to system bus")
	}
	defer conn.Close()

	binder, err := serial.NewKernelBinder()
	if err != nil {
		lg.Fatal().Err(err).Msg("Failed to open RFCOMM control socket")
	}
	defer binder.Close()

	bluez := discovery.NewBlueZClient(conn, lg)

	adapters := discovery.AdapterSource(bluez)
	if cfg.Adapter != "" {
		adapters = discovery.PinnedAdapter(bluez, cfg.Adapter)
	}

	mgr := serial.NewManager(
		lg,
		bluez,
		adapters,
		binder,
		serial.LocalDialer{},
		st,
		serial.NewBusEmitter(conn, lg),
	)

	if err := mgr.Replay(ctx); err != nil {
		lg.Warn().Err(err).Msg("Replay of persisted state failed")
	}

	svc := serial.NewService(conn, mgr, cfg.BusName, lg)

	if err := lifecycle.Run(ctx, svc, lg); err != nil {
		lg.Fatal().Err(err).Msg("Service failed")
	}
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.Storage == config.StorageNATS {
		return store.NewNatsStore(ctx, cfg.NATSURL, cfg.NATSBucket)
	}

	return store.NewFileStore(cfg.StorageRoot)
}
