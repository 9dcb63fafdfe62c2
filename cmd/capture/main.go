/*
 * Copyright 2025 Carver Automation Corporation.
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
	"fmt"
	"log"
	"os"

	"github.com/carverauto/otelcapture/pkg/capture"
	"github.com/carverauto/otelcapture/pkg/config"
	"github.com/carverauto/otelcapture/pkg/lifecycle"
	"github.com/carverauto/otelcapture/pkg/logger"
)

var errFailedToLoadConfig = fmt.Errorf("failed to load config")

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "/etc/otelcapture/capture.json", "Path to capture config file")
	flag.Parse()

	ctx := context.Background()

	var cfg capture.Config

	// The capture service is usually launched ad hoc next to a test
	// suite, so a missing config file just means defaults.
	if _, err := os.Stat(*configPath); err == nil {
		cfgLoader := config.NewConfig(nil)

		if err := cfgLoader.LoadAndValidate(ctx, *configPath, &cfg); err != nil {
			return fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
		}
	} else if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
	}

	logConfig := cfg.Logging
	if logConfig == nil {
		logConfig = &logger.Config{
			Level:  "info",
			Output: "stdout",
		}
	}

	captureLogger, err := lifecycle.CreateComponentLogger(ctx, "capture", logConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	svc := capture.NewService(&cfg, captureLogger)

	return lifecycle.RunServer(ctx, &lifecycle.ServerOptions{
		ListenAddr:           cfg.ListenAddr,
		ServiceName:          cfg.ServiceName,
		Service:              svc,
		RegisterGRPCServices: []lifecycle.GRPCServiceRegistrar{svc.Register},
		EnableHealthCheck:    true,
		DisableTelemetry:     !cfg.SelfTelemetry,
		MaxRecvSize:          cfg.MaxRecvSize,
		Logger:               captureLogger,
	})
}
