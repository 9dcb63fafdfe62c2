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

// Package lifecycle runs a service plus its gRPC server with signal-driven
// graceful shutdown.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	ggrpc "google.golang.org/grpc"

	"github.com/carverauto/otelcapture/pkg/grpc"
	"github.com/carverauto/otelcapture/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// Service is implemented by components with a managed lifecycle. Start may
// block for the service's lifetime or return promptly for passive services.
type Service interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// GRPCServiceRegistrar registers a gRPC service implementation on the server.
type GRPCServiceRegistrar func(s *ggrpc.Server) error

// ServerOptions configures RunServer.
type ServerOptions struct {
	ListenAddr           string
	ServiceName          string
	Service              Service
	RegisterGRPCServices []GRPCServiceRegistrar
	EnableHealthCheck    bool
	DisableTelemetry     bool
	MaxRecvSize          int
	Logger               logger.Logger
}

// RunServer starts the gRPC server and the service, then blocks until the
// context is canceled, SIGINT/SIGTERM arrives, or either component fails.
func RunServer(ctx context.Context, opts *ServerOptions) error {
	log := opts.Logger
	if log == nil {
		var err error

		log, err = logger.NewWithComponent(ctx, opts.ServiceName, nil)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var serverOpts []grpc.ServerOption

	if opts.DisableTelemetry {
		serverOpts = append(serverOpts, grpc.WithTelemetryDisabled())
	}

	if opts.MaxRecvSize > 0 {
		serverOpts = append(serverOpts, grpc.WithMaxRecvSize(opts.MaxRecvSize))
	}

	srv := grpc.NewServer(opts.ListenAddr, log, serverOpts...)

	for _, register := range opts.RegisterGRPCServices {
		if err := register(srv.GetGRPCServer()); err != nil {
			return fmt.Errorf("failed to register gRPC service: %w", err)
		}
	}

	if opts.EnableHealthCheck {
		if err := srv.RegisterHealthServer(); err != nil {
			log.Warn().Err(err).Msg("Health server registration skipped")
		}
	}

	errCh := make(chan error, 2)

	go func() {
		if err := srv.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server failed: %w", err)
		}
	}()

	if opts.Service != nil {
		go func() {
			if err := opts.Service.Start(sigCtx); err != nil && !errorIsCanceled(err) {
				errCh <- fmt.Errorf("service %s failed: %w", opts.ServiceName, err)
			}
		}()
	}

	var runErr error

	select {
	case <-sigCtx.Done():
		log.Info().Str("service", opts.ServiceName).Msg("Shutdown signal received")
	case runErr = <-errCh:
		log.Error().Err(runErr).Str("service", opts.ServiceName).Msg("Component failed, shutting down")
	}

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if opts.Service != nil {
		if err := opts.Service.Stop(stopCtx); err != nil {
			log.Error().Err(err).Msg("Error stopping service")
		}
	}

	srv.Stop(stopCtx)

	if err := ShutdownLogger(stopCtx, log); err != nil {
		log.Error().Err(err).Msg("Error flushing logs")
	}

	return runErr
}

func errorIsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
