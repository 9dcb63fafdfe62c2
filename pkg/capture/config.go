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

package capture

import (
	"errors"
	"os"

	"github.com/carverauto/otelcapture/pkg/logger"
)

const (
	// DefaultListenAddr is the fixed, documented OTLP export target of the
	// capture service. Both the instrumented application and the test
	// harness are wired to it.
	DefaultListenAddr = ":4315"

	defaultServiceName = "capture"

	// Exporters can batch aggressively; accept larger payloads than the
	// 4 MiB gRPC default.
	defaultMaxRecvSize = 16 * 1024 * 1024
)

var errInvalidMaxRecvSize = errors.New("max_recv_size must not be negative")

// Config is the capture service configuration.
type Config struct {
	ListenAddr  string `json:"listen_addr"`
	ServiceName string `json:"service_name"`
	MaxRecvSize int    `json:"max_recv_size,omitempty"`

	// SelfTelemetry enables span generation for the capture service's own
	// RPCs. Off by default: the service is the sink under test and must not
	// pollute the telemetry it captures.
	SelfTelemetry bool `json:"self_telemetry,omitempty"`

	Logging *logger.Config `json:"logging,omitempty"`
}

// Validate fills defaults and checks the configuration. The listen address
// can be overridden with CAPTURE_LISTEN_ADDR, which test harnesses use to
// run several capture instances side by side.
func (c *Config) Validate() error {
	if addr := os.Getenv("CAPTURE_LISTEN_ADDR"); addr != "" {
		c.ListenAddr = addr
	}

	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}

	if c.ServiceName == "" {
		c.ServiceName = defaultServiceName
	}

	if c.MaxRecvSize < 0 {
		return errInvalidMaxRecvSize
	}

	if c.MaxRecvSize == 0 {
		c.MaxRecvSize = defaultMaxRecvSize
	}

	return nil
}
