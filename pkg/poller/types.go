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

// Package poller is the client side of the capture service: it reads
// captured telemetry repeatedly until the exporter under test has visibly
// gone quiet, then flattens the stable snapshot for inspection.
package poller

import (
	"errors"
	"time"

	"github.com/carverauto/otelcapture/pkg/logger"
	"github.com/carverauto/otelcapture/pkg/models"
)

// ErrWaitTimeout is returned when captured telemetry does not stabilize
// within the configured deadline.
var ErrWaitTimeout = errors.New("timed out waiting for captured telemetry to stabilize")

const (
	defaultAddress  = "localhost:4315"
	defaultTimeout  = 20 * time.Second
	defaultInterval = 100 * time.Millisecond
)

// Config configures a capture client.
type Config struct {
	// Address of the capture service's control endpoint.
	Address string `json:"address"`

	// Timeout bounds one wait-for-stable operation. Tune it to the
	// exporter's flush interval; the default of 20s accommodates slow
	// batch exporters.
	Timeout models.Duration `json:"timeout"`

	// Interval is the sleep between consecutive reads.
	Interval models.Duration `json:"interval"`

	Logging *logger.Config `json:"logging,omitempty"`
}

// Validate fills defaults.
func (c *Config) Validate() error {
	if c.Address == "" {
		c.Address = defaultAddress
	}

	if c.Timeout <= 0 {
		c.Timeout = models.Duration(defaultTimeout)
	}

	if c.Interval <= 0 {
		c.Interval = models.Duration(defaultInterval)
	}

	return nil
}

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// realClock implements Clock using the real time package.
type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
