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

package grpc

import (
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/carverauto/otelcapture/pkg/logger"
)

var errAddressRequired = errors.New("client address is required")

const defaultMaxRetries = 3

// ClientConfig holds configuration for creating a gRPC client connection.
type ClientConfig struct {
	Address    string
	MaxRetries int
	Logger     logger.Logger
}

// Client wraps a gRPC client connection. Connections are plaintext: the
// capture service and its callers share a test-local network namespace.
type Client struct {
	conn   *grpc.ClientConn
	config ClientConfig
	logger logger.Logger
}

// NewClient creates a new gRPC client for the given configuration. The
// connection is established lazily on first use.
func NewClient(config ClientConfig) (*Client, error) {
	if config.Address == "" {
		return nil, errAddressRequired
	}

	log := config.Logger
	if log == nil {
		log = logger.NewTestLogger()
	}

	maxRetries := config.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	serviceConfig := fmt.Sprintf(`{
		"methodConfig": [{
			"name": [{}],
			"retryPolicy": {
				"maxAttempts": %d,
				"initialBackoff": "0.1s",
				"maxBackoff": "1s",
				"backoffMultiplier": 2.0,
				"retryableStatusCodes": ["UNAVAILABLE"]
			}
		}]
	}`, maxRetries)

	conn, err := grpc.NewClient(
		config.Address,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultServiceConfig(serviceConfig),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create client for %s: %w", config.Address, err)
	}

	log.Debug().Str("address", config.Address).Msg("Created gRPC client")

	return &Client{
		conn:   conn,
		config: config,
		logger: log,
	}, nil
}

// GetConnection returns the underlying client connection.
func (c *Client) GetConnection() *grpc.ClientConn {
	return c.conn
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
