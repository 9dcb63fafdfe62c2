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

package poller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	collogspb "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	colmetricpb "go.opentelemetry.io/proto/otlp/collector/metrics/v1"
	coltracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	ggrpc "google.golang.org/grpc"
	pb "google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/carverauto/otelcapture/pkg/grpc"
	"github.com/carverauto/otelcapture/pkg/logger"
	"github.com/carverauto/otelcapture/proto"
)

const grpcRetries = 3

// Client queries the capture service and waits for quiescence: the point
// where repeated reads stop changing, meaning the exporter under test has
// flushed everything it is going to flush for the current test step.
type Client struct {
	config     Config
	grpcClient *grpc.Client
	control    proto.CaptureServiceClient
	clock      Clock
	logger     logger.Logger
}

// New creates a capture client. A nil clock defaults to the real clock.
func New(config *Config, clock Clock, log logger.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if clock == nil {
		clock = realClock{}
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	grpcClient, err := grpc.NewClient(grpc.ClientConfig{
		Address:    config.Address,
		MaxRetries: grpcRetries,
		Logger:     log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create capture client: %w", err)
	}

	return &Client{
		config:     *config,
		grpcClient: grpcClient,
		control:    proto.NewCaptureServiceClient(grpcClient.GetConnection()),
		clock:      clock,
		logger:     log,
	}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.grpcClient.Close()
}

// Clear empties the capture store for every signal kind. Test harnesses
// call this before and after each test case.
func (c *Client) Clear(ctx context.Context) error {
	if _, err := c.control.Clear(ctx, &emptypb.Empty{}); err != nil {
		return fmt.Errorf("failed to clear capture store: %w", err)
	}

	return nil
}

// Traces waits until the set of captured trace batches is non-empty and has
// stopped growing, then returns the flattened spans with their enclosing
// resource and scope.
func (c *Client) Traces(ctx context.Context) ([]ResourceScopeSpan, error) {
	exported, err := waitForContent(ctx, c.clock,
		time.Duration(c.config.Timeout), time.Duration(c.config.Interval), c.logger,
		c.fetchTraces, stableAndNonEmpty[*coltracepb.ExportTraceServiceRequest])
	if err != nil {
		return nil, err
	}

	return FlattenTraces(exported), nil
}

// Metrics waits until the captured metric batches have stopped growing AND
// every metric name in presentMetrics has been seen, then returns the
// flattened metrics. Name comparison is case-insensitive.
func (c *Client) Metrics(ctx context.Context, presentMetrics []string) ([]ResourceScopeMetric, error) {
	required := make(map[string]struct{}, len(presentMetrics))
	for _, name := range presentMetrics {
		required[strings.ToLower(name)] = struct{}{}
	}

	waitCondition := func(previous, current []*colmetricpb.ExportMetricsServiceRequest) bool {
		if !stableAndNonEmpty(previous, current) {
			return false
		}

		received := capturedMetricNames(current)

		for name := range required {
			if _, ok := received[name]; !ok {
				return false
			}
		}

		return true
	}

	exported, err := waitForContent(ctx, c.clock,
		time.Duration(c.config.Timeout), time.Duration(c.config.Interval), c.logger,
		c.fetchMetrics, waitCondition)
	if err != nil {
		return nil, err
	}

	return FlattenMetrics(exported), nil
}

// Logs waits until the set of captured log batches is non-empty and has
// stopped growing, then returns the flattened log records.
func (c *Client) Logs(ctx context.Context) ([]ResourceScopeLogRecord, error) {
	exported, err := waitForContent(ctx, c.clock,
		time.Duration(c.config.Timeout), time.Duration(c.config.Interval), c.logger,
		c.fetchLogs, stableAndNonEmpty[*collogspb.ExportLogsServiceRequest])
	if err != nil {
		return nil, err
	}

	return FlattenLogs(exported), nil
}

func (c *Client) fetchTraces(ctx context.Context) ([]*coltracepb.ExportTraceServiceRequest, error) {
	stream, err := c.control.GetTraces(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, err
	}

	return decodeBatches(stream, func() *coltracepb.ExportTraceServiceRequest {
		return &coltracepb.ExportTraceServiceRequest{}
	})
}

func (c *Client) fetchMetrics(ctx context.Context) ([]*colmetricpb.ExportMetricsServiceRequest, error) {
	stream, err := c.control.GetMetrics(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, err
	}

	return decodeBatches(stream, func() *colmetricpb.ExportMetricsServiceRequest {
		return &colmetricpb.ExportMetricsServiceRequest{}
	})
}

func (c *Client) fetchLogs(ctx context.Context) ([]*collogspb.ExportLogsServiceRequest, error) {
	stream, err := c.control.GetLogs(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, err
	}

	return decodeBatches(stream, func() *collogspb.ExportLogsServiceRequest {
		return &collogspb.ExportLogsServiceRequest{}
	})
}

// decodeBatches drains a batch stream, unmarshaling every serialized batch
// into the export request type for its signal.
func decodeBatches[T pb.Message](stream ggrpc.ServerStreamingClient[wrapperspb.BytesValue], newRequest func() T) ([]T, error) {
	var requests []T

	for {
		msg, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return requests, nil
		}

		if err != nil {
			return nil, err
		}

		req := newRequest()
		if err := pb.Unmarshal(msg.GetValue(), req); err != nil {
			return nil, fmt.Errorf("failed to decode captured batch: %w", err)
		}

		requests = append(requests, req)
	}
}

// capturedMetricNames collects the lower-cased names of every metric in the
// given batches.
func capturedMetricNames(requests []*colmetricpb.ExportMetricsServiceRequest) map[string]struct{} {
	names := make(map[string]struct{})

	for _, rsm := range FlattenMetrics(requests) {
		names[strings.ToLower(rsm.Metric.GetName())] = struct{}{}
	}

	return names
}
