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
	"context"

	"github.com/google/uuid"
	collogspb "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	colmetricpb "go.opentelemetry.io/proto/otlp/collector/metrics/v1"
	coltracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	pb "google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/carverauto/otelcapture/pkg/logger"
	"github.com/carverauto/otelcapture/proto"
)

// Service is the capture service: it owns the store, answers the
// capture.v1.CaptureService control RPCs, and hands out the per-signal OTLP
// sinks for registration on the same gRPC server.
type Service struct {
	proto.UnimplementedCaptureServiceServer

	config     *Config
	store      *Store
	logger     logger.Logger
	sessionID  string
	traceSink  *TraceSink
	metricSink *MetricSink
	logSink    *LogSink
}

// NewService creates a capture service with an empty store.
func NewService(config *Config, log logger.Logger) *Service {
	store := NewStore()

	return &Service{
		config:     config,
		store:      store,
		logger:     log,
		sessionID:  uuid.NewString(),
		traceSink:  &TraceSink{store: store, logger: log},
		metricSink: &MetricSink{store: store, logger: log},
		logSink:    &LogSink{store: store, logger: log},
	}
}

// Register wires the OTLP sinks and the control service onto srv. It
// matches the lifecycle.GRPCServiceRegistrar signature.
func (s *Service) Register(srv *grpc.Server) error {
	coltracepb.RegisterTraceServiceServer(srv, s.traceSink)
	colmetricpb.RegisterMetricsServiceServer(srv, s.metricSink)
	collogspb.RegisterLogsServiceServer(srv, s.logSink)
	proto.RegisterCaptureServiceServer(srv, s)

	return nil
}

// Store returns the backing capture store.
func (s *Service) Store() *Store {
	return s.store
}

// TraceSink returns the OTLP trace export service implementation.
func (s *Service) TraceSink() coltracepb.TraceServiceServer {
	return s.traceSink
}

// MetricSink returns the OTLP metrics export service implementation.
func (s *Service) MetricSink() colmetricpb.MetricsServiceServer {
	return s.metricSink
}

// LogSink returns the OTLP logs export service implementation.
func (s *Service) LogSink() collogspb.LogsServiceServer {
	return s.logSink
}

// Start implements lifecycle.Service. The service is passive: all work
// happens in RPC handlers.
func (s *Service) Start(context.Context) error {
	s.logger.Info().
		Str("session_id", s.sessionID).
		Str("listen_addr", s.config.ListenAddr).
		Msg("Capture service ready")

	return nil
}

// Stop implements lifecycle.Service.
func (s *Service) Stop(context.Context) error {
	s.logger.Info().
		Str("session_id", s.sessionID).
		Int("traces", s.store.Len(SignalTraces)).
		Int("metrics", s.store.Len(SignalMetrics)).
		Int("logs", s.store.Len(SignalLogs)).
		Msg("Capture service stopping")

	return nil
}

// GetTraces streams every captured trace batch in insertion order.
func (s *Service) GetTraces(_ *emptypb.Empty, stream grpc.ServerStreamingServer[wrapperspb.BytesValue]) error {
	return s.sendSnapshot(SignalTraces, stream)
}

// GetMetrics streams every captured metric batch in insertion order.
func (s *Service) GetMetrics(_ *emptypb.Empty, stream grpc.ServerStreamingServer[wrapperspb.BytesValue]) error {
	return s.sendSnapshot(SignalMetrics, stream)
}

// GetLogs streams every captured log batch in insertion order.
func (s *Service) GetLogs(_ *emptypb.Empty, stream grpc.ServerStreamingServer[wrapperspb.BytesValue]) error {
	return s.sendSnapshot(SignalLogs, stream)
}

// Clear empties the store for every signal kind.
func (s *Service) Clear(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	s.store.Clear()

	s.logger.Info().Str("session_id", s.sessionID).Msg("Capture store cleared")

	return &emptypb.Empty{}, nil
}

func (s *Service) sendSnapshot(kind Signal, stream grpc.ServerStreamingServer[wrapperspb.BytesValue]) error {
	for _, batch := range s.store.Snapshot(kind) {
		if err := stream.Send(&wrapperspb.BytesValue{Value: batch}); err != nil {
			return err
		}
	}

	return nil
}

// TraceSink accepts OTLP trace export requests on behalf of the application
// under test. It re-serializes each request and appends the bytes to the
// store; the batch content is never interpreted.
type TraceSink struct {
	coltracepb.UnimplementedTraceServiceServer

	store  *Store
	logger logger.Logger
}

func (t *TraceSink) Export(
	_ context.Context, req *coltracepb.ExportTraceServiceRequest,
) (*coltracepb.ExportTraceServiceResponse, error) {
	raw, err := pb.Marshal(req)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode trace batch: %v", err)
	}

	t.store.Append(SignalTraces, raw)

	t.logger.Debug().
		Int("resource_spans", len(req.GetResourceSpans())).
		Int("size_bytes", len(raw)).
		Msg("Captured trace batch")

	return &coltracepb.ExportTraceServiceResponse{}, nil
}

// MetricSink accepts OTLP metrics export requests.
type MetricSink struct {
	colmetricpb.UnimplementedMetricsServiceServer

	store  *Store
	logger logger.Logger
}

func (m *MetricSink) Export(
	_ context.Context, req *colmetricpb.ExportMetricsServiceRequest,
) (*colmetricpb.ExportMetricsServiceResponse, error) {
	raw, err := pb.Marshal(req)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode metric batch: %v", err)
	}

	m.store.Append(SignalMetrics, raw)

	m.logger.Debug().
		Int("resource_metrics", len(req.GetResourceMetrics())).
		Int("size_bytes", len(raw)).
		Msg("Captured metric batch")

	return &colmetricpb.ExportMetricsServiceResponse{}, nil
}

// LogSink accepts OTLP logs export requests.
type LogSink struct {
	collogspb.UnimplementedLogsServiceServer

	store  *Store
	logger logger.Logger
}

func (l *LogSink) Export(
	_ context.Context, req *collogspb.ExportLogsServiceRequest,
) (*collogspb.ExportLogsServiceResponse, error) {
	raw, err := pb.Marshal(req)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode log batch: %v", err)
	}

	l.store.Append(SignalLogs, raw)

	l.logger.Debug().
		Int("resource_logs", len(req.GetResourceLogs())).
		Int("size_bytes", len(raw)).
		Msg("Captured log batch")

	return &collogspb.ExportLogsServiceResponse{}, nil
}
