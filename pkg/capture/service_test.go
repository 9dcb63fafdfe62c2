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
	"errors"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	colmetricpb "go.opentelemetry.io/proto/otlp/collector/metrics/v1"
	coltracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	metricpb "go.opentelemetry.io/proto/otlp/metrics/v1"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
	pb "google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/carverauto/otelcapture/pkg/logger"
	"github.com/carverauto/otelcapture/proto"
)

const bufSize = 1024 * 1024

func startService(t *testing.T) (*Service, *grpc.ClientConn) {
	t.Helper()

	svc := NewService(&Config{ListenAddr: DefaultListenAddr}, logger.NewTestLogger())

	lis := bufconn.Listen(bufSize)
	srv := grpc.NewServer()
	require.NoError(t, svc.Register(srv))

	go func() {
		_ = srv.Serve(lis)
	}()

	conn, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		srv.Stop()
	})

	return svc, conn
}

func traceRequest(spanNames ...string) *coltracepb.ExportTraceServiceRequest {
	spans := make([]*tracepb.Span, 0, len(spanNames))
	for _, name := range spanNames {
		spans = append(spans, &tracepb.Span{Name: name})
	}

	return &coltracepb.ExportTraceServiceRequest{
		ResourceSpans: []*tracepb.ResourceSpans{
			{
				ScopeSpans: []*tracepb.ScopeSpans{
					{Spans: spans},
				},
			},
		},
	}
}

func metricRequest(metricNames ...string) *colmetricpb.ExportMetricsServiceRequest {
	metrics := make([]*metricpb.Metric, 0, len(metricNames))
	for _, name := range metricNames {
		metrics = append(metrics, &metricpb.Metric{Name: name})
	}

	return &colmetricpb.ExportMetricsServiceRequest{
		ResourceMetrics: []*metricpb.ResourceMetrics{
			{
				ScopeMetrics: []*metricpb.ScopeMetrics{
					{Metrics: metrics},
				},
			},
		},
	}
}

func drainStream(t *testing.T, stream grpc.ServerStreamingClient[wrapperspb.BytesValue]) [][]byte {
	t.Helper()

	var batches [][]byte

	for {
		msg, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return batches
		}

		require.NoError(t, err)

		batches = append(batches, msg.GetValue())
	}
}

func TestServiceExportAndGetTraces(t *testing.T) {
	_, conn := startService(t)
	ctx := context.Background()

	exporter := coltracepb.NewTraceServiceClient(conn)

	_, err := exporter.Export(ctx, traceRequest("GET /x"))
	require.NoError(t, err)

	_, err = exporter.Export(ctx, traceRequest("GET /y", "GET /z"))
	require.NoError(t, err)

	control := proto.NewCaptureServiceClient(conn)

	stream, err := control.GetTraces(ctx, &emptypb.Empty{})
	require.NoError(t, err)

	batches := drainStream(t, stream)
	require.Len(t, batches, 2)

	var first coltracepb.ExportTraceServiceRequest

	require.NoError(t, pb.Unmarshal(batches[0], &first))
	assert.Equal(t, "GET /x", first.ResourceSpans[0].ScopeSpans[0].Spans[0].Name)

	var second coltracepb.ExportTraceServiceRequest

	require.NoError(t, pb.Unmarshal(batches[1], &second))
	assert.Len(t, second.ResourceSpans[0].ScopeSpans[0].Spans, 2)
}

func TestServiceExportAndGetMetrics(t *testing.T) {
	_, conn := startService(t)
	ctx := context.Background()

	_, err := colmetricpb.NewMetricsServiceClient(conn).Export(ctx, metricRequest("latency", "error.count"))
	require.NoError(t, err)

	stream, err := proto.NewCaptureServiceClient(conn).GetMetrics(ctx, &emptypb.Empty{})
	require.NoError(t, err)

	batches := drainStream(t, stream)
	require.Len(t, batches, 1)

	var req colmetricpb.ExportMetricsServiceRequest

	require.NoError(t, pb.Unmarshal(batches[0], &req))
	assert.Equal(t, "latency", req.ResourceMetrics[0].ScopeMetrics[0].Metrics[0].Name)
}

func TestServiceClear(t *testing.T) {
	svc, conn := startService(t)
	ctx := context.Background()

	_, err := coltracepb.NewTraceServiceClient(conn).Export(ctx, traceRequest("GET /x"))
	require.NoError(t, err)

	_, err = colmetricpb.NewMetricsServiceClient(conn).Export(ctx, metricRequest("latency"))
	require.NoError(t, err)

	control := proto.NewCaptureServiceClient(conn)

	_, err = control.Clear(ctx, &emptypb.Empty{})
	require.NoError(t, err)

	stream, err := control.GetTraces(ctx, &emptypb.Empty{})
	require.NoError(t, err)
	assert.Empty(t, drainStream(t, stream))

	assert.Equal(t, 0, svc.Store().Len(SignalTraces))
	assert.Equal(t, 0, svc.Store().Len(SignalMetrics))

	// Clear twice in a row is equivalent to clearing once.
	_, err = control.Clear(ctx, &emptypb.Empty{})
	require.NoError(t, err)
}

// rawCodec passes request bytes through unchanged while advertising the
// proto content subtype, letting the test put a malformed payload on the
// wire.
type rawCodec struct{}

func (rawCodec) Marshal(v interface{}) ([]byte, error) {
	return v.([]byte), nil
}

func (rawCodec) Unmarshal(data []byte, v interface{}) error {
	*(v.(*[]byte)) = data
	return nil
}

func (rawCodec) Name() string { return "proto" }

func TestServiceMalformedExportDoesNotCorruptStore(t *testing.T) {
	svc, conn := startService(t)
	ctx := context.Background()

	// Field 1 with an end-group wire type is not a valid
	// ExportTraceServiceRequest.
	var reply []byte

	err := conn.Invoke(
		ctx,
		"/opentelemetry.proto.collector.trace.v1.TraceService/Export",
		[]byte{0x0c},
		&reply,
		grpc.ForceCodec(rawCodec{}),
	)
	require.Error(t, err)

	assert.Equal(t, 0, svc.Store().Len(SignalTraces))

	// The service keeps working after the failed RPC.
	_, err = coltracepb.NewTraceServiceClient(conn).Export(ctx, traceRequest("GET /x"))
	require.NoError(t, err)
	assert.Equal(t, 1, svc.Store().Len(SignalTraces))
}

func TestServiceLifecycleHooks(t *testing.T) {
	svc := NewService(&Config{ListenAddr: DefaultListenAddr}, logger.NewTestLogger())

	require.NoError(t, svc.Start(context.Background()))
	require.NoError(t, svc.Stop(context.Background()))
}
