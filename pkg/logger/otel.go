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

package logger

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.31.0"

	"github.com/carverauto/otelcapture/pkg/models"
)

var ErrOTelEndpointRequired = errors.New("OTel endpoint is required when enabled")

// OTelConfig enables shipping the service's own logs to an OTLP endpoint.
type OTelConfig struct {
	Enabled      bool              `json:"enabled"`
	Endpoint     string            `json:"endpoint"`
	Headers      map[string]string `json:"headers,omitempty"`
	ServiceName  string            `json:"service_name"`
	BatchTimeout models.Duration   `json:"batch_timeout"`
	Insecure     bool              `json:"insecure"`
}

// OTelWriter is an io.Writer that forwards zerolog's JSON lines to an OTLP
// log exporter. It is attached to the zerolog output via MultiLevelWriter.
type OTelWriter struct {
	provider *sdklog.LoggerProvider
	logger   otellog.Logger
	ctx      context.Context
}

func NewOTelWriter(ctx context.Context, config OTelConfig) (*OTelWriter, error) {
	if config.Endpoint == "" {
		return nil, ErrOTelEndpointRequired
	}

	opts := []otlploggrpc.Option{
		otlploggrpc.WithEndpoint(config.Endpoint),
	}

	if config.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}

	if len(config.Headers) > 0 {
		opts = append(opts, otlploggrpc.WithHeaders(config.Headers))
	}

	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, err
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(config.ServiceName),
	)

	batchTimeout := time.Duration(config.BatchTimeout)
	if batchTimeout <= 0 {
		batchTimeout = 5 * time.Second
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter, sdklog.WithExportInterval(batchTimeout))),
		sdklog.WithResource(res),
	)

	return &OTelWriter{
		provider: provider,
		logger:   provider.Logger(config.ServiceName),
		ctx:      ctx,
	}, nil
}

// Write parses one zerolog JSON line and emits it as an OTel log record.
// Lines that are not valid JSON are dropped rather than failing the writer.
func (w *OTelWriter) Write(p []byte) (int, error) {
	var entry map[string]interface{}

	if err := json.Unmarshal(p, &entry); err != nil {
		return len(p), nil
	}

	var record otellog.Record

	record.SetObservedTimestamp(time.Now())

	levelStr, _ := entry["level"].(string)
	record.SetSeverity(severityFromLevel(levelStr))
	record.SetSeverityText(levelStr)

	if msg, ok := entry["message"].(string); ok {
		record.SetBody(otellog.StringValue(msg))
	}

	for key, value := range entry {
		switch key {
		case "level", "message", "time":
			continue
		}

		record.AddAttributes(otellog.KeyValue{Key: key, Value: attrValue(value)})
	}

	w.logger.Emit(w.ctx, record)

	return len(p), nil
}

func (w *OTelWriter) Shutdown(ctx context.Context) error {
	return w.provider.Shutdown(ctx)
}

func severityFromLevel(level string) otellog.Severity {
	switch level {
	case "trace":
		return otellog.SeverityTrace
	case "debug":
		return otellog.SeverityDebug
	case "info":
		return otellog.SeverityInfo
	case "warn":
		return otellog.SeverityWarn
	case "error":
		return otellog.SeverityError
	case "fatal", "panic":
		return otellog.SeverityFatal
	default:
		return otellog.SeverityInfo
	}
}

func attrValue(v interface{}) otellog.Value {
	switch value := v.(type) {
	case string:
		return otellog.StringValue(value)
	case bool:
		return otellog.BoolValue(value)
	case float64:
		return otellog.Float64Value(value)
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return otellog.StringValue("")
		}

		return otellog.StringValue(string(data))
	}
}
