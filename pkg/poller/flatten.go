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
	collogspb "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	colmetricpb "go.opentelemetry.io/proto/otlp/collector/metrics/v1"
	coltracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	logspb "go.opentelemetry.io/proto/otlp/logs/v1"
	metricpb "go.opentelemetry.io/proto/otlp/metrics/v1"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"
)

// ResourceScopeSpan correlates a span with its enclosing resource and
// instrumentation scope.
type ResourceScopeSpan struct {
	ResourceSpans *tracepb.ResourceSpans
	ScopeSpans    *tracepb.ScopeSpans
	Span          *tracepb.Span
}

// ResourceScopeMetric correlates a metric with its enclosing resource and
// instrumentation scope.
type ResourceScopeMetric struct {
	ResourceMetrics *metricpb.ResourceMetrics
	ScopeMetrics    *metricpb.ScopeMetrics
	Metric          *metricpb.Metric
}

// ResourceScopeLogRecord correlates a log record with its enclosing
// resource and instrumentation scope.
type ResourceScopeLogRecord struct {
	ResourceLogs *logspb.ResourceLogs
	ScopeLogs    *logspb.ScopeLogs
	LogRecord    *logspb.LogRecord
}

// FlattenTraces walks every batch outer-to-inner and emits one entry per
// span, in source order. The transformation is pure: the inputs are never
// modified and repeated calls yield identical output.
func FlattenTraces(requests []*coltracepb.ExportTraceServiceRequest) []ResourceScopeSpan {
	var spans []ResourceScopeSpan

	for _, request := range requests {
		for _, resourceSpans := range request.GetResourceSpans() {
			for _, scopeSpans := range resourceSpans.GetScopeSpans() {
				for _, span := range scopeSpans.GetSpans() {
					spans = append(spans, ResourceScopeSpan{
						ResourceSpans: resourceSpans,
						ScopeSpans:    scopeSpans,
						Span:          span,
					})
				}
			}
		}
	}

	return spans
}

// FlattenMetrics walks every batch outer-to-inner and emits one entry per
// metric, in source order.
func FlattenMetrics(requests []*colmetricpb.ExportMetricsServiceRequest) []ResourceScopeMetric {
	var metrics []ResourceScopeMetric

	for _, request := range requests {
		for _, resourceMetrics := range request.GetResourceMetrics() {
			for _, scopeMetrics := range resourceMetrics.GetScopeMetrics() {
				for _, metric := range scopeMetrics.GetMetrics() {
					metrics = append(metrics, ResourceScopeMetric{
						ResourceMetrics: resourceMetrics,
						ScopeMetrics:    scopeMetrics,
						Metric:          metric,
					})
				}
			}
		}
	}

	return metrics
}

// FlattenLogs walks every batch outer-to-inner and emits one entry per log
// record, in source order.
func FlattenLogs(requests []*collogspb.ExportLogsServiceRequest) []ResourceScopeLogRecord {
	var records []ResourceScopeLogRecord

	for _, request := range requests {
		for _, resourceLogs := range request.GetResourceLogs() {
			for _, scopeLogs := range resourceLogs.GetScopeLogs() {
				for _, record := range scopeLogs.GetLogRecords() {
					records = append(records, ResourceScopeLogRecord{
						ResourceLogs: resourceLogs,
						ScopeLogs:    scopeLogs,
						LogRecord:    record,
					})
				}
			}
		}
	}

	return records
}
