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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otellog "go.opentelemetry.io/otel/log"
)

func TestNew(t *testing.T) {
	log, err := New(context.Background(), &Config{Level: "debug", Output: "stdout"})
	require.NoError(t, err)

	require.NotNil(t, log.Debug())
	require.True(t, log.Debug().Enabled())
	require.True(t, log.Info().Enabled())
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New(context.Background(), &Config{Level: "shouting"})
	require.Error(t, err)
}

func TestNewWithComponent(t *testing.T) {
	log, err := NewWithComponent(context.Background(), "capture", &Config{Level: "info"})
	require.NoError(t, err)
	require.NotNil(t, log)

	// Shutdown is a no-op without OTel export.
	require.NoError(t, log.(Shutdowner).Shutdown(context.Background()))
}

func TestNewTestLoggerDiscards(t *testing.T) {
	log := NewTestLogger()

	assert.False(t, log.Info().Enabled())
	assert.False(t, log.Error().Enabled())

	// Must not panic.
	log.Info().Str("k", "v").Msg("discarded")
}

func TestSeverityFromLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected otellog.Severity
	}{
		{"trace", otellog.SeverityTrace},
		{"debug", otellog.SeverityDebug},
		{"info", otellog.SeverityInfo},
		{"warn", otellog.SeverityWarn},
		{"error", otellog.SeverityError},
		{"fatal", otellog.SeverityFatal},
		{"panic", otellog.SeverityFatal},
		{"", otellog.SeverityInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, severityFromLevel(tt.level), "level %q", tt.level)
	}
}

func TestAttrValue(t *testing.T) {
	assert.Equal(t, otellog.StringValue("x"), attrValue("x"))
	assert.Equal(t, otellog.BoolValue(true), attrValue(true))
	assert.Equal(t, otellog.Float64Value(3.5), attrValue(3.5))
	assert.Equal(t, otellog.StringValue(`[1,2]`), attrValue([]interface{}{1.0, 2.0}))
}

func TestNewOTelWriterRequiresEndpoint(t *testing.T) {
	_, err := NewOTelWriter(context.Background(), OTelConfig{Enabled: true})
	require.ErrorIs(t, err, ErrOTelEndpointRequired)
}
