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

// Package logger provides JSON structured logging using zerolog. Loggers are
// explicitly constructed instances so multiple services can coexist in one
// process with independent configuration.
package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config controls the behavior of a logger instance.
type Config struct {
	Level      string     `json:"level"`
	Debug      bool       `json:"debug"`
	Output     string     `json:"output"`
	TimeFormat string     `json:"time_format"`
	OTel       OTelConfig `json:"otel"`
}

// New creates a logger from the given configuration. If config is nil the
// defaults from DefaultConfig are used.
func New(ctx context.Context, config *Config) (Logger, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var output io.Writer = os.Stdout
	if config.Output == "stderr" {
		output = os.Stderr
	}

	level := zerolog.InfoLevel

	if config.Debug {
		level = zerolog.DebugLevel
	} else if config.Level != "" {
		var err error

		level, err = zerolog.ParseLevel(config.Level)
		if err != nil {
			return nil, err
		}
	}

	timeFormat := time.RFC3339
	if config.TimeFormat != "" {
		timeFormat = config.TimeFormat
	}

	zerolog.TimeFieldFormat = timeFormat

	var otelWriter *OTelWriter

	if config.OTel.Enabled {
		var err error

		otelWriter, err = NewOTelWriter(ctx, config.OTel)
		if err != nil {
			return nil, err
		}

		output = zerolog.MultiLevelWriter(output, otelWriter)
	}

	zlog := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &zlogger{logger: zlog, otel: otelWriter}, nil
}

// NewWithComponent creates a logger with a component field attached to every
// event.
func NewWithComponent(ctx context.Context, component string, config *Config) (Logger, error) {
	base, err := New(ctx, config)
	if err != nil {
		return nil, err
	}

	z := base.(*zlogger)

	return &zlogger{
		logger: z.logger.With().Str("component", component).Logger(),
		otel:   z.otel,
	}, nil
}

// zlogger is the zerolog-backed Logger implementation.
type zlogger struct {
	logger zerolog.Logger
	otel   *OTelWriter
}

func (l *zlogger) Trace() *zerolog.Event { return l.logger.Trace() }

func (l *zlogger) Debug() *zerolog.Event { return l.logger.Debug() }

func (l *zlogger) Info() *zerolog.Event { return l.logger.Info() }

func (l *zlogger) Warn() *zerolog.Event { return l.logger.Warn() }

func (l *zlogger) Error() *zerolog.Event { return l.logger.Error() }

func (l *zlogger) Fatal() *zerolog.Event { return l.logger.Fatal() }

func (l *zlogger) Panic() *zerolog.Event { return l.logger.Panic() }

func (l *zlogger) With() zerolog.Context { return l.logger.With() }

func (l *zlogger) WithComponent(component string) zerolog.Logger {
	return l.logger.With().Str("component", component).Logger()
}

// Shutdown flushes any pending OTel log export. It is a no-op when OTel
// export is disabled.
func (l *zlogger) Shutdown(ctx context.Context) error {
	if l.otel == nil {
		return nil
	}

	return l.otel.Shutdown(ctx)
}
