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

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/otelcapture/pkg/logger"
)

type testConfig struct {
	ListenAddr string `json:"listen_addr"`
	Name       string `json:"name"`

	validateErr error
}

func (c *testConfig) Validate() error {
	if c.validateErr != nil {
		return c.validateErr
	}

	if c.ListenAddr == "" {
		c.ListenAddr = ":4315"
	}

	return nil
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadAndValidate(t *testing.T) {
	path := writeConfigFile(t, `{"listen_addr": "127.0.0.1:4315", "name": "capture"}`)

	var cfg testConfig

	loader := NewConfig(logger.NewTestLogger())
	require.NoError(t, loader.LoadAndValidate(context.Background(), path, &cfg))

	assert.Equal(t, "127.0.0.1:4315", cfg.ListenAddr)
	assert.Equal(t, "capture", cfg.Name)
}

func TestLoadAndValidateAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `{"name": "capture"}`)

	var cfg testConfig

	loader := NewConfig(nil)
	require.NoError(t, loader.LoadAndValidate(context.Background(), path, &cfg))

	assert.Equal(t, ":4315", cfg.ListenAddr)
}

func TestLoadAndValidateMissingFile(t *testing.T) {
	var cfg testConfig

	loader := NewConfig(logger.NewTestLogger())
	err := loader.LoadAndValidate(context.Background(), filepath.Join(t.TempDir(), "missing.json"), &cfg)

	require.Error(t, err)
	require.ErrorIs(t, err, errLoadConfigFailed)
}

func TestLoadAndValidateBadJSON(t *testing.T) {
	path := writeConfigFile(t, `{"listen_addr": `)

	var cfg testConfig

	loader := NewConfig(logger.NewTestLogger())
	require.Error(t, loader.LoadAndValidate(context.Background(), path, &cfg))
}

func TestLoadAndValidateValidationError(t *testing.T) {
	path := writeConfigFile(t, `{}`)

	errBoom := errors.New("boom")
	cfg := testConfig{validateErr: errBoom}

	loader := NewConfig(logger.NewTestLogger())
	require.ErrorIs(t, loader.LoadAndValidate(context.Background(), path, &cfg), errBoom)
}
