// Copyright 2025 The PicoMaps Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	// An explicit key avoids the ADC lookup path in tests.
	t.Setenv("GOOGLE_MAPS_API_KEY", "env-key")

	s := FromEnv(context.Background())

	assert.Equal(t, "PicoMaps Gateway", s.AppName)
	assert.False(t, s.Debug)
	assert.Equal(t, "INFO", s.LogLevel)
	assert.Equal(t, 10*time.Second, s.APITimeout)
	assert.Equal(t, 10, s.MaxResults)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, s.CORSOrigins)
	assert.Equal(t, "env-key", s.GoogleMapsAPIKey)
}

func TestSecretFileTakesPrecedenceOverEnv(t *testing.T) {
	secretFile := filepath.Join(t.TempDir(), "maps_key")
	require.NoError(t, os.WriteFile(secretFile, []byte("file-key\n"), 0o600))

	t.Setenv("GOOGLE_MAPS_API_KEY", "env-key")
	t.Setenv("GOOGLE_MAPS_API_KEY_FILE", secretFile)

	s := FromEnv(context.Background())
	assert.Equal(t, "file-key", s.GoogleMapsAPIKey, "secret file wins over the environment variable")
}

func TestUnreadableSecretFileFallsBackToEnv(t *testing.T) {
	t.Setenv("GOOGLE_MAPS_API_KEY", "env-key")
	t.Setenv("GOOGLE_MAPS_API_KEY_FILE", filepath.Join(t.TempDir(), "does-not-exist"))

	s := FromEnv(context.Background())
	assert.Equal(t, "env-key", s.GoogleMapsAPIKey)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GOOGLE_MAPS_API_KEY", "env-key")
	t.Setenv("APP_NAME", "Custom Maps")
	t.Setenv("DEBUG", "yes")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("API_TIMEOUT", "30")
	t.Setenv("MAX_RESULTS", "3")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	s := FromEnv(context.Background())

	assert.Equal(t, "Custom Maps", s.AppName)
	assert.True(t, s.Debug)
	assert.Equal(t, "DEBUG", s.LogLevel)
	assert.Equal(t, 30*time.Second, s.APITimeout)
	assert.Equal(t, 3, s.MaxResults)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, s.CORSOrigins)
}

func TestInvalidNumericValuesKeepDefaults(t *testing.T) {
	t.Setenv("GOOGLE_MAPS_API_KEY", "env-key")
	t.Setenv("API_TIMEOUT", "soon")
	t.Setenv("MAX_RESULTS", "-4")

	s := FromEnv(context.Background())

	assert.Equal(t, 10*time.Second, s.APITimeout)
	assert.Equal(t, 10, s.MaxResults)
}
