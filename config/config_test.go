// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rapidaai/callrecorder/pkg/configs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadConfig(t *testing.T) (*AppConfig, error) {
	t.Helper()
	v, err := InitConfig()
	require.NoError(t, err)
	return GetApplicationConfig(v)
}

func TestGetApplicationConfig_Defaults(t *testing.T) {
	t.Setenv("ENV_PATH", filepath.Join(t.TempDir(), "missing.env"))

	cfg, err := loadConfig(t)
	require.NoError(t, err)

	assert.Equal(t, "callrecorder", cfg.Name)
	assert.Equal(t, 9190, cfg.Port)
	assert.Equal(t, "127.0.0.1:9190", cfg.Address())
	assert.Equal(t, "recordings", cfg.RecorderConfig.Directory)
	assert.True(t, cfg.RecorderConfig.Enabled)
	assert.False(t, cfg.RecorderConfig.AutoRecord)
	assert.Equal(t, 30*time.Second, cfg.RecorderConfig.ProbeTimeout)
	assert.Equal(t, 300*time.Millisecond, cfg.RecorderConfig.StartSettle)
	assert.Equal(t, "ffmpeg", cfg.CaptureConfig.FfmpegPath)
	assert.False(t, cfg.RedisConfig.Enabled())
	assert.Empty(t, cfg.CorsOrigins)
}

func TestGetApplicationConfig_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recorder.env")
	content := "PORT=9999\n" +
		"RECORDER__DIRECTORY=/var/lib/callrecorder\n" +
		"RECORDER__MAX_ATTEMPTS=4\n" +
		"REDIS__HOST=redis.local\n" +
		"CORS_ORIGINS=https://a.example,https://b.example\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("ENV_PATH", path)

	cfg, err := loadConfig(t)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Port)
	assert.Equal(t, "/var/lib/callrecorder", cfg.RecorderConfig.Directory)
	assert.Equal(t, 4, cfg.RecorderConfig.MaxAttempts)
	assert.True(t, cfg.RedisConfig.Enabled())
	assert.Equal(t, 6379, cfg.RedisConfig.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CorsOrigins)
}

func TestWatchRecorderConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recorder.env")
	require.NoError(t, os.WriteFile(path, []byte("RECORDER__ENABLED=true\n"), 0o644))
	t.Setenv("ENV_PATH", path)

	v, err := InitConfig()
	require.NoError(t, err)

	var mu sync.Mutex
	var latest *configs.RecorderConfig
	WatchRecorderConfig(v, func(cfg configs.RecorderConfig) {
		mu.Lock()
		defer mu.Unlock()
		latest = &cfg
	})

	// a write may surface as several events; wait for the final content
	require.NoError(t, os.WriteFile(path, []byte("RECORDER__ENABLED=false\nRECORDER__AUTO_RECORD=true\n"), 0o644))
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return latest != nil && !latest.Enabled && latest.AutoRecord
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatchRecorderConfig_NoFile(t *testing.T) {
	t.Setenv("ENV_PATH", filepath.Join(t.TempDir(), "missing.env"))
	v, err := InitConfig()
	require.NoError(t, err)
	WatchRecorderConfig(v, func(configs.RecorderConfig) { t.Fatal("unexpected change") })
}

func TestGetApplicationConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("ENV_PATH", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("RECORDER__AUTO_RECORD", "true")
	t.Setenv("CAPTURE__VOICE_CALL_DEVICE", "alsa_output.monitor")

	cfg, err := loadConfig(t)
	require.NoError(t, err)
	assert.True(t, cfg.RecorderConfig.AutoRecord)
	assert.Equal(t, "alsa_output.monitor", cfg.CaptureConfig.VoiceCallDevice)
}

func TestGetApplicationConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"bad webhook", "INDEXER__WEBHOOK_URL", "not a url"},
		{"negative attempts", "RECORDER__MAX_ATTEMPTS", "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENV_PATH", filepath.Join(t.TempDir(), "missing.env"))
			t.Setenv(tt.key, tt.val)
			_, err := loadConfig(t)
			assert.Error(t, err)
		})
	}
}
