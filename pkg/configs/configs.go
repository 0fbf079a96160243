// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package configs

import "time"

// RedisConfig points at the redis instance holding lifecycle flags.
// An empty host disables redis.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"gte=0,lte=65535"`
	Db       int    `mapstructure:"db" validate:"gte=0"`
	Password string `mapstructure:"password"`
}

// Enabled reports whether a redis host was configured.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

// CatalogConfig locates the sqlite database indexing finished recordings.
// An empty path disables the catalog.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// IndexerConfig configures the webhook notified when a recording is ready.
type IndexerConfig struct {
	WebhookUrl string        `mapstructure:"webhook_url" validate:"omitempty,url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// RecorderConfig drives the recording session and the configuration probe.
type RecorderConfig struct {
	Directory    string        `mapstructure:"directory" validate:"required"`
	Enabled      bool          `mapstructure:"enabled"`
	AutoRecord   bool          `mapstructure:"auto_record"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout" validate:"gte=0"`
	MaxAttempts  int           `mapstructure:"max_attempts" validate:"gte=0"`
	StopTimeout  time.Duration `mapstructure:"stop_timeout" validate:"gte=0"`
	StartSettle  time.Duration `mapstructure:"start_settle" validate:"gte=0"`
}

// CaptureConfig describes how the ffmpeg capture device reaches the audio
// inputs. A source whose device is empty is treated as unsupported.
type CaptureConfig struct {
	FfmpegPath       string `mapstructure:"ffmpeg_path" validate:"required"`
	InputFormat      string `mapstructure:"input_format" validate:"required"`
	VoiceCallDevice  string `mapstructure:"voice_call_device"`
	MicrophoneDevice string `mapstructure:"microphone_device"`
}
