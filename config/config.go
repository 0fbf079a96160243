// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package config

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/rapidaai/callrecorder/pkg/configs"
	"github.com/spf13/viper"
)

// Application config structure
type AppConfig struct {
	Name     string `mapstructure:"service_name" validate:"required"`
	Version  string `mapstructure:"version" validate:"required"`
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"required,gt=0,lte=65535"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	LogPath  string `mapstructure:"log_path"`
	// CorsOrigins lists browser origins allowed on the HTTP surface; "*"
	// allows any origin, empty disables CORS.
	CorsOrigins []string `mapstructure:"cors_origins"`

	RecorderConfig configs.RecorderConfig `mapstructure:"recorder" validate:"required"`
	CaptureConfig  configs.CaptureConfig  `mapstructure:"capture" validate:"required"`
	RedisConfig    configs.RedisConfig    `mapstructure:"redis"`
	CatalogConfig  configs.CatalogConfig  `mapstructure:"catalog"`
	IndexerConfig  configs.IndexerConfig  `mapstructure:"indexer"`
}

// Address is the host:port the control surface listens on.
func (c *AppConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// reading config and intializing configs for application
func InitConfig() (*viper.Viper, error) {
	vConfig := viper.NewWithOptions(viper.KeyDelimiter("__"))

	vConfig.AddConfigPath(".")
	vConfig.SetConfigName(".env")
	if path := os.Getenv("ENV_PATH"); path != "" {
		log.Printf("env path %v", path)
		vConfig.SetConfigFile(path)
	}
	vConfig.SetConfigType("env")
	vConfig.AutomaticEnv()

	setDefault(vConfig)
	if err := vConfig.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		log.Printf("Reading from env variables.")
	}
	return vConfig, nil
}

func setDefault(v *viper.Viper) {
	// keeping watch on https://github.com/spf13/viper/issues/188
	// every key needs a default so AutomaticEnv can resolve it on Unmarshal

	v.SetDefault("SERVICE_NAME", "callrecorder")
	v.SetDefault("VERSION", "0.0.1")
	v.SetDefault("HOST", "127.0.0.1")
	v.SetDefault("PORT", 9190)
	v.SetDefault("LOG_LEVEL", "debug")
	v.SetDefault("LOG_PATH", "")
	v.SetDefault("CORS_ORIGINS", "")

	v.SetDefault("RECORDER__DIRECTORY", "recordings")
	v.SetDefault("RECORDER__ENABLED", true)
	v.SetDefault("RECORDER__AUTO_RECORD", false)
	v.SetDefault("RECORDER__PROBE_TIMEOUT", "30s")
	v.SetDefault("RECORDER__MAX_ATTEMPTS", 0)
	v.SetDefault("RECORDER__STOP_TIMEOUT", "5s")
	v.SetDefault("RECORDER__START_SETTLE", "300ms")

	v.SetDefault("CAPTURE__FFMPEG_PATH", "ffmpeg")
	v.SetDefault("CAPTURE__INPUT_FORMAT", "pulse")
	v.SetDefault("CAPTURE__VOICE_CALL_DEVICE", "")
	v.SetDefault("CAPTURE__MICROPHONE_DEVICE", "default")

	v.SetDefault("REDIS__HOST", "")
	v.SetDefault("REDIS__PORT", 6379)
	v.SetDefault("REDIS__DB", 0)
	v.SetDefault("REDIS__PASSWORD", "")

	v.SetDefault("CATALOG__PATH", "")

	v.SetDefault("INDEXER__WEBHOOK_URL", "")
	v.SetDefault("INDEXER__TIMEOUT", "5s")
}

// Getting application config from viper
func GetApplicationConfig(v *viper.Viper) (*AppConfig, error) {
	var config AppConfig
	if err := v.Unmarshal(&config); err != nil {
		log.Printf("%+v\n", err)
		return nil, err
	}

	// valdating the app config
	validate := validator.New()
	if err := validate.Struct(&config); err != nil {
		log.Printf("%+v\n", err)
		return nil, err
	}
	return &config, nil
}

// WatchRecorderConfig re-reads the config file whenever it changes and hands
// the new recorder section to onChange. An edit that fails validation is
// ignored. Without a config file nothing is watched.
func WatchRecorderConfig(v *viper.Viper, onChange func(configs.RecorderConfig)) {
	if v.ConfigFileUsed() == "" {
		return
	}
	if _, err := os.Stat(v.ConfigFileUsed()); err != nil {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := GetApplicationConfig(v)
		if err != nil {
			log.Printf("ignoring config change in %s: %v", e.Name, err)
			return
		}
		onChange(cfg.RecorderConfig)
	})
	v.WatchConfig()
}
