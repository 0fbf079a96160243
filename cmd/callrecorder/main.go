// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package main

import (
	"fmt"
	"os"

	"github.com/rapidaai/callrecorder/config"
	"github.com/rapidaai/callrecorder/internal/cli"
	"github.com/rapidaai/callrecorder/pkg/commons"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "callrecorder: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	v, err := config.InitConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg, err := config.GetApplicationConfig(v)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := commons.NewApplicationLogger(
		commons.Name(cfg.Name),
		commons.Path(cfg.LogPath),
		commons.Level(cfg.LogLevel),
	)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()

	return cli.NewRootCmd(&cli.Dependencies{
		Config: cfg,
		Viper:  v,
		Logger: logger,
	}).Execute()
}
