// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package cli

import (
	"os/signal"
	"syscall"

	"github.com/rapidaai/callrecorder/config"
	internal_service "github.com/rapidaai/callrecorder/internal/service"
	"github.com/rapidaai/callrecorder/pkg/configs"
	"github.com/spf13/cobra"
)

func NewServeCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the recorder service",
		Long:  "Serve the recorder control surface over gRPC and HTTP until interrupted. An active recording is stopped on shutdown.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			var opts []internal_service.HostOption
			if deps.Viper != nil {
				opts = append(opts, internal_service.WithSettingsWatcher(func(update func(configs.RecorderConfig)) {
					config.WatchRecorderConfig(deps.Viper, func(cfg configs.RecorderConfig) {
						deps.Logger.Infof("recording switches changed: enabled=%t autoRecord=%t", cfg.Enabled, cfg.AutoRecord)
						update(cfg)
					})
				}))
			}
			return internal_service.NewHost(deps.Config, deps.Logger, opts...).Run(ctx)
		},
	}
}
