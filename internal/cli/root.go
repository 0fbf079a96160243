// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package cli

import (
	"context"
	"time"

	"github.com/rapidaai/callrecorder/config"
	"github.com/rapidaai/callrecorder/pkg/commons"
	recorder_grpc_api "github.com/rapidaai/callrecorder/protos"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const rpcTimeout = time.Minute

type Dependencies struct {
	Config *config.AppConfig
	// Viper is the source Config was read from; serve watches it for
	// changes to the recording switches.
	Viper  *viper.Viper
	Logger commons.Logger
	// Dial opens the client connection used by the control commands.
	Dial func(addr string) (*grpc.ClientConn, error)
}

func dialInsecure(addr string) (*grpc.ClientConn, error) {
	return grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps.Dial == nil {
		deps.Dial = dialInsecure
	}
	var addr string

	rootCmd := &cobra.Command{
		Use:           "callrecorder",
		Short:         "Record phone call audio to AMR files",
		Long:          "Runs the call recording service and controls a running instance over gRPC.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.Version = deps.Config.Version
	rootCmd.PersistentFlags().StringVar(&addr, "addr", deps.Config.Address(), "address of the running recorder service")

	client := func(fn func(ctx context.Context, c recorder_grpc_api.RecorderServiceClient) error) error {
		conn, err := deps.Dial(addr)
		if err != nil {
			return err
		}
		defer conn.Close()
		ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
		defer cancel()
		return fn(ctx, recorder_grpc_api.NewRecorderServiceClient(conn))
	}

	rootCmd.AddCommand(NewServeCmd(deps))
	rootCmd.AddCommand(NewStartCmd(client))
	rootCmd.AddCommand(NewStopCmd(client))
	rootCmd.AddCommand(NewStatusCmd(client))
	rootCmd.AddCommand(NewActiveCmd(client))
	rootCmd.AddCommand(NewListCmd(client))

	return rootCmd
}

// clientFunc runs fn against a connected recorder client.
type clientFunc func(fn func(ctx context.Context, c recorder_grpc_api.RecorderServiceClient) error) error
