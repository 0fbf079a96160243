// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	recorderApi "github.com/rapidaai/callrecorder/api/recorder-api"
	internal_recording "github.com/rapidaai/callrecorder/internal/recording"
	recorder_grpc_api "github.com/rapidaai/callrecorder/protos"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

var ErrNotStarted = errors.New("recording not started")

func NewStartCmd(client clientFunc) *cobra.Command {
	var subject string
	var creationTime int64

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start recording a call",
		Long:  "Start recording the call identified by --subject. A recording in progress is stopped first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := map[string]interface{}{"subjectIdentifier": subject}
			if creationTime > 0 {
				fields["creationTime"] = creationTime
			}
			req, err := structpb.NewStruct(fields)
			if err != nil {
				return err
			}
			return client(func(ctx context.Context, c recorder_grpc_api.RecorderServiceClient) error {
				started, err := c.StartRecording(ctx, req)
				if err != nil {
					return err
				}
				if !started.GetValue() {
					return ErrNotStarted
				}
				fmt.Fprintln(cmd.OutOrStdout(), "recording started")
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&subject, "subject", "s", "", "phone number or other identifier of the call")
	cmd.Flags().Int64Var(&creationTime, "creation-time", 0, "call creation time in epoch milliseconds (default now)")

	return cmd
}

func NewStopCmd(client clientFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the active recording",
		RunE: func(cmd *cobra.Command, args []string) error {
			return client(func(ctx context.Context, c recorder_grpc_api.RecorderServiceClient) error {
				v, err := c.StopRecording(ctx, &emptypb.Empty{})
				if err != nil {
					return err
				}
				m, err := recorderApi.MetadataFromValue(v)
				if err != nil {
					return err
				}
				if m == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "not recording")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "stopped %s\n", m.OutputFilePath)
				return nil
			})
		},
	}
}

func NewStatusCmd(client clientFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a call is being recorded",
		RunE: func(cmd *cobra.Command, args []string) error {
			return client(func(ctx context.Context, c recorder_grpc_api.RecorderServiceClient) error {
				recording, err := c.IsRecording(ctx, &emptypb.Empty{})
				if err != nil {
					return err
				}
				if recording.GetValue() {
					fmt.Fprintln(cmd.OutOrStdout(), "recording")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "idle")
				}
				return nil
			})
		},
	}
}

func NewActiveCmd(client clientFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "active",
		Short: "Print the active recording as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return client(func(ctx context.Context, c recorder_grpc_api.RecorderServiceClient) error {
				v, err := c.GetActiveRecording(ctx, &emptypb.Empty{})
				if err != nil {
					return err
				}
				m, err := recorderApi.MetadataFromValue(v)
				if err != nil {
					return err
				}
				return printMetadata(cmd.OutOrStdout(), m)
			})
		},
	}
}

func printMetadata(w io.Writer, m *internal_recording.RecordingMetadata) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

func NewListCmd(client clientFunc) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed recordings, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := structpb.NewStruct(map[string]interface{}{"limit": limit})
			if err != nil {
				return err
			}
			return client(func(ctx context.Context, c recorder_grpc_api.RecorderServiceClient) error {
				list, err := c.ListRecordings(ctx, req)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "INDEXED\tSUBJECT\tSIZE\tFILE")
				for _, v := range list.GetValues() {
					f := v.GetStructValue().GetFields()
					indexed := f["indexedDate"].GetStringValue()
					if t, err := time.Parse(time.RFC3339Nano, indexed); err == nil {
						indexed = t.Local().Format("2006-01-02 15:04:05")
					}
					fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n",
						indexed,
						f["subject"].GetStringValue(),
						int64(f["sizeBytes"].GetNumberValue()),
						f["filePath"].GetStringValue())
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of recordings")

	return cmd
}
