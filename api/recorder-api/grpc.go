// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package recorder_api

import (
	"context"
	"errors"

	"github.com/rapidaai/callrecorder/config"
	internal_settings "github.com/rapidaai/callrecorder/internal/settings"
	"github.com/rapidaai/callrecorder/pkg/commons"
	recorder_grpc_api "github.com/rapidaai/callrecorder/protos"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type recorderGRPCApi struct {
	recorderApi
}

func NewRecorderGRPCApi(cfg *config.AppConfig, logger commons.Logger,
	recorder Recorder,
	settings internal_settings.SettingsStore,
	catalog Catalog,
) recorder_grpc_api.RecorderServiceServer {
	return &recorderGRPCApi{
		newRecorderApi(cfg, logger, recorder, settings, catalog),
	}
}

func (r *recorderGRPCApi) StartRecording(ctx context.Context, in *structpb.Struct) (*wrapperspb.BoolValue, error) {
	var req StartRecordingRequest
	if err := decodeRequest(in.AsMap(), &req); err != nil {
		r.logger.Debugf("malformed start recording request: %v", err)
		return nil, status.Errorf(codes.InvalidArgument, "invalid start recording request: %v", err)
	}
	return wrapperspb.Bool(r.startRecording(ctx, req)), nil
}

func (r *recorderGRPCApi) StopRecording(ctx context.Context, _ *emptypb.Empty) (*structpb.Value, error) {
	return MetadataToValue(r.stopRecording(ctx)), nil
}

func (r *recorderGRPCApi) IsRecording(context.Context, *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	return wrapperspb.Bool(r.isRecording()), nil
}

func (r *recorderGRPCApi) GetActiveRecording(context.Context, *emptypb.Empty) (*structpb.Value, error) {
	return MetadataToValue(r.activeRecording()), nil
}

func (r *recorderGRPCApi) GetSettings(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"recordingEnabled":  structpb.NewBoolValue(r.settings.IsRecordingEnabled()),
		"autoRecordEnabled": structpb.NewBoolValue(r.settings.IsAutoRecordEnabled()),
	}}, nil
}

func (r *recorderGRPCApi) ListRecordings(ctx context.Context, in *structpb.Struct) (*structpb.ListValue, error) {
	var req ListRecordingsRequest
	if err := decodeRequest(in.AsMap(), &req); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid list recordings request: %v", err)
	}
	recs, err := r.listRecordings(ctx, req)
	if errors.Is(err, ErrCatalogDisabled) {
		return nil, status.Error(codes.FailedPrecondition, err.Error())
	}
	if err != nil {
		r.logger.Errorf("unable to list recordings: %v", err)
		return nil, status.Error(codes.Internal, "unable to list recordings")
	}
	return recordingsToList(recs)
}
