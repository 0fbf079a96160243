// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package recorder_routers

import (
	"github.com/gin-gonic/gin"
	recorderApi "github.com/rapidaai/callrecorder/api/recorder-api"
	"github.com/rapidaai/callrecorder/config"
	internal_settings "github.com/rapidaai/callrecorder/internal/settings"
	"github.com/rapidaai/callrecorder/pkg/commons"
	recorder_grpc_api "github.com/rapidaai/callrecorder/protos"
	"google.golang.org/grpc"
)

func RecorderApiRoute(
	Cfg *config.AppConfig,
	S *grpc.Server,
	Logger commons.Logger,
	Recorder recorderApi.Recorder,
	Settings internal_settings.SettingsStore,
	Catalog recorderApi.Catalog,
) {
	recorder_grpc_api.RegisterRecorderServiceServer(S,
		recorderApi.NewRecorderGRPCApi(Cfg,
			Logger,
			Recorder,
			Settings,
			Catalog,
		))
}

func RecorderRestRoute(
	Cfg *config.AppConfig,
	Engine *gin.Engine,
	Logger commons.Logger,
	Recorder recorderApi.Recorder,
	Settings internal_settings.SettingsStore,
	Catalog recorderApi.Catalog,
) {
	Logger.Info("Recorder rest routes added to engine.")
	apiv1 := Engine.Group("/v1")
	rpcApi := recorderApi.NewRecorderRPCApi(Cfg, Logger, Recorder, Settings, Catalog)
	{
		apiv1.POST("/recorder/start", rpcApi.StartRecording)
		apiv1.POST("/recorder/stop", rpcApi.StopRecording)
		apiv1.GET("/recorder/status", rpcApi.IsRecording)
		apiv1.GET("/recorder/active", rpcApi.GetActiveRecording)
		apiv1.GET("/recorder/settings", rpcApi.GetSettings)
		apiv1.GET("/recordings", rpcApi.ListRecordings)
	}
}
