// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package recorder_api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rapidaai/callrecorder/config"
	internal_settings "github.com/rapidaai/callrecorder/internal/settings"
	"github.com/rapidaai/callrecorder/pkg/commons"
)

type recorderRPCApi struct {
	recorderApi
}

func NewRecorderRPCApi(cfg *config.AppConfig, logger commons.Logger,
	recorder Recorder,
	settings internal_settings.SettingsStore,
	catalog Catalog,
) *recorderRPCApi {
	return &recorderRPCApi{
		newRecorderApi(cfg, logger, recorder, settings, catalog),
	}
}

// StartRecording accepts an optional JSON body {subjectIdentifier, creationTime},
// decoded by the same rules as the gRPC request.
func (r *recorderRPCApi) StartRecording(c *gin.Context) {
	var req StartRecordingRequest
	if err := decodeJSONRequest(c.Request.Body, &req); err != nil {
		r.logger.Debugf("malformed start recording request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"started": r.startRecording(c.Request.Context(), req)})
}

func (r *recorderRPCApi) StopRecording(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"recording": r.stopRecording(c.Request.Context())})
}

func (r *recorderRPCApi) IsRecording(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"recording": r.isRecording()})
}

func (r *recorderRPCApi) GetActiveRecording(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"recording": r.activeRecording()})
}

func (r *recorderRPCApi) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"recordingEnabled":  r.settings.IsRecordingEnabled(),
		"autoRecordEnabled": r.settings.IsAutoRecordEnabled(),
	})
}

func (r *recorderRPCApi) ListRecordings(c *gin.Context) {
	var req ListRecordingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	recs, err := r.listRecordings(c.Request.Context(), req)
	if errors.Is(err, ErrCatalogDisabled) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		r.logger.Errorf("unable to list recordings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to list recordings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recordings": recs})
}
