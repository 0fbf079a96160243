// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package health_check_api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rapidaai/callrecorder/config"
	"github.com/rapidaai/callrecorder/pkg/commons"
)

// ReadinessProbe reports whether the service finished starting.
type ReadinessProbe interface {
	Ready(ctx context.Context) bool
}

type healthCheckApi struct {
	cfg    *config.AppConfig
	logger commons.Logger
	probe  ReadinessProbe
}

func New(cfg *config.AppConfig, logger commons.Logger, probe ReadinessProbe) *healthCheckApi {
	return &healthCheckApi{cfg: cfg, logger: logger, probe: probe}
}

func (h *healthCheckApi) Readiness(c *gin.Context) {
	if !h.probe.Ready(c.Request.Context()) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ready": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ready": true, "version": h.cfg.Version})
}

func (h *healthCheckApi) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"healthy": true, "service": h.cfg.Name})
}
