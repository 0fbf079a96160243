// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	recorderApi "github.com/rapidaai/callrecorder/api/recorder-api"
	"github.com/rapidaai/callrecorder/config"
	internal_capture "github.com/rapidaai/callrecorder/internal/capture"
	internal_ffmpeg "github.com/rapidaai/callrecorder/internal/capture/ffmpeg"
	internal_indexer "github.com/rapidaai/callrecorder/internal/indexer"
	internal_lifecycle "github.com/rapidaai/callrecorder/internal/lifecycle"
	internal_recording "github.com/rapidaai/callrecorder/internal/recording"
	internal_settings "github.com/rapidaai/callrecorder/internal/settings"
	"github.com/rapidaai/callrecorder/pkg/commons"
	"github.com/rapidaai/callrecorder/pkg/configs"
	"github.com/rapidaai/callrecorder/pkg/connectors"
	recorder_routers "github.com/rapidaai/callrecorder/router"
	"github.com/soheilhy/cmux"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const shutdownTimeout = 10 * time.Second

// Host owns the recording session and serves its control surface, gRPC and
// HTTP multiplexed on one listener.
type Host struct {
	cfg    *config.AppConfig
	logger commons.Logger

	newDevice     internal_capture.DeviceFactory
	permissions   internal_recording.PermissionCheck
	watchSettings func(update func(configs.RecorderConfig))

	redis   connectors.RedisConnector
	sqlite  connectors.SqliteConnector
	catalog *internal_indexer.Catalog

	session  *internal_recording.Session
	settings *internal_settings.Settings
	hooks    *internal_lifecycle.Hooks
}

type HostOption func(*Host)

// WithDeviceFactory replaces the ffmpeg capture device.
func WithDeviceFactory(factory internal_capture.DeviceFactory) HostOption {
	return func(h *Host) { h.newDevice = factory }
}

// WithPermissions replaces the operating system permission check.
func WithPermissions(permissions internal_recording.PermissionCheck) HostOption {
	return func(h *Host) { h.permissions = permissions }
}

// WithSettingsWatcher subscribes the recording switches to config changes.
func WithSettingsWatcher(watch func(update func(configs.RecorderConfig))) HostOption {
	return func(h *Host) { h.watchSettings = watch }
}

func NewHost(cfg *config.AppConfig, logger commons.Logger, opts ...HostOption) *Host {
	h := &Host{cfg: cfg, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	if h.newDevice == nil {
		h.newDevice = internal_ffmpeg.NewDeviceFactory(logger, cfg.CaptureConfig,
			cfg.RecorderConfig.StartSettle, cfg.RecorderConfig.StopTimeout)
	}
	if h.permissions == nil {
		h.permissions = internal_recording.NewSystemPermissions(logger,
			cfg.CaptureConfig.FfmpegPath, cfg.RecorderConfig.Directory)
	}
	return h
}

// connect opens the optional backing stores and assembles the session.
func (h *Host) connect(ctx context.Context) error {
	var indexers internal_indexer.Multi
	if h.cfg.CatalogConfig.Path != "" {
		h.sqlite = connectors.NewSqliteConnector(h.cfg.CatalogConfig, h.logger)
		if err := h.sqlite.Connect(ctx); err != nil {
			return err
		}
		h.catalog = internal_indexer.NewCatalog(h.sqlite, h.logger)
		if err := h.catalog.Migrate(ctx); err != nil {
			return err
		}
		indexers = append(indexers, h.catalog)
	}
	if url := h.cfg.IndexerConfig.WebhookUrl; url != "" {
		indexers = append(indexers, internal_indexer.NewWebhook(url, h.cfg.IndexerConfig.Timeout, h.logger))
	}
	var indexer internal_recording.MediaIndexer
	if len(indexers) > 0 {
		indexer = indexers
	}

	probe := internal_capture.NewProbe(h.logger, h.newDevice,
		internal_capture.WithMaxAttempts(h.cfg.RecorderConfig.MaxAttempts),
		internal_capture.WithTimeout(h.cfg.RecorderConfig.ProbeTimeout),
	)
	var sessionOpts []internal_recording.SessionOption
	if timeout := h.cfg.IndexerConfig.Timeout; timeout > 0 {
		sessionOpts = append(sessionOpts, internal_recording.WithNotifyTimeout(internal_indexer.NotifyTimeout(timeout)))
	}
	h.session = internal_recording.NewSession(h.logger, h.cfg.RecorderConfig.Directory,
		h.permissions, probe, indexer, sessionOpts...)
	h.settings = internal_settings.NewSettings(h.cfg.RecorderConfig)
	if h.watchSettings != nil {
		h.watchSettings(h.settings.Update)
	}

	instance := internal_lifecycle.NewInstanceID()
	store := internal_lifecycle.NewMemoryStore(instance)
	if h.cfg.RedisConfig.Enabled() {
		h.redis = connectors.NewRedisConnector(h.cfg.RedisConfig, h.logger)
		if err := h.redis.Connect(ctx); err != nil {
			return err
		}
		store = internal_lifecycle.NewRedisStore(h.redis.GetConnection(), h.logger, instance)
	}
	h.hooks = internal_lifecycle.NewHooks(store, h.session, h.logger)
	return nil
}

func (h *Host) disconnect() {
	ctx := context.Background()
	if h.sqlite != nil {
		if err := h.sqlite.Disconnect(ctx); err != nil {
			h.logger.Warnf("closing catalog: %v", err)
		}
	}
	if h.redis != nil {
		if err := h.redis.Disconnect(ctx); err != nil {
			h.logger.Warnf("closing redis: %v", err)
		}
	}
}

// Run listens on the configured address and serves until ctx is done.
func (h *Host) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", h.cfg.Address())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", h.cfg.Address(), err)
	}
	return h.Serve(ctx, lis)
}

// Serve runs the control surface on lis until ctx is done, then stops any
// active recording and shuts down.
func (h *Host) Serve(ctx context.Context, lis net.Listener) error {
	defer lis.Close()
	defer h.disconnect()
	if err := h.connect(ctx); err != nil {
		return err
	}

	if err := h.hooks.OnStart(ctx); err != nil {
		return err
	}

	catalog := recorderCatalog(h.catalog)
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.UnaryServerInterceptor(interceptorLogger(h.logger),
				logging.WithLogOnEvents(logging.FinishCall)),
			recovery.UnaryServerInterceptor(recovery.WithRecoveryHandler(h.recoverPanic)),
		),
	)
	recorder_routers.RecorderApiRoute(h.cfg, grpcServer, h.logger, h.session, h.settings, catalog)

	if h.cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(h.logger))
	if handler := corsMiddleware(h.cfg.CorsOrigins); handler != nil {
		engine.Use(handler)
	}
	recorder_routers.RecorderRestRoute(h.cfg, engine, h.logger, h.session, h.settings, catalog)
	recorder_routers.HealthCheckRoutes(h.cfg, engine, h.logger, h.hooks)
	httpServer := &http.Server{Handler: engine, ReadHeaderTimeout: 10 * time.Second}

	mux := cmux.New(lis)
	grpcL := mux.MatchWithWriters(cmux.HTTP2MatchHeaderFieldSendSettings("content-type", "application/grpc"))
	httpL := mux.Match(cmux.Any())

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error { return ignoreClosed(grpcServer.Serve(grpcL)) })
	g.Go(func() error { return ignoreClosed(httpServer.Serve(httpL)) })
	g.Go(func() error { return ignoreClosed(mux.Serve()) })
	g.Go(func() error {
		<-gCtx.Done()
		h.logger.Infof("shutting down recorder service")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// both transports stop taking requests before the session is closed
		h.stopGRPC(shutdownCtx, grpcServer)
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			h.logger.Warnf("http shutdown: %v", err)
		}
		mux.Close()

		if err := h.hooks.OnStop(shutdownCtx); err != nil {
			h.logger.Warnf("clearing lifecycle flags: %v", err)
		}
		h.session.Drain()
		return nil
	})

	if err := h.hooks.MarkReady(ctx); err != nil {
		h.logger.Warnf("unable to mark service ready: %v", err)
	}
	h.logger.Infof("recorder service listening on %s", lis.Addr())
	return g.Wait()
}

// stopGRPC waits for in-flight calls, forcing the server down when ctx ends
// first.
func (h *Host) stopGRPC(ctx context.Context, server *grpc.Server) {
	stopped := make(chan struct{})
	go func() {
		server.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-ctx.Done():
		h.logger.Warnf("grpc calls still running after %s, stopping", shutdownTimeout)
		server.Stop()
		<-stopped
	}
}

func (h *Host) recoverPanic(p any) error {
	h.logger.Errorf("recovered from panic in rpc handler: %v", p)
	return status.Errorf(codes.Internal, "internal error")
}

// recorderCatalog avoids handing a typed nil to the api layer.
func recorderCatalog(c *internal_indexer.Catalog) recorderApi.Catalog {
	if c == nil {
		return nil
	}
	return c
}

func ignoreClosed(err error) error {
	switch {
	case err == nil,
		errors.Is(err, http.ErrServerClosed),
		errors.Is(err, net.ErrClosed),
		errors.Is(err, cmux.ErrListenerClosed),
		errors.Is(err, cmux.ErrServerClosed),
		errors.Is(err, grpc.ErrServerStopped):
		return nil
	}
	return err
}
