// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package connectors

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gorm/caches/v4"
	"github.com/rapidaai/callrecorder/pkg/commons"
	"github.com/rapidaai/callrecorder/pkg/configs"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

type SqliteConnector interface {
	Connect(ctx context.Context) error
	DB(ctx context.Context) *gorm.DB
	Disconnect(ctx context.Context) error
}

type sqliteConnector struct {
	cfg    configs.CatalogConfig
	logger commons.Logger
	db     *gorm.DB
}

func NewSqliteConnector(cfg configs.CatalogConfig, logger commons.Logger) SqliteConnector {
	return &sqliteConnector{cfg: cfg, logger: logger}
}

func (s *sqliteConnector) Connect(ctx context.Context) error {
	if dir := filepath.Dir(s.cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating catalog directory: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(s.cfg.Path), &gorm.Config{
		Logger: gorm_logger.Default.LogMode(gorm_logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to open catalog %s: %w", s.cfg.Path, err)
	}
	// identical queries in flight share one round trip
	if err := db.Use(&caches.Caches{Conf: &caches.Config{Easer: true}}); err != nil {
		return fmt.Errorf("failed to install query easer: %w", err)
	}
	s.db = db
	s.logger.Infof("opened recording catalog %s", s.cfg.Path)
	return nil
}

// DB returns a session bound to ctx.
func (s *sqliteConnector) DB(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *sqliteConnector) Disconnect(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	s.logger.Debugf("closing recording catalog")
	return sqlDB.Close()
}
