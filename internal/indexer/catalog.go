// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rapidaai/callrecorder/pkg/commons"
	"github.com/rapidaai/callrecorder/pkg/connectors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Recording is one finished recording known to the catalog.
type Recording struct {
	Id          string    `json:"id" gorm:"type:varchar(36);primaryKey;<-:create"`
	FilePath    string    `json:"filePath" gorm:"column:file_path;type:text;not null;uniqueIndex"`
	FileName    string    `json:"fileName" gorm:"column:file_name;type:varchar(255);not null"`
	Subject     string    `json:"subject" gorm:"column:subject;type:varchar(100);not null;default:''"`
	SizeBytes   int64     `json:"sizeBytes" gorm:"column:size_bytes;not null;default:0"`
	IndexedDate time.Time `json:"indexedDate" gorm:"column:indexed_date;not null"`
}

func (Recording) TableName() string {
	return "recordings"
}

func (r *Recording) BeforeCreate(tx *gorm.DB) (err error) {
	if r.Id == "" {
		r.Id = uuid.New().String()
	}
	if r.IndexedDate.IsZero() {
		r.IndexedDate = time.Now()
	}
	return nil
}

// Catalog indexes finished recordings in sqlite so other consumers can find
// them. Re-indexing a path refreshes its size and date.
type Catalog struct {
	sqlite connectors.SqliteConnector
	logger commons.Logger
}

func NewCatalog(sqlite connectors.SqliteConnector, logger commons.Logger) *Catalog {
	return &Catalog{sqlite: sqlite, logger: logger}
}

// Migrate creates the recordings table.
func (c *Catalog) Migrate(ctx context.Context) error {
	if err := c.sqlite.DB(ctx).AutoMigrate(&Recording{}); err != nil {
		return fmt.Errorf("failed to migrate recordings catalog: %w", err)
	}
	return nil
}

func (c *Catalog) NotifyFileReady(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("recording %s not indexable: %w", path, err)
	}
	name := filepath.Base(path)
	rec := &Recording{
		FilePath:    path,
		FileName:    name,
		Subject:     subjectOf(name),
		SizeBytes:   info.Size(),
		IndexedDate: time.Now(),
	}
	db := c.sqlite.DB(ctx)
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "file_path"}},
		DoUpdates: clause.AssignmentColumns([]string{"size_bytes", "indexed_date"}),
	}).Create(rec).Error
	if err != nil {
		return fmt.Errorf("failed to index recording %s: %w", path, err)
	}
	c.logger.Debugf("indexed recording: path=%s, size=%d", path, info.Size())
	return nil
}

// List returns the most recently indexed recordings first.
func (c *Catalog) List(ctx context.Context, limit int) ([]*Recording, error) {
	var out []*Recording
	db := c.sqlite.DB(ctx)
	if err := db.Order("indexed_date desc").Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list recordings: %w", err)
	}
	return out, nil
}

// Get looks a recording up by its file path.
func (c *Catalog) Get(ctx context.Context, path string) (*Recording, error) {
	var rec Recording
	db := c.sqlite.DB(ctx)
	if err := db.Where("file_path = ?", path).First(&rec).Error; err != nil {
		return nil, fmt.Errorf("recording not found: %s: %w", path, err)
	}
	return &rec, nil
}

// subjectOf recovers the subject from <subject>_<yyMMdd>_<HHmmssSSS>.amr.
func subjectOf(name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	parts := strings.Split(stem, "_")
	if len(parts) < 3 {
		return ""
	}
	return strings.Join(parts[:len(parts)-2], "_")
}
