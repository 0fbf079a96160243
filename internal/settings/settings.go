// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_settings

import (
	"sync"

	"github.com/rapidaai/callrecorder/pkg/configs"
)

// SettingsStore exposes the user-facing recording switches. The recorder
// only reads them.
type SettingsStore interface {
	IsRecordingEnabled() bool
	IsAutoRecordEnabled() bool
}

// Settings is a SettingsStore snapshot of the recorder config. Update swaps
// the snapshot when the config file changes.
type Settings struct {
	mu         sync.RWMutex
	enabled    bool
	autoRecord bool
}

func NewSettings(cfg configs.RecorderConfig) *Settings {
	s := &Settings{}
	s.Update(cfg)
	return s
}

func (s *Settings) Update(cfg configs.RecorderConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = cfg.Enabled
	s.autoRecord = cfg.AutoRecord
}

func (s *Settings) IsRecordingEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enabled
}

// IsAutoRecordEnabled is only meaningful while recording is enabled.
func (s *Settings) IsAutoRecordEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enabled && s.autoRecord
}
