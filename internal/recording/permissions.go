// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_recording

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/rapidaai/callrecorder/pkg/commons"
	"golang.org/x/sys/unix"
)

var ErrPermissionDenied = errors.New("recording permission denied")

// PermissionCheck gates every start. Both must hold before any device is
// touched.
type PermissionCheck interface {
	HasCapturePermission() bool
	HasStoragePermission() bool
}

type systemPermissions struct {
	logger     commons.Logger
	ffmpegPath string
	directory  string
}

// NewSystemPermissions checks that the capture binary is executable and the
// recordings directory is writable by this process.
func NewSystemPermissions(logger commons.Logger, ffmpegPath, directory string) PermissionCheck {
	return &systemPermissions{logger: logger, ffmpegPath: ffmpegPath, directory: directory}
}

func (p *systemPermissions) HasCapturePermission() bool {
	if _, err := exec.LookPath(p.ffmpegPath); err != nil {
		p.logger.Debugf("capture binary %s unavailable: %v", p.ffmpegPath, err)
		return false
	}
	return true
}

func (p *systemPermissions) HasStoragePermission() bool {
	if err := os.MkdirAll(p.directory, 0o755); err != nil {
		p.logger.Debugf("recordings directory %s unavailable: %v", p.directory, err)
		return false
	}
	if err := unix.Access(p.directory, unix.W_OK|unix.X_OK); err != nil {
		p.logger.Debugf("recordings directory %s not writable: %v", p.directory, err)
		return false
	}
	return true
}

// StaticPermissions is a fixed answer, used when the host grants
// permissions out of band.
type StaticPermissions struct {
	Capture bool
	Storage bool
}

func (s StaticPermissions) HasCapturePermission() bool { return s.Capture }
func (s StaticPermissions) HasStoragePermission() bool { return s.Storage }

// checkPermissions reports which grant is missing, wrapping
// ErrPermissionDenied.
func checkPermissions(p PermissionCheck) error {
	if !p.HasCapturePermission() {
		return fmt.Errorf("%w: record audio not granted", ErrPermissionDenied)
	}
	if !p.HasStoragePermission() {
		return fmt.Errorf("%w: storage not granted", ErrPermissionDenied)
	}
	return nil
}
