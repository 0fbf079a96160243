// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_recording

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemPermissions_Capture(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "ffmpeg")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755))

	assert.True(t, NewSystemPermissions(newTestLogger(t), bin, dir).HasCapturePermission())
	assert.False(t, NewSystemPermissions(newTestLogger(t), filepath.Join(dir, "missing"), dir).HasCapturePermission())
}

func TestSystemPermissions_Storage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "recordings", "calls")
	p := NewSystemPermissions(newTestLogger(t), "ffmpeg", dir)
	assert.True(t, p.HasStoragePermission())
	assert.DirExists(t, dir, "the recordings directory is created on demand")

	file := filepath.Join(t.TempDir(), "plain-file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	assert.False(t, NewSystemPermissions(newTestLogger(t), "ffmpeg", filepath.Join(file, "sub")).HasStoragePermission())
}

func TestStaticPermissions(t *testing.T) {
	p := StaticPermissions{Capture: true}
	assert.True(t, p.HasCapturePermission())
	assert.False(t, p.HasStoragePermission())
}

func TestCheckPermissions(t *testing.T) {
	assert.NoError(t, checkPermissions(StaticPermissions{Capture: true, Storage: true}))

	err := checkPermissions(StaticPermissions{Storage: true})
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Contains(t, err.Error(), "record audio")

	err = checkPermissions(StaticPermissions{Capture: true})
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Contains(t, err.Error(), "storage")
}
