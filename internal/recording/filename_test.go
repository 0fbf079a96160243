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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, time.March, 5, 14, 7, 9, 42*int(time.Millisecond), time.UTC)

func TestFilenamePolicy_Generate(t *testing.T) {
	policy := NewFilenamePolicy(".amr")
	tests := []struct {
		name     string
		subject  string
		expected string
	}{
		{"phone number", "5551234", "5551234_240305_140709042.amr"},
		{"empty subject", "", "unknown_240305_140709042.amr"},
		{"blank subject", "   ", "unknown_240305_140709042.amr"},
		{"international", "+14582073109", "+14582073109_240305_140709042.amr"},
		{"path separators", "../etc/passwd", ".._etc_passwd_240305_140709042.amr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, policy.Generate(tt.subject, fixedTime))
		})
	}
}

func TestFilenamePolicy_MillisecondsPadded(t *testing.T) {
	policy := NewFilenamePolicy(".amr")
	at := time.Date(2031, time.December, 31, 23, 59, 59, 7*int(time.Millisecond)+999, time.UTC)
	assert.Equal(t, "5551234_311231_235959007.amr", policy.Generate("5551234", at))
}

func TestFilenamePolicy_Unique(t *testing.T) {
	dir := t.TempDir()
	policy := NewFilenamePolicy(".amr")

	first, err := policy.Unique(dir, "5551234", fixedTime)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "5551234_240305_140709042.amr"), first)
	require.NoError(t, os.WriteFile(first, nil, 0o644))

	second, err := policy.Unique(dir, "5551234", fixedTime)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "5551234_240305_140709042-1.amr"), second)
	require.NoError(t, os.WriteFile(second, nil, 0o644))

	third, err := policy.Unique(dir, "5551234", fixedTime)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "5551234_240305_140709042-2.amr"), third)
}

func TestRecordingMetadata(t *testing.T) {
	m := NewRecordingMetadata("5551234", fixedTime.Add(-time.Minute), "/r/5551234_240305_140709042.amr", fixedTime)
	assert.Equal(t, "5551234_240305_140709042.amr", m.FileName())
	assert.Equal(t, 3*time.Second, m.Duration(fixedTime.Add(3*time.Second)))
	assert.Equal(t, time.Duration(0), m.Duration(fixedTime.Add(-time.Second)))
}
