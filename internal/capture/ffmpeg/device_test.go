// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_ffmpeg

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	internal_capture "github.com/rapidaai/callrecorder/internal/capture"
	"github.com/rapidaai/callrecorder/pkg/commons"
	"github.com/rapidaai/callrecorder/pkg/configs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDevice(t *testing.T, cfg configs.CaptureConfig) *device {
	t.Helper()
	logger, err := commons.NewApplicationLogger(commons.Name("test-ffmpeg"), commons.Level("error"))
	require.NoError(t, err)
	return NewDeviceFactory(logger, cfg, 100*time.Millisecond, time.Second)().(*device)
}

// fakeFfmpeg writes an executable shell script standing in for ffmpeg.
func fakeFfmpeg(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts unavailable")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

var (
	wbMono = internal_capture.Configuration{
		Source: internal_capture.SourceVoiceCall, Format: internal_capture.FormatAmrWb,
		Encoder: internal_capture.EncoderAmrWb, SampleRate: 16000, Channels: 1,
	}
	nbMono = internal_capture.Configuration{
		Source: internal_capture.SourceMicrophone, Format: internal_capture.FormatAmrNb,
		Encoder: internal_capture.EncoderAmrNb, SampleRate: 8000, Channels: 1,
	}
)

func TestArgs(t *testing.T) {
	args, err := Args("pulse", "monitor", wbMono)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"-hide_banner", "-loglevel", "error", "-nostdin",
		"-f", "pulse", "-i", "monitor",
		"-ac", "1", "-ar", "16000",
		"-c:a", "libvo_amrwbenc",
		"-f", "amr", "pipe:1",
	}, args)

	args, err = Args("alsa", "default", nbMono)
	require.NoError(t, err)
	assert.Contains(t, args, "libopencore_amrnb")
	assert.Contains(t, args, "8000")
}

func TestArgs_UnsupportedCandidates(t *testing.T) {
	stereo := wbMono
	stereo.Channels = 2
	wrongRate := wbMono
	wrongRate.SampleRate = 8000
	mismatched := wbMono
	mismatched.Encoder = internal_capture.EncoderAmrNb

	for name, c := range map[string]internal_capture.Configuration{
		"stereo":     stereo,
		"wrong rate": wrongRate,
		"mismatched": mismatched,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Args("pulse", "default", c)
			assert.Error(t, err)
		})
	}
}

func TestArgs_OnlyTwoCandidatesSupported(t *testing.T) {
	supported := 0
	for _, c := range internal_capture.Candidates() {
		if _, err := Args("pulse", "default", c); err == nil {
			supported++
		}
	}
	// wideband 16k mono and narrowband 8k mono, for each source
	assert.Equal(t, 4, supported)
}

func TestConfigure_UnavailableSource(t *testing.T) {
	d := newTestDevice(t, configs.CaptureConfig{FfmpegPath: "ffmpeg", InputFormat: "pulse", MicrophoneDevice: "default"})
	assert.Error(t, d.Configure(wbMono), "voice call device is not configured")
	assert.NoError(t, d.Configure(nbMono))
}

func TestLifecycle_StateChecks(t *testing.T) {
	d := newTestDevice(t, configs.CaptureConfig{FfmpegPath: "ffmpeg", InputFormat: "pulse", MicrophoneDevice: "default"})
	assert.Error(t, d.SetOutput(filepath.Join(t.TempDir(), "x.amr")), "output before configure")
	assert.Error(t, d.Prepare())
	assert.Error(t, d.Start(context.Background()))
	assert.Error(t, d.Stop(context.Background()))

	d.Release()
	assert.ErrorIs(t, d.Configure(nbMono), ErrDeviceReleased)
}

func TestPrepare_MissingBinary(t *testing.T) {
	d := newTestDevice(t, configs.CaptureConfig{
		FfmpegPath: filepath.Join(t.TempDir(), "no-ffmpeg"), InputFormat: "pulse", MicrophoneDevice: "default",
	})
	require.NoError(t, d.Configure(nbMono))
	require.NoError(t, d.SetOutput(filepath.Join(t.TempDir(), "x.amr")))
	assert.Error(t, d.Prepare())
	d.Reset()
	assert.Equal(t, stateUnconfigured, d.state)
	assert.Nil(t, d.file)
}

func TestStart_EarlyExitFails(t *testing.T) {
	d := newTestDevice(t, configs.CaptureConfig{
		FfmpegPath: fakeFfmpeg(t, "echo 'no such device' >&2; exit 1"), InputFormat: "pulse", MicrophoneDevice: "default",
	})
	require.NoError(t, d.Configure(nbMono))
	require.NoError(t, d.SetOutput(filepath.Join(t.TempDir(), "x.amr")))
	require.NoError(t, d.Prepare())

	err := d.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such device")
	d.Reset()
}

func TestStartStop_RunningProcess(t *testing.T) {
	out := filepath.Join(t.TempDir(), "call.amr")
	d := newTestDevice(t, configs.CaptureConfig{
		FfmpegPath: fakeFfmpeg(t, "printf '#!AMR\\n'; exec sleep 30"), InputFormat: "pulse", MicrophoneDevice: "default",
	})
	require.NoError(t, d.Configure(nbMono))
	require.NoError(t, d.SetOutput(out))
	require.NoError(t, d.Prepare())
	require.NoError(t, d.Start(context.Background()))
	assert.Equal(t, stateRunning, d.state)

	require.NoError(t, d.Stop(context.Background()))
	d.Release()

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "#!AMR\n", string(data))
}

func TestTailBuffer(t *testing.T) {
	b := newTailBuffer(4)
	_, _ = b.Write([]byte("ab"))
	_, _ = b.Write([]byte("cdef"))
	assert.Equal(t, "cdef", b.String())

	var nilBuf *tailBuffer
	assert.Equal(t, "", nilBuf.String())
}
