// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_capture

import "fmt"

// AudioSource selects which signal the device taps.
type AudioSource int

const (
	SourceVoiceCall AudioSource = iota // both sides of the call, as routed by the platform
	SourceMicrophone
)

func (s AudioSource) String() string {
	switch s {
	case SourceVoiceCall:
		return "voice_call"
	case SourceMicrophone:
		return "microphone"
	}
	return fmt.Sprintf("source(%d)", int(s))
}

// OutputFormat is the container written to disk.
type OutputFormat int

const (
	FormatAmrWb OutputFormat = iota
	FormatAmrNb
)

func (f OutputFormat) String() string {
	switch f {
	case FormatAmrWb:
		return "amr_wb"
	case FormatAmrNb:
		return "amr_nb"
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// AudioEncoder is the codec feeding the container.
type AudioEncoder int

const (
	EncoderAmrWb AudioEncoder = iota
	EncoderAmrNb
)

func (e AudioEncoder) String() string {
	switch e {
	case EncoderAmrWb:
		return "amr_wb"
	case EncoderAmrNb:
		return "amr_nb"
	}
	return fmt.Sprintf("encoder(%d)", int(e))
}

// Extension is the canonical extension of every container in the candidate
// set. Both AMR flavours share it.
const Extension = ".amr"

// Configuration is one candidate tuple tried against the capture device.
type Configuration struct {
	Source     AudioSource
	Format     OutputFormat
	Encoder    AudioEncoder
	SampleRate int
	Channels   int
}

func (c Configuration) String() string {
	return fmt.Sprintf("source=%s format=%s encoder=%s rate=%d channels=%d",
		c.Source, c.Format, c.Encoder, c.SampleRate, c.Channels)
}

var (
	candidateSources = []AudioSource{SourceVoiceCall, SourceMicrophone}
	// wideband before narrowband, each format paired with its own encoder
	candidateFormats = []struct {
		format  OutputFormat
		encoder AudioEncoder
	}{
		{FormatAmrWb, EncoderAmrWb},
		{FormatAmrNb, EncoderAmrNb},
	}
	candidateSampleRates = []int{16000, 8000}
	candidateChannels    = []int{2, 1}
)

// Candidates returns the ordered candidate list:
// source x format/encoder x sample rate x channel count, most preferred first.
// The order is part of the contract and must not change.
func Candidates() []Configuration {
	out := make([]Configuration, 0,
		len(candidateSources)*len(candidateFormats)*len(candidateSampleRates)*len(candidateChannels))
	for _, source := range candidateSources {
		for _, f := range candidateFormats {
			for _, rate := range candidateSampleRates {
				for _, channels := range candidateChannels {
					out = append(out, Configuration{
						Source:     source,
						Format:     f.format,
						Encoder:    f.encoder,
						SampleRate: rate,
						Channels:   channels,
					})
				}
			}
		}
	}
	return out
}
