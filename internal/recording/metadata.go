// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_recording

import (
	"path/filepath"
	"time"
)

// RecordingMetadata describes one recording session. Values are handed out
// as copies and never modified after construction.
type RecordingMetadata struct {
	SubjectIdentifier  string    `json:"subjectIdentifier"`
	SessionStartTime   time.Time `json:"sessionStartTime"`
	OutputFilePath     string    `json:"outputFilePath"`
	RecordingStartTime time.Time `json:"recordingStartTime"`
}

func NewRecordingMetadata(subjectIdentifier string, sessionStartTime time.Time, outputFilePath string, recordingStartTime time.Time) RecordingMetadata {
	return RecordingMetadata{
		SubjectIdentifier:  subjectIdentifier,
		SessionStartTime:   sessionStartTime,
		OutputFilePath:     outputFilePath,
		RecordingStartTime: recordingStartTime,
	}
}

// FileName is the base name of the output file.
func (m RecordingMetadata) FileName() string {
	return filepath.Base(m.OutputFilePath)
}

// Duration is the time recorded so far, measured against now.
func (m RecordingMetadata) Duration(now time.Time) time.Duration {
	if now.Before(m.RecordingStartTime) {
		return 0
	}
	return now.Sub(m.RecordingStartTime)
}
