// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_recording

import (
	"context"
	"sync"
	"time"

	internal_capture "github.com/rapidaai/callrecorder/internal/capture"
	"github.com/rapidaai/callrecorder/pkg/commons"
)

// State of the session. Idle is both initial and the state between
// sessions.
type State int

const (
	StateIdle State = iota
	StateRecording
)

func (s State) String() string {
	if s == StateRecording {
		return "recording"
	}
	return "idle"
}

// PipelineAcquirer starts a capture pipeline writing to a path.
type PipelineAcquirer interface {
	Acquire(ctx context.Context, outputPath string) (*internal_capture.Pipeline, error)
}

// MediaIndexer is told about every finished recording.
type MediaIndexer interface {
	NotifyFileReady(ctx context.Context, path string) error
}

// Session owns the single capture pipeline. Every operation runs under one
// mutex, including the whole candidate probe during Start, so a start
// blocks all other callers until it settles.
type Session struct {
	logger        commons.Logger
	permissions   PermissionCheck
	acquirer      PipelineAcquirer
	indexer       MediaIndexer
	policy        FilenamePolicy
	directory     string
	notifyTimeout time.Duration
	// clock is injectable for testing; defaults to time.Now.
	clock func() time.Time

	mu       sync.Mutex
	state    State
	pipeline *internal_capture.Pipeline
	active   *RecordingMetadata
	closed   bool

	notifications sync.WaitGroup
}

// SessionOption configures a Session.
type SessionOption func(*Session)

func WithClock(clock func() time.Time) SessionOption {
	return func(s *Session) { s.clock = clock }
}

func WithNotifyTimeout(d time.Duration) SessionOption {
	return func(s *Session) { s.notifyTimeout = d }
}

func NewSession(
	logger commons.Logger,
	directory string,
	permissions PermissionCheck,
	acquirer PipelineAcquirer,
	indexer MediaIndexer,
	opts ...SessionOption,
) *Session {
	s := &Session{
		logger:        logger,
		directory:     directory,
		permissions:   permissions,
		acquirer:      acquirer,
		indexer:       indexer,
		policy:        NewFilenamePolicy(internal_capture.Extension),
		notifyTimeout: 30 * time.Second,
		clock:         time.Now,
		state:         StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins a recording for subjectIdentifier. A recording already in
// progress is stopped first. It returns false when permissions are missing
// or no capture configuration could be started; the session is Idle then.
func (s *Session) Start(ctx context.Context, subjectIdentifier string, sessionStartTime time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.logger.Warnf("recorder is shutting down, not recording %q", subjectIdentifier)
		return false
	}
	if s.pipeline != nil {
		s.logger.Infof("start called with recording in progress, stopping current recording %s", s.active.OutputFilePath)
		s.stopLocked(ctx)
	}

	if err := checkPermissions(s.permissions); err != nil {
		s.logger.Warnf("can't record call for %q: %v", subjectIdentifier, err)
		return false
	}

	now := s.clock()
	path, err := s.policy.Unique(s.directory, subjectIdentifier, now)
	if err != nil {
		s.logger.Errorf("unable to name recording for %q: %v", subjectIdentifier, err)
		return false
	}
	metadata := NewRecordingMetadata(subjectIdentifier, sessionStartTime, path, now)

	pipeline, err := s.acquirer.Acquire(ctx, path)
	if err != nil {
		s.logger.Warnw("recording not started", "subject", subjectIdentifier, "output", path, "error", err)
		return false
	}

	s.pipeline = pipeline
	s.active = &metadata
	s.state = StateRecording
	s.logger.Infow("recording started",
		"subject", subjectIdentifier,
		"output", path,
		"configuration", pipeline.Configuration().String())
	return true
}

// Stop ends the active recording and returns its metadata, or nil when
// nothing is recording.
func (s *Session) Stop(ctx context.Context) *RecordingMetadata {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return nil
	}
	return s.stopLocked(ctx)
}

// Close stops the active recording, if any, and makes every later Start
// return false.
func (s *Session) Close(ctx context.Context) *RecordingMetadata {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.state != StateRecording {
		return nil
	}
	return s.stopLocked(ctx)
}

// stopLocked releases the pipeline and returns to Idle. A device error while
// stopping is logged; the session is Idle regardless.
func (s *Session) stopLocked(ctx context.Context) *RecordingMetadata {
	metadata := *s.active
	s.logger.Debugf("stopping current recording %s", metadata.OutputFilePath)

	if err := s.pipeline.Stop(context.WithoutCancel(ctx)); err != nil {
		s.logger.Errorw("error closing capture pipeline", "output", metadata.OutputFilePath, "error", err)
	}
	s.pipeline = nil
	s.active = nil
	s.state = StateIdle

	s.notifyFileReady(metadata.OutputFilePath)
	s.logger.Infow("recording stopped",
		"subject", metadata.SubjectIdentifier,
		"output", metadata.OutputFilePath,
		"duration", metadata.Duration(s.clock()).String())
	return &metadata
}

// notifyFileReady hands the file to the indexer without waiting for it.
func (s *Session) notifyFileReady(path string) {
	if s.indexer == nil {
		return
	}
	s.notifications.Add(1)
	go func() {
		defer s.notifications.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
		defer cancel()
		if err := s.indexer.NotifyFileReady(ctx, path); err != nil {
			s.logger.Warnf("media indexer failed for %s: %v", path, err)
		}
	}()
}

// Drain waits for outstanding indexer notifications.
func (s *Session) Drain() {
	s.notifications.Wait()
}

func (s *Session) IsRecording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateRecording
}

// ActiveRecording returns a copy of the active metadata, nil when Idle.
func (s *Session) ActiveRecording() *RecordingMetadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil
	}
	metadata := *s.active
	return &metadata
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
