// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_lifecycle

import (
	"context"
	"errors"

	internal_recording "github.com/rapidaai/callrecorder/internal/recording"
	"github.com/rapidaai/callrecorder/pkg/commons"
)

// Stopper ends whatever recording is in progress and refuses new ones.
type Stopper interface {
	Close(ctx context.Context) *internal_recording.RecordingMetadata
}

// Hooks are called by the host as the service comes up and goes down.
type Hooks struct {
	store   Store
	session Stopper
	logger  commons.Logger
}

func NewHooks(store Store, session Stopper, logger commons.Logger) *Hooks {
	return &Hooks{store: store, session: session, logger: logger}
}

// OnStart marks the service created but not yet ready.
func (h *Hooks) OnStart(ctx context.Context) error {
	if err := h.store.SetCreated(ctx, true); err != nil {
		return err
	}
	if err := h.store.SetReady(ctx, false); err != nil {
		return err
	}
	h.logger.Infof("recorder service created, instance=%s", h.store.Instance())
	return nil
}

// MarkReady is called once the control surface accepts requests.
func (h *Hooks) MarkReady(ctx context.Context) error {
	if err := h.store.SetReady(ctx, true); err != nil {
		return err
	}
	h.logger.Infof("recorder service ready, instance=%s", h.store.Instance())
	return nil
}

// OnStop stops any active recording, then clears both flags. The recording
// is stopped even when the store is unreachable. Call it once the control
// surface no longer accepts requests.
func (h *Hooks) OnStop(ctx context.Context) error {
	if stopped := h.session.Close(ctx); stopped != nil {
		h.logger.Infof("stopped recording %s on shutdown", stopped.OutputFilePath)
	}
	errReady := h.store.SetReady(ctx, false)
	errCreated := h.store.SetCreated(ctx, false)
	h.logger.Infof("recorder service destroyed, instance=%s", h.store.Instance())
	return errors.Join(errReady, errCreated)
}

// Ready reports whether the service finished starting.
func (h *Hooks) Ready(ctx context.Context) bool {
	ready, err := h.store.IsReady(ctx)
	if err != nil {
		h.logger.Warnf("unable to read readiness: %v", err)
		return false
	}
	return ready
}
