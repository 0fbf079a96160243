// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package recorder_api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/rapidaai/callrecorder/config"
	internal_indexer "github.com/rapidaai/callrecorder/internal/indexer"
	internal_recording "github.com/rapidaai/callrecorder/internal/recording"
	internal_settings "github.com/rapidaai/callrecorder/internal/settings"
	"github.com/rapidaai/callrecorder/pkg/commons"
)

const (
	defaultListLimit = 20
	maxListLimit     = 500
)

var ErrCatalogDisabled = errors.New("recording catalog is not configured")

// Recorder is the session the control surface drives. Adapters hold no lock
// of their own; the session serializes every call.
type Recorder interface {
	Start(ctx context.Context, subjectIdentifier string, sessionStartTime time.Time) bool
	Stop(ctx context.Context) *internal_recording.RecordingMetadata
	IsRecording() bool
	ActiveRecording() *internal_recording.RecordingMetadata
}

// Catalog lists indexed recordings.
type Catalog interface {
	List(ctx context.Context, limit int) ([]*internal_indexer.Recording, error)
}

// StartRecordingRequest carries the subject of the call and the call's
// creation time in epoch milliseconds. Both may be omitted.
type StartRecordingRequest struct {
	SubjectIdentifier string `json:"subjectIdentifier" mapstructure:"subjectIdentifier" validate:"max=256"`
	CreationTime      int64  `json:"creationTime" mapstructure:"creationTime" validate:"gte=0"`
}

// SessionStartTime falls back to now when the caller did not know the
// creation time.
func (r StartRecordingRequest) SessionStartTime(now time.Time) time.Time {
	if r.CreationTime == 0 {
		return now
	}
	return time.UnixMilli(r.CreationTime)
}

type ListRecordingsRequest struct {
	Limit int `json:"limit" form:"limit" mapstructure:"limit" validate:"gte=0,lte=500"`
}

func (r ListRecordingsRequest) limit() int {
	if r.Limit == 0 {
		return defaultListLimit
	}
	return min(r.Limit, maxListLimit)
}

var validate = validator.New()

// decodeRequest fills out from a loosely typed map, rejecting unknown keys.
// Numbers are decoded from their literal text, so an integer field refuses
// fractions and out of range values rather than truncating them.
func decodeRequest(in map[string]interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(literalNumbers(in)); err != nil {
		return err
	}
	return validate.Struct(out)
}

func literalNumbers(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		if f, ok := v.(float64); ok {
			v = json.Number(strconv.FormatFloat(f, 'f', -1, 64))
		}
		out[k] = v
	}
	return out
}

// decodeJSONRequest reads an optional JSON object body into out. An empty
// body leaves out zero valued.
func decodeJSONRequest(body io.Reader, out interface{}) error {
	raw, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	fields := map[string]interface{}{}
	if len(bytes.TrimSpace(raw)) > 0 {
		decoder := json.NewDecoder(bytes.NewReader(raw))
		decoder.UseNumber()
		if err := decoder.Decode(&fields); err != nil {
			return fmt.Errorf("request body is not a json object: %w", err)
		}
	}
	return decodeRequest(fields, out)
}

type recorderApi struct {
	cfg      *config.AppConfig
	logger   commons.Logger
	recorder Recorder
	settings internal_settings.SettingsStore
	catalog  Catalog
}

func newRecorderApi(cfg *config.AppConfig, logger commons.Logger, recorder Recorder, settings internal_settings.SettingsStore, catalog Catalog) recorderApi {
	return recorderApi{
		cfg:      cfg,
		logger:   logger,
		recorder: recorder,
		settings: settings,
		catalog:  catalog,
	}
}

func (r *recorderApi) startRecording(ctx context.Context, req StartRecordingRequest) bool {
	if !r.settings.IsRecordingEnabled() {
		r.logger.Infof("call recording disabled in settings, ignoring start for %q", req.SubjectIdentifier)
		return false
	}
	return r.recorder.Start(ctx, req.SubjectIdentifier, req.SessionStartTime(time.Now()))
}

func (r *recorderApi) stopRecording(ctx context.Context) *internal_recording.RecordingMetadata {
	return r.recorder.Stop(ctx)
}

func (r *recorderApi) isRecording() bool {
	return r.recorder.IsRecording()
}

func (r *recorderApi) activeRecording() *internal_recording.RecordingMetadata {
	return r.recorder.ActiveRecording()
}

func (r *recorderApi) listRecordings(ctx context.Context, req ListRecordingsRequest) ([]*internal_indexer.Recording, error) {
	if r.catalog == nil {
		return nil, ErrCatalogDisabled
	}
	recs, err := r.catalog.List(ctx, req.limit())
	if err != nil {
		return nil, fmt.Errorf("listing recordings: %w", err)
	}
	return recs, nil
}
