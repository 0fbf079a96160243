// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package recorder_api

import (
	"fmt"
	"time"

	internal_indexer "github.com/rapidaai/callrecorder/internal/indexer"
	internal_recording "github.com/rapidaai/callrecorder/internal/recording"
	"google.golang.org/protobuf/types/known/structpb"
)

// MetadataToValue encodes metadata as a struct value, or null when m is nil.
// Times travel as epoch milliseconds.
func MetadataToValue(m *internal_recording.RecordingMetadata) *structpb.Value {
	if m == nil {
		return structpb.NewNullValue()
	}
	return structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
		"subjectIdentifier":  structpb.NewStringValue(m.SubjectIdentifier),
		"sessionStartTime":   structpb.NewNumberValue(float64(m.SessionStartTime.UnixMilli())),
		"outputFilePath":     structpb.NewStringValue(m.OutputFilePath),
		"recordingStartTime": structpb.NewNumberValue(float64(m.RecordingStartTime.UnixMilli())),
		"fileName":           structpb.NewStringValue(m.FileName()),
	}})
}

// MetadataFromValue is the inverse of MetadataToValue.
func MetadataFromValue(v *structpb.Value) (*internal_recording.RecordingMetadata, error) {
	if v == nil {
		return nil, nil
	}
	if _, ok := v.GetKind().(*structpb.Value_NullValue); ok {
		return nil, nil
	}
	s := v.GetStructValue()
	if s == nil {
		return nil, fmt.Errorf("recording metadata must be a struct, got %T", v.GetKind())
	}
	fields := s.GetFields()
	m := internal_recording.NewRecordingMetadata(
		fields["subjectIdentifier"].GetStringValue(),
		time.UnixMilli(int64(fields["sessionStartTime"].GetNumberValue())),
		fields["outputFilePath"].GetStringValue(),
		time.UnixMilli(int64(fields["recordingStartTime"].GetNumberValue())),
	)
	return &m, nil
}

func recordingToStruct(r *internal_indexer.Recording) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"id":          r.Id,
		"filePath":    r.FilePath,
		"fileName":    r.FileName,
		"subject":     r.Subject,
		"sizeBytes":   r.SizeBytes,
		"indexedDate": r.IndexedDate.UTC().Format(time.RFC3339Nano),
	})
}

func recordingsToList(recs []*internal_indexer.Recording) (*structpb.ListValue, error) {
	out := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(recs))}
	for _, r := range recs {
		s, err := recordingToStruct(r)
		if err != nil {
			return nil, err
		}
		out.Values = append(out.Values, structpb.NewStructValue(s))
	}
	return out, nil
}
