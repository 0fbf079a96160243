// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_indexer

import (
	"context"
	"errors"

	internal_recording "github.com/rapidaai/callrecorder/internal/recording"
)

// Multi fans a notification out to every indexer and joins their errors.
type Multi []internal_recording.MediaIndexer

func (m Multi) NotifyFileReady(ctx context.Context, path string) error {
	var errs []error
	for _, indexer := range m {
		if err := indexer.NotifyFileReady(ctx, path); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
