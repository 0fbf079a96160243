// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_capture

import "context"

// Device is a capture-to-encoder-to-file resource. A device moves through
// unconfigured -> configuring -> running and ends released.
//
// Calls are made from a single goroutine at a time; the owner serializes
// access.
type Device interface {
	// Configure applies a candidate. It fails when the device does not
	// support the candidate's source.
	Configure(Configuration) error
	// SetOutput opens (creating or truncating) the target file.
	SetOutput(path string) error
	// Prepare validates the configured pipeline without starting capture.
	Prepare() error
	// Start begins capture. On success the device is emitting data.
	Start(ctx context.Context) error
	// Stop ends a running capture and finalizes the output file.
	Stop(ctx context.Context) error
	// Reset returns the device to unconfigured, closing anything opened
	// since the last Reset. It is safe in every state.
	Reset()
	// Release frees the device. The device is unusable afterwards.
	Release()
}

// DeviceFactory creates a fresh device for each recording session.
type DeviceFactory func() Device
