// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_capture

import (
	"context"
)

// Pipeline is a running device bound to one output file.
type Pipeline struct {
	device        Device
	configuration Configuration
	outputPath    string
}

func (p *Pipeline) Configuration() Configuration { return p.configuration }

func (p *Pipeline) OutputPath() string { return p.outputPath }

// Stop ends capture and releases the device. The device is released even
// when stopping reports an error; that error is returned for logging.
func (p *Pipeline) Stop(ctx context.Context) error {
	err := p.device.Stop(ctx)
	p.device.Reset()
	p.device.Release()
	return err
}
