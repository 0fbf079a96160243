// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_indexer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rapidaai/callrecorder/pkg/commons"
)

type fileReadyEvent struct {
	Path    string    `json:"path"`
	ReadyAt time.Time `json:"readyAt"`
}

// Webhook posts every finished recording to an external indexing service.
type Webhook struct {
	client *resty.Client
	url    string
	logger commons.Logger
}

const (
	webhookRetries   = 2
	webhookRetryWait = 200 * time.Millisecond
)

// NotifyTimeout is how long a single notification may take when each
// webhook attempt is bounded by perAttempt.
func NotifyTimeout(perAttempt time.Duration) time.Duration {
	return perAttempt*(webhookRetries+1) + webhookRetryWait*webhookRetries
}

func NewWebhook(url string, timeout time.Duration, logger commons.Logger) *Webhook {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(webhookRetries).
		SetRetryWaitTime(webhookRetryWait)
	return &Webhook{client: client, url: url, logger: logger}
}

func (w *Webhook) NotifyFileReady(ctx context.Context, path string) error {
	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(fileReadyEvent{Path: path, ReadyAt: time.Now().UTC()}).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("webhook %s: %w", w.url, err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook %s returned %d", w.url, resp.StatusCode())
	}
	w.logger.Debugf("notified webhook about %s", path)
	return nil
}
