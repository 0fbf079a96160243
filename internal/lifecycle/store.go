// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rapidaai/callrecorder/pkg/commons"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "callrecorder:"

	// flags of an instance that died without OnStop expire on their own
	flagTTL = 24 * time.Hour
)

// Store keeps the created and ready flags of a service instance.
type Store interface {
	SetCreated(ctx context.Context, created bool) error
	SetReady(ctx context.Context, ready bool) error
	IsCreated(ctx context.Context) (bool, error)
	IsReady(ctx context.Context) (bool, error)
	Instance() string
}

// NewInstanceID names this process, unique across restarts on one host.
func NewInstanceID() string {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "localhost"
	}
	return fmt.Sprintf("%s:%s", hostname, uuid.NewString()[:8])
}

type redisStore struct {
	client   *redis.Client
	logger   commons.Logger
	instance string
}

// NewRedisStore keeps flags under callrecorder:{instance}:created|ready so
// other processes on the network can observe the service.
func NewRedisStore(client *redis.Client, logger commons.Logger, instance string) Store {
	return &redisStore{client: client, logger: logger, instance: instance}
}

func (r *redisStore) key(flag string) string {
	// hash tag keeps both flags of an instance on one cluster slot
	return keyPrefix + "{" + r.instance + "}:" + flag
}

func (r *redisStore) set(ctx context.Context, flag string, value bool) error {
	if r.client == nil {
		return fmt.Errorf("redis connection not available for lifecycle flags")
	}
	if err := r.client.Set(ctx, r.key(flag), strconv.FormatBool(value), flagTTL).Err(); err != nil {
		return fmt.Errorf("failed to set %s flag: %w", flag, err)
	}
	r.logger.Debugw("lifecycle flag updated", "instance", r.instance, "flag", flag, "value", value)
	return nil
}

func (r *redisStore) get(ctx context.Context, flag string) (bool, error) {
	if r.client == nil {
		return false, fmt.Errorf("redis connection not available for lifecycle flags")
	}
	val, err := r.client.Get(ctx, r.key(flag)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s flag: %w", flag, err)
	}
	return strconv.ParseBool(val)
}

func (r *redisStore) SetCreated(ctx context.Context, created bool) error {
	return r.set(ctx, "created", created)
}

func (r *redisStore) SetReady(ctx context.Context, ready bool) error {
	return r.set(ctx, "ready", ready)
}

func (r *redisStore) IsCreated(ctx context.Context) (bool, error) {
	return r.get(ctx, "created")
}

func (r *redisStore) IsReady(ctx context.Context) (bool, error) {
	return r.get(ctx, "ready")
}

func (r *redisStore) Instance() string {
	return r.instance
}

type memoryStore struct {
	mu       sync.RWMutex
	instance string
	created  bool
	ready    bool
}

// NewMemoryStore is used when no redis is configured.
func NewMemoryStore(instance string) Store {
	return &memoryStore{instance: instance}
}

func (m *memoryStore) SetCreated(_ context.Context, created bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = created
	return nil
}

func (m *memoryStore) SetReady(_ context.Context, ready bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ready = ready
	return nil
}

func (m *memoryStore) IsCreated(_ context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.created, nil
}

func (m *memoryStore) IsReady(_ context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ready, nil
}

func (m *memoryStore) Instance() string {
	return m.instance
}
