// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_indexer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rapidaai/callrecorder/pkg/commons"
	"github.com/rapidaai/callrecorder/pkg/configs"
	"github.com/rapidaai/callrecorder/pkg/connectors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) commons.Logger {
	t.Helper()
	logger, err := commons.NewApplicationLogger(
		commons.Name("test-indexer"),
		commons.Path(t.TempDir()),
		commons.Level("debug"),
	)
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	return logger
}

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	logger := newTestLogger(t)
	sqlite := connectors.NewSqliteConnector(configs.CatalogConfig{
		Path: filepath.Join(t.TempDir(), "db", "catalog.db"),
	}, logger)
	require.NoError(t, sqlite.Connect(context.Background()))
	t.Cleanup(func() { _ = sqlite.Disconnect(context.Background()) })

	catalog := NewCatalog(sqlite, logger)
	require.NoError(t, catalog.Migrate(context.Background()))
	return catalog
}

func writeRecording(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	return path
}

func TestCatalog_IndexAndGet(t *testing.T) {
	catalog := newTestCatalog(t)
	ctx := context.Background()
	path := writeRecording(t, t.TempDir(), "5551234_240305_140709042.amr", 64)

	require.NoError(t, catalog.NotifyFileReady(ctx, path))

	rec, err := catalog.Get(ctx, path)
	require.NoError(t, err)
	assert.Len(t, rec.Id, 36)
	assert.Equal(t, "5551234_240305_140709042.amr", rec.FileName)
	assert.Equal(t, "5551234", rec.Subject)
	assert.Equal(t, int64(64), rec.SizeBytes)
	assert.False(t, rec.IndexedDate.IsZero())
}

func TestCatalog_ReindexRefreshesSize(t *testing.T) {
	catalog := newTestCatalog(t)
	ctx := context.Background()
	dir := t.TempDir()
	path := writeRecording(t, dir, "unknown_240305_140709042.amr", 6)
	require.NoError(t, catalog.NotifyFileReady(ctx, path))
	first, err := catalog.Get(ctx, path)
	require.NoError(t, err)

	writeRecording(t, dir, "unknown_240305_140709042.amr", 128)
	require.NoError(t, catalog.NotifyFileReady(ctx, path))

	second, err := catalog.Get(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, first.Id, second.Id)
	assert.Equal(t, int64(128), second.SizeBytes)

	all, err := catalog.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCatalog_ListNewestFirst(t *testing.T) {
	catalog := newTestCatalog(t)
	ctx := context.Background()
	dir := t.TempDir()
	for _, name := range []string{"a_240305_140709001.amr", "b_240305_140709002.amr", "c_240305_140709003.amr"} {
		require.NoError(t, catalog.NotifyFileReady(ctx, writeRecording(t, dir, name, 1)))
		time.Sleep(2 * time.Millisecond)
	}

	recs, err := catalog.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "c", recs[0].Subject)
	assert.Equal(t, "b", recs[1].Subject)
}

func TestCatalog_MissingFile(t *testing.T) {
	catalog := newTestCatalog(t)
	err := catalog.NotifyFileReady(context.Background(), filepath.Join(t.TempDir(), "gone.amr"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = catalog.Get(context.Background(), "gone.amr")
	assert.Error(t, err)
}

func TestSubjectOf(t *testing.T) {
	tests := map[string]string{
		"5551234_240305_140709042.amr": "5551234",
		"unknown_240305_140709042.amr": "unknown",
		"a_b_c_240305_140709042-1.amr": "a_b_c",
		"noseparators.amr":             "",
		"_240305_140709042.amr":        "",
	}
	for name, want := range tests {
		assert.Equal(t, want, subjectOf(name), name)
	}
}

func TestWebhook_PostsPath(t *testing.T) {
	var (
		mu       sync.Mutex
		received fileReadyEvent
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		mu.Lock()
		defer mu.Unlock()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	webhook := NewWebhook(server.URL+"/index", time.Second, newTestLogger(t))
	require.NoError(t, webhook.NotifyFileReady(context.Background(), "/data/recordings/x.amr"))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/data/recordings/x.amr", received.Path)
	assert.False(t, received.ReadyAt.IsZero())
}

func TestWebhook_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	webhook := NewWebhook(server.URL, time.Second, newTestLogger(t))
	err := webhook.NotifyFileReady(context.Background(), "x.amr")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestNotifyTimeoutCoversRetries(t *testing.T) {
	assert.Equal(t, 3*time.Second+400*time.Millisecond, NotifyTimeout(time.Second))
	assert.Greater(t, NotifyTimeout(5*time.Second), 5*time.Second*webhookRetries)
}

type recordingIndexer struct {
	paths []string
	err   error
}

func (r *recordingIndexer) NotifyFileReady(_ context.Context, path string) error {
	r.paths = append(r.paths, path)
	return r.err
}

func TestMulti_NotifiesAllAndJoinsErrors(t *testing.T) {
	failure := errors.New("down")
	a := &recordingIndexer{}
	b := &recordingIndexer{err: failure}
	c := &recordingIndexer{}

	err := Multi{a, b, c}.NotifyFileReady(context.Background(), "x.amr")
	assert.ErrorIs(t, err, failure)
	for _, idx := range []*recordingIndexer{a, b, c} {
		assert.Equal(t, []string{"x.amr"}, idx.paths)
	}

	assert.NoError(t, Multi{a}.NotifyFileReady(context.Background(), "y.amr"))
	assert.NoError(t, Multi{}.NotifyFileReady(context.Background(), "z.amr"))
}
