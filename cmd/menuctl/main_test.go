// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-arcade/menusync/internal/menu/deploy"
	"github.com/go-arcade/menusync/internal/menu/model"
	"github.com/go-arcade/menusync/internal/menu/storage"
	"github.com/go-arcade/menusync/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func menuServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/menu/items"):
			assert.Equal(t, "enhance", r.URL.Query().Get("section_id"))
			_ = json.NewEncoder(w).Encode([]map[string]any{
				{"id": "i1", "title": "Upscale", "action_type": "screen", "section_id": "enhance", "is_premium": true},
				{"id": "i2", "title": "Crop", "action_type": "screen", "section_id": "enhance"},
			})
		case strings.HasSuffix(r.URL.Path, "/health"):
			_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "timestamp": "2025-01-01T00:00:00Z"})
		case strings.HasSuffix(r.URL.Path, "/analytics/export"):
			assert.Equal(t, "csv", r.URL.Query().Get("format"))
			_ = json.NewEncoder(w).Encode(map[string]any{"data": "event,count\nopen,3\n", "filename": "analytics.csv"})
		default:
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]any{"error": "not found"})
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestItemsList_Where(t *testing.T) {
	srv := menuServer(t)

	out, err := execute(t, "--api-url", srv.URL+"/", "items", "list", "--section", "enhance", "--where", "is_premium")
	require.NoError(t, err)

	var items []model.Item
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "i1", items[0].ID)
}

func TestItemsList_BadExpression(t *testing.T) {
	srv := menuServer(t)
	_, err := execute(t, "--api-url", srv.URL+"/", "items", "list", "--section", "enhance", "--where", "is_premium &&")
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	srv := menuServer(t)
	out, err := execute(t, "--api-url", srv.URL+"/", "health")
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "ok"`)
}

func TestAnalyticsExport_ToDirectory(t *testing.T) {
	srv := menuServer(t)
	dir := t.TempDir()

	_, err := execute(t, "--api-url", srv.URL+"/", "analytics", "export", "--format", "csv", "-o", dir)
	require.NoError(t, err)

	body, err := os.ReadFile(filepath.Join(dir, "analytics.csv"))
	require.NoError(t, err)
	assert.Equal(t, "event,count\nopen,3\n", string(body))
}

func TestVersionsCreate_RejectsBadVersion(t *testing.T) {
	srv := menuServer(t)
	_, err := execute(t, "--api-url", srv.URL+"/", "versions", "create", "not-a-version")
	assert.ErrorIs(t, err, deploy.ErrInvalidVersion)
}

func seedStore(t *testing.T, path string, entries ...model.CacheEntry) {
	t.Helper()
	fc, err := cache.NewFastCache(cache.FastCacheConfig{Path: path})
	require.NoError(t, err)
	store := storage.New(fc)
	for _, e := range entries {
		require.NoError(t, store.CacheMenuData(context.Background(), e))
	}
	require.NoError(t, fc.Flush())
}

func TestCache_ShowTrimClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot")
	now := time.Now()
	seedStore(t, path,
		model.CacheEntry{Version: "1.0.0", Environment: model.EnvProduction, Timestamp: now.Add(-30 * 24 * time.Hour).UnixMilli()},
		model.CacheEntry{Version: "1.1.0", Environment: model.EnvProduction, Timestamp: now.Add(-time.Hour).UnixMilli()},
		model.CacheEntry{Version: "1.2.0", Environment: model.EnvProduction, Timestamp: now.UnixMilli(),
			MenuData: model.MenuData{Items: []model.Item{{ID: "i1"}}}},
	)

	out, err := execute(t, "--store-path", path, "cache", "show")
	require.NoError(t, err)
	var view cacheView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "1.2.0", view.CurrentVersion)
	require.Len(t, view.Entries, 3)
	assert.Equal(t, "1.2.0", view.Entries[0].Version)
	assert.Equal(t, 1, view.Entries[0].Items)
	assert.False(t, view.Entries[0].Expired)
	assert.True(t, view.Entries[2].Expired)

	out, err = execute(t, "--store-path", path, "cache", "trim", "--keep", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `"remaining": 1`)

	_, err = execute(t, "--store-path", path, "cache", "clear")
	require.NoError(t, err)

	out, err = execute(t, "--store-path", path, "cache", "show")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Empty(t, view.CurrentVersion)
	assert.Empty(t, view.Entries)
}
