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

package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-arcade/menusync/internal/menu/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{
		BaseURL:    srv.URL + "/",
		Token:      "tok",
		AppVersion: "1.4.0",
		InstallID:  "install-1",
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_GetMenuSendsHeaders(t *testing.T) {
	var got http.Header
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/menu", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("active_only"))
		got = r.Header.Clone()
		writeJSON(w, map[string]any{
			"success":  true,
			"sections": []map[string]any{{"id": "s1", "name": "main", "title": "Main", "layout": "grid", "is_active": true}},
			"items":    []map[string]any{{"id": "i1", "title": "Home", "action_type": "screen", "action_value": "Home", "section_id": "s1"}},
		})
	})

	data, err := c.GetMenu(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, data.Sections, 1)
	assert.Equal(t, model.ActionScreen, data.Items[0].ActionType)

	assert.NotEmpty(t, got.Get("X-Request-ID"))
	assert.Equal(t, "Bearer tok", got.Get("Authorization"))
	assert.Equal(t, "1.4.0", got.Get("app-version"))
	assert.Equal(t, "install-1", got.Get("user-id"))
}

func TestClient_GetMenuUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"success": false})
	})

	_, err := c.GetMenu(context.Background(), false)
	assert.ErrorIs(t, err, ErrMenuUnavailable)
}

func TestClient_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Section not found"}`, http.StatusNotFound)
	})

	_, err := c.GetSection(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, "API Error: 404 Not Found", err.Error())
	assert.True(t, IsNotFound(err))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Contains(t, apiErr.Body, "Section not found")
}

func TestClient_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := c.DeleteItem(context.Background(), "i1")
	assert.EqualError(t, err, "API Error: 500 Internal Server Error")
	assert.False(t, IsNotFound(err))
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := New(Config{BaseURL: srv.URL})

	_, err := c.Health(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestClient_GetMenuConfig(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/menu/config", r.URL.Path)
		assert.Equal(t, "staging", r.URL.Query().Get("environment"))
		assert.Equal(t, "true", r.URL.Query().Get("development_mode"))
		writeJSON(w, map[string]any{
			"version":    "1.2.0",
			"created_at": "2024-05-02T10:30:00.123456",
			"changelog":  "new tabs",
			"config": map[string]any{
				"sections": []any{},
				"items":    []any{},
				"metadata": map[string]any{"generated": true},
			},
		})
	})

	cfg, err := c.GetMenuConfig(context.Background(), model.EnvStaging, true)
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", cfg.Version)
	assert.Equal(t, "new tabs", cfg.Changelog)
	assert.Equal(t, 2024, cfg.CreatedAt.Year())
	assert.Equal(t, true, cfg.Config.Metadata["generated"])
}

func TestClient_CheckVersion(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/menu/config/check-version", r.URL.Path)
		assert.Equal(t, "1.0.0", r.URL.Query().Get("current_version"))
		assert.Equal(t, "production", r.URL.Query().Get("environment"))
		writeJSON(w, map[string]any{"has_update": true, "current_version": "1.0.0", "latest_version": "1.1.0"})
	})

	check, err := c.CheckVersion(context.Background(), "1.0.0", model.EnvProduction)
	require.NoError(t, err)
	assert.True(t, check.HasUpdate)
	assert.Equal(t, "1.1.0", check.LatestVersion)
}

func TestClient_AutoCreateMenuVersion(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/menu/versions/auto-create", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "minor", body["version_increment"])
		assert.Equal(t, "staging", body["environment"])
		assert.Equal(t, "tabs", body["changelog"])
		writeJSON(w, map[string]any{"id": "v9", "version": "1.3.0", "environment": "staging", "created_at": "2024-05-02T10:30:00Z"})
	})

	v, err := c.AutoCreateMenuVersion(context.Background(), model.EnvStaging, model.IncrementMinor, "tabs")
	require.NoError(t, err)
	assert.Equal(t, "1.3.0", v.Version)
}

func TestClient_RejectsInvalidInputWithoutCalling(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})
	ctx := context.Background()

	_, err := c.AutoCreateMenuVersion(ctx, model.EnvProduction, "huge", "")
	var vErr *model.ValidationError
	assert.ErrorAs(t, err, &vErr)

	_, err = c.CreateSection(ctx, model.SectionInput{Title: "No name"})
	assert.ErrorAs(t, err, &vErr)

	_, err = c.CreateMenuVersion(ctx, model.VersionInput{Version: "1.0.0", Environment: "qa"})
	assert.ErrorAs(t, err, &vErr)

	assert.Zero(t, calls.Load())
}

func TestClient_Reorder(t *testing.T) {
	var body map[string][]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/menu/items/reorder", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, map[string]string{"message": "ok"})
	})

	ids := model.OrderedIDs([]model.ReorderPair{{ID: "b", SortOrder: 2}, {ID: "a", SortOrder: 1}})
	require.NoError(t, c.ReorderItems(context.Background(), ids))
	assert.Equal(t, []string{"a", "b"}, body["item_ids"])
}

func TestClient_GetItemsQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "s1", q.Get("section_id"))
		assert.Equal(t, "p1", q.Get("parent_id"))
		assert.Equal(t, "true", q.Get("active_only"))
		writeJSON(w, []map[string]any{{"id": "i1", "section_id": "s1", "parent_id": "p1"}})
	})

	items, err := c.GetItems(context.Background(), ItemQuery{SectionID: "s1", ParentID: "p1", ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ParentID)
}

func TestClient_InactiveRecordsRequested(t *testing.T) {
	var queries []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Path+"?"+r.URL.RawQuery)
		assert.Equal(t, "false", r.URL.Query().Get("active_only"))
		switch r.URL.Path {
		case "/api/menu":
			writeJSON(w, map[string]any{"success": true})
		default:
			writeJSON(w, []map[string]any{})
		}
	})
	ctx := context.Background()

	_, err := c.GetMenu(ctx, false)
	require.NoError(t, err)
	_, err = c.GetSections(ctx, false)
	require.NoError(t, err)
	_, err = c.GetItems(ctx, ItemQuery{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/api/menu?active_only=false",
		"/api/menu/sections?active_only=false",
		"/api/menu/items?active_only=false",
	}, queries)
}

func TestClient_DeployAndDevelopment(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		switch r.URL.Path {
		case "/api/menu/deploy":
			assert.Equal(t, "v1", body["version_id"])
			assert.Equal(t, "production", body["environment"])
			writeJSON(w, map[string]any{"id": "d1", "version_id": "v1", "environment": "production", "status": "success", "deployed_at": "2024-05-02T10:30:00"})
		case "/api/menu/development/set":
			assert.Equal(t, "v2", body["version_id"])
			writeJSON(w, map[string]any{"id": "v2", "version": "2.0.0", "environment": "development", "is_development": true, "created_at": "2024-05-02T10:30:00"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	d, err := c.DeployMenuVersion(ctx, "v1", model.EnvProduction)
	require.NoError(t, err)
	assert.Equal(t, model.DeploymentSuccess, d.Status)

	v, err := c.SetDevelopmentVersion(ctx, "v2")
	require.NoError(t, err)
	assert.True(t, v.IsDevelopment)
}

func TestClient_UploadIcon(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/upload/icon", r.URL.Path)
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		raw, _ := io.ReadAll(f)
		assert.Equal(t, "icon.png", hdr.Filename)
		assert.Equal(t, "PNGDATA", string(raw))
		writeJSON(w, map[string]string{"url": "https://cdn/icon.png", "key": "icons/icon.png"})
	})

	res, err := c.UploadIcon(context.Background(), "icon.png", strings.NewReader("PNGDATA"))
	require.NoError(t, err)
	assert.Equal(t, "icons/icon.png", res.Key)
}

func TestClient_Analytics(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch r.URL.Path {
		case "/api/analytics/export":
			assert.Equal(t, "csv", q.Get("format"))
			assert.Equal(t, "2024-01-01", q.Get("start_date"))
			writeJSON(w, map[string]any{"data": "a,b\n1,2\n", "filename": "analytics.csv"})
		case "/api/analytics/events":
			assert.Equal(t, "2", q.Get("page"))
			assert.Equal(t, "menu_click", q.Get("event_type"))
			writeJSON(w, map[string]any{"events": []any{}})
		default:
			assert.Empty(t, q.Get("end_date"))
			writeJSON(w, map[string]any{"total_events": 3})
		}
	})
	ctx := context.Background()

	export, err := c.ExportAnalytics(ctx, "csv", DateRange{Start: "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, "analytics.csv", export.Filename)

	events, err := c.GetAnalyticsEvents(ctx, EventQuery{Page: 2, EventType: "menu_click"})
	require.NoError(t, err)
	assert.Contains(t, events, "events")

	summary, err := c.GetAnalytics(ctx, DateRange{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, summary["total_events"])
}
