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

package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-arcade/menusync/internal/menu/model"
	"github.com/go-arcade/menusync/pkg/cache"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalStore(t *testing.T, opts ...Option) (*Store, *cache.FastCache) {
	t.Helper()
	fc, err := cache.NewFastCache(cache.FastCacheConfig{MaxBytes: 8 * 1024 * 1024})
	require.NoError(t, err)
	return New(fc, opts...), fc
}

func entry(env model.Environment, version string, ts int64) model.CacheEntry {
	return model.CacheEntry{
		Version:     version,
		Environment: env,
		Timestamp:   ts,
		MenuData: model.MenuData{
			Success:  true,
			Sections: []model.Section{{ID: "s1", Name: "main", Title: "Main", Layout: model.LayoutGrid, IsActive: true}},
		},
	}
}

// brokenKV fails every call with err.
type brokenKV struct {
	err error
}

func (b brokenKV) Get(ctx context.Context, _ string) *redis.StringCmd {
	return redis.NewStringResult("", b.err)
}

func (b brokenKV) Set(ctx context.Context, _ string, _ any, _ time.Duration) *redis.StatusCmd {
	return redis.NewStatusResult("", b.err)
}

func (b brokenKV) Del(ctx context.Context, _ ...string) *redis.IntCmd {
	return redis.NewIntResult(0, b.err)
}

func (b brokenKV) Exists(ctx context.Context, _ ...string) *redis.IntCmd {
	return redis.NewIntResult(0, b.err)
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.2.0", "1.10.0", -1},
		{"1.10.0", "1.2.0", 1},
		{"1.2", "1.2.0", 0},
		{"2.0.0", "1.99.99", 1},
		{"1.0.0", "1.0.1", -1},
		{"development-latest", "0.0.0", 0},
		{"1.x.3", "1.0.3", 0},
		{"", "0", 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_vs_%s", tt.a, tt.b), func(t *testing.T) {
			assert.Equal(t, tt.want, CompareVersions(tt.a, tt.b))
		})
	}
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	fresh := now.Add(-time.Hour).UnixMilli()
	stale := now.Add(-8 * 24 * time.Hour).UnixMilli()

	assert.False(t, IsExpired(now, fresh, 0))
	assert.True(t, IsExpired(now, stale, 0))
	assert.True(t, IsExpired(now, fresh, 30*time.Minute))

	s, _ := newLocalStore(t, WithClock(func() time.Time { return now }))
	assert.True(t, s.IsCacheExpired(stale, 0))
	assert.False(t, s.IsCacheExpired(fresh, 2*time.Hour))
}

func TestStore_LatestCachedMenuDataByStream(t *testing.T) {
	s, _ := newLocalStore(t)
	ctx := context.Background()

	dev := entry(model.EnvProduction, "1.1.0", 1000)
	dev.IsDevelopment = true
	require.NoError(t, s.CacheMenuData(ctx, dev))
	require.NoError(t, s.CacheMenuData(ctx, entry(model.EnvProduction, "1.0.0", 2000)))

	got := s.LatestCachedMenuData(ctx, model.EnvProduction, true)
	require.NotNil(t, got)
	assert.Equal(t, "1.1.0", got.Version)

	got = s.LatestCachedMenuData(ctx, model.EnvProduction, false)
	require.NotNil(t, got)
	assert.Equal(t, "1.0.0", got.Version)

	assert.Nil(t, s.LatestCachedMenuData(ctx, model.EnvStaging, false))
}

func TestStore_CacheAndRead(t *testing.T) {
	s, _ := newLocalStore(t)
	ctx := context.Background()

	require.NoError(t, s.CacheMenuData(ctx, entry(model.EnvProduction, "1.0.0", 1000)))
	require.NoError(t, s.CacheMenuData(ctx, entry(model.EnvProduction, "1.1.0", 2000)))
	require.NoError(t, s.CacheMenuData(ctx, entry(model.EnvStaging, "2.0.0", 3000)))

	assert.Equal(t, "2.0.0", s.GetCurrentVersion(ctx))

	latest := s.GetCachedMenuData(ctx, model.EnvProduction, "")
	require.NotNil(t, latest)
	assert.Equal(t, "1.1.0", latest.Version)

	exact := s.GetCachedMenuData(ctx, model.EnvProduction, "1.0.0")
	require.NotNil(t, exact)
	assert.Equal(t, int64(1000), exact.Timestamp)
	assert.Equal(t, "Main", exact.MenuData.Sections[0].Title)

	assert.Nil(t, s.GetCachedMenuData(ctx, model.EnvProduction, "9.9.9"))
	assert.Nil(t, s.GetCachedMenuData(ctx, model.EnvDevelopment, ""))

	info := s.GetVersionInfo(ctx)
	require.NotNil(t, info)
	assert.Equal(t, "2.0.0", info.CurrentVersion)
	assert.Equal(t, model.EnvStaging, info.Environment)
	assert.Equal(t, int64(3000), info.LastUpdated)
	assert.False(t, info.HasUpdate)
}

func TestStore_CacheIsIdempotent(t *testing.T) {
	s, _ := newLocalStore(t)
	ctx := context.Background()

	e := entry(model.EnvProduction, "1.0.0", 1000)
	require.NoError(t, s.CacheMenuData(ctx, e))
	first := s.Entries(ctx)
	require.NoError(t, s.CacheMenuData(ctx, e))
	assert.Equal(t, first, s.Entries(ctx))
	assert.Len(t, s.Entries(ctx), 1)
}

func TestStore_SameVersionSupersedes(t *testing.T) {
	s, _ := newLocalStore(t)
	ctx := context.Background()

	require.NoError(t, s.CacheMenuData(ctx, entry(model.EnvProduction, "1.0.0", 1000)))
	require.NoError(t, s.CacheMenuData(ctx, entry(model.EnvProduction, "1.0.0", 5000)))

	entries := s.Entries(ctx)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(5000), entries[0].Timestamp)
}

func TestStore_KeepVersionsPerEnvironment(t *testing.T) {
	s, _ := newLocalStore(t)
	ctx := context.Background()

	for i := 0; i < 11; i++ {
		require.NoError(t, s.CacheMenuData(ctx, entry(model.EnvProduction, fmt.Sprintf("1.0.%d", i), int64(1000+i))))
	}
	require.NoError(t, s.CacheMenuData(ctx, entry(model.EnvStaging, "0.1.0", 1)))

	var prod int
	for _, e := range s.Entries(ctx) {
		if e.Environment == model.EnvProduction {
			prod++
		}
	}
	assert.Equal(t, DefaultKeepVersions, prod)
	assert.Nil(t, s.GetCachedMenuData(ctx, model.EnvProduction, "1.0.0"), "oldest production entry evicted")
	assert.NotNil(t, s.GetCachedMenuData(ctx, model.EnvStaging, "0.1.0"), "other environments keep their own budget")
}

func TestStore_ClearOldCache(t *testing.T) {
	s, _ := newLocalStore(t, WithKeepVersions(20))
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		require.NoError(t, s.CacheMenuData(ctx, entry(model.EnvProduction, fmt.Sprintf("1.%d.0", i), int64(i))))
	}
	require.NoError(t, s.ClearOldCache(ctx, 0))

	entries := s.Entries(ctx)
	require.Len(t, entries, 5)
	assert.Equal(t, "1.7.0", entries[0].Version)
	assert.Equal(t, "1.3.0", entries[4].Version)

	require.NoError(t, s.ClearOldCache(ctx, 2))
	assert.Len(t, s.Entries(ctx), 2)
}

func TestStore_UpdateVersionInfo(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s, _ := newLocalStore(t, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	assert.Nil(t, s.GetVersionInfo(ctx))

	info, err := s.UpdateVersionInfo(ctx, model.VersionInfoPatch{
		HasUpdate:     model.Ptr(true),
		LatestVersion: model.Ptr("1.1.0"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.EnvProduction, info.Environment)
	assert.Equal(t, now.UnixMilli(), info.LastUpdated)
	assert.True(t, info.HasUpdate)

	info, err = s.UpdateVersionInfo(ctx, model.VersionInfoPatch{CurrentVersion: model.Ptr("1.0.0")})
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", info.CurrentVersion)
	assert.Equal(t, "1.1.0", info.LatestVersion, "unpatched fields survive")

	stored := s.GetVersionInfo(ctx)
	require.NotNil(t, stored)
	assert.Equal(t, info, *stored)
}

func TestStore_ConcurrentVersionInfoUpdates(t *testing.T) {
	s, _ := newLocalStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = s.UpdateVersionInfo(ctx, model.VersionInfoPatch{HasUpdate: model.Ptr(true)})
	}()
	go func() {
		defer wg.Done()
		_, _ = s.UpdateVersionInfo(ctx, model.VersionInfoPatch{LatestVersion: model.Ptr("2.0.0")})
	}()
	wg.Wait()

	info := s.GetVersionInfo(ctx)
	require.NotNil(t, info)
	assert.True(t, info.HasUpdate)
	assert.Equal(t, "2.0.0", info.LatestVersion)
}

func TestStore_DevelopmentModeAndClear(t *testing.T) {
	s, _ := newLocalStore(t, WithPrefix("test:"))
	ctx := context.Background()

	assert.False(t, s.GetDevelopmentMode(ctx))
	require.NoError(t, s.SetDevelopmentMode(ctx, true))
	assert.True(t, s.GetDevelopmentMode(ctx))

	require.NoError(t, s.CacheMenuData(ctx, entry(model.EnvDevelopment, "0.1.0", 1)))
	require.NoError(t, s.ClearCache(ctx))

	assert.Empty(t, s.GetCurrentVersion(ctx))
	assert.Nil(t, s.GetVersionInfo(ctx))
	assert.Empty(t, s.Entries(ctx))
	assert.False(t, s.GetDevelopmentMode(ctx))
}

func TestStore_CorruptValueReadsAsDefault(t *testing.T) {
	s, fc := newLocalStore(t)
	ctx := context.Background()

	require.NoError(t, fc.Set(ctx, KeyCache, "{not json", 0).Err())
	require.NoError(t, fc.Set(ctx, KeyVersionInfo, "[]", 0).Err())

	assert.Empty(t, s.Entries(ctx))
	assert.Nil(t, s.GetVersionInfo(ctx))

	require.NoError(t, s.CacheMenuData(ctx, entry(model.EnvProduction, "1.0.0", 1)))
	assert.Len(t, s.Entries(ctx), 1)
}

func TestStore_BrokenBackend(t *testing.T) {
	boom := errors.New("disk full")
	s := New(brokenKV{err: boom})
	ctx := context.Background()

	assert.Empty(t, s.GetCurrentVersion(ctx))
	assert.Nil(t, s.GetCachedMenuData(ctx, model.EnvProduction, ""))
	assert.False(t, s.GetDevelopmentMode(ctx))

	err := s.CacheMenuData(ctx, entry(model.EnvProduction, "1.0.0", 1))
	assert.ErrorIs(t, err, ErrWrite)
	assert.ErrorIs(t, s.SetDevelopmentMode(ctx, true), ErrWrite)
	assert.ErrorIs(t, s.ClearCache(ctx), ErrWrite)
}

func TestStore_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	s := New(cache.NewRedisCache(client), WithPrefix("menusync:"))
	ctx := context.Background()

	require.NoError(t, s.CacheMenuData(ctx, entry(model.EnvProduction, "3.1.4", 42)))
	assert.True(t, mr.Exists("menusync:"+KeyCache))

	raw, err := mr.Get("menusync:" + KeyCurrentVersion)
	require.NoError(t, err)
	assert.Equal(t, `"3.1.4"`, raw)

	got := s.GetCachedMenuData(ctx, model.EnvProduction, "3.1.4")
	require.NotNil(t, got)
	assert.Equal(t, int64(42), got.Timestamp)
}
