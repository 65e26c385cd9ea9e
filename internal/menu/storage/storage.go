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
	"slices"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/menusync/internal/menu/model"
	"github.com/go-arcade/menusync/pkg/cache"
	"github.com/go-arcade/menusync/pkg/log"
	"github.com/go-arcade/menusync/pkg/metrics"
)

const (
	KeyCurrentVersion  = "menu_current_version"
	KeyCache           = "menu_cache"
	KeyVersionInfo     = "menu_version_info"
	KeyDevelopmentMode = "menu_development_mode"

	DefaultKeepVersions = 10
)

var ErrWrite = errors.New("menu storage write failed")

// Store persists menu snapshots and version bookkeeping in a key/value
// backend. Reads never fail: a broken or missing value is logged and the
// zero value is returned. Writes return an error wrapping ErrWrite.
// Read-modify-write cycles are serialised per key.
type Store struct {
	kv     cache.ICache
	prefix string
	keep   int
	now    func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

type Option func(*Store)

func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// WithKeepVersions caps the snapshots kept per environment.
func WithKeepVersions(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.keep = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func New(kv cache.ICache, opts ...Option) *Store {
	s := &Store{
		kv:    kv,
		keep:  DefaultKeepVersions,
		now:   time.Now,
		locks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

func (s *Store) lock(name string) func() {
	s.mu.Lock()
	l, ok := s.locks[name]
	if !ok {
		l = &sync.Mutex{}
		s.locks[name] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// read decodes key into out. It reports false for a miss or a failure.
func (s *Store) read(ctx context.Context, name string, out any) bool {
	raw, err := s.kv.Get(ctx, s.key(name)).Result()
	if err != nil {
		if cache.IsMiss(err) {
			metrics.CacheOpsTotal.WithLabelValues("get", "miss").Inc()
			return false
		}
		metrics.StorageErrorsTotal.WithLabelValues("read").Inc()
		log.Warnw("menu storage read failed", "key", name, "error", err)
		return false
	}
	if err := sonic.UnmarshalString(raw, out); err != nil {
		metrics.StorageErrorsTotal.WithLabelValues("read").Inc()
		log.Warnw("menu storage value is corrupt", "key", name, "error", err)
		return false
	}
	metrics.CacheOpsTotal.WithLabelValues("get", "hit").Inc()
	return true
}

func (s *Store) write(ctx context.Context, name string, v any) error {
	raw, err := sonic.MarshalString(v)
	if err != nil {
		metrics.StorageErrorsTotal.WithLabelValues("write").Inc()
		return fmt.Errorf("%w: encode %s: %v", ErrWrite, name, err)
	}
	if err := s.kv.Set(ctx, s.key(name), raw, 0).Err(); err != nil {
		metrics.StorageErrorsTotal.WithLabelValues("write").Inc()
		log.Errorw("menu storage write failed", "key", name, "error", err)
		return fmt.Errorf("%w: %s: %v", ErrWrite, name, err)
	}
	metrics.CacheOpsTotal.WithLabelValues("put", "ok").Inc()
	return nil
}

// Entries returns every cached snapshot, newest first.
func (s *Store) Entries(ctx context.Context) []model.CacheEntry {
	var entries []model.CacheEntry
	s.read(ctx, KeyCache, &entries)
	return entries
}

// CacheMenuData stores entry, replacing any snapshot with the same
// environment and version, then trims the environment to the newest
// KeepVersions snapshots. The current version pointer and version info
// are rewritten from the entry with HasUpdate cleared.
func (s *Store) CacheMenuData(ctx context.Context, entry model.CacheEntry) error {
	unlock := s.lock(KeyCache)
	entries := s.Entries(ctx)
	entries = slices.DeleteFunc(entries, func(e model.CacheEntry) bool {
		return e.Environment == entry.Environment && e.Version == entry.Version
	})
	entries = append(entries, entry)
	entries = trimPerEnvironment(entries, s.keep)
	err := s.write(ctx, KeyCache, entries)
	unlock()
	if err != nil {
		return err
	}

	if err := s.setCurrentVersion(ctx, entry.Version); err != nil {
		return err
	}

	unlock = s.lock(KeyVersionInfo)
	defer unlock()
	return s.write(ctx, KeyVersionInfo, model.VersionInfo{
		CurrentVersion: entry.Version,
		Environment:    entry.Environment,
		IsDevelopment:  entry.IsDevelopment,
		LastUpdated:    entry.Timestamp,
		HasUpdate:      false,
	})
}

// trimPerEnvironment sorts newest first and keeps at most keep entries for
// each environment.
func trimPerEnvironment(entries []model.CacheEntry, keep int) []model.CacheEntry {
	slices.SortStableFunc(entries, func(a, b model.CacheEntry) int {
		switch {
		case a.Timestamp > b.Timestamp:
			return -1
		case a.Timestamp < b.Timestamp:
			return 1
		}
		return 0
	})
	seen := make(map[model.Environment]int)
	out := entries[:0]
	for _, e := range entries {
		if seen[e.Environment] >= keep {
			continue
		}
		seen[e.Environment]++
		out = append(out, e)
	}
	return out
}

// GetCachedMenuData returns the snapshot for env and version, or the
// newest snapshot for env when version is empty. It returns nil when
// nothing matches.
func (s *Store) GetCachedMenuData(ctx context.Context, env model.Environment, version string) *model.CacheEntry {
	var best *model.CacheEntry
	for _, e := range s.Entries(ctx) {
		e := e // per-iteration copy; &e escapes the loop
		if e.Environment != env {
			continue
		}
		if version != "" {
			if e.Version == version {
				return &e
			}
			continue
		}
		if best == nil || e.Timestamp > best.Timestamp {
			best = &e
		}
	}
	return best
}

// LatestCachedMenuData returns the newest snapshot for env that belongs to
// the development or the released stream, or nil.
func (s *Store) LatestCachedMenuData(ctx context.Context, env model.Environment, development bool) *model.CacheEntry {
	var best *model.CacheEntry
	for _, e := range s.Entries(ctx) {
		e := e // per-iteration copy; &e escapes the loop
		if e.Environment != env || e.IsDevelopment != development {
			continue
		}
		if best == nil || e.Timestamp > best.Timestamp {
			best = &e
		}
	}
	return best
}

func (s *Store) setCurrentVersion(ctx context.Context, version string) error {
	unlock := s.lock(KeyCurrentVersion)
	defer unlock()
	return s.write(ctx, KeyCurrentVersion, version)
}

// GetCurrentVersion returns the persisted version pointer, or "".
func (s *Store) GetCurrentVersion(ctx context.Context) string {
	var v string
	s.read(ctx, KeyCurrentVersion, &v)
	return v
}

// GetVersionInfo returns nil when no record has been written yet.
func (s *Store) GetVersionInfo(ctx context.Context) *model.VersionInfo {
	var info model.VersionInfo
	if !s.read(ctx, KeyVersionInfo, &info) {
		return nil
	}
	return &info
}

// UpdateVersionInfo merges patch into the stored record. The first call
// starts from a production record stamped with the current time.
func (s *Store) UpdateVersionInfo(ctx context.Context, patch model.VersionInfoPatch) (model.VersionInfo, error) {
	unlock := s.lock(KeyVersionInfo)
	defer unlock()

	info := model.VersionInfo{
		Environment: model.EnvProduction,
		LastUpdated: s.now().UnixMilli(),
	}
	s.read(ctx, KeyVersionInfo, &info)
	patch.Apply(&info)
	if err := s.write(ctx, KeyVersionInfo, info); err != nil {
		return info, err
	}
	return info, nil
}

func (s *Store) SetDevelopmentMode(ctx context.Context, enabled bool) error {
	unlock := s.lock(KeyDevelopmentMode)
	defer unlock()
	return s.write(ctx, KeyDevelopmentMode, enabled)
}

func (s *Store) GetDevelopmentMode(ctx context.Context) bool {
	var enabled bool
	s.read(ctx, KeyDevelopmentMode, &enabled)
	return enabled
}

// ClearCache removes all four keys.
func (s *Store) ClearCache(ctx context.Context) error {
	for _, name := range []string{KeyCache, KeyCurrentVersion, KeyVersionInfo, KeyDevelopmentMode} {
		unlock := s.lock(name)
		err := s.kv.Del(ctx, s.key(name)).Err()
		unlock()
		if err != nil {
			metrics.StorageErrorsTotal.WithLabelValues("write").Inc()
			log.Errorw("menu storage clear failed", "key", name, "error", err)
			return fmt.Errorf("%w: clear %s: %v", ErrWrite, name, err)
		}
	}
	log.Infow("menu cache cleared")
	return nil
}

// ClearOldCache keeps only the keep newest snapshots per environment.
func (s *Store) ClearOldCache(ctx context.Context, keep int) error {
	if keep <= 0 {
		keep = 5
	}
	unlock := s.lock(KeyCache)
	defer unlock()

	entries := s.Entries(ctx)
	before := len(entries)
	entries = trimPerEnvironment(entries, keep)
	if len(entries) == before {
		return nil
	}
	log.Infow("trimmed menu cache", "removed", before-len(entries), "keep", keep)
	return s.write(ctx, KeyCache, entries)
}

// IsCacheExpired reports whether ts (unix ms) is older than maxAge.
func (s *Store) IsCacheExpired(ts int64, maxAge time.Duration) bool {
	return IsExpired(s.now(), ts, maxAge)
}
