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

package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/bytedance/sonic"
	"github.com/go-arcade/menusync/pkg/log"
	"github.com/go-arcade/menusync/pkg/safe"
	"github.com/redis/go-redis/v9"
)

const defaultLocalMaxBytes = 32 * 1024 * 1024

type FastCacheConfig struct {
	MaxBytes int
	// Path is the snapshot directory. Empty keeps the cache memory-only.
	Path string
}

// FastCache is an in-process cache over VictoriaMetrics fastcache. When a
// Path is configured the contents are loaded on start and written back by
// Flush, which makes it usable as a small durable store on a single host.
// TTLs are kept in memory only and do not survive a snapshot.
type FastCache struct {
	cache *fastcache.Cache
	path  string

	mu   sync.RWMutex
	ttls map[string]time.Time
}

func NewFastCache(conf FastCacheConfig) (*FastCache, error) {
	maxBytes := conf.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultLocalMaxBytes
	}

	fc := &FastCache{
		path: conf.Path,
		ttls: make(map[string]time.Time),
	}

	if conf.Path == "" {
		fc.cache = fastcache.New(maxBytes)
		return fc, nil
	}

	if _, err := os.Stat(conf.Path); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(conf.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
		fc.cache = fastcache.New(maxBytes)
		return fc, nil
	}

	c, err := fastcache.LoadFromFile(conf.Path)
	if err != nil {
		return nil, fmt.Errorf("load cache snapshot %s: %w", conf.Path, err)
	}
	fc.cache = c
	log.Debugw("local cache snapshot loaded", "path", conf.Path)
	return fc, nil
}

func (fc *FastCache) expired(key string) bool {
	exp, ok := fc.ttls[key]
	return ok && time.Now().After(exp)
}

func (fc *FastCache) Get(_ context.Context, key string) *redis.StringCmd {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	k := []byte(key)
	if fc.expired(key) || !fc.cache.Has(k) {
		return redis.NewStringResult("", redis.Nil)
	}
	// values may exceed the 64KB single-entry limit, so always go through the big API
	return redis.NewStringResult(string(fc.cache.GetBig(nil, k)), nil)
}

func (fc *FastCache) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		b, err := sonic.Marshal(v)
		if err != nil {
			return redis.NewStatusResult("", err)
		}
		data = b
	}

	fc.mu.Lock()
	fc.cache.SetBig([]byte(key), data)
	if expiration > 0 {
		fc.ttls[key] = time.Now().Add(expiration)
	} else {
		delete(fc.ttls, key)
	}
	fc.mu.Unlock()

	if expiration > 0 {
		safe.GoWith(func(args cleanupArgs) {
			<-time.After(args.delay)
			fc.cleanupExpiredKey(args.key)
		}, cleanupArgs{key: key, delay: expiration})
	}
	return redis.NewStatusResult("OK", nil)
}

type cleanupArgs struct {
	key   string
	delay time.Duration
}

func (fc *FastCache) cleanupExpiredKey(key string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.expired(key) {
		fc.cache.Del([]byte(key))
		delete(fc.ttls, key)
	}
}

func (fc *FastCache) Del(_ context.Context, keys ...string) *redis.IntCmd {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	var n int64
	for _, key := range keys {
		k := []byte(key)
		if fc.cache.Has(k) {
			if !fc.expired(key) {
				n++
			}
			fc.cache.Del(k)
		}
		delete(fc.ttls, key)
	}
	return redis.NewIntResult(n, nil)
}

func (fc *FastCache) Exists(_ context.Context, keys ...string) *redis.IntCmd {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	var n int64
	for _, key := range keys {
		if !fc.expired(key) && fc.cache.Has([]byte(key)) {
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

// Flush writes the snapshot to Path. It is a no-op for memory-only caches.
func (fc *FastCache) Flush() error {
	if fc.path == "" {
		return nil
	}
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	if err := fc.cache.SaveToFileConcurrent(fc.path, 0); err != nil {
		return fmt.Errorf("save cache snapshot %s: %w", fc.path, err)
	}
	return nil
}

func (fc *FastCache) Clear() {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.cache.Reset()
	fc.ttls = make(map[string]time.Time)
}

func (fc *FastCache) Stats() fastcache.Stats {
	var stats fastcache.Stats
	fc.cache.UpdateStats(&stats)
	return stats
}
