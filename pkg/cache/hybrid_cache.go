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
	"time"

	"github.com/go-arcade/menusync/pkg/log"
	"github.com/redis/go-redis/v9"
)

// HybridCache reads through a local FastCache in front of redis. Writes go
// to redis first and only reach the local copy when redis accepted them,
// so redis stays the source of truth shared between hosts.
type HybridCache struct {
	local    *FastCache
	remote   ICache
	localTTL time.Duration
}

// NewHybridCache keeps local copies for localTTL; zero keeps them until
// overwritten or deleted.
func NewHybridCache(local *FastCache, remote ICache, localTTL time.Duration) *HybridCache {
	return &HybridCache{local: local, remote: remote, localTTL: localTTL}
}

func (hc *HybridCache) Get(ctx context.Context, key string) *redis.StringCmd {
	if cmd := hc.local.Get(ctx, key); cmd.Err() == nil {
		return cmd
	}

	cmd := hc.remote.Get(ctx, key)
	if cmd.Err() != nil {
		return cmd
	}
	if err := hc.local.Set(ctx, key, cmd.Val(), hc.localTTL).Err(); err != nil {
		log.Warnw("hybrid cache backfill failed", "key", key, "error", err)
	}
	return cmd
}

func (hc *HybridCache) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	cmd := hc.remote.Set(ctx, key, value, expiration)
	if cmd.Err() != nil {
		hc.local.Del(ctx, key)
		return cmd
	}
	ttl := hc.localTTL
	if expiration > 0 && (ttl == 0 || expiration < ttl) {
		ttl = expiration
	}
	hc.local.Set(ctx, key, value, ttl)
	return cmd
}

func (hc *HybridCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	hc.local.Del(ctx, keys...)
	return hc.remote.Del(ctx, keys...)
}

func (hc *HybridCache) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	return hc.remote.Exists(ctx, keys...)
}

func (hc *HybridCache) Flush() error {
	return hc.local.Flush()
}
