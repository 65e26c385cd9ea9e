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

package controller

import (
	"context"
	"errors"
	"time"

	"github.com/go-arcade/menusync/internal/menu/model"
	"github.com/go-arcade/menusync/internal/menu/storage"
	"github.com/go-arcade/menusync/pkg/log"
	"github.com/go-arcade/menusync/pkg/metrics"
	"github.com/go-arcade/menusync/pkg/retry"
)

var ErrClosed = errors.New("menu controller is closed")

type resolved struct {
	entry     model.CacheEntry
	fromCache bool
}

// LoadMenuConfig resolves the menu for the current environment. Without
// forceRefresh a fresh cached snapshot is served as is. A failed load
// keeps the previous MenuData and records the error in State. The result
// of a load is dropped when a newer load started after it.
func (c *Controller) LoadMenuConfig(ctx context.Context, forceRefresh bool) error {
	start := c.now()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.seq++
	token := c.seq
	env, dev := c.state.Environment, c.state.IsDevelopment
	c.setStatus(StatusLoading)
	c.mu.Unlock()
	c.publish()

	res, err := c.resolve(ctx, env, dev, forceRefresh)
	if err == nil && !res.fromCache {
		c.persist(ctx, token, res.entry)
	}
	metrics.LoadDurationSeconds.Observe(c.now().Sub(start).Seconds())

	c.mu.Lock()
	if token != c.seq {
		c.mu.Unlock()
		log.Debugw("discarding superseded menu load", "environment", env)
		return nil
	}
	if err != nil {
		c.setStatus(StatusError)
		c.state.Error = err.Error()
	} else {
		c.setStatus(StatusReady)
		c.state.Error = ""
		c.state.MenuData = &res.entry.MenuData
		if c.state.CurrentVersion != res.entry.Version {
			c.state.HasUpdate = false
			c.state.LatestVersion = ""
		}
		c.state.CurrentVersion = res.entry.Version
		c.state.FromCache = res.fromCache
		c.state.LastUpdated = time.UnixMilli(res.entry.Timestamp)
	}
	c.mu.Unlock()
	c.publish()

	if err != nil {
		log.Errorw("failed to load menu configuration", "environment", env, "development", dev, "error", err)
		return err
	}

	log.Infow("menu configuration loaded",
		"environment", env,
		"version", res.entry.Version,
		"from_cache", res.fromCache,
	)
	c.rearm()
	if !res.fromCache {
		_ = c.CheckForUpdates(ctx)
	}
	return nil
}

// RefreshMenu bypasses the cache.
func (c *Controller) RefreshMenu(ctx context.Context) error {
	return c.LoadMenuConfig(ctx, true)
}

func (c *Controller) resolve(ctx context.Context, env model.Environment, dev, force bool) (*resolved, error) {
	if !force {
		cached := c.store.LatestCachedMenuData(ctx, env, dev)
		switch {
		case cached == nil:
		case storage.IsExpired(c.now(), cached.Timestamp, c.cfg.MaxCacheAge):
			log.Infow("cached menu expired", "version", cached.Version, "max_age", c.cfg.MaxCacheAge)
		default:
			metrics.LoadsTotal.WithLabelValues("cache", "ok").Inc()
			return &resolved{entry: *cached, fromCache: true}, nil
		}
	}

	cfg, err := c.api.GetMenuConfig(ctx, env, dev)
	if err != nil {
		metrics.LoadsTotal.WithLabelValues("network", "error").Inc()
		return nil, err
	}
	metrics.LoadsTotal.WithLabelValues("network", "ok").Inc()

	data := cfg.Config
	data.Success = true
	if err := data.Validate(); err != nil {
		log.Warnw("menu configuration failed validation", "version", cfg.Version, "error", err)
	}

	entry := model.CacheEntry{
		Version:       cfg.Version,
		MenuData:      data,
		Timestamp:     c.now().UnixMilli(),
		Environment:   env,
		IsDevelopment: dev,
	}
	return &resolved{entry: entry}, nil
}

// persist writes a fetched snapshot unless a newer load has started. The
// check and the write share persistMu, so snapshots land in load order.
func (c *Controller) persist(ctx context.Context, token uint64, entry model.CacheEntry) {
	c.persistMu.Lock()
	defer c.persistMu.Unlock()

	c.mu.RLock()
	superseded := token != c.seq
	c.mu.RUnlock()
	if superseded {
		log.Debugw("skipping snapshot of superseded menu load", "version", entry.Version)
		return
	}

	err := retry.Do(ctx, func(ctx context.Context) error {
		return c.store.CacheMenuData(ctx, entry)
	},
		retry.WithMaxAttempts(3),
		retry.WithBackoff(retry.Exponential(20*time.Millisecond, 200*time.Millisecond)),
		retry.WithOnRetry(func(attempt int, err error, wait time.Duration) {
			log.Warnw("retrying menu cache write", "attempt", attempt, "wait", wait, "error", err)
		}),
	)
	if err != nil {
		log.Errorw("failed to persist menu snapshot", "version", entry.Version, "error", err)
	}
}

// CheckForUpdates asks the service whether a newer version exists for the
// current one. It does nothing without a current version. Concurrent calls
// for the same version share one request.
func (c *Controller) CheckForUpdates(ctx context.Context) error {
	c.mu.RLock()
	current, env := c.state.CurrentVersion, c.state.Environment
	c.mu.RUnlock()
	if current == "" {
		metrics.UpdateChecksTotal.WithLabelValues("skipped").Inc()
		return nil
	}

	_, err, _ := c.checks.Do(string(env)+"/"+current, func() (any, error) {
		c.checking.Store(true)
		defer c.checking.Store(false)
		return nil, c.checkForUpdates(ctx, current, env)
	})
	return err
}

func (c *Controller) checkForUpdates(ctx context.Context, current string, env model.Environment) error {
	check, err := c.api.CheckVersion(ctx, current, env)
	if err != nil {
		metrics.UpdateChecksTotal.WithLabelValues("error").Inc()
		log.Warnw("menu update check failed", "version", current, "error", err)
		return err
	}

	latest := check.LatestVersion
	hasUpdate := latest != "" && storage.CompareVersions(current, latest) < 0
	if !hasUpdate && latest == "" {
		latest = current
	}

	c.mu.Lock()
	applied := c.state.CurrentVersion == current && c.state.Environment == env
	if applied {
		c.state.HasUpdate = hasUpdate
		c.state.LatestVersion = latest
	}
	c.mu.Unlock()
	if !applied {
		return nil
	}
	c.publish()

	if hasUpdate {
		metrics.UpdateChecksTotal.WithLabelValues("update").Inc()
		metrics.UpdateAvailable.Set(1)
		log.Infow("menu update available", "current", current, "latest", latest, "changelog", check.Changelog)
	} else {
		metrics.UpdateChecksTotal.WithLabelValues("current").Inc()
		metrics.UpdateAvailable.Set(0)
	}

	_, err = c.store.UpdateVersionInfo(ctx, model.VersionInfoPatch{
		CurrentVersion: model.Ptr(current),
		Environment:    model.Ptr(env),
		HasUpdate:      model.Ptr(hasUpdate),
		LatestVersion:  model.Ptr(latest),
	})
	if err != nil {
		log.Warnw("failed to persist version info", "error", err)
	}
	return nil
}

// SetDevelopmentMode persists the flag and always reloads from the
// service, since the flag selects which version stream is served.
func (c *Controller) SetDevelopmentMode(ctx context.Context, enabled bool) error {
	if err := c.store.SetDevelopmentMode(ctx, enabled); err != nil {
		return err
	}
	c.mu.Lock()
	c.state.IsDevelopment = enabled
	c.mu.Unlock()
	c.publish()

	log.Infow("menu development mode changed", "enabled", enabled)
	return c.LoadMenuConfig(ctx, true)
}

// SetEnvironment switches environment and reloads.
func (c *Controller) SetEnvironment(ctx context.Context, env model.Environment) error {
	if !env.Valid() {
		return &model.ValidationError{Field: "environment", Reason: "must be one of development, staging, production"}
	}
	c.mu.Lock()
	changed := c.state.Environment != env
	c.state.Environment = env
	c.mu.Unlock()
	if !changed {
		return nil
	}
	c.publish()
	return c.LoadMenuConfig(ctx, false)
}

// UpdateMenuVersion asks the service to cut the next version for the
// current environment and reloads on success. Failures are logged and
// reported as false.
func (c *Controller) UpdateMenuVersion(ctx context.Context, increment model.Increment, changelog string) bool {
	env := c.State().Environment
	v, err := c.api.AutoCreateMenuVersion(ctx, env, increment, changelog)
	if err != nil {
		log.Errorw("failed to create menu version", "environment", env, "increment", increment, "error", err)
		return false
	}
	log.Infow("menu version created", "environment", env, "version", v.Version)

	if err := c.LoadMenuConfig(ctx, true); err != nil {
		log.Warnw("reload after version bump failed", "version", v.Version, "error", err)
	}
	return true
}

// ClearCache wipes the persisted store and resets the served menu.
// Loads still in flight are discarded.
func (c *Controller) ClearCache(ctx context.Context) error {
	if err := c.store.ClearCache(ctx); err != nil {
		log.Errorw("failed to clear menu cache", "error", err)
		return err
	}

	c.mu.Lock()
	c.seq++
	c.setStatus(StatusIdle)
	c.state.MenuData = nil
	c.state.CurrentVersion = ""
	c.state.HasUpdate = false
	c.state.LatestVersion = ""
	c.state.FromCache = false
	c.state.Error = ""
	c.state.LastUpdated = time.Time{}
	c.mu.Unlock()

	metrics.UpdateAvailable.Set(0)
	c.publish()
	c.rearm()
	return nil
}
