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
	"time"

	"github.com/go-arcade/menusync/pkg/log"
	"github.com/go-arcade/menusync/pkg/metrics"
)

func pollJobName(env, version string) string {
	return "menu-update-check:" + env + ":" + version
}

// StartPolling arms the periodic update check when AutoCheckUpdates is
// set. The job is keyed by environment and current version and re-armed
// whenever either changes.
func (c *Controller) StartPolling() {
	if !c.cfg.AutoCheckUpdates {
		return
	}
	c.pollMu.Lock()
	c.polling = true
	c.pollMu.Unlock()
	c.rearm()
}

// SetUpdateCheckInterval changes the polling period and re-arms the job.
func (c *Controller) SetUpdateCheckInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	c.pollMu.Lock()
	c.cfg.UpdateCheckInterval = d
	if c.pollKey != "" {
		c.sched.Remove(c.pollKey)
		c.pollKey = ""
	}
	c.pollMu.Unlock()
	c.rearm()
}

func (c *Controller) rearm() {
	c.pollMu.Lock()
	defer c.pollMu.Unlock()

	c.mu.RLock()
	closed := c.closed
	env, version := c.state.Environment, c.state.CurrentVersion
	c.mu.RUnlock()

	key := ""
	if c.polling && !closed && version != "" {
		key = pollJobName(string(env), version)
	}
	if key == c.pollKey {
		return
	}
	if c.pollKey != "" {
		c.sched.Remove(c.pollKey)
	}
	c.pollKey = key
	if key == "" {
		return
	}

	interval := c.cfg.UpdateCheckInterval
	if err := c.sched.Every(key, interval, c.pollTick); err != nil {
		log.Errorw("failed to schedule menu update check", "job", key, "error", err)
		c.pollKey = ""
		return
	}
	log.Debugw("menu update check scheduled", "job", key, "interval", interval)
}

func (c *Controller) stopPolling() {
	c.pollMu.Lock()
	defer c.pollMu.Unlock()
	c.polling = false
	if c.pollKey != "" {
		c.sched.Remove(c.pollKey)
		c.pollKey = ""
	}
}

// pollTick is a no-op while another check is running.
func (c *Controller) pollTick() {
	if c.checking.Load() {
		metrics.UpdateChecksTotal.WithLabelValues("skipped").Inc()
		log.Debugw("skipping menu update check, previous check still running")
		return
	}
	c.pollMu.Lock()
	interval := c.cfg.UpdateCheckInterval
	c.pollMu.Unlock()

	ctx, cancel := context.WithTimeout(c.baseCtx, interval)
	defer cancel()
	_ = c.CheckForUpdates(ctx)
}
