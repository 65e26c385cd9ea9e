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
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-arcade/menusync/internal/menu/model"
	"github.com/go-arcade/menusync/pkg/log"
	"github.com/go-arcade/menusync/pkg/statemachine"
	"golang.org/x/sync/singleflight"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

const DefaultUpdateCheckInterval = 5 * time.Minute

// API is the slice of the menu service the controller depends on.
type API interface {
	GetMenuConfig(ctx context.Context, env model.Environment, developmentMode bool) (*model.MenuConfig, error)
	CheckVersion(ctx context.Context, current string, env model.Environment) (*model.VersionCheck, error)
	AutoCreateMenuVersion(ctx context.Context, env model.Environment, increment model.Increment, changelog string) (*model.Version, error)
}

// Store is the persisted cache the controller reads through.
type Store interface {
	CacheMenuData(ctx context.Context, entry model.CacheEntry) error
	GetCachedMenuData(ctx context.Context, env model.Environment, version string) *model.CacheEntry
	LatestCachedMenuData(ctx context.Context, env model.Environment, development bool) *model.CacheEntry
	GetVersionInfo(ctx context.Context) *model.VersionInfo
	UpdateVersionInfo(ctx context.Context, patch model.VersionInfoPatch) (model.VersionInfo, error)
	SetDevelopmentMode(ctx context.Context, enabled bool) error
	GetDevelopmentMode(ctx context.Context) bool
	ClearCache(ctx context.Context) error
}

// Scheduler runs named periodic jobs. Registering a name again replaces
// the previous job.
type Scheduler interface {
	Every(name string, interval time.Duration, fn func()) error
	Remove(name string) bool
}

type Config struct {
	Environment         model.Environment `mapstructure:"environment"`
	DevelopmentMode     bool              `mapstructure:"developmentMode"`
	AutoCheckUpdates    bool              `mapstructure:"autoCheckUpdates"`
	UpdateCheckInterval time.Duration     `mapstructure:"updateCheckInterval"`
	MaxCacheAge         time.Duration     `mapstructure:"maxCacheAge"`
}

func (c *Config) SetDefaults() {
	if c.Environment == "" {
		c.Environment = model.EnvProduction
	}
	if c.UpdateCheckInterval <= 0 {
		c.UpdateCheckInterval = DefaultUpdateCheckInterval
	}
	if c.MaxCacheAge <= 0 {
		c.MaxCacheAge = 7 * 24 * time.Hour
	}
}

// State is a snapshot of what the controller currently serves. MenuData
// is shared between snapshots and must not be modified.
type State struct {
	Status         Status            `json:"status"`
	CurrentVersion string            `json:"current_version,omitempty"`
	Environment    model.Environment `json:"environment"`
	IsDevelopment  bool              `json:"is_development"`
	HasUpdate      bool              `json:"has_update"`
	LatestVersion  string            `json:"latest_version,omitempty"`
	Error          string            `json:"error,omitempty"`
	MenuData       *model.MenuData   `json:"menu_data,omitempty"`
	FromCache      bool              `json:"from_cache"`
	LastUpdated    time.Time         `json:"last_updated"`
}

type Option func(*Controller)

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// Controller reconciles the persisted cache, the menu service and the
// development-mode override into a single State.
type Controller struct {
	api   API
	store Store
	sched Scheduler
	cfg   Config
	now   func() time.Time

	fsm *statemachine.StateMachine[Status]

	mu    sync.RWMutex
	state State
	seq   uint64

	persistMu sync.Mutex

	baseCtx context.Context
	cancel  context.CancelFunc
	closed  bool

	pollMu  sync.Mutex
	polling bool
	pollKey string

	checks   singleflight.Group
	checking atomic.Bool

	subMu sync.Mutex
	subs  map[chan State]struct{}
}

func New(api API, store Store, sched Scheduler, cfg Config, opts ...Option) *Controller {
	cfg.SetDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		api:   api,
		store: store,
		sched: sched,
		cfg:   cfg,
		now:   time.Now,
		fsm: statemachine.NewWithState(StatusIdle).
			Allow(StatusIdle, StatusLoading).
			Allow(StatusLoading, StatusLoading, StatusReady, StatusError, StatusIdle).
			Allow(StatusReady, StatusLoading, StatusIdle).
			Allow(StatusError, StatusLoading, StatusIdle),
		state: State{
			Status:        StatusIdle,
			Environment:   cfg.Environment,
			IsDevelopment: cfg.DevelopmentMode,
		},
		baseCtx: ctx,
		cancel:  cancel,
		subs:    make(map[chan State]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// setStatus moves the machine and mirrors it into state. c.mu must be held.
func (c *Controller) setStatus(to Status) {
	if c.fsm.Is(to) && to != StatusLoading {
		return
	}
	if err := c.fsm.TransitionTo(to); err != nil {
		log.Warnw("menu controller transition rejected", "to", to, "error", err)
		return
	}
	c.state.Status = to
}

// Subscribe returns a channel that always holds the most recent snapshot
// not yet received, and a function that cancels the subscription.
func (c *Controller) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)
	c.subMu.Lock()
	c.subs[ch] = struct{}{}
	ch <- c.State()
	c.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.subMu.Lock()
			if _, ok := c.subs[ch]; ok {
				delete(c.subs, ch)
				close(ch)
			}
			c.subMu.Unlock()
		})
	}
}

func (c *Controller) publish() {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	snap := c.State()
	for ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

// Init restores the persisted development flag and version bookkeeping.
func (c *Controller) Init(ctx context.Context) {
	dev := c.store.GetDevelopmentMode(ctx)
	info := c.store.GetVersionInfo(ctx)

	c.mu.Lock()
	c.state.IsDevelopment = c.cfg.DevelopmentMode || dev
	if info != nil && info.Environment == c.state.Environment {
		c.state.CurrentVersion = info.CurrentVersion
		c.state.HasUpdate = info.HasUpdate
		c.state.LatestVersion = info.LatestVersion
		if info.LastUpdated > 0 {
			c.state.LastUpdated = time.UnixMilli(info.LastUpdated)
		}
	}
	c.mu.Unlock()

	log.Infow("menu controller initialised",
		"environment", c.cfg.Environment,
		"development", c.State().IsDevelopment,
		"version", c.State().CurrentVersion,
	)
	c.publish()
}

// Close stops polling, cancels background work and closes subscriptions.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.stopPolling()

	c.subMu.Lock()
	for ch := range c.subs {
		delete(c.subs, ch)
		close(ch)
	}
	c.subMu.Unlock()
}
