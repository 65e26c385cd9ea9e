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

package config

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-arcade/menusync/internal/menu/client"
	"github.com/go-arcade/menusync/internal/menu/controller"
	"github.com/go-arcade/menusync/internal/menu/model"
	"github.com/go-arcade/menusync/internal/menu/storage"
	"github.com/go-arcade/menusync/pkg/cache"
	"github.com/go-arcade/menusync/pkg/conf"
	"github.com/go-arcade/menusync/pkg/http"
	"github.com/go-arcade/menusync/pkg/http/jwt"
	"github.com/go-arcade/menusync/pkg/id"
	"github.com/go-arcade/menusync/pkg/log"
	"github.com/go-arcade/menusync/pkg/metrics"
	"github.com/go-arcade/menusync/pkg/pprof"
	"github.com/go-arcade/menusync/pkg/trace"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "MENUSYNC"
	// BaseURLEnv is honoured when api.baseURL is not configured.
	BaseURLEnv = "MENU_API_BASE_URL"
)

// AgentConfig holds all configuration settings
type AgentConfig struct {
	Agent   AgentInfo             `mapstructure:"agent"`
	Log     log.Conf              `mapstructure:"log"`
	Api     ApiConfig             `mapstructure:"api"`
	Menu    MenuConfig            `mapstructure:"menu"`
	Store   cache.Conf            `mapstructure:"store"`
	Http    http.Http             `mapstructure:"http"`
	Metrics metrics.MetricsConfig `mapstructure:"metrics"`
	Pprof   pprof.PprofConfig     `mapstructure:"pprof"`
	Trace   trace.Conf            `mapstructure:"trace"`
}

// AgentInfo identifies this install towards the menu service.
type AgentInfo struct {
	InstallID  string            `mapstructure:"installID"`
	AppVersion string            `mapstructure:"appVersion"`
	Labels     map[string]string `mapstructure:"labels"`
}

type ApiConfig struct {
	BaseURL  string        `mapstructure:"baseURL"`
	Timeout  time.Duration `mapstructure:"timeout"`
	APIKey   string        `mapstructure:"apiKey"`
	ClientID string        `mapstructure:"clientID"`
	// Token wins over APIKey when both are set.
	Token string `mapstructure:"token"`
	Debug bool   `mapstructure:"debug"`
}

type MenuConfig struct {
	Environment         string        `mapstructure:"environment"`
	DevelopmentMode     bool          `mapstructure:"developmentMode"`
	AutoCheckUpdates    bool          `mapstructure:"autoCheckUpdates"`
	UpdateCheckInterval time.Duration `mapstructure:"updateCheckInterval"`
	MaxCacheAge         time.Duration `mapstructure:"maxCacheAge"`
	KeepVersions        int           `mapstructure:"keepVersions"`
	MaxTreeDepth        int           `mapstructure:"maxTreeDepth"`
}

func defaults() map[string]any {
	base := os.Getenv(BaseURLEnv)
	if base == "" {
		base = client.DefaultBaseURL
	}
	return map[string]any{
		"api.baseURL":              base,
		"api.timeout":              30 * time.Second,
		"menu.environment":         string(model.EnvProduction),
		"menu.autoCheckUpdates":    true,
		"menu.updateCheckInterval": controller.DefaultUpdateCheckInterval,
		"menu.maxCacheAge":         storage.DefaultMaxCacheAge,
		"menu.keepVersions":        storage.DefaultKeepVersions,
		"menu.maxTreeDepth":        model.DefaultMaxTreeDepth,
		"store.driver":             cache.DriverLocal,
		"log.output":               "stdout",
		"log.level":                "INFO",
	}
}

var (
	reloadMu  sync.Mutex
	listeners []func(AgentConfig)
)

// OnReload registers fn to run with the new configuration whenever the
// file changes on disk and the result is valid.
func OnReload(fn func(AgentConfig)) {
	reloadMu.Lock()
	defer reloadMu.Unlock()
	listeners = append(listeners, fn)
}

// NewConf loads path or panics, like every other binary entry point.
func NewConf(path string) AgentConfig {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("load config file error: %s", err))
	}
	return cfg
}

// Load reads path (may be empty for env-only configuration), applies
// defaults, derives the api token and validates the result.
func Load(path string) (AgentConfig, error) {
	var cfg AgentConfig
	_, err := conf.Load(conf.Options{
		Path:      path,
		EnvPrefix: EnvPrefix,
		Defaults:  defaults(),
		OnChange:  reload,
	}, &cfg)
	if err != nil {
		return cfg, err
	}

	if err := cfg.finalize(time.Now()); err != nil {
		return cfg, err
	}

	log.Infow("config file loaded",
		"path", path,
		"api.baseURL", cfg.Api.BaseURL,
		"menu.environment", cfg.Menu.Environment,
		"store.driver", cfg.Store.Driver,
	)
	return cfg, nil
}

func reload(v *viper.Viper) {
	var next AgentConfig
	if err := v.Unmarshal(&next); err != nil {
		log.Errorw("failed to unmarshal configuration file", "error", err)
		return
	}
	apply(next, time.Now())
}

func apply(next AgentConfig, now time.Time) {
	if err := next.finalize(now); err != nil {
		log.Errorw("ignoring invalid configuration change", "error", err)
		return
	}
	log.SetLevel(next.Log.Level)

	reloadMu.Lock()
	fns := append([]func(AgentConfig){}, listeners...)
	reloadMu.Unlock()
	for _, fn := range fns {
		fn(next)
	}
}

func (c *AgentConfig) finalize(now time.Time) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Agent.InstallID == "" {
		c.Agent.InstallID = id.GetULID()
	}
	if c.Api.ClientID == "" {
		c.Api.ClientID = c.Agent.InstallID
	}
	if err := c.generateTokenFromAPIKey(now); err != nil {
		return fmt.Errorf("failed to generate token from apiKey: %w", err)
	}
	c.Http.SetDefaults()
	c.Pprof.SetDefaults()
	return nil
}

func (c *AgentConfig) Validate() error {
	var errs []error
	if _, err := model.ParseEnvironment(c.Menu.Environment); err != nil {
		errs = append(errs, fmt.Errorf("menu.environment %q: %w", c.Menu.Environment, err))
	}
	if c.Menu.UpdateCheckInterval < 0 {
		errs = append(errs, errors.New("menu.updateCheckInterval must be positive"))
	}
	if c.Menu.MaxCacheAge < 0 {
		errs = append(errs, errors.New("menu.maxCacheAge must be positive"))
	}
	if c.Menu.KeepVersions < 0 {
		errs = append(errs, errors.New("menu.keepVersions must not be negative"))
	}
	if c.Menu.MaxTreeDepth < 0 {
		errs = append(errs, errors.New("menu.maxTreeDepth must not be negative"))
	}
	if c.Api.Timeout < 0 {
		errs = append(errs, errors.New("api.timeout must not be negative"))
	}
	if err := c.Store.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Trace.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c *AgentConfig) generateTokenFromAPIKey(now time.Time) error {
	if c.Api.Token != "" || c.Api.APIKey == "" {
		return nil
	}
	token, err := jwt.PermanentToken(c.Api.APIKey, c.Api.ClientID, now)
	if err != nil {
		return err
	}
	c.Api.Token = token
	log.Infow("generated api token from apiKey", "client.id", c.Api.ClientID)
	return nil
}

// Controller returns the controller view of the menu section.
func (m MenuConfig) Controller() controller.Config {
	cfg := controller.Config{
		Environment:         model.Environment(m.Environment),
		DevelopmentMode:     m.DevelopmentMode,
		AutoCheckUpdates:    m.AutoCheckUpdates,
		UpdateCheckInterval: m.UpdateCheckInterval,
		MaxCacheAge:         m.MaxCacheAge,
	}
	cfg.SetDefaults()
	return cfg
}

// Client returns the menu client settings for this install.
func (c AgentConfig) Client() client.Config {
	return client.Config{
		BaseURL:    c.Api.BaseURL,
		Timeout:    c.Api.Timeout,
		Token:      c.Api.Token,
		AppVersion: c.Agent.AppVersion,
		InstallID:  c.Agent.InstallID,
		Debug:      c.Api.Debug,
	}
}
