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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-arcade/menusync/internal/menu/model"
	"github.com/go-arcade/menusync/pkg/cache"
	"github.com/go-arcade/menusync/pkg/http/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConf(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "menu-agent.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_File(t *testing.T) {
	path := writeConf(t, `
[agent]
installID = "install-1"
appVersion = "2.3.0"

[api]
baseURL = "https://menu.example.com"
apiKey = "secret"

[menu]
environment = "staging"
developmentMode = true
updateCheckInterval = "1m"
keepVersions = 3

[store]
driver = "local"
path = "/tmp/menusync.cache"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://menu.example.com", cfg.Api.BaseURL)
	assert.Equal(t, "staging", cfg.Menu.Environment)
	assert.Equal(t, time.Minute, cfg.Menu.UpdateCheckInterval)
	assert.Equal(t, 3, cfg.Menu.KeepVersions)
	assert.Equal(t, 168*time.Hour, cfg.Menu.MaxCacheAge)
	assert.Equal(t, "install-1", cfg.Api.ClientID)

	claims, err := jwt.ParseToken(cfg.Api.Token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "install-1", claims.ClientID)

	cc := cfg.Menu.Controller()
	assert.Equal(t, model.EnvStaging, cc.Environment)
	assert.True(t, cc.DevelopmentMode)

	client := cfg.Client()
	assert.Equal(t, "2.3.0", client.AppVersion)
	assert.Equal(t, "install-1", client.InstallID)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(BaseURLEnv, "")
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.Api.BaseURL)
	assert.Equal(t, "production", cfg.Menu.Environment)
	assert.True(t, cfg.Menu.AutoCheckUpdates)
	assert.Equal(t, 5*time.Minute, cfg.Menu.UpdateCheckInterval)
	assert.Equal(t, 10, cfg.Menu.KeepVersions)
	assert.Equal(t, cache.DriverLocal, cfg.Store.Driver)
	assert.NotEmpty(t, cfg.Agent.InstallID)
	assert.Empty(t, cfg.Api.Token)
}

func TestLoad_BaseURLFromEnv(t *testing.T) {
	t.Setenv(BaseURLEnv, "https://env.example.com")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.Api.BaseURL)
}

func TestLoad_PrefixedEnvOverride(t *testing.T) {
	t.Setenv("MENUSYNC_MENU_ENVIRONMENT", "development")
	path := writeConf(t, "[menu]\nenvironment = \"staging\"\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Menu.Environment)
}

func TestLoad_ExplicitTokenWins(t *testing.T) {
	path := writeConf(t, "[api]\ntoken = \"abc\"\napiKey = \"secret\"\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", cfg.Api.Token)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown environment", "[menu]\nenvironment = \"qa\"\n"},
		{"negative interval", "[menu]\nupdateCheckInterval = \"-1m\"\n"},
		{"negative keep", "[menu]\nkeepVersions = -1\n"},
		{"bad driver", "[store]\ndriver = \"s3\"\n"},
		{"redis without address", "[store]\ndriver = \"redis\"\n"},
		{"bad trace protocol", "[trace]\nprotocol = \"udp\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConf(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestApply_NotifiesOnlyValidChanges(t *testing.T) {
	var got []AgentConfig
	OnReload(func(c AgentConfig) { got = append(got, c) })
	t.Cleanup(func() {
		reloadMu.Lock()
		listeners = nil
		reloadMu.Unlock()
	})

	good := AgentConfig{Menu: MenuConfig{Environment: "production", UpdateCheckInterval: time.Minute}}
	apply(good, time.Now())
	apply(AgentConfig{Menu: MenuConfig{Environment: "nowhere"}}, time.Now())

	require.Len(t, got, 1)
	assert.Equal(t, time.Minute, got[0].Menu.UpdateCheckInterval)
}

func TestProvideTraceConfig_UsesAppVersion(t *testing.T) {
	tc := ProvideTraceConfig(AgentConfig{Agent: AgentInfo{AppVersion: "4.0.0"}})
	assert.Equal(t, "4.0.0", tc.ServiceVersion)
}
