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

package conf

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConf struct {
	Menu struct {
		Environment string        `mapstructure:"environment"`
		Interval    time.Duration `mapstructure:"interval"`
		Keep        int           `mapstructure:"keep"`
	} `mapstructure:"menu"`
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoad_FileDefaultsEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[menu]\nenvironment = \"staging\"\ninterval = \"2m\"\n")
	t.Setenv("MSTEST_MENU_ENVIRONMENT", "production")

	var c testConf
	_, err := Load(Options{
		Path:      path,
		EnvPrefix: "MSTEST",
		Defaults:  map[string]any{"menu.keep": 10},
	}, &c)
	require.NoError(t, err)

	assert.Equal(t, "production", c.Menu.Environment)
	assert.Equal(t, 2*time.Minute, c.Menu.Interval)
	assert.Equal(t, 10, c.Menu.Keep)
}

func TestLoad_MissingFile(t *testing.T) {
	var c testConf
	_, err := Load(Options{Path: filepath.Join(t.TempDir(), "nope.toml")}, &c)
	assert.Error(t, err)
}

func TestLoad_Watch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[menu]\nkeep = 1\n")

	var keep atomic.Int64
	var c testConf
	_, err := Load(Options{
		Path: path,
		OnChange: func(v *viper.Viper) {
			keep.Store(v.GetInt64("menu.keep"))
		},
	}, &c)
	require.NoError(t, err)

	writeFile(t, path, "[menu]\nkeep = 7\n")
	assert.Eventually(t, func() bool { return keep.Load() == 7 }, 5*time.Second, 50*time.Millisecond)
}
