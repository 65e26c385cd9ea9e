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
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/go-arcade/menusync/pkg/log"
	"github.com/spf13/viper"
)

type Options struct {
	// Path to a TOML file. Empty means defaults and environment only.
	Path string
	// EnvPrefix maps MENUSYNC_MENU_ENVIRONMENT to menu.environment.
	EnvPrefix string
	Defaults  map[string]any
	// OnChange runs after the file changed on disk. Nil disables watching.
	OnChange func(v *viper.Viper)
}

// Load reads the configuration into out and returns the viper instance so
// callers can re-unmarshal on change.
func Load(opts Options, out any) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if opts.EnvPrefix != "" {
		v.SetEnvPrefix(opts.EnvPrefix)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for k, val := range opts.Defaults {
		v.SetDefault(k, val)
	}

	if opts.Path != "" {
		v.SetConfigFile(opts.Path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read configuration file: %w", err)
		}
	}

	if err := v.Unmarshal(out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration file: %w", err)
	}

	if opts.Path != "" && opts.OnChange != nil {
		v.OnConfigChange(func(e fsnotify.Event) {
			log.Infow("configuration changed", "file", e.Name, "op", e.Op.String())
			opts.OnChange(v)
		})
		v.WatchConfig()
	}

	log.Debugw("configuration loaded", "path", opts.Path)
	return v, nil
}
