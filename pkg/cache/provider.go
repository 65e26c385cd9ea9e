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
	"fmt"
	"time"

	"github.com/go-arcade/menusync/pkg/log"
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(ProvideCache)

const (
	DriverLocal  = "local"
	DriverRedis  = "redis"
	DriverHybrid = "hybrid"
)

type Conf struct {
	Driver   string        `mapstructure:"driver"`
	Path     string        `mapstructure:"path"`
	MaxBytes int           `mapstructure:"maxBytes"`
	Prefix   string        `mapstructure:"prefix"`
	LocalTTL time.Duration `mapstructure:"localTTL"`
	Redis    Redis         `mapstructure:"redis"`
}

func (c *Conf) Validate() error {
	switch c.Driver {
	case DriverLocal, DriverRedis, DriverHybrid:
	case "":
		c.Driver = DriverLocal
	default:
		return fmt.Errorf("unknown store driver %q", c.Driver)
	}
	if c.Driver != DriverLocal && c.Redis.Address == "" {
		return fmt.Errorf("store driver %q requires redis.address", c.Driver)
	}
	return nil
}

// ProvideCache builds the backend selected by conf.Driver. The cleanup
// function flushes local snapshots and closes redis connections.
func ProvideCache(conf Conf) (ICache, func(), error) {
	if err := conf.Validate(); err != nil {
		return nil, nil, err
	}

	var local *FastCache
	if conf.Driver != DriverRedis {
		fc, err := NewFastCache(FastCacheConfig{MaxBytes: conf.MaxBytes, Path: conf.Path})
		if err != nil {
			return nil, nil, err
		}
		local = fc
	}

	if conf.Driver == DriverLocal {
		return local, func() { flush(local) }, nil
	}

	client, err := NewRedis(conf.Redis)
	if err != nil {
		return nil, nil, err
	}
	remote := NewRedisCache(client)
	if conf.Driver == DriverRedis {
		return remote, func() { _ = remote.Close() }, nil
	}

	hybrid := NewHybridCache(local, remote, conf.LocalTTL)
	return hybrid, func() {
		flush(hybrid)
		_ = remote.Close()
	}, nil
}

func flush(f Flusher) {
	if err := f.Flush(); err != nil {
		log.Errorw("failed to flush cache", "error", err)
	}
}
