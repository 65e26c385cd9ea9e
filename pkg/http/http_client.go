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

package http

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/menusync/pkg/log"
	"github.com/go-resty/resty/v2"
)

type ClientConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Debug     bool
}

// NewClient returns a resty client with logging routed through pkg/log
// and JSON handled by sonic.
// It never retries; callers decide whether an operation is safe to repeat.
func NewClient(cfg ClientConfig) *resty.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetLogger(log.RestyLogger{}).
		SetDebug(cfg.Debug).
		SetRetryCount(0).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal).
		SetHeader("Accept", "application/json")
	if cfg.UserAgent != "" {
		c.SetHeader("User-Agent", cfg.UserAgent)
	}
	return c
}
