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

package service

import (
	"github.com/go-arcade/menusync/internal/agent/config"
	"github.com/go-arcade/menusync/internal/menu/client"
	"github.com/go-arcade/menusync/internal/menu/controller"
	"github.com/go-arcade/menusync/internal/menu/navigation"
	"github.com/go-arcade/menusync/internal/menu/storage"
	"github.com/go-arcade/menusync/pkg/cache"
	"github.com/go-arcade/menusync/pkg/cron"
	"github.com/go-arcade/menusync/pkg/log"
	"github.com/google/wire"
)

// ProviderSet builds the menu sync pipeline: store, client, scheduler,
// controller and the navigation view fed by it.
var ProviderSet = wire.NewSet(
	ProvideStore,
	ProvideClient,
	ProvideScheduler,
	ProvideController,
	ProvideNavigation,
)

func ProvideStore(kv cache.ICache, agentConf config.AgentConfig) *storage.Store {
	return storage.New(kv,
		storage.WithPrefix(agentConf.Store.Prefix),
		storage.WithKeepVersions(agentConf.Menu.KeepVersions),
	)
}

func ProvideClient(cfg client.Config) *client.Client {
	c := client.New(cfg)
	log.Infow("menu client created", "baseURL", c.BaseURL())
	return c
}

func ProvideScheduler() (*cron.Scheduler, func()) {
	s := cron.New()
	return s, s.Stop
}

func ProvideController(
	api *client.Client,
	store *storage.Store,
	sched *cron.Scheduler,
	cfg controller.Config,
) (*controller.Controller, func()) {
	c := controller.New(api, store, sched, cfg)
	return c, c.Close
}

func ProvideNavigation() *navigation.Service {
	return navigation.NewService()
}
