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

//go:build wireinject
// +build wireinject

package main

import (
	"github.com/go-arcade/menusync/internal/agent/bootstrap"
	"github.com/go-arcade/menusync/internal/agent/config"
	"github.com/go-arcade/menusync/internal/agent/router"
	"github.com/go-arcade/menusync/internal/agent/service"
	"github.com/go-arcade/menusync/pkg/cache"
	"github.com/go-arcade/menusync/pkg/http"
	"github.com/go-arcade/menusync/pkg/log"
	"github.com/go-arcade/menusync/pkg/metrics"
	"github.com/go-arcade/menusync/pkg/pprof"
	"github.com/go-arcade/menusync/pkg/shutdown"
	"github.com/go-arcade/menusync/pkg/trace"
	"github.com/google/wire"
)

func initAgent(configPath string) (*bootstrap.Agent, func(), error) {
	panic(wire.Build(
		config.ProviderSet,
		log.ProviderSet,
		trace.ProviderSet,
		cache.ProviderSet,
		service.ProviderSet,
		metrics.ProviderSet,
		pprof.ProviderSet,
		shutdown.ProviderSet,
		router.ProviderSet,
		http.ProviderSet,
		bootstrap.NewAgent,
	))
}
