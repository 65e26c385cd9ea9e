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
	"github.com/go-arcade/menusync/internal/menu/client"
	"github.com/go-arcade/menusync/internal/menu/controller"
	"github.com/go-arcade/menusync/pkg/cache"
	"github.com/go-arcade/menusync/pkg/http"
	"github.com/go-arcade/menusync/pkg/log"
	"github.com/go-arcade/menusync/pkg/metrics"
	"github.com/go-arcade/menusync/pkg/pprof"
	"github.com/go-arcade/menusync/pkg/trace"
	"github.com/google/wire"
)

// ProviderSet splits AgentConfig into the per-package configs.
var ProviderSet = wire.NewSet(
	ProvideAgentConfig,
	ProvideHttpConfig,
	ProvideLogConfig,
	ProvideStoreConfig,
	ProvideClientConfig,
	ProvideControllerConfig,
	ProvideMetricsConfig,
	ProvidePprofConfig,
	ProvideTraceConfig,
)

func ProvideAgentConfig(configPath string) (AgentConfig, error) {
	return Load(configPath)
}

func ProvideHttpConfig(agentConf AgentConfig) http.Http {
	httpConfig := agentConf.Http
	httpConfig.SetDefaults()
	return httpConfig
}

func ProvideLogConfig(agentConf AgentConfig) *log.Conf {
	return &agentConf.Log
}

func ProvideStoreConfig(agentConf AgentConfig) cache.Conf {
	return agentConf.Store
}

func ProvideClientConfig(agentConf AgentConfig) client.Config {
	return agentConf.Client()
}

func ProvideControllerConfig(agentConf AgentConfig) controller.Config {
	return agentConf.Menu.Controller()
}

func ProvideMetricsConfig(agentConf AgentConfig) metrics.MetricsConfig {
	return agentConf.Metrics
}

func ProvidePprofConfig(agentConf AgentConfig) pprof.PprofConfig {
	return agentConf.Pprof
}

func ProvideTraceConfig(agentConf AgentConfig) trace.Conf {
	tc := agentConf.Trace
	if tc.ServiceVersion == "" {
		tc.ServiceVersion = agentConf.Agent.AppVersion
	}
	return tc
}
