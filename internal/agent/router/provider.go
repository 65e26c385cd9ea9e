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

package router

import (
	"github.com/go-arcade/menusync/internal/agent/config"
	"github.com/go-arcade/menusync/internal/menu/controller"
	"github.com/go-arcade/menusync/internal/menu/navigation"
	"github.com/go-arcade/menusync/pkg/http"
	"github.com/go-arcade/menusync/pkg/shutdown"
	"github.com/gofiber/fiber/v2"
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	ProvideRouter,
	ProvideFiberApp,
)

func ProvideRouter(
	httpConf http.Http,
	ctrl *controller.Controller,
	nav *navigation.Service,
	sm *shutdown.Manager,
	agentConf config.AgentConfig,
) *Router {
	rt := NewRouter(httpConf, ctrl, nav, agentConf.Menu.MaxTreeDepth)
	rt.Shutdown = sm
	return rt
}

func ProvideFiberApp(rt *Router) *fiber.App {
	return rt.Router()
}
