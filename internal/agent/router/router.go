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
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/menusync/internal/menu/controller"
	"github.com/go-arcade/menusync/internal/menu/model"
	"github.com/go-arcade/menusync/internal/menu/navigation"
	"github.com/go-arcade/menusync/pkg/http"
	"github.com/go-arcade/menusync/pkg/http/middleware"
	"github.com/go-arcade/menusync/pkg/shutdown"
	"github.com/go-arcade/menusync/pkg/trace"
	"github.com/go-arcade/menusync/pkg/version"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
)

// MenuController is the part of the controller the status server drives.
type MenuController interface {
	State() controller.State
	RefreshMenu(ctx context.Context) error
	CheckForUpdates(ctx context.Context) error
	SetDevelopmentMode(ctx context.Context, enabled bool) error
}

type Router struct {
	Http         http.Http
	Controller   MenuController
	Navigation   *navigation.Service
	MaxTreeDepth int
	// Shutdown, when set, turns /health into 503 while the agent drains.
	Shutdown *shutdown.Manager
}

func NewRouter(
	httpConf http.Http,
	ctrl MenuController,
	nav *navigation.Service,
	maxTreeDepth int,
) *Router {
	if maxTreeDepth <= 0 {
		maxTreeDepth = model.DefaultMaxTreeDepth
	}
	return &Router{
		Http:         httpConf,
		Controller:   ctrl,
		Navigation:   nav,
		MaxTreeDepth: maxTreeDepth,
	}
}

func (rt *Router) Router() *fiber.App {
	rt.Http.SetDefaults()

	app := fiber.New(fiber.Config{
		AppName:               "menusync agent",
		DisableStartupMessage: true,
		ReadTimeout:           time.Duration(rt.Http.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(rt.Http.WriteTimeout) * time.Second,
		IdleTimeout:           time.Duration(rt.Http.IdleTimeout) * time.Second,
		BodyLimit:             rt.Http.BodyLimit,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
	})

	app.Use(
		fiberrecover.New(),
		cors.New(),
		middleware.RequestID(),
		trace.FiberMiddleware(),
		middleware.AccessLog(rt.Http.AccessLog),
	)

	app.Get("/health", func(c *fiber.Ctx) error {
		if rt.Shutdown != nil && rt.Shutdown.IsShuttingDown() {
			return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
		}
		return c.SendString("ok")
	})

	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	menu := app.Group("/menu")
	menu.Get("/", rt.state)
	menu.Get("/tree", rt.tree)
	menu.Get("/tabs", rt.tabs)
	menu.Get("/screens/:screen", rt.screen)
	menu.Get("/resolve/:ref", rt.resolve)
	menu.Post("/refresh", rt.refresh)
	menu.Post("/check", rt.check)
	menu.Put("/development", rt.development)

	// must stay last
	app.Use(func(c *fiber.Ctx) error {
		return http.WithRepErr(c, fiber.StatusNotFound, "request path not found")
	})

	return app
}

func (rt *Router) state(c *fiber.Ctx) error {
	return http.WithRepJSON(c, rt.Controller.State())
}

func (rt *Router) tree(c *fiber.Ctx) error {
	data := rt.Controller.State().MenuData
	if data == nil {
		return http.WithRepErr(c, fiber.StatusServiceUnavailable, "menu not loaded")
	}
	return http.WithRepJSON(c, data.Active().Tree(rt.MaxTreeDepth))
}

func (rt *Router) tabs(c *fiber.Ctx) error {
	return http.WithRepJSON(c, rt.Navigation.TabItems())
}

func (rt *Router) screen(c *fiber.Ctx) error {
	return http.WithRepJSON(c, rt.Navigation.ScreenItems(c.Params("screen")))
}

func (rt *Router) resolve(c *fiber.Ctx) error {
	route, err := rt.Navigation.Resolve(c.Params("ref"), navigation.Viewer{
		Authenticated: c.QueryBool("auth"),
		Premium:       c.QueryBool("premium"),
	})
	if errors.Is(err, navigation.ErrItemNotFound) {
		return http.WithRepErr(c, fiber.StatusNotFound, err.Error())
	}
	if err != nil {
		return http.WithRepErr(c, fiber.StatusUnprocessableEntity, err.Error())
	}
	return http.WithRepJSON(c, route)
}

func (rt *Router) refresh(c *fiber.Ctx) error {
	if err := rt.Controller.RefreshMenu(c.UserContext()); err != nil {
		return http.WithRepErr(c, fiber.StatusBadGateway, err.Error())
	}
	return http.WithRepJSON(c, rt.Controller.State())
}

func (rt *Router) check(c *fiber.Ctx) error {
	if err := rt.Controller.CheckForUpdates(c.UserContext()); err != nil {
		return http.WithRepErr(c, fiber.StatusBadGateway, err.Error())
	}
	s := rt.Controller.State()
	return http.WithRepJSON(c, fiber.Map{
		"has_update":      s.HasUpdate,
		"current_version": s.CurrentVersion,
		"latest_version":  s.LatestVersion,
	})
}

type developmentRequest struct {
	Enabled bool `json:"enabled"`
}

func (rt *Router) development(c *fiber.Ctx) error {
	var req developmentRequest
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErr(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := rt.Controller.SetDevelopmentMode(c.UserContext(), req.Enabled); err != nil {
		return http.WithRepErr(c, fiber.StatusBadGateway, err.Error())
	}
	return http.WithRepJSON(c, rt.Controller.State())
}
