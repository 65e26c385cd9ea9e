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

package bootstrap

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-arcade/menusync/internal/agent/config"
	"github.com/go-arcade/menusync/internal/menu/controller"
	"github.com/go-arcade/menusync/internal/menu/navigation"
	"github.com/go-arcade/menusync/pkg/http"
	"github.com/go-arcade/menusync/pkg/log"
	"github.com/go-arcade/menusync/pkg/metrics"
	"github.com/go-arcade/menusync/pkg/pprof"
	"github.com/go-arcade/menusync/pkg/shutdown"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const initialLoadTimeout = 30 * time.Second

type Agent struct {
	HttpServer     *http.Server
	MetricsServer  *metrics.Server
	PprofServer    *pprof.Server
	Controller     *controller.Controller
	Navigation     *navigation.Service
	Shutdown       *shutdown.Manager
	TracerProvider *sdktrace.TracerProvider
	Logger         *log.Logger
	AgentConf      config.AgentConfig
}

type InitAppFunc func(configPath string) (*Agent, func(), error)

func NewAgent(
	httpServer *http.Server,
	metricsServer *metrics.Server,
	pprofServer *pprof.Server,
	ctrl *controller.Controller,
	nav *navigation.Service,
	sm *shutdown.Manager,
	tp *sdktrace.TracerProvider,
	logger *log.Logger,
	agentConf config.AgentConfig,
) (*Agent, func(), error) {
	cleanup := func() {
		if pprofServer != nil {
			log.Info("Shutting down pprof server...")
			stop(pprofServer.Stop)
		}
		if metricsServer != nil {
			log.Info("Shutting down metrics server...")
			stop(metricsServer.Stop)
		}
	}

	app := &Agent{
		HttpServer:     httpServer,
		MetricsServer:  metricsServer,
		PprofServer:    pprofServer,
		Controller:     ctrl,
		Navigation:     nav,
		Shutdown:       sm,
		TracerProvider: tp,
		Logger:         logger,
		AgentConf:      agentConf,
	}
	return app, cleanup, nil
}

func stop(fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Errorw("failed to stop server", "error", err)
	}
}

// Bootstrap init app, return App instance and cleanup function
func Bootstrap(configFile string, initApp InitAppFunc) (*Agent, func(), config.AgentConfig, error) {
	app, cleanup, err := initApp(configFile)
	if err != nil {
		return nil, nil, config.AgentConfig{}, err
	}
	return app, cleanup, app.AgentConf, nil
}

// Start brings the menu online: it restores persisted state, performs the
// first load, starts polling and hooks navigation and config reloads up.
// The returned function detaches the navigation subscription.
func (app *Agent) Start(ctx context.Context) func() {
	states, unsubscribe := app.Controller.Subscribe()
	app.Navigation.Follow(states)

	config.OnReload(func(next config.AgentConfig) {
		cc := next.Menu.Controller()
		app.Controller.SetUpdateCheckInterval(cc.UpdateCheckInterval)
	})

	app.Controller.Init(ctx)

	loadCtx, cancel := context.WithTimeout(ctx, initialLoadTimeout)
	defer cancel()
	if err := app.Controller.LoadMenuConfig(loadCtx, false); err != nil {
		// polling and /menu/refresh can still recover
		log.Errorw("initial menu load failed", "error", err)
	}
	app.Controller.StartPolling()

	st := app.Controller.State()
	log.Infow("menu agent started",
		"status", st.Status,
		"environment", st.Environment,
		"version", st.CurrentVersion,
		"fromCache", st.FromCache,
	)
	return unsubscribe
}

// Run start app and wait for exit signal, then gracefully shutdown
func Run(app *Agent, cleanup func()) {
	if app.MetricsServer != nil {
		if err := app.MetricsServer.Start(); err != nil {
			log.Errorw("Metrics server failed", "error", err)
		}
	}
	if app.PprofServer != nil {
		if err := app.PprofServer.Start(); err != nil {
			log.Errorw("Pprof server failed", "error", err)
		}
	}

	unsubscribe := app.Start(context.Background())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	app.HttpServer.Start()

	select {
	case sig := <-quit:
		app.Shutdown.Shutdown("signal " + sig.String())
	case <-app.Shutdown.Done():
	}
	log.Infow("shutting down gracefully...", "reason", app.Shutdown.Reason())

	if err := app.HttpServer.Shutdown(); err != nil {
		log.Errorw("HTTP server shutdown error", "error", err)
	}
	unsubscribe()

	// closes the controller, stops the scheduler and flushes the store
	cleanup()

	log.Info("Agent shutdown complete")
	_ = log.Sync()
}
