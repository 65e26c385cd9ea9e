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
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/go-arcade/menusync/pkg/log"
	"github.com/go-arcade/menusync/pkg/safe"
	"github.com/gofiber/fiber/v2"
)

type Http struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	AccessLog       bool   `mapstructure:"accessLog"`
	ReadTimeout     int    `mapstructure:"readTimeout"`
	WriteTimeout    int    `mapstructure:"writeTimeout"`
	IdleTimeout     int    `mapstructure:"idleTimeout"`
	ShutdownTimeout int    `mapstructure:"shutdownTimeout"`
	BodyLimit       int    `mapstructure:"bodyLimit"`
}

func (h *Http) SetDefaults() {
	if h.Host == "" {
		h.Host = "127.0.0.1"
	}
	if h.Port == 0 {
		h.Port = 8090
	}
	if h.ReadTimeout <= 0 {
		h.ReadTimeout = 10
	}
	if h.WriteTimeout <= 0 {
		h.WriteTimeout = 10
	}
	if h.IdleTimeout <= 0 {
		h.IdleTimeout = 60
	}
	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = 5
	}
	if h.BodyLimit <= 0 {
		h.BodyLimit = 4 * 1024 * 1024
	}
}

func (h *Http) Addr() string {
	return net.JoinHostPort(h.Host, fmt.Sprint(h.Port))
}

// Server runs a fiber app in the background.
type Server struct {
	cfg Http
	app *fiber.App
}

func NewServer(cfg Http, app *fiber.App) *Server {
	cfg.SetDefaults()
	return &Server{cfg: cfg, app: app}
}

func (s *Server) Start() {
	addr := s.cfg.Addr()
	safe.Go(func() {
		log.Infow("http server started", "address", addr)
		if err := s.app.Listen(addr); err != nil && !errors.Is(err, net.ErrClosed) {
			log.Errorw("http server failed", "address", addr, "error", err)
		}
	})
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := s.app.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	log.Info("http server shut down")
	return nil
}
