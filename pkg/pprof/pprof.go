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

package pprof

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"strings"
	"sync"
	"time"

	"github.com/go-arcade/menusync/pkg/log"
	"github.com/go-arcade/menusync/pkg/safe"
)

// PprofConfig is disabled unless Enable is set. It binds to loopback by
// default since profiles expose process internals.
type PprofConfig struct {
	Host   string `mapstructure:"host"`
	Port   int    `mapstructure:"port"`
	Enable bool   `mapstructure:"enable"`
	Path   string `mapstructure:"path"`
}

func (p *PprofConfig) SetDefaults() {
	if p.Host == "" {
		p.Host = "127.0.0.1"
	}
	if p.Port == 0 {
		p.Port = 8093
	}
	if p.Path == "" {
		p.Path = "/debug/pprof"
	}
	p.Path = "/" + strings.Trim(p.Path, "/")
}

var profiles = []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"}

type Server struct {
	config PprofConfig

	mu     sync.Mutex
	server *http.Server
}

func NewServer(config PprofConfig) *Server {
	config.SetDefaults()
	return &Server{config: config}
}

// Handler serves the runtime profiles under the configured path.
func (s *Server) Handler() http.Handler {
	prefix := s.config.Path
	mux := http.NewServeMux()
	mux.HandleFunc(prefix+"/", pprof.Index)
	mux.HandleFunc(prefix+"/cmdline", pprof.Cmdline)
	mux.HandleFunc(prefix+"/profile", pprof.Profile)
	mux.HandleFunc(prefix+"/symbol", pprof.Symbol)
	mux.HandleFunc(prefix+"/trace", pprof.Trace)
	for _, name := range profiles {
		mux.Handle(prefix+"/"+name, pprof.Handler(name))
	}
	return mux
}

func (s *Server) Start() error {
	if !s.config.Enable {
		log.Debug("pprof server is disabled")
		return nil
	}

	addr := net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("pprof listen %s: %w", addr, err)
	}

	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	s.mu.Lock()
	s.server = srv
	s.mu.Unlock()

	safe.Go(func() {
		log.Infow("pprof server started", "address", addr, "path", s.config.Path)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("pprof server failed", "address", addr, "error", err)
		}
	})
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.server = nil
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
