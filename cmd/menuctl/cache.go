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

package main

import (
	"time"

	"github.com/go-arcade/menusync/internal/menu/model"
	"github.com/go-arcade/menusync/internal/menu/storage"
	"github.com/go-arcade/menusync/pkg/cache"
	"github.com/spf13/cobra"
)

type cacheEntryView struct {
	Version       string            `json:"version"`
	Environment   model.Environment `json:"environment"`
	CachedAt      time.Time         `json:"cachedAt"`
	IsDevelopment bool              `json:"isDevelopment"`
	Sections      int               `json:"sections"`
	Items         int               `json:"items"`
	Expired       bool              `json:"expired"`
}

type cacheView struct {
	CurrentVersion  string             `json:"currentVersion"`
	DevelopmentMode bool               `json:"developmentMode"`
	VersionInfo     *model.VersionInfo `json:"versionInfo"`
	Entries         []cacheEntryView   `json:"entries"`
}

// withStore opens the configured local store for the duration of fn.
func (o *options) withStore(fn func(*storage.Store) error) error {
	cfg, err := o.load()
	if err != nil {
		return err
	}
	kv, cleanup, err := cache.ProvideCache(cfg.Store)
	if err != nil {
		return err
	}
	defer cleanup()

	store := storage.New(kv,
		storage.WithPrefix(cfg.Store.Prefix),
		storage.WithKeepVersions(cfg.Menu.KeepVersions),
	)
	return fn(store)
}

func newCacheCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the local menu cache",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show cached menu snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(func(s *storage.Store) error {
				ctx := cmd.Context()
				view := cacheView{
					CurrentVersion:  s.GetCurrentVersion(ctx),
					DevelopmentMode: s.GetDevelopmentMode(ctx),
					VersionInfo:     s.GetVersionInfo(ctx),
					Entries:         []cacheEntryView{},
				}
				for _, e := range s.Entries(ctx) {
					view.Entries = append(view.Entries, cacheEntryView{
						Version:       e.Version,
						Environment:   e.Environment,
						CachedAt:      time.UnixMilli(e.Timestamp).UTC(),
						IsDevelopment: e.IsDevelopment,
						Sections:      len(e.MenuData.Sections),
						Items:         len(e.MenuData.Items),
						Expired:       s.IsCacheExpired(e.Timestamp, opts.cfg.Menu.MaxCacheAge),
					})
				}
				return printJSON(cmd.OutOrStdout(), view)
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached snapshot and the version bookkeeping",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(func(s *storage.Store) error {
				return s.ClearCache(cmd.Context())
			})
		},
	}

	var keep int
	trim := &cobra.Command{
		Use:   "trim",
		Short: "Keep only the newest snapshots per environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(func(s *storage.Store) error {
				if err := s.ClearOldCache(cmd.Context(), keep); err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]int{"remaining": len(s.Entries(cmd.Context()))})
			})
		},
	}
	trim.Flags().IntVar(&keep, "keep", 5, "snapshots to keep per environment")

	cmd.AddCommand(show, clearCmd, trim)
	return cmd
}
