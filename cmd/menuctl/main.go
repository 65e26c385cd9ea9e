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
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/menusync/internal/agent/config"
	"github.com/go-arcade/menusync/internal/menu/client"
	"github.com/go-arcade/menusync/internal/menu/deploy"
	"github.com/go-arcade/menusync/pkg/http/jwt"
	"github.com/go-arcade/menusync/pkg/log"
	"github.com/go-arcade/menusync/pkg/version"
	"github.com/spf13/cobra"
)

type options struct {
	confPath string
	apiURL   string
	token    string
	apiKey   string
	timeout  time.Duration
	debug    bool
	verbose  bool

	storeDriver string
	storePath   string

	cfg *config.AgentConfig
}

// load resolves the effective configuration once: file, then env, then
// flags.
func (o *options) load() (config.AgentConfig, error) {
	if o.cfg != nil {
		return *o.cfg, nil
	}
	cfg, err := config.Load(o.confPath)
	if err != nil {
		return cfg, err
	}
	if o.apiURL != "" {
		cfg.Api.BaseURL = o.apiURL
	}
	if o.timeout > 0 {
		cfg.Api.Timeout = o.timeout
	}
	if o.debug {
		cfg.Api.Debug = true
	}
	switch {
	case o.token != "":
		cfg.Api.Token = o.token
	case o.apiKey != "":
		token, err := jwt.PermanentToken(o.apiKey, cfg.Api.ClientID, time.Now())
		if err != nil {
			return cfg, err
		}
		cfg.Api.Token = token
	}
	if o.storeDriver != "" {
		cfg.Store.Driver = o.storeDriver
	}
	if o.storePath != "" {
		cfg.Store.Path = o.storePath
	}
	o.cfg = &cfg
	return cfg, nil
}

func (o *options) client() (*client.Client, error) {
	cfg, err := o.load()
	if err != nil {
		return nil, err
	}
	return client.New(cfg.Client()), nil
}

func (o *options) workflow() (*deploy.Workflow, error) {
	c, err := o.client()
	if err != nil {
		return nil, err
	}
	return deploy.NewWorkflow(c), nil
}

func printJSON(w io.Writer, v any) error {
	b, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "menuctl",
		Short:         "menuctl manages menu sections, items and versions",
		Long:          "menuctl talks to the menu service for content and deployments, and inspects the local menu cache.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "ERROR"
			if opts.verbose {
				level = "DEBUG"
			}
			return log.Init(&log.Conf{Output: "stderr", Level: level})
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.confPath, "conf", "", "agent configuration file (optional)")
	f.StringVar(&opts.apiURL, "api-url", "", "menu service base url (default $"+config.BaseURLEnv+" or "+client.DefaultBaseURL+")")
	f.StringVar(&opts.token, "token", "", "bearer token")
	f.StringVar(&opts.apiKey, "api-key", "", "derive the bearer token from this api key")
	f.DurationVar(&opts.timeout, "timeout", 0, "request timeout")
	f.BoolVar(&opts.debug, "debug", false, "log http traffic")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose logging on stderr")
	f.StringVar(&opts.storeDriver, "store-driver", "", "local cache driver: local, redis or hybrid")
	f.StringVar(&opts.storePath, "store-path", "", "local cache snapshot directory")

	root.AddCommand(
		newMenuCmd(opts),
		newSectionsCmd(opts),
		newItemsCmd(opts),
		newVersionsCmd(opts),
		newDeploymentsCmd(opts),
		newDeployCmd(opts),
		newDevCmd(opts),
		newAnalyticsCmd(opts),
		newUploadIconCmd(opts),
		newHealthCmd(opts),
		newCacheCmd(opts),
		version.VersionCmd,
	)
	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
