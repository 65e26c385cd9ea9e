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
	"github.com/go-arcade/menusync/internal/menu/model"
	"github.com/spf13/cobra"
)

func envFlag(cmd *cobra.Command, target *string, def string) {
	cmd.Flags().StringVarP(target, "env", "e", def, "environment: development, staging or production")
}

func parseEnv(s string, allowEmpty bool) (model.Environment, error) {
	if s == "" && allowEmpty {
		return "", nil
	}
	return model.ParseEnvironment(s)
}

func newVersionsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "versions",
		Short: "Manage menu versions",
	}

	var listEnv string
	list := &cobra.Command{
		Use:   "list",
		Short: "List versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := parseEnv(listEnv, true)
			if err != nil {
				return err
			}
			c, err := opts.client()
			if err != nil {
				return err
			}
			versions, err := c.GetMenuVersions(cmd.Context(), env)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), versions)
		},
	}
	envFlag(list, &listEnv, "")

	var statusEnv string
	status := &cobra.Command{
		Use:   "status",
		Short: "Show active, development and latest versions of an environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := opts.workflow()
			if err != nil {
				return err
			}
			st, err := w.Status(cmd.Context(), model.Environment(statusEnv))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), st)
		},
	}
	envFlag(status, &statusEnv, string(model.EnvProduction))

	var in model.VersionInput
	var createEnv string
	create := &cobra.Command{
		Use:   "create VERSION",
		Short: "Snapshot the live menu under an explicit version number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Version = args[0]
			in.Environment = model.Environment(createEnv)
			w, err := opts.workflow()
			if err != nil {
				return err
			}
			v, err := w.CreateVersion(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), v)
		},
	}
	envFlag(create, &createEnv, string(model.EnvDevelopment))
	create.Flags().StringVarP(&in.Changelog, "changelog", "m", "", "changelog")
	create.Flags().BoolVar(&in.IsDevelopment, "development", false, "flag as the development version")

	var (
		autoEnv   string
		increment string
		changelog string
	)
	auto := &cobra.Command{
		Use:   "auto",
		Short: "Snapshot the live menu as the next major, minor or patch version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := opts.workflow()
			if err != nil {
				return err
			}
			v, err := w.AutoCreate(cmd.Context(), model.Environment(autoEnv), model.Increment(increment), changelog)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), v)
		},
	}
	envFlag(auto, &autoEnv, string(model.EnvDevelopment))
	auto.Flags().StringVarP(&increment, "increment", "i", string(model.IncrementPatch), "major, minor or patch")
	auto.Flags().StringVarP(&changelog, "changelog", "m", "", "changelog")

	cmd.AddCommand(list, status, create, auto)
	return cmd
}

func newDeploymentsCmd(opts *options) *cobra.Command {
	var envName string
	cmd := &cobra.Command{
		Use:   "deployments",
		Short: "List deployment history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := parseEnv(envName, true)
			if err != nil {
				return err
			}
			c, err := opts.client()
			if err != nil {
				return err
			}
			deployments, err := c.GetMenuDeployments(cmd.Context(), env)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), deployments)
		},
	}
	envFlag(cmd, &envName, "")
	return cmd
}

func newDeployCmd(opts *options) *cobra.Command {
	var envName string
	cmd := &cobra.Command{
		Use:   "deploy VERSION_ID",
		Short: "Make a version the active one of its environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := opts.workflow()
			if err != nil {
				return err
			}
			d, err := w.Deploy(cmd.Context(), args[0], model.Environment(envName))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), d)
		},
	}
	envFlag(cmd, &envName, string(model.EnvProduction))
	return cmd
}

func newDevCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dev VERSION_ID",
		Short: "Flag a version as the development version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := opts.workflow()
			if err != nil {
				return err
			}
			v, err := w.SetDevelopment(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), v)
		},
	}
}
