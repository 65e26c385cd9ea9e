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
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/menusync/internal/menu/client"
	"github.com/spf13/cobra"
)

func rangeFlags(cmd *cobra.Command, r *client.DateRange) {
	cmd.Flags().StringVar(&r.Start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&r.End, "end", "", "end date (YYYY-MM-DD)")
}

func newAnalyticsCmd(opts *options) *cobra.Command {
	var summaryRange client.DateRange
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show menu usage analytics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			out, err := c.GetAnalytics(cmd.Context(), summaryRange)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	rangeFlags(cmd, &summaryRange)

	var eq client.EventQuery
	events := &cobra.Command{
		Use:   "events",
		Short: "List raw analytics events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			out, err := c.GetAnalyticsEvents(cmd.Context(), eq)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	rangeFlags(events, &eq.Range)
	events.Flags().IntVar(&eq.Page, "page", 1, "page")
	events.Flags().IntVar(&eq.Limit, "limit", 50, "page size")
	events.Flags().StringVar(&eq.EventType, "type", "", "event type")
	events.Flags().StringVar(&eq.UserID, "user", "", "user id")

	var featureRange client.DateRange
	features := &cobra.Command{
		Use:   "features",
		Short: "Show feature usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			out, err := c.GetFeatureUsage(cmd.Context(), featureRange)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	rangeFlags(features, &featureRange)

	var days int
	user := &cobra.Command{
		Use:   "user USER_ID",
		Short: "Show analytics of one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			out, err := c.GetUserAnalytics(cmd.Context(), args[0], days)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	user.Flags().IntVar(&days, "days", 30, "look-back window in days")

	var (
		exportRange client.DateRange
		format      string
		output      string
	)
	export := &cobra.Command{
		Use:   "export",
		Short: "Export analytics as json or csv",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			res, err := c.ExportAnalytics(cmd.Context(), format, exportRange)
			if err != nil {
				return err
			}
			if output == "" {
				return printJSON(cmd.OutOrStdout(), res)
			}
			return writeExport(output, res)
		},
	}
	rangeFlags(export, &exportRange)
	export.Flags().StringVar(&format, "format", "json", "json or csv")
	export.Flags().StringVarP(&output, "output", "o", "", "write the export to this file or directory")

	cmd.AddCommand(events, features, user, export)
	return cmd
}

// writeExport stores res.Data at path. A directory path receives the
// server-suggested filename.
func writeExport(path string, res *client.ExportResult) error {
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		path = filepath.Join(path, filepath.Base(res.Filename))
	}
	body, ok := res.Data.(string)
	if !ok {
		b, err := sonic.ConfigStd.MarshalIndent(res.Data, "", "  ")
		if err != nil {
			return err
		}
		body = string(b)
	}
	return os.WriteFile(path, []byte(body), 0o644)
}

func newUploadIconCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "upload-icon FILE",
		Short: "Upload an icon image and print its url",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			c, err := opts.client()
			if err != nil {
				return err
			}
			res, err := c.UploadIcon(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return fmt.Errorf("upload %s: %w", args[0], err)
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func newHealthCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the menu service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			h, err := c.Health(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), h)
		},
	}
}
