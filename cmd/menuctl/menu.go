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

	"github.com/go-arcade/menusync/internal/menu/client"
	"github.com/go-arcade/menusync/internal/menu/model"
	"github.com/go-arcade/menusync/internal/menu/query"
	"github.com/spf13/cobra"
)

func newMenuCmd(opts *options) *cobra.Command {
	var (
		active   bool
		tree     bool
		depth    int
		validate bool
	)
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Fetch the live menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			data, err := c.GetMenu(cmd.Context(), active)
			if err != nil {
				return err
			}
			if validate {
				if err := data.Validate(); err != nil {
					return fmt.Errorf("menu is invalid: %w", err)
				}
			}
			if tree {
				return printJSON(cmd.OutOrStdout(), data.Tree(depth))
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	}
	cmd.Flags().BoolVar(&active, "active", false, "only active sections and items")
	cmd.Flags().BoolVar(&tree, "tree", false, "print sections with nested items")
	cmd.Flags().IntVar(&depth, "depth", model.DefaultMaxTreeDepth, "maximum tree depth")
	cmd.Flags().BoolVar(&validate, "validate", false, "fail when references are broken or parents form a cycle")
	return cmd
}

func newSectionsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sections",
		Aliases: []string{"section"},
		Short:   "Manage menu sections",
	}

	var active bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List sections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			sections, err := c.GetSections(cmd.Context(), active)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), sections)
		},
	}
	list.Flags().BoolVar(&active, "active", false, "only active sections")

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show one section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			s, err := c.GetSection(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), s)
		},
	}

	var in model.SectionInput
	var layout string
	var inactive bool
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a section",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Layout = model.Layout(layout)
			if inactive {
				in.IsActive = model.Ptr(false)
			}
			c, err := opts.client()
			if err != nil {
				return err
			}
			s, err := c.CreateSection(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), s)
		},
	}
	cf := create.Flags()
	cf.StringVar(&in.Name, "name", "", "internal name")
	cf.StringVar(&in.Title, "title", "", "display title")
	cf.StringVar(&in.Description, "description", "", "description")
	cf.StringVar(&in.Icon, "icon", "", "icon")
	cf.StringVar(&layout, "layout", string(model.LayoutGrid), "grid, list or horizontal")
	cf.IntVar(&in.SortOrder, "sort", 0, "sort order")
	cf.BoolVar(&inactive, "inactive", false, "create the section inactive")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("title")

	update := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of a section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch model.SectionPatch
			f := cmd.Flags()
			if f.Changed("title") {
				v, _ := f.GetString("title")
				patch.Title = &v
			}
			if f.Changed("description") {
				v, _ := f.GetString("description")
				patch.Description = &v
			}
			if f.Changed("layout") {
				v, _ := f.GetString("layout")
				patch.Layout = model.Ptr(model.Layout(v))
			}
			if f.Changed("sort") {
				v, _ := f.GetInt("sort")
				patch.SortOrder = &v
			}
			if f.Changed("active") {
				v, _ := f.GetBool("active")
				patch.IsActive = &v
			}
			c, err := opts.client()
			if err != nil {
				return err
			}
			s, err := c.UpdateSection(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), s)
		},
	}
	uf := update.Flags()
	uf.String("title", "", "display title")
	uf.String("description", "", "description")
	uf.String("layout", "", "grid, list or horizontal")
	uf.Int("sort", 0, "sort order")
	uf.Bool("active", true, "active flag")

	cmd.AddCommand(list, get, create, update,
		deleteCmd("section", func(cmd *cobra.Command, c *client.Client, id string) error {
			return c.DeleteSection(cmd.Context(), id)
		}, opts),
		reorderCmd("sections", func(cmd *cobra.Command, c *client.Client, ids []string) error {
			return c.ReorderSections(cmd.Context(), ids)
		}, opts),
	)
	return cmd
}

func newItemsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "items",
		Aliases: []string{"item"},
		Short:   "Manage menu items",
	}

	var q client.ItemQuery
	var where string
	list := &cobra.Command{
		Use:     "list",
		Short:   "List items",
		Long:    "List items. --where takes a boolean expression over id, title, action_type, action_value, parent_id, section_id, sort_order, is_active, is_premium, requires_auth and meta.",
		Example: `  menuctl items list --section enhance --where 'is_premium && meta.credits > 1'`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := query.Compile(where)
			if err != nil {
				return err
			}
			c, err := opts.client()
			if err != nil {
				return err
			}
			items, err := c.GetItems(cmd.Context(), q)
			if err != nil {
				return err
			}
			out := make([]model.Item, 0, len(items))
			for _, it := range items {
				ok, err := filter.Match(it)
				if err != nil {
					return err
				}
				if ok {
					out = append(out, it)
				}
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	lf := list.Flags()
	lf.StringVar(&q.SectionID, "section", "", "section id")
	lf.StringVar(&q.ParentID, "parent", "", "parent item id")
	lf.BoolVar(&q.ActiveOnly, "active", false, "only active items")
	lf.StringVar(&where, "where", "", "filter expression")

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			it, err := c.GetItem(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), it)
		},
	}

	var in model.ItemInput
	var action string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.ActionType = model.ActionType(action)
			c, err := opts.client()
			if err != nil {
				return err
			}
			it, err := c.CreateItem(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), it)
		},
	}
	cf := create.Flags()
	cf.StringVar(&in.Title, "title", "", "display title")
	cf.StringVar(&in.Description, "description", "", "description")
	cf.StringVar(&in.Icon, "icon", "", "icon")
	cf.StringVar(&action, "action", string(model.ActionScreen), "screen, url, action or section")
	cf.StringVar(&in.ActionValue, "value", "", "action value")
	cf.StringVar(&in.SectionID, "section", "", "section id")
	cf.StringVar(&in.ParentID, "parent", "", "parent item id")
	cf.IntVar(&in.SortOrder, "sort", 0, "sort order")
	cf.BoolVar(&in.IsPremium, "premium", false, "premium only")
	cf.BoolVar(&in.RequiresAuth, "auth", false, "requires sign in")
	_ = create.MarkFlagRequired("title")
	_ = create.MarkFlagRequired("section")

	update := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch model.ItemPatch
			f := cmd.Flags()
			if f.Changed("title") {
				v, _ := f.GetString("title")
				patch.Title = &v
			}
			if f.Changed("value") {
				v, _ := f.GetString("value")
				patch.ActionValue = &v
			}
			if f.Changed("section") {
				v, _ := f.GetString("section")
				patch.SectionID = &v
			}
			if f.Changed("parent") {
				v, _ := f.GetString("parent")
				patch.ParentID = &v
			}
			if f.Changed("sort") {
				v, _ := f.GetInt("sort")
				patch.SortOrder = &v
			}
			if f.Changed("active") {
				v, _ := f.GetBool("active")
				patch.IsActive = &v
			}
			if f.Changed("premium") {
				v, _ := f.GetBool("premium")
				patch.IsPremium = &v
			}
			c, err := opts.client()
			if err != nil {
				return err
			}
			it, err := c.UpdateItem(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), it)
		},
	}
	uf := update.Flags()
	uf.String("title", "", "display title")
	uf.String("value", "", "action value")
	uf.String("section", "", "section id")
	uf.String("parent", "", "parent item id")
	uf.Int("sort", 0, "sort order")
	uf.Bool("active", true, "active flag")
	uf.Bool("premium", false, "premium only")

	cmd.AddCommand(list, get, create, update,
		deleteCmd("item", func(cmd *cobra.Command, c *client.Client, id string) error {
			return c.DeleteItem(cmd.Context(), id)
		}, opts),
		reorderCmd("items", func(cmd *cobra.Command, c *client.Client, ids []string) error {
			return c.ReorderItems(cmd.Context(), ids)
		}, opts),
	)
	return cmd
}

func deleteCmd(kind string, del func(*cobra.Command, *client.Client, string) error, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a " + kind,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			if err := del(cmd, c, args[0]); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s %s\n", kind, args[0])
			return err
		},
	}
}

func reorderCmd(kind string, reorder func(*cobra.Command, *client.Client, []string) error, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder ID...",
		Short: "Set the order of " + kind + " to the order given",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			if err := reorder(cmd, c, args); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "reordered %d %s\n", len(args), kind)
			return err
		},
	}
}
