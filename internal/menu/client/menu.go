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

package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/go-arcade/menusync/internal/menu/model"
	"github.com/go-resty/resty/v2"
)

type ItemQuery struct {
	SectionID  string
	ParentID   string
	ActiveOnly bool
}

// params always carries active_only; the service treats a missing flag
// as true.
func (q ItemQuery) params() map[string]string {
	p := activeOnly(q.ActiveOnly)
	if q.SectionID != "" {
		p["section_id"] = q.SectionID
	}
	if q.ParentID != "" {
		p["parent_id"] = q.ParentID
	}
	return p
}

func activeOnly(v bool) map[string]string {
	return map[string]string{"active_only": strconv.FormatBool(v)}
}

// GetMenu fetches the whole menu. A payload with success=false yields
// ErrMenuUnavailable.
func (c *Client) GetMenu(ctx context.Context, active bool) (*model.MenuData, error) {
	var data model.MenuData
	if err := c.get(ctx, "get_menu", "/menu", activeOnly(active), &data); err != nil {
		return nil, err
	}
	if !data.Success {
		return nil, ErrMenuUnavailable
	}
	return &data, nil
}

func (c *Client) GetSections(ctx context.Context, active bool) ([]model.Section, error) {
	var sections []model.Section
	if err := c.get(ctx, "get_sections", "/menu/sections", activeOnly(active), &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

func (c *Client) GetSection(ctx context.Context, id string) (*model.Section, error) {
	var section model.Section
	if err := c.get(ctx, "get_section", "/menu/sections/"+url.PathEscape(id), nil, &section); err != nil {
		return nil, err
	}
	return &section, nil
}

func (c *Client) CreateSection(ctx context.Context, in model.SectionInput) (*model.Section, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var section model.Section
	if err := c.send(ctx, "create_section", resty.MethodPost, "/menu/sections", in, &section); err != nil {
		return nil, err
	}
	return &section, nil
}

func (c *Client) UpdateSection(ctx context.Context, id string, patch model.SectionPatch) (*model.Section, error) {
	var section model.Section
	if err := c.send(ctx, "update_section", resty.MethodPut, "/menu/sections/"+url.PathEscape(id), patch, &section); err != nil {
		return nil, err
	}
	return &section, nil
}

func (c *Client) DeleteSection(ctx context.Context, id string) error {
	return c.send(ctx, "delete_section", resty.MethodDelete, "/menu/sections/"+url.PathEscape(id), nil, nil)
}

// ReorderSections sends ids in their new order.
func (c *Client) ReorderSections(ctx context.Context, ids []string) error {
	body := map[string][]string{"section_ids": ids}
	return c.send(ctx, "reorder_sections", resty.MethodPost, "/menu/sections/reorder", body, nil)
}

func (c *Client) GetItems(ctx context.Context, q ItemQuery) ([]model.Item, error) {
	var items []model.Item
	if err := c.get(ctx, "get_items", "/menu/items", q.params(), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) GetItem(ctx context.Context, id string) (*model.Item, error) {
	var item model.Item
	if err := c.get(ctx, "get_item", "/menu/items/"+url.PathEscape(id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) CreateItem(ctx context.Context, in model.ItemInput) (*model.Item, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var item model.Item
	if err := c.send(ctx, "create_item", resty.MethodPost, "/menu/items", in, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) UpdateItem(ctx context.Context, id string, patch model.ItemPatch) (*model.Item, error) {
	var item model.Item
	if err := c.send(ctx, "update_item", resty.MethodPut, "/menu/items/"+url.PathEscape(id), patch, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) DeleteItem(ctx context.Context, id string) error {
	return c.send(ctx, "delete_item", resty.MethodDelete, "/menu/items/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ReorderItems(ctx context.Context, ids []string) error {
	body := map[string][]string{"item_ids": ids}
	return c.send(ctx, "reorder_items", resty.MethodPost, "/menu/items/reorder", body, nil)
}
