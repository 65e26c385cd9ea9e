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

package model

import "sort"

type SectionInput struct {
	Name        string         `json:"name"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Icon        string         `json:"icon,omitempty"`
	Layout      Layout         `json:"layout,omitempty"`
	SortOrder   int            `json:"sort_order"`
	IsActive    *bool          `json:"is_active,omitempty"`
	MetaData    map[string]any `json:"meta_data,omitempty"`
}

type SectionPatch struct {
	Name        *string         `json:"name,omitempty"`
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Icon        *string         `json:"icon,omitempty"`
	Layout      *Layout         `json:"layout,omitempty"`
	SortOrder   *int            `json:"sort_order,omitempty"`
	IsActive    *bool           `json:"is_active,omitempty"`
	MetaData    *map[string]any `json:"meta_data,omitempty"`
}

type ItemInput struct {
	Title        string         `json:"title"`
	Description  string         `json:"description,omitempty"`
	Icon         string         `json:"icon,omitempty"`
	ActionType   ActionType     `json:"action_type"`
	ActionValue  string         `json:"action_value,omitempty"`
	ParentID     string         `json:"parent_id,omitempty"`
	SectionID    string         `json:"section_id"`
	SortOrder    int            `json:"sort_order"`
	IsActive     *bool          `json:"is_active,omitempty"`
	IsPremium    bool           `json:"is_premium"`
	RequiresAuth bool           `json:"requires_auth"`
	MetaData     map[string]any `json:"meta_data,omitempty"`
}

type ItemPatch struct {
	Title        *string         `json:"title,omitempty"`
	Description  *string         `json:"description,omitempty"`
	Icon         *string         `json:"icon,omitempty"`
	ActionType   *ActionType     `json:"action_type,omitempty"`
	ActionValue  *string         `json:"action_value,omitempty"`
	ParentID     *string         `json:"parent_id,omitempty"`
	SectionID    *string         `json:"section_id,omitempty"`
	SortOrder    *int            `json:"sort_order,omitempty"`
	IsActive     *bool           `json:"is_active,omitempty"`
	IsPremium    *bool           `json:"is_premium,omitempty"`
	RequiresAuth *bool           `json:"requires_auth,omitempty"`
	MetaData     *map[string]any `json:"meta_data,omitempty"`
}

// ReorderPair assigns a position to an id.
type ReorderPair struct {
	ID        string `json:"id"`
	SortOrder int    `json:"sort_order"`
}

// OrderedIDs sorts pairs by SortOrder (stable on ties) and returns the ids
// in that order, which is the form the reorder endpoints accept.
func OrderedIDs(pairs []ReorderPair) []string {
	sorted := make([]ReorderPair, len(pairs))
	copy(sorted, pairs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SortOrder < sorted[j].SortOrder
	})
	ids := make([]string, len(sorted))
	for i, p := range sorted {
		ids[i] = p.ID
	}
	return ids
}

type VersionInput struct {
	Version       string      `json:"version"`
	Environment   Environment `json:"environment"`
	Changelog     string      `json:"changelog,omitempty"`
	IsDevelopment bool        `json:"is_development"`
}
