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

package query

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/go-arcade/menusync/internal/menu/model"
)

// itemEnv exposes an item to expressions. Keys follow the JSON names.
func itemEnv(it model.Item) map[string]any {
	meta := it.MetaData
	if meta == nil {
		meta = map[string]any{}
	}
	return map[string]any{
		"id":            it.ID,
		"title":         it.Title,
		"description":   it.Description,
		"icon":          it.Icon,
		"action_type":   string(it.ActionType),
		"action_value":  it.ActionValue,
		"parent_id":     it.ParentID,
		"section_id":    it.SectionID,
		"sort_order":    it.SortOrder,
		"is_active":     it.IsActive,
		"is_premium":    it.IsPremium,
		"requires_auth": it.RequiresAuth,
		"meta":          meta,
	}
}

// Filter is a compiled boolean expression over item fields, for example
// `is_premium && section_id == "enhance"` or `meta.credits > 1`.
type Filter struct {
	source  string
	program *vm.Program
}

func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return &Filter{}, nil
	}
	program, err := expr.Compile(expression, expr.Env(itemEnv(model.Item{})), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", expression, err)
	}
	return &Filter{source: expression, program: program}, nil
}

// Match reports whether it satisfies the filter. An empty filter matches
// everything.
func (f *Filter) Match(it model.Item) (bool, error) {
	if f.program == nil {
		return true, nil
	}
	out, err := expr.Run(f.program, itemEnv(it))
	if err != nil {
		return false, fmt.Errorf("evaluate filter %q on item %s: %w", f.source, it.ID, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

// FilterItems returns the items matching expression, preserving order.
func FilterItems(items []model.Item, expression string) ([]model.Item, error) {
	f, err := Compile(expression)
	if err != nil {
		return nil, err
	}
	var out []model.Item
	for _, it := range items {
		ok, err := f.Match(it)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, it)
		}
	}
	return out, nil
}
