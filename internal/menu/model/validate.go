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

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrCycle          = errors.New("menu item hierarchy contains a cycle")
	ErrUnknownSection = errors.New("item references an unknown section")
	ErrUnknownParent  = errors.New("item references an unknown parent")
	ErrDuplicateID    = errors.New("duplicate id")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func checkLen(field, v string, min, max int) error {
	n := utf8.RuneCountInString(v)
	if n < min || n > max {
		if min > 0 && n == 0 {
			return &ValidationError{Field: field, Reason: "is required"}
		}
		return &ValidationError{Field: field, Reason: fmt.Sprintf("length must be between %d and %d", min, max)}
	}
	return nil
}

func (l Layout) Valid() bool {
	switch l {
	case LayoutGrid, LayoutList, LayoutHorizontal:
		return true
	}
	return false
}

func (a ActionType) Valid() bool {
	switch a {
	case ActionScreen, ActionURL, ActionAction, ActionSection:
		return true
	}
	return false
}

func (s Section) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return &ValidationError{Field: "id", Reason: "is required"}
	}
	if err := validateSectionFields(s.Name, s.Title, s.Description, s.Icon, s.Layout, s.SortOrder); err != nil {
		return err
	}
	return nil
}

func (in SectionInput) Validate() error {
	layout := in.Layout
	if layout == "" {
		layout = LayoutGrid
	}
	return validateSectionFields(in.Name, in.Title, in.Description, in.Icon, layout, in.SortOrder)
}

func validateSectionFields(name, title, description, icon string, layout Layout, sortOrder int) error {
	if err := checkLen("name", name, 1, 50); err != nil {
		return err
	}
	if err := checkLen("title", title, 1, 100); err != nil {
		return err
	}
	if err := checkLen("description", description, 0, 500); err != nil {
		return err
	}
	if err := checkLen("icon", icon, 0, 10); err != nil {
		return err
	}
	if !layout.Valid() {
		return &ValidationError{Field: "layout", Reason: fmt.Sprintf("unknown layout %q", layout)}
	}
	if sortOrder < 0 {
		return &ValidationError{Field: "sort_order", Reason: "must not be negative"}
	}
	return nil
}

func (i Item) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return &ValidationError{Field: "id", Reason: "is required"}
	}
	if i.ParentID != "" && i.ParentID == i.ID {
		return fmt.Errorf("item %s: %w", i.ID, ErrCycle)
	}
	return validateItemFields(i.Title, i.Description, i.Icon, i.ActionType, i.ActionValue, i.SectionID, i.SortOrder, false)
}

// Validate also requires an action value for every action type except
// "action", since new items should be navigable.
func (in ItemInput) Validate() error {
	return validateItemFields(in.Title, in.Description, in.Icon, in.ActionType, in.ActionValue, in.SectionID, in.SortOrder, true)
}

func validateItemFields(title, description, icon string, action ActionType, value, sectionID string, sortOrder int, requireValue bool) error {
	if err := checkLen("title", title, 1, 100); err != nil {
		return err
	}
	if err := checkLen("description", description, 0, 500); err != nil {
		return err
	}
	if err := checkLen("icon", icon, 0, 10); err != nil {
		return err
	}
	if !action.Valid() {
		return &ValidationError{Field: "action_type", Reason: fmt.Sprintf("unknown action type %q", action)}
	}
	if requireValue && action != ActionAction && value == "" {
		return &ValidationError{Field: "action_value", Reason: fmt.Sprintf("is required for %s items", action)}
	}
	if strings.TrimSpace(sectionID) == "" {
		return &ValidationError{Field: "section_id", Reason: "is required"}
	}
	if sortOrder < 0 {
		return &ValidationError{Field: "sort_order", Reason: "must not be negative"}
	}
	return nil
}

// Validate checks every record plus the cross-record invariants: ids are
// unique, items reference existing sections and parents, and the parent
// links form a forest.
func (m MenuData) Validate() error {
	sections := make(map[string]struct{}, len(m.Sections))
	for _, s := range m.Sections {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("section %s: %w", s.ID, err)
		}
		if _, dup := sections[s.ID]; dup {
			return fmt.Errorf("section %s: %w", s.ID, ErrDuplicateID)
		}
		sections[s.ID] = struct{}{}
	}

	parents := make(map[string]string, len(m.Items))
	for _, it := range m.Items {
		if err := it.Validate(); err != nil {
			return fmt.Errorf("item %s: %w", it.ID, err)
		}
		if _, dup := parents[it.ID]; dup {
			return fmt.Errorf("item %s: %w", it.ID, ErrDuplicateID)
		}
		if _, ok := sections[it.SectionID]; !ok {
			return fmt.Errorf("item %s -> section %s: %w", it.ID, it.SectionID, ErrUnknownSection)
		}
		parents[it.ID] = it.ParentID
	}

	for id, parent := range parents {
		if parent == "" {
			continue
		}
		if _, ok := parents[parent]; !ok {
			return fmt.Errorf("item %s -> parent %s: %w", id, parent, ErrUnknownParent)
		}
	}

	return detectCycle(parents)
}

func detectCycle(parents map[string]string) error {
	const (
		unvisited = iota
		inProgress
		done
	)
	state := make(map[string]int, len(parents))
	for start := range parents {
		if state[start] == done {
			continue
		}
		var path []string
		for cur := start; cur != ""; cur = parents[cur] {
			if state[cur] == done {
				break
			}
			if state[cur] == inProgress {
				return fmt.Errorf("item %s: %w", cur, ErrCycle)
			}
			state[cur] = inProgress
			path = append(path, cur)
		}
		for _, id := range path {
			state[id] = done
		}
	}
	return nil
}
