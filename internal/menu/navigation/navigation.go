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

package navigation

import (
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/go-arcade/menusync/internal/menu/controller"
	"github.com/go-arcade/menusync/internal/menu/model"
	"github.com/go-arcade/menusync/pkg/log"
	"github.com/go-arcade/menusync/pkg/safe"
)

var ErrItemNotFound = errors.New("navigation item not found")

// NavItem is a menu item prepared for display and routing.
type NavItem struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description,omitempty"`
	Icon         string           `json:"icon"`
	Screen       string           `json:"screen,omitempty"`
	ActionType   model.ActionType `json:"action_type"`
	ActionValue  string           `json:"action_value"`
	Params       map[string]any   `json:"params,omitempty"`
	IsPremium    bool             `json:"is_premium"`
	RequiresAuth bool             `json:"requires_auth"`
	MetaData     map[string]any   `json:"meta_data"`
}

type Option func(*Service)

// WithScreens replaces DefaultScreens.
func WithScreens(screens map[string]string) Option {
	return func(s *Service) { s.screens = screens }
}

// Service is the shared in-memory view of the menu used for navigation.
// Construct one per process and pass it to whoever needs it.
type Service struct {
	mu      sync.RWMutex
	data    *model.MenuData
	screens map[string]string
}

func NewService(opts ...Option) *Service {
	s := &Service{screens: DefaultScreens}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) SetMenuData(data *model.MenuData) {
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
}

func (s *Service) MenuData() *model.MenuData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Follow keeps the service in sync with controller snapshots until the
// channel is closed. It returns immediately.
func (s *Service) Follow(states <-chan controller.State) {
	safe.Go(func() {
		for st := range states {
			if st.MenuData != nil && st.MenuData != s.MenuData() {
				s.SetMenuData(st.MenuData)
				log.Debugw("navigation menu updated", "version", st.CurrentVersion)
			} else if st.MenuData == nil && st.Status == controller.StatusIdle {
				s.SetMenuData(nil)
			}
		}
	})
}

func (s *Service) toNavItem(it model.Item) NavItem {
	icon := it.Icon
	if icon == "" {
		icon = DefaultIcon
	}
	meta := it.MetaData
	if meta == nil {
		meta = map[string]any{}
	}
	params := make(map[string]any)
	for _, k := range paramKeys {
		if v, ok := meta[k]; ok {
			params[k] = v
		}
	}
	return NavItem{
		ID:           it.ID,
		Title:        it.Title,
		Description:  it.Description,
		Icon:         icon,
		Screen:       s.screens[it.ActionValue],
		ActionType:   it.ActionType,
		ActionValue:  it.ActionValue,
		Params:       params,
		IsPremium:    it.IsPremium,
		RequiresAuth: it.RequiresAuth,
		MetaData:     meta,
	}
}

func (s *Service) sectionForScreen(data *model.MenuData, screen string) (model.Section, bool) {
	for _, sec := range data.Sections {
		if sec.Meta("screen") == screen {
			return sec, true
		}
	}
	return model.Section{}, false
}

// TabItems returns the tab bar entries of the home section, falling back
// to the built-in tabs when no menu or home section is available.
func (s *Service) TabItems() []NavItem {
	data := s.MenuData()
	if data == nil {
		return defaultTabs()
	}
	home, ok := s.sectionForScreen(data, "home")
	if !ok {
		return defaultTabs()
	}
	var out []NavItem
	for _, it := range data.SectionItems(home.ID) {
		if it.Meta("navigation_type") == "tab" {
			out = append(out, s.toNavItem(it))
		}
	}
	return out
}

// ScreenItems returns the items of the section bound to screen.
func (s *Service) ScreenItems(screen string) []NavItem {
	data := s.MenuData()
	if data == nil {
		return nil
	}
	sec, ok := s.sectionForScreen(data, screen)
	if !ok {
		return nil
	}
	var out []NavItem
	for _, it := range data.SectionItems(sec.ID) {
		out = append(out, s.toNavItem(it))
	}
	return out
}

func (s *Service) AllItems() []NavItem {
	data := s.MenuData()
	if data == nil {
		return nil
	}
	out := make([]NavItem, 0, len(data.Items))
	for _, it := range data.Items {
		out = append(out, s.toNavItem(it))
	}
	return out
}

func (s *Service) find(match func(model.Item) bool) (NavItem, bool) {
	data := s.MenuData()
	if data == nil {
		return NavItem{}, false
	}
	for _, it := range data.Items {
		if match(it) {
			return s.toNavItem(it), true
		}
	}
	return NavItem{}, false
}

func (s *Service) ItemByID(id string) (NavItem, bool) {
	return s.find(func(it model.Item) bool { return it.ID == id })
}

func (s *Service) ItemByActionValue(value string) (NavItem, bool) {
	return s.find(func(it model.Item) bool { return it.ActionValue == value })
}

type RouteKind string

const (
	RouteScreen          RouteKind = "screen"
	RouteURL             RouteKind = "url"
	RouteAction          RouteKind = "action"
	RouteSection         RouteKind = "section"
	RouteAuthRequired    RouteKind = "auth_required"
	RoutePremiumRequired RouteKind = "premium_required"
)

// Viewer describes who is navigating.
type Viewer struct {
	Authenticated bool
	Premium       bool
}

// Route is the outcome of resolving an item for a viewer.
type Route struct {
	Kind   RouteKind      `json:"kind"`
	Item   NavItem        `json:"item"`
	Target string         `json:"target,omitempty"`
	Params map[string]any `json:"params,omitempty"`
}

// Resolve looks ref up by id, then by action value, and decides where it
// leads. Auth is checked before premium.
func (s *Service) Resolve(ref string, v Viewer) (Route, error) {
	item, ok := s.ItemByID(ref)
	if !ok {
		item, ok = s.ItemByActionValue(ref)
	}
	if !ok {
		return Route{}, fmt.Errorf("%w: %s", ErrItemNotFound, ref)
	}

	switch {
	case item.RequiresAuth && !v.Authenticated:
		return Route{Kind: RouteAuthRequired, Item: item}, nil
	case item.IsPremium && !v.Premium:
		return Route{Kind: RoutePremiumRequired, Item: item}, nil
	}

	switch item.ActionType {
	case model.ActionScreen:
		target := item.Screen
		if target == "" {
			target = item.ActionValue
		}
		params := maps.Clone(item.Params)
		if params == nil {
			params = map[string]any{}
		}
		params["menuItem"] = item.ID
		return Route{Kind: RouteScreen, Item: item, Target: target, Params: params}, nil
	case model.ActionURL:
		return Route{Kind: RouteURL, Item: item, Target: item.ActionValue}, nil
	case model.ActionAction:
		return Route{Kind: RouteAction, Item: item, Target: item.ActionValue}, nil
	case model.ActionSection:
		return Route{
			Kind:   RouteSection,
			Item:   item,
			Target: "Section",
			Params: map[string]any{"sectionId": item.ActionValue, "title": item.Title},
		}, nil
	}
	return Route{}, fmt.Errorf("item %s: unknown action type %q", item.ID, item.ActionType)
}
