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
	"testing"
	"time"

	"github.com/go-arcade/menusync/internal/menu/controller"
	"github.com/go-arcade/menusync/internal/menu/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMenu() *model.MenuData {
	return &model.MenuData{
		Success: true,
		Sections: []model.Section{
			{ID: "home", Name: "home", Title: "Home", Layout: model.LayoutGrid, IsActive: true, MetaData: map[string]any{"screen": "home"}},
			{ID: "enh", Name: "enhance", Title: "Enhance", Layout: model.LayoutList, IsActive: true, MetaData: map[string]any{"screen": "Enhance"}},
		},
		Items: []model.Item{
			{ID: "tab-2", Title: "Create", ActionType: model.ActionScreen, ActionValue: "AIGeneration", SectionID: "home", SortOrder: 2, MetaData: map[string]any{"navigation_type": "tab"}},
			{ID: "tab-1", Title: "Home", Icon: "🏠", ActionType: model.ActionScreen, ActionValue: "RecentProjects", SectionID: "home", SortOrder: 1, MetaData: map[string]any{"navigation_type": "tab"}},
			{ID: "banner", Title: "Banner", ActionType: model.ActionURL, ActionValue: "https://example.com", SectionID: "home", SortOrder: 3},
			{ID: "colorize", Title: "Colorize", ActionType: model.ActionScreen, ActionValue: "ColorizePhoto", SectionID: "enh", IsPremium: true, MetaData: map[string]any{"credits": 2, "processing_type": "colorize"}},
			{ID: "upscale", Title: "Upscale", ActionType: model.ActionScreen, ActionValue: "Custom", SectionID: "enh", RequiresAuth: true, IsPremium: true},
			{ID: "more", Title: "More", ActionType: model.ActionSection, ActionValue: "enh", SectionID: "home", SortOrder: 4},
			{ID: "logout", Title: "Log out", ActionType: model.ActionAction, ActionValue: "logout", SectionID: "home", SortOrder: 5},
		},
	}
}

func TestTabItems(t *testing.T) {
	s := NewService()
	tabs := s.TabItems()
	require.Len(t, tabs, 5, "built-in tabs without menu data")
	assert.Equal(t, "home-tab", tabs[0].ID)

	s.SetMenuData(sampleMenu())
	tabs = s.TabItems()
	require.Len(t, tabs, 2)
	assert.Equal(t, "tab-1", tabs[0].ID)
	assert.Equal(t, "Home", tabs[0].Screen)
	assert.Equal(t, DefaultIcon, tabs[1].Icon)
	assert.Equal(t, "AIGeneration", tabs[1].Screen)

	s.SetMenuData(&model.MenuData{Sections: []model.Section{{ID: "x"}}})
	assert.Len(t, s.TabItems(), 5, "no home section falls back to built-in tabs")
}

func TestScreenItemsAndLookup(t *testing.T) {
	s := NewService()
	assert.Nil(t, s.ScreenItems("Enhance"))
	assert.Nil(t, s.AllItems())

	s.SetMenuData(sampleMenu())
	items := s.ScreenItems("Enhance")
	require.Len(t, items, 2)
	assert.Equal(t, "ModeSelection", items[0].Screen)
	assert.Equal(t, 2, items[0].Params["credits"])
	assert.NotContains(t, items[0].Params, "generation_type")

	assert.Empty(t, s.ScreenItems("Nowhere"))
	assert.Len(t, s.AllItems(), 7)

	it, ok := s.ItemByActionValue("ColorizePhoto")
	require.True(t, ok)
	assert.Equal(t, "colorize", it.ID)

	_, ok = s.ItemByID("missing")
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	s := NewService()
	s.SetMenuData(sampleMenu())
	member := Viewer{Authenticated: true, Premium: true}

	tests := []struct {
		name   string
		ref    string
		viewer Viewer
		kind   RouteKind
		target string
	}{
		{"screen by id", "tab-1", Viewer{}, RouteScreen, "Home"},
		{"screen by action value", "AIGeneration", Viewer{}, RouteScreen, "AIGeneration"},
		{"unmapped screen uses action value", "upscale", member, RouteScreen, "Custom"},
		{"url", "banner", Viewer{}, RouteURL, "https://example.com"},
		{"action", "logout", Viewer{}, RouteAction, "logout"},
		{"section", "more", Viewer{}, RouteSection, "Section"},
		{"premium gate", "colorize", Viewer{Authenticated: true}, RoutePremiumRequired, ""},
		{"auth before premium", "upscale", Viewer{}, RouteAuthRequired, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := s.Resolve(tt.ref, tt.viewer)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, r.Kind)
			assert.Equal(t, tt.target, r.Target)
		})
	}

	r, err := s.Resolve("more", Viewer{})
	require.NoError(t, err)
	assert.Equal(t, "enh", r.Params["sectionId"])

	_, err = s.Resolve("ghost", member)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestFollow(t *testing.T) {
	s := NewService()
	states := make(chan controller.State, 2)
	s.Follow(states)

	data := sampleMenu()
	states <- controller.State{Status: controller.StatusReady, MenuData: data}
	assert.Eventually(t, func() bool { return s.MenuData() == data }, time.Second, 5*time.Millisecond)

	states <- controller.State{Status: controller.StatusIdle}
	assert.Eventually(t, func() bool { return s.MenuData() == nil }, time.Second, 5*time.Millisecond)
	close(states)
}
