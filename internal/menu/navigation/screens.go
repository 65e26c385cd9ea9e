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

import "github.com/go-arcade/menusync/internal/menu/model"

const DefaultIcon = "📱"

// DefaultScreens maps item action values to the screen that hosts them.
var DefaultScreens = map[string]string{
	"RecentProjects":      "Home",
	"AIGeneration":        "AIGeneration",
	"VideoGeneration":     "VideoGeneration",
	"PhotoEnhancement":    "ModeSelection",
	"ColorizePhoto":       "ModeSelection",
	"RemoveScratches":     "ModeSelection",
	"Enlighten":           "ModeSelection",
	"Recreate":            "ModeSelection",
	"Combine":             "ModeSelection",
	"FaceEnhancement":     "ModeSelection",
	"AIUpscale":           "ModeSelection",
	"FutureBaby":          "AIGeneration",
	"RemoveElements":      "AIGeneration",
	"OutfitTryOn":         "AIGeneration",
	"DigitalTwin":         "AIGeneration",
	"PixelTrend":          "AIGeneration",
	"ChibiStickers":       "AIGeneration",
	"ImageToImage":        "AIGeneration",
	"BackgroundGenerator": "AIGeneration",
	"LogoGenerator":       "AIGeneration",
	"AnimateOldPhotos":    "VideoGeneration",
	"FaceAnimation":       "VideoGeneration",
	"PhotoToVideo":        "VideoGeneration",
	"VideoEnhancement":    "VideoGeneration",
	"VideoColorize":       "VideoGeneration",
	"VideoUpscale":        "VideoGeneration",
	"GIFCreator":          "VideoGeneration",
	"VideoStabilization":  "VideoGeneration",
}

// paramKeys are copied from item metadata into NavItem.Params.
var paramKeys = []string{
	"supported_formats",
	"processing_type",
	"enhancement_type",
	"generation_type",
	"credits",
	"processing_time",
}

func defaultTabs() []NavItem {
	tab := func(id, title, icon, screen string) NavItem {
		return NavItem{
			ID:          id,
			Title:       title,
			Icon:        icon,
			Screen:      screen,
			ActionType:  model.ActionScreen,
			ActionValue: screen,
			MetaData:    map[string]any{"navigation_type": "tab"},
		}
	}
	return []NavItem{
		tab("home-tab", "Home", "🏠", "Home"),
		tab("enhance-tab", "Enhance", "✨", "Enhance"),
		tab("create-tab", "Create", "🤖", "Create"),
		tab("videos-tab", "Videos", "🎬", "Videos"),
		tab("profile-tab", "Profile", "👤", "Profile"),
	}
}
