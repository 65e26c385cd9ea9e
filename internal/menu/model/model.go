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

type Layout string

const (
	LayoutGrid       Layout = "grid"
	LayoutList       Layout = "list"
	LayoutHorizontal Layout = "horizontal"
)

type ActionType string

const (
	ActionScreen  ActionType = "screen"
	ActionURL     ActionType = "url"
	ActionAction  ActionType = "action"
	ActionSection ActionType = "section"
)

type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

var Environments = []Environment{EnvDevelopment, EnvStaging, EnvProduction}

func (e Environment) Valid() bool {
	switch e {
	case EnvDevelopment, EnvStaging, EnvProduction:
		return true
	}
	return false
}

func ParseEnvironment(s string) (Environment, error) {
	e := Environment(s)
	if !e.Valid() {
		return "", &ValidationError{Field: "environment", Reason: "must be one of development, staging, production"}
	}
	return e, nil
}

type Increment string

const (
	IncrementMajor Increment = "major"
	IncrementMinor Increment = "minor"
	IncrementPatch Increment = "patch"
)

func (i Increment) Valid() bool {
	switch i {
	case IncrementMajor, IncrementMinor, IncrementPatch:
		return true
	}
	return false
}

type DeploymentStatus string

const (
	DeploymentSuccess DeploymentStatus = "success"
	DeploymentFailure DeploymentStatus = "failure"
)

type Section struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Icon        string         `json:"icon,omitempty"`
	Layout      Layout         `json:"layout"`
	SortOrder   int            `json:"sort_order"`
	IsActive    bool           `json:"is_active"`
	MetaData    map[string]any `json:"meta_data,omitempty"`
	CreatedAt   *Timestamp     `json:"created_at,omitempty"`
	UpdatedAt   *Timestamp     `json:"updated_at,omitempty"`
}

type Item struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description,omitempty"`
	Icon         string         `json:"icon,omitempty"`
	ActionType   ActionType     `json:"action_type"`
	ActionValue  string         `json:"action_value,omitempty"`
	ParentID     string         `json:"parent_id,omitempty"`
	SectionID    string         `json:"section_id"`
	SortOrder    int            `json:"sort_order"`
	IsActive     bool           `json:"is_active"`
	IsPremium    bool           `json:"is_premium"`
	RequiresAuth bool           `json:"requires_auth"`
	MetaData     map[string]any `json:"meta_data,omitempty"`
	CreatedAt    *Timestamp     `json:"created_at,omitempty"`
	UpdatedAt    *Timestamp     `json:"updated_at,omitempty"`
}

// Meta returns a string value from MetaData, or "".
func (i Item) Meta(key string) string {
	s, _ := i.MetaData[key].(string)
	return s
}

func (s Section) Meta(key string) string {
	v, _ := s.MetaData[key].(string)
	return v
}

// MenuData is the full snapshot of sections and items.
type MenuData struct {
	Sections []Section      `json:"sections"`
	Items    []Item         `json:"items"`
	Success  bool           `json:"success"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type Version struct {
	ID            string      `json:"id"`
	Version       string      `json:"version"`
	Environment   Environment `json:"environment"`
	Changelog     string      `json:"changelog,omitempty"`
	IsActive      bool        `json:"is_active"`
	IsDevelopment bool        `json:"is_development"`
	CreatedAt     Timestamp   `json:"created_at"`
	DeployedAt    *Timestamp  `json:"deployed_at,omitempty"`
	CreatedBy     string      `json:"created_by,omitempty"`
}

// Deployment is an append-only audit record.
type Deployment struct {
	ID          string           `json:"id"`
	VersionID   string           `json:"version_id"`
	Environment Environment      `json:"environment"`
	Status      DeploymentStatus `json:"status"`
	DeployedAt  Timestamp        `json:"deployed_at"`
	DeployedBy  string           `json:"deployed_by,omitempty"`
}

// MenuConfig is the versioned configuration served by /menu/config.
type MenuConfig struct {
	Version   string    `json:"version"`
	Config    MenuData  `json:"config"`
	CreatedAt Timestamp `json:"created_at"`
	Changelog string    `json:"changelog,omitempty"`
}

type VersionCheck struct {
	HasUpdate      bool   `json:"has_update"`
	CurrentVersion string `json:"current_version"`
	LatestVersion  string `json:"latest_version,omitempty"`
	Changelog      string `json:"changelog,omitempty"`
}

// CacheEntry is one persisted snapshot. Timestamp is unix milliseconds.
type CacheEntry struct {
	Version       string      `json:"version"`
	MenuData      MenuData    `json:"menuData"`
	Timestamp     int64       `json:"timestamp"`
	Environment   Environment `json:"environment"`
	IsDevelopment bool        `json:"isDevelopment"`
}

// VersionInfo is the per-install bookkeeping record.
type VersionInfo struct {
	CurrentVersion string      `json:"currentVersion"`
	Environment    Environment `json:"environment"`
	IsDevelopment  bool        `json:"isDevelopment"`
	LastUpdated    int64       `json:"lastUpdated"`
	HasUpdate      bool        `json:"hasUpdate"`
	LatestVersion  string      `json:"latestVersion,omitempty"`
}

// VersionInfoPatch carries the fields to merge into VersionInfo.
type VersionInfoPatch struct {
	CurrentVersion *string
	Environment    *Environment
	IsDevelopment  *bool
	LastUpdated    *int64
	HasUpdate      *bool
	LatestVersion  *string
}

func (p VersionInfoPatch) Apply(info *VersionInfo) {
	if p.CurrentVersion != nil {
		info.CurrentVersion = *p.CurrentVersion
	}
	if p.Environment != nil {
		info.Environment = *p.Environment
	}
	if p.IsDevelopment != nil {
		info.IsDevelopment = *p.IsDevelopment
	}
	if p.LastUpdated != nil {
		info.LastUpdated = *p.LastUpdated
	}
	if p.HasUpdate != nil {
		info.HasUpdate = *p.HasUpdate
	}
	if p.LatestVersion != nil {
		info.LatestVersion = *p.LatestVersion
	}
}

// Ptr is a helper for building patches.
func Ptr[T any](v T) *T {
	return &v
}
