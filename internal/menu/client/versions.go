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

	"github.com/go-arcade/menusync/internal/menu/model"
	"github.com/go-resty/resty/v2"
)

// GetMenuConfig returns the versioned configuration for env. With
// developmentMode set the server serves the development-flagged version.
func (c *Client) GetMenuConfig(ctx context.Context, env model.Environment, developmentMode bool) (*model.MenuConfig, error) {
	q := map[string]string{"environment": string(env)}
	if developmentMode {
		q["development_mode"] = "true"
	}
	var cfg model.MenuConfig
	if err := c.get(ctx, "get_menu_config", "/menu/config", q, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Client) CheckVersion(ctx context.Context, current string, env model.Environment) (*model.VersionCheck, error) {
	q := map[string]string{
		"current_version": current,
		"environment":     string(env),
	}
	var check model.VersionCheck
	if err := c.get(ctx, "check_version", "/menu/config/check-version", q, &check); err != nil {
		return nil, err
	}
	return &check, nil
}

func envQuery(env model.Environment) map[string]string {
	if env == "" {
		return nil
	}
	return map[string]string{"environment": string(env)}
}

// GetMenuVersions lists versions, optionally narrowed to env.
func (c *Client) GetMenuVersions(ctx context.Context, env model.Environment) ([]model.Version, error) {
	var versions []model.Version
	if err := c.get(ctx, "get_versions", "/menu/versions", envQuery(env), &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

func (c *Client) GetMenuDeployments(ctx context.Context, env model.Environment) ([]model.Deployment, error) {
	var deployments []model.Deployment
	if err := c.get(ctx, "get_deployments", "/menu/deployments", envQuery(env), &deployments); err != nil {
		return nil, err
	}
	return deployments, nil
}

func (c *Client) CreateMenuVersion(ctx context.Context, in model.VersionInput) (*model.Version, error) {
	if _, err := model.ParseEnvironment(string(in.Environment)); err != nil {
		return nil, err
	}
	var v model.Version
	if err := c.send(ctx, "create_version", resty.MethodPost, "/menu/versions", in, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

type autoCreateRequest struct {
	Environment      model.Environment `json:"environment"`
	VersionIncrement model.Increment   `json:"version_increment"`
	Changelog        string            `json:"changelog,omitempty"`
}

// AutoCreateMenuVersion asks the server to snapshot the live menu as the
// next version of env.
func (c *Client) AutoCreateMenuVersion(ctx context.Context, env model.Environment, increment model.Increment, changelog string) (*model.Version, error) {
	if !increment.Valid() {
		return nil, &model.ValidationError{Field: "version_increment", Reason: "must be one of major, minor, patch"}
	}
	body := autoCreateRequest{Environment: env, VersionIncrement: increment, Changelog: changelog}
	var v model.Version
	if err := c.send(ctx, "auto_create_version", resty.MethodPost, "/menu/versions/auto-create", body, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

type deployRequest struct {
	VersionID   string            `json:"version_id"`
	Environment model.Environment `json:"environment"`
}

func (c *Client) DeployMenuVersion(ctx context.Context, versionID string, env model.Environment) (*model.Deployment, error) {
	var d model.Deployment
	body := deployRequest{VersionID: versionID, Environment: env}
	if err := c.send(ctx, "deploy_version", resty.MethodPost, "/menu/deploy", body, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) SetDevelopmentVersion(ctx context.Context, versionID string) (*model.Version, error) {
	var v model.Version
	body := map[string]string{"version_id": versionID}
	if err := c.send(ctx, "set_development_version", resty.MethodPost, "/menu/development/set", body, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
