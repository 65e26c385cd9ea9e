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

package deploy

import (
	"context"
	"fmt"

	"github.com/go-arcade/menusync/internal/menu/model"
	"github.com/go-arcade/menusync/pkg/log"
)

// Admin is the part of the menu service the deployment workflow drives.
type Admin interface {
	GetMenuVersions(ctx context.Context, env model.Environment) ([]model.Version, error)
	GetMenuDeployments(ctx context.Context, env model.Environment) ([]model.Deployment, error)
	CreateMenuVersion(ctx context.Context, in model.VersionInput) (*model.Version, error)
	AutoCreateMenuVersion(ctx context.Context, env model.Environment, increment model.Increment, changelog string) (*model.Version, error)
	DeployMenuVersion(ctx context.Context, versionID string, env model.Environment) (*model.Deployment, error)
	SetDevelopmentVersion(ctx context.Context, versionID string) (*model.Version, error)
}

// Workflow validates admin requests against the current version list
// before sending them, and audits the invariants afterwards.
type Workflow struct {
	api Admin
}

func NewWorkflow(api Admin) *Workflow {
	return &Workflow{api: api}
}

type Status struct {
	Environment model.Environment  `json:"environment"`
	Versions    []model.Version    `json:"versions"`
	Deployments []model.Deployment `json:"deployments"`
	Active      *model.Version     `json:"active,omitempty"`
	Development *model.Version     `json:"development,omitempty"`
	Latest      *model.Version     `json:"latest,omitempty"`
	Violations  []Violation        `json:"violations,omitempty"`
}

func (w *Workflow) Status(ctx context.Context, env model.Environment) (*Status, error) {
	if _, err := model.ParseEnvironment(string(env)); err != nil {
		return nil, err
	}
	versions, err := w.api.GetMenuVersions(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	deployments, err := w.api.GetMenuDeployments(ctx, env)
	if err != nil {
		return nil, fmt.Errorf("list deployments: %w", err)
	}

	st := &Status{Environment: env, Deployments: deployments}
	for i := range versions {
		v := versions[i]
		if v.IsDevelopment && st.Development == nil {
			st.Development = &v
		}
		if v.Environment != env {
			continue
		}
		st.Versions = append(st.Versions, v)
		if v.IsActive && st.Active == nil {
			st.Active = &v
		}
	}
	if latest, ok := LatestVersion(versions, env); ok {
		st.Latest = &latest
	}
	st.Violations = CheckInvariants(versions)
	return st, nil
}

// Deploy makes versionID the active version of env.
func (w *Workflow) Deploy(ctx context.Context, versionID string, env model.Environment) (*model.Deployment, error) {
	if _, err := model.ParseEnvironment(string(env)); err != nil {
		return nil, err
	}
	versions, err := w.api.GetMenuVersions(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	if _, err := deployable(versions, versionID, env); err != nil {
		return nil, err
	}

	d, err := w.api.DeployMenuVersion(ctx, versionID, env)
	if err != nil {
		log.Errorw("menu deployment failed", "version_id", versionID, "environment", env, "error", err)
		return nil, err
	}
	log.Infow("menu version deployed", "version_id", versionID, "environment", env, "deployment", d.ID)
	w.audit(ctx)
	return d, nil
}

// AutoCreate snapshots the live menu as the next version of env.
func (w *Workflow) AutoCreate(ctx context.Context, env model.Environment, inc model.Increment, changelog string) (*model.Version, error) {
	if _, err := model.ParseEnvironment(string(env)); err != nil {
		return nil, err
	}
	versions, err := w.api.GetMenuVersions(ctx, env)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	base := ""
	if latest, ok := LatestVersion(versions, env); ok {
		base = latest.Version
	}
	expected, err := NextVersion(base, inc)
	if err != nil {
		return nil, err
	}

	v, err := w.api.AutoCreateMenuVersion(ctx, env, inc, changelog)
	if err != nil {
		log.Errorw("menu version auto-create failed", "environment", env, "increment", inc, "error", err)
		return nil, err
	}
	if v.Version != expected {
		log.Warnw("server chose a different version than expected", "expected", expected, "created", v.Version)
	}
	log.Infow("menu version created", "environment", env, "version", v.Version)
	return v, nil
}

// CreateVersion registers an explicit version number.
func (w *Workflow) CreateVersion(ctx context.Context, in model.VersionInput) (*model.Version, error) {
	if _, err := model.ParseEnvironment(string(in.Environment)); err != nil {
		return nil, err
	}
	if err := ValidateVersion(in.Version); err != nil {
		return nil, err
	}
	versions, err := w.api.GetMenuVersions(ctx, in.Environment)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	for _, v := range versions {
		if v.Environment == in.Environment && v.Version == in.Version {
			return nil, fmt.Errorf("%w: %s in %s", ErrVersionExists, in.Version, in.Environment)
		}
	}

	v, err := w.api.CreateMenuVersion(ctx, in)
	if err != nil {
		log.Errorw("menu version create failed", "version", in.Version, "environment", in.Environment, "error", err)
		return nil, err
	}
	log.Infow("menu version created", "environment", v.Environment, "version", v.Version)
	if in.IsDevelopment {
		w.audit(ctx)
	}
	return v, nil
}

// SetDevelopment flags versionID as the development version.
func (w *Workflow) SetDevelopment(ctx context.Context, versionID string) (*model.Version, error) {
	versions, err := w.api.GetMenuVersions(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	if _, err := ApplyDevelopmentFlag(versions, versionID); err != nil {
		return nil, err
	}

	v, err := w.api.SetDevelopmentVersion(ctx, versionID)
	if err != nil {
		log.Errorw("set development version failed", "version_id", versionID, "error", err)
		return nil, err
	}
	log.Infow("development version set", "version_id", versionID, "version", v.Version)
	w.audit(ctx)
	return v, nil
}

// audit logs invariant violations reported by the server's version list.
func (w *Workflow) audit(ctx context.Context) []Violation {
	versions, err := w.api.GetMenuVersions(ctx, "")
	if err != nil {
		log.Warnw("menu invariant audit skipped", "error", err)
		return nil
	}
	violations := CheckInvariants(versions)
	for _, v := range violations {
		log.Warnw("menu version invariant violated", "violation", v.String())
	}
	return violations
}
