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
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/go-arcade/menusync/internal/menu/model"
	"github.com/go-arcade/menusync/internal/menu/storage"
	"github.com/go-arcade/menusync/pkg/id"
)

// FirstVersion is the base used when an environment has no versions yet.
const FirstVersion = "1.0.0"

var (
	ErrVersionNotFound     = errors.New("menu version not found")
	ErrVersionExists       = errors.New("menu version already exists")
	ErrInvalidVersion      = errors.New("invalid menu version")
	ErrEnvironmentMismatch = errors.New("menu version belongs to another environment")
)

// NextVersion bumps base. A major bump resets minor and patch, a minor
// bump resets patch. An empty base bumps FirstVersion.
func NextVersion(base string, inc model.Increment) (string, error) {
	if !inc.Valid() {
		return "", &model.ValidationError{Field: "version_increment", Reason: fmt.Sprintf("unknown increment %q", inc)}
	}
	if base == "" {
		base = FirstVersion
	}
	v, err := semver.NewVersion(base)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidVersion, base, err)
	}

	var next semver.Version
	switch inc {
	case model.IncrementMajor:
		next = v.IncMajor()
	case model.IncrementMinor:
		next = v.IncMinor()
	default:
		next = v.IncPatch()
	}
	return next.String(), nil
}

// ValidateVersion accepts MAJOR.MINOR.PATCH only. Prefixes, pre-release
// and build suffixes are rejected because CompareVersions orders numeric
// segments only.
func ValidateVersion(s string) error {
	v, err := semver.StrictNewVersion(s)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidVersion, s, err)
	}
	if v.Prerelease() != "" || v.Metadata() != "" {
		return fmt.Errorf("%w %q: pre-release and build suffixes are not supported", ErrInvalidVersion, s)
	}
	return nil
}

// LatestVersion returns the highest version for env. Ties go to the most
// recently created record.
func LatestVersion(versions []model.Version, env model.Environment) (model.Version, bool) {
	var (
		best  model.Version
		found bool
	)
	for _, v := range versions {
		if v.Environment != env {
			continue
		}
		if !found {
			best, found = v, true
			continue
		}
		switch storage.CompareVersions(v.Version, best.Version) {
		case 1:
			best = v
		case 0:
			if v.CreatedAt.After(best.CreatedAt.Time) {
				best = v
			}
		}
	}
	return best, found
}

func indexOf(versions []model.Version, versionID string) int {
	return slices.IndexFunc(versions, func(v model.Version) bool { return v.ID == versionID })
}

func deployable(versions []model.Version, versionID string, env model.Environment) (int, error) {
	i := indexOf(versions, versionID)
	if i < 0 {
		return -1, fmt.Errorf("%w: %s", ErrVersionNotFound, versionID)
	}
	if versions[i].Environment != env {
		return -1, fmt.Errorf("%w: %s is %s, not %s", ErrEnvironmentMismatch, versionID, versions[i].Environment, env)
	}
	return i, nil
}

// ApplyDeployment activates versionID in env, deactivating whatever was
// active there, and returns the updated copy plus the audit record.
func ApplyDeployment(versions []model.Version, versionID string, env model.Environment, now time.Time, by string) ([]model.Version, model.Deployment, error) {
	i, err := deployable(versions, versionID, env)
	if err != nil {
		return nil, model.Deployment{}, err
	}

	out := slices.Clone(versions)
	for j := range out {
		if out[j].Environment == env {
			out[j].IsActive = false
		}
	}
	deployedAt := model.NewTimestamp(now)
	out[i].IsActive = true
	out[i].DeployedAt = &deployedAt

	return out, model.Deployment{
		ID:          id.GetUUID(),
		VersionID:   versionID,
		Environment: env,
		Status:      model.DeploymentSuccess,
		DeployedAt:  deployedAt,
		DeployedBy:  by,
	}, nil
}

// ApplyDevelopmentFlag leaves exactly one version flagged as development.
func ApplyDevelopmentFlag(versions []model.Version, versionID string) ([]model.Version, error) {
	i := indexOf(versions, versionID)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrVersionNotFound, versionID)
	}
	out := slices.Clone(versions)
	for j := range out {
		out[j].IsDevelopment = j == i
	}
	return out, nil
}

type ViolationKind string

const (
	MultipleActive      ViolationKind = "multiple_active"
	MultipleDevelopment ViolationKind = "multiple_development"
)

type Violation struct {
	Kind        ViolationKind
	Environment model.Environment
	VersionIDs  []string
}

func (v Violation) String() string {
	if v.Environment == "" {
		return fmt.Sprintf("%s: %v", v.Kind, v.VersionIDs)
	}
	return fmt.Sprintf("%s in %s: %v", v.Kind, v.Environment, v.VersionIDs)
}

// CheckInvariants reports environments with more than one active version
// and more than one development-flagged version overall.
func CheckInvariants(versions []model.Version) []Violation {
	active := make(map[model.Environment][]string)
	var dev []string
	for _, v := range versions {
		if v.IsActive {
			active[v.Environment] = append(active[v.Environment], v.ID)
		}
		if v.IsDevelopment {
			dev = append(dev, v.ID)
		}
	}

	var out []Violation
	for _, env := range model.Environments {
		if ids := active[env]; len(ids) > 1 {
			out = append(out, Violation{Kind: MultipleActive, Environment: env, VersionIDs: ids})
		}
	}
	if len(dev) > 1 {
		out = append(out, Violation{Kind: MultipleDevelopment, VersionIDs: dev})
	}
	return out
}
