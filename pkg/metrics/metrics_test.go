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

package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsServer_ExposesMenuCollectors(t *testing.T) {
	s, err := NewMetricsServer(MetricsConfig{})
	require.NoError(t, err)

	LoadsTotal.WithLabelValues("network", "ok").Inc()

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "menusync_loads_total"))
}

func TestRegisterCollector_Idempotent(t *testing.T) {
	s := NewServer(MetricsConfig{})
	require.NoError(t, s.RegisterCollector(UpdateAvailable))
	assert.NoError(t, s.RegisterCollector(UpdateAvailable))
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(UpdateChecksTotal.WithLabelValues("current"))
	UpdateChecksTotal.WithLabelValues("current").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(UpdateChecksTotal.WithLabelValues("current")))
}

func TestStart_Disabled(t *testing.T) {
	s := NewServer(MetricsConfig{Enable: false})
	assert.NoError(t, s.Start())
	assert.NoError(t, s.Stop(context.Background()))
}
