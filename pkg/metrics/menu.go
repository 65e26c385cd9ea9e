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
	"github.com/prometheus/client_golang/prometheus"
)

var (
	CacheOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "menusync",
			Name:      "cache_ops_total",
			Help:      "Menu cache operations by operation and result",
		},
		[]string{"op", "result"},
	)

	StorageErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "menusync",
			Name:      "storage_errors_total",
			Help:      "Persisted store failures by kind (read or write)",
		},
		[]string{"kind"},
	)

	LoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "menusync",
			Name:      "loads_total",
			Help:      "Menu configuration loads by source and result",
		},
		[]string{"source", "result"},
	)

	LoadDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "menusync",
			Name:      "load_duration_seconds",
			Help:      "Duration of menu configuration loads",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 15),
		},
	)

	UpdateChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "menusync",
			Name:      "update_checks_total",
			Help:      "Update checks by result (update, current, error, skipped)",
		},
		[]string{"result"},
	)

	UpdateAvailable = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "menusync",
			Name:      "update_available",
			Help:      "1 when the server reports a newer menu version",
		},
	)

	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "menusync",
			Name:      "api_requests_total",
			Help:      "Menu API requests by operation and status code",
		},
		[]string{"op", "code"},
	)
)

// MenuCollectors lists every collector owned by this repository.
func MenuCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		CacheOpsTotal,
		StorageErrorsTotal,
		LoadsTotal,
		LoadDurationSeconds,
		UpdateChecksTotal,
		UpdateAvailable,
		APIRequestsTotal,
	}
}
