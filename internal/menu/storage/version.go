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

package storage

import (
	"strconv"
	"strings"
	"time"
)

// CompareVersions compares dotted numeric versions segment by segment.
// Missing segments count as 0, so "1.2" equals "1.2.0". A segment that is
// not a number also counts as 0. It returns -1, 0 or 1.
func CompareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	n := max(len(as), len(bs))
	for i := 0; i < n; i++ {
		av, bv := segment(as, i), segment(bs, i)
		switch {
		case av > bv:
			return 1
		case av < bv:
			return -1
		}
	}
	return 0
}

func segment(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
	if err != nil {
		return 0
	}
	return v
}

const DefaultMaxCacheAge = 7 * 24 * time.Hour

// IsExpired reports whether a snapshot taken at ts (unix ms) is older than
// maxAge at now. A non-positive maxAge selects DefaultMaxCacheAge.
func IsExpired(now time.Time, ts int64, maxAge time.Duration) bool {
	if maxAge <= 0 {
		maxAge = DefaultMaxCacheAge
	}
	return now.UnixMilli()-ts > maxAge.Milliseconds()
}
