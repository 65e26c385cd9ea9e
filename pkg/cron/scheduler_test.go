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

package cron

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_EveryRuns(t *testing.T) {
	s := New()
	defer s.Stop()

	var hits atomic.Int32
	require.NoError(t, s.Every("tick", time.Second, func() { hits.Add(1) }))

	assert.Eventually(t, func() bool { return hits.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestScheduler_ReplaceAndRemove(t *testing.T) {
	s := New()
	defer s.Stop()

	require.NoError(t, s.Every("poll", time.Hour, func() {}))
	require.NoError(t, s.Every("poll", 2*time.Hour, func() {}))
	assert.Equal(t, []string{"poll"}, s.Names())

	next, ok := s.Next("poll")
	require.True(t, ok)
	assert.True(t, next.After(time.Now().Add(time.Hour)), "replacement should carry the new interval")

	assert.True(t, s.Remove("poll"))
	assert.False(t, s.Remove("poll"))
	assert.False(t, s.Has("poll"))
}

func TestScheduler_Errors(t *testing.T) {
	s := New()
	defer s.Stop()

	assert.ErrorIs(t, s.Every("", time.Second, func() {}), ErrEmptyName)
	assert.Error(t, s.Every("zero", 0, func() {}))
	assert.Error(t, s.AddFunc("bad", "not a spec", func() {}))
	assert.NoError(t, s.AddFunc("spec", "@every 1m", func() {}))
}

func TestScheduler_PanicIsRecovered(t *testing.T) {
	s := New()
	defer s.Stop()

	var after atomic.Bool
	require.NoError(t, s.Every("boom", time.Second, func() { panic("boom") }))
	require.NoError(t, s.Every("ok", time.Second, func() { after.Store(true) }))

	assert.Eventually(t, after.Load, 3*time.Second, 50*time.Millisecond)
}
