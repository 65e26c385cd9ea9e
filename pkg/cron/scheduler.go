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
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-arcade/menusync/pkg/log"
	"github.com/go-arcade/menusync/pkg/safe"
	"github.com/robfig/cron"
)

var ErrEmptyName = errors.New("cron job name is empty")

// Scheduler runs named periodic jobs. Each job owns its own cron runner so
// a job can be replaced or removed without disturbing the others.
type Scheduler struct {
	mu   sync.Mutex
	jobs map[string]*cron.Cron
}

func New() *Scheduler {
	return &Scheduler{jobs: make(map[string]*cron.Cron)}
}

// Every runs fn every interval, replacing any job with the same name.
// Intervals below one second are rounded up to one second.
func (s *Scheduler) Every(name string, interval time.Duration, fn func()) error {
	if interval <= 0 {
		return fmt.Errorf("cron job %s: interval must be positive", name)
	}
	return s.schedule(name, cron.Every(interval), fn)
}

// AddFunc schedules fn with a cron spec ("0 */5 * * * *", "@every 30s", ...).
func (s *Scheduler) AddFunc(name, spec string, fn func()) error {
	sched, err := cron.Parse(spec)
	if err != nil {
		return fmt.Errorf("cron job %s: %w", name, err)
	}
	return s.schedule(name, sched, fn)
}

func (s *Scheduler) schedule(name string, sched cron.Schedule, fn func()) error {
	if name == "" {
		return ErrEmptyName
	}

	c := cron.New()
	c.Schedule(sched, cron.FuncJob(func() { safe.Do(fn) }))

	s.mu.Lock()
	old := s.jobs[name]
	s.jobs[name] = c
	s.mu.Unlock()

	if old != nil {
		old.Stop()
	}
	c.Start()
	log.Debugw("cron job scheduled", "name", name)
	return nil
}

// Remove stops the named job. It reports whether the job existed.
func (s *Scheduler) Remove(name string) bool {
	s.mu.Lock()
	c, ok := s.jobs[name]
	delete(s.jobs, name)
	s.mu.Unlock()

	if ok {
		c.Stop()
		log.Debugw("cron job removed", "name", name)
	}
	return ok
}

func (s *Scheduler) Has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[name]
	return ok
}

func (s *Scheduler) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Next returns the next activation time of the named job.
func (s *Scheduler) Next(name string) (time.Time, bool) {
	s.mu.Lock()
	c, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	entries := c.Entries()
	if len(entries) == 0 {
		return time.Time{}, false
	}
	return entries[0].Next, true
}

// Stop stops and forgets every job.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	jobs := s.jobs
	s.jobs = make(map[string]*cron.Cron)
	s.mu.Unlock()

	for _, c := range jobs {
		c.Stop()
	}
}
