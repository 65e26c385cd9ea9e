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

package shutdown

import (
	"sync"
	"sync/atomic"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(NewManager)

// Manager tracks whether the process is draining. Done is closed exactly
// once, so any number of goroutines may wait on it.
type Manager struct {
	draining atomic.Bool
	once     sync.Once
	done     chan struct{}

	mu     sync.RWMutex
	reason string
}

func NewManager() *Manager {
	return &Manager{done: make(chan struct{})}
}

// IsShuttingDown reports whether Shutdown has been called.
func (m *Manager) IsShuttingDown() bool {
	return m.draining.Load()
}

// Shutdown starts the drain. It returns false when a drain was already
// in progress.
func (m *Manager) Shutdown(reason string) bool {
	triggered := false
	m.once.Do(func() {
		m.mu.Lock()
		m.reason = reason
		m.mu.Unlock()
		m.draining.Store(true)
		close(m.done)
		triggered = true
	})
	return triggered
}

// Reason is the argument of the first Shutdown call.
func (m *Manager) Reason() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reason
}

func (m *Manager) Done() <-chan struct{} {
	return m.done
}
