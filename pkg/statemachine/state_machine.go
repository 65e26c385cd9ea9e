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

package statemachine

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

var ErrInvalidTransition = errors.New("invalid transition")

// Event names the cause of a transition. It is optional.
type Event string

// TransitionHook runs after the state has changed. Hooks are called
// without the machine lock held, so they may read Current.
type TransitionHook[T comparable] func(from, to T, event Event)

// StateHook runs after entering a state.
type StateHook[T comparable] func(state T)

type TransitionRecord[T comparable] struct {
	From      T
	To        T
	Event     Event
	Timestamp time.Time
}

// StateMachine is a small generic FSM. Transitions must be registered
// with Allow before they can be taken. It is safe for concurrent use.
type StateMachine[T comparable] struct {
	mu sync.RWMutex

	current T
	initial T

	valid map[T][]T

	history        []TransitionRecord[T]
	maxHistorySize int

	onTransition []TransitionHook[T]
	onEnter      map[T][]StateHook[T]
}

func NewWithState[T comparable](initial T) *StateMachine[T] {
	return &StateMachine[T]{
		current:        initial,
		initial:        initial,
		valid:          make(map[T][]T),
		onEnter:        make(map[T][]StateHook[T]),
		maxHistorySize: 100,
	}
}

// Allow registers from -> to for each target.
func (sm *StateMachine[T]) Allow(from T, to ...T) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for _, target := range to {
		if !slices.Contains(sm.valid[from], target) {
			sm.valid[from] = append(sm.valid[from], target)
		}
	}
	return sm
}

func (sm *StateMachine[T]) CanTransition(from, to T) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return slices.Contains(sm.valid[from], to)
}

func (sm *StateMachine[T]) CanTransitionTo(to T) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return slices.Contains(sm.valid[sm.current], to)
}

func (sm *StateMachine[T]) Current() T {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.current
}

func (sm *StateMachine[T]) Initial() T {
	return sm.initial
}

func (sm *StateMachine[T]) Is(state T) bool {
	return sm.Current() == state
}

func (sm *StateMachine[T]) IsOneOf(states ...T) bool {
	return slices.Contains(states, sm.Current())
}

// Reset returns to the initial state and clears history. No hooks run.
func (sm *StateMachine[T]) Reset() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.current = sm.initial
	sm.history = nil
}

func (sm *StateMachine[T]) History() []TransitionRecord[T] {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return slices.Clone(sm.history)
}

func (sm *StateMachine[T]) SetMaxHistorySize(size int) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.maxHistorySize = size
	if size > 0 && len(sm.history) > size {
		sm.history = sm.history[len(sm.history)-size:]
	}
	return sm
}

func (sm *StateMachine[T]) OnTransition(h TransitionHook[T]) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.onTransition = append(sm.onTransition, h)
	return sm
}

func (sm *StateMachine[T]) OnEnter(state T, h StateHook[T]) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.onEnter[state] = append(sm.onEnter[state], h)
	return sm
}

// TransitionTo moves from the current state to `to`.
func (sm *StateMachine[T]) TransitionTo(to T) error {
	return sm.Fire(to, "")
}

// Fire moves from the current state to `to`, recording event.
func (sm *StateMachine[T]) Fire(to T, event Event) error {
	sm.mu.Lock()
	from := sm.current
	if !slices.Contains(sm.valid[from], to) {
		sm.mu.Unlock()
		return fmt.Errorf("%w: %v -> %v", ErrInvalidTransition, from, to)
	}
	sm.current = to
	sm.history = append(sm.history, TransitionRecord[T]{
		From:      from,
		To:        to,
		Event:     event,
		Timestamp: time.Now(),
	})
	if sm.maxHistorySize > 0 && len(sm.history) > sm.maxHistorySize {
		sm.history = sm.history[len(sm.history)-sm.maxHistorySize:]
	}
	transitionHooks := slices.Clone(sm.onTransition)
	enterHooks := slices.Clone(sm.onEnter[to])
	sm.mu.Unlock()

	for _, h := range transitionHooks {
		h(from, to, event)
	}
	for _, h := range enterHooks {
		h(to)
	}
	return nil
}
