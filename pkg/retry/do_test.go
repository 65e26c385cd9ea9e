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

package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDo_Success(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return nil
	})
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestDo_RetrySuccess(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	}, WithMaxAttempts(3), WithBackoff(Fixed(time.Millisecond)))
	if err != nil {
		t.Errorf("expected no error after retries, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestDo_MaxAttempts(t *testing.T) {
	attempts := 0
	persistent := errors.New("persistent error")
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return persistent
	}, WithMaxAttempts(3), WithBackoff(Fixed(time.Millisecond)))
	if !errors.Is(err, persistent) {
		t.Errorf("expected last error, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestDo_Permanent(t *testing.T) {
	attempts := 0
	bad := errors.New("bad input")
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return Permanent(bad)
	}, WithMaxAttempts(5))
	if err != bad {
		t.Errorf("expected unwrapped permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestDo_CustomRetryIf(t *testing.T) {
	attempts := 0
	retryableErr := errors.New("retryable")
	nonRetryableErr := errors.New("non-retryable")

	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			return retryableErr
		}
		return nonRetryableErr
	}, WithMaxAttempts(3), WithBackoff(Fixed(time.Millisecond)), WithRetryIf(func(err error) bool {
		return err == retryableErr
	}))

	if err != nonRetryableErr {
		t.Errorf("expected non-retryable error, got %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

func TestDo_OnRetry(t *testing.T) {
	var calls []int
	_ = Do(context.Background(), func(ctx context.Context) error {
		return errors.New("fail")
	}, WithMaxAttempts(3), WithBackoff(Fixed(0)), WithOnRetry(func(attempt int, err error, wait time.Duration) {
		calls = append(calls, attempt)
	}))

	if len(calls) != 2 || calls[0] != 1 || calls[1] != 2 {
		t.Errorf("expected retry hooks for attempts 1 and 2, got %v", calls)
	}
}

func TestDo_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := Do(ctx, func(ctx context.Context) error {
		attempts++
		return errors.New("error")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if attempts != 0 {
		t.Errorf("expected no attempts on cancelled context, got %d", attempts)
	}
}

func TestExponentialBackoff(t *testing.T) {
	b := Exponential(10*time.Millisecond, 30*time.Millisecond)
	if got := b.Next(0); got != 10*time.Millisecond {
		t.Errorf("attempt 0: got %v", got)
	}
	if got := b.Next(1); got != 20*time.Millisecond {
		t.Errorf("attempt 1: got %v", got)
	}
	if got := b.Next(2); got != 30*time.Millisecond {
		t.Errorf("attempt 2 should be capped, got %v", got)
	}
}
