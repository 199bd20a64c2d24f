package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Millisecond,
		MaxDelay:     10 * time.Millisecond,
	}
}

func TestDo_SuccessOnFirstAttempt(t *testing.T) {
	var calls int
	err := Do(context.Background(), fastConfig(), func(_ context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDo_SuccessAfterRetry(t *testing.T) {
	var calls int
	err := Do(context.Background(), fastConfig(), func(_ context.Context) error {
		calls++
		if calls < 3 {
			return NewTransientError(errors.New("temporary"), 503)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDo_ExhaustsRetries(t *testing.T) {
	var calls int
	err := Do(context.Background(), fastConfig(), func(_ context.Context) error {
		calls++
		return NewTransientError(errors.New("always fails"), 500)
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls != 3 {
		t.Errorf("expected exactly MaxAttempts calls, got %d", calls)
	}
}

func TestDo_StopsOnNonRetryable(t *testing.T) {
	var calls int
	err := Do(context.Background(), fastConfig(), func(_ context.Context) error {
		calls++
		return errors.New("permanent failure")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected 1 call for non-retryable error, got %d", calls)
	}
}

func TestDo_StopsOnTerminal(t *testing.T) {
	var calls int
	err := Do(context.Background(), fastConfig(), func(_ context.Context) error {
		calls++
		return NewTerminalError(errors.New("policy outcome"))
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected 1 call for terminal error, got %d", calls)
	}
}

func TestDo_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	err := Do(ctx, RetryConfig{MaxAttempts: 5, InitialDelay: 50 * time.Millisecond}, func(_ context.Context) error {
		calls++
		cancel()
		return NewTransientError(errors.New("temporary"), 503)
	})
	if err == nil {
		t.Fatal("expected error after cancellation")
	}
	if calls != 1 {
		t.Errorf("expected no retries after cancellation, got %d calls", calls)
	}
}

func TestDoVal_ReturnsValue(t *testing.T) {
	var calls int
	got, err := DoVal(context.Background(), fastConfig(), func(_ context.Context) (string, error) {
		calls++
		if calls < 2 {
			return "", NewTransientError(errors.New("temporary"), 429)
		}
		return "conteúdo", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "conteúdo" {
		t.Errorf("expected value from successful attempt, got %q", got)
	}
}

func TestDoVal_PropagatesLastError(t *testing.T) {
	sentinel := errors.New("final failure")
	attempt := 0
	_, err := DoVal(context.Background(), fastConfig(), func(_ context.Context) (int, error) {
		attempt++
		if attempt == 3 {
			return 0, NewTransientError(sentinel, 502)
		}
		return 0, NewTransientError(errors.New("earlier failure"), 502)
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("expected last error to be propagated, got %v", err)
	}
}

func TestDo_BackoffDoubles(t *testing.T) {
	var delays []time.Duration
	start := time.Now()
	last := start
	cfg := RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 20 * time.Millisecond,
		MaxDelay:     time.Second,
		OnRetry: func(_ int, _ error) {
			now := time.Now()
			delays = append(delays, now.Sub(last))
			last = now
		},
	}
	_ = Do(context.Background(), cfg, func(_ context.Context) error {
		return NewTransientError(errors.New("temporary"), 500)
	})
	if len(delays) != 2 {
		t.Fatalf("expected 2 retries, got %d", len(delays))
	}
	total := time.Since(start)
	// 20ms + 40ms of sleep, allow generous scheduling slack.
	if total < 55*time.Millisecond {
		t.Errorf("expected doubled backoff totaling >=60ms, slept %v", total)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := applyDefaults(RetryConfig{})
	if cfg.MaxAttempts != 3 {
		t.Errorf("expected default 3 attempts, got %d", cfg.MaxAttempts)
	}
	if cfg.InitialDelay != time.Second {
		t.Errorf("expected default 1s initial delay, got %v", cfg.InitialDelay)
	}
	if cfg.MaxDelay != 30*time.Second {
		t.Errorf("expected default 30s max delay, got %v", cfg.MaxDelay)
	}
}
