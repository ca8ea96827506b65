package backoff

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastPolicy() Policy {
	return Policy{MaxAttempts: 4, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestRetry_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastPolicy(), "op", func() error {
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

func TestRetry_RecoversAfterTransientFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastPolicy(), "op", func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
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

func TestRetry_ExhaustsAttempts(t *testing.T) {
	final := errors.New("still down")
	calls := 0
	err := Retry(context.Background(), fastPolicy(), "op", func() error {
		calls++
		return final
	})
	if !errors.Is(err, final) {
		t.Fatalf("expected final error, got %v", err)
	}
	if calls != 4 {
		t.Errorf("expected 4 calls, got %d", calls)
	}
}

func TestRetry_PermanentStopsImmediately(t *testing.T) {
	bad := errors.New("bad request")
	calls := 0
	err := Retry(context.Background(), fastPolicy(), "op", func() error {
		calls++
		return Permanent(bad)
	})
	if !errors.Is(err, bad) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	// The marker itself must not leak to callers.
	var perm *permanentError
	if errors.As(err, &perm) {
		t.Error("permanent marker leaked through Retry")
	}
}

func TestRetry_HonoursRetryAfter(t *testing.T) {
	calls := 0
	start := time.Now()
	err := Retry(context.Background(), fastPolicy(), "op", func() error {
		calls++
		if calls == 1 {
			return After(errors.New("rate limited"), 30*time.Millisecond)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("expected to wait at least 30ms, waited %s", elapsed)
	}
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, Policy{MaxAttempts: 3, BaseDelay: time.Minute, MaxDelay: time.Minute}, "op", func() error {
		calls++
		cancel()
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call before cancellation, got %d", calls)
	}
}

func TestPolicy_DelayGrowsAndCaps(t *testing.T) {
	p := Policy{MaxAttempts: 10, BaseDelay: 200 * time.Millisecond, MaxDelay: 5 * time.Second}

	if d := p.delay(0); d != 200*time.Millisecond {
		t.Errorf("attempt 0: got %s", d)
	}
	if d := p.delay(1); d != 400*time.Millisecond {
		t.Errorf("attempt 1: got %s", d)
	}
	if d := p.delay(4); d != 3200*time.Millisecond {
		t.Errorf("attempt 4: got %s", d)
	}
	if d := p.delay(5); d != 5*time.Second {
		t.Errorf("attempt 5 should cap at 5s: got %s", d)
	}
	if d := p.delay(40); d != 5*time.Second {
		t.Errorf("large attempt should cap at 5s: got %s", d)
	}
}

func TestPermanent_NilPassthrough(t *testing.T) {
	if Permanent(nil) != nil {
		t.Error("Permanent(nil) should be nil")
	}
	if After(nil, time.Second) != nil {
		t.Error("After(nil) should be nil")
	}
}
