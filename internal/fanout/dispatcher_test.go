package fanout_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"talentpipe/ats-service/internal/fanout"
)

func TestRetry_SucceedsFirstTry(t *testing.T) {
	var calls int
	err := fanout.Retry(3, time.Millisecond, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetry_RecoversAfterTransientFailure(t *testing.T) {
	var calls int
	err := fanout.Retry(3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetry_GivesUpAfterBudget(t *testing.T) {
	boom := errors.New("boom")
	var calls int
	err := fanout.Retry(3, time.Millisecond, func() error {
		calls++
		return boom
	})
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped boom", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDispatcher_RunsJobAndWaits(t *testing.T) {
	d := fanout.NewDispatcher()
	var ran atomic.Bool
	d.Go("test-job", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})
	d.Wait()
	if !ran.Load() {
		t.Error("dispatched job did not run")
	}
}

func TestDispatcher_FailureDoesNotPropagate(t *testing.T) {
	d := fanout.NewDispatcherWithBudget(2, time.Millisecond)
	d.Go("failing-job", func(ctx context.Context) error {
		return errors.New("always fails")
	})
	// Wait must return normally; the failure is telemetry, not an error.
	d.Wait()
}
