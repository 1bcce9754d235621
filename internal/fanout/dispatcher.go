// Package fanout runs best-effort side effects (calendar events,
// transactional mail) outside the request/response cycle, with a bounded
// retry budget and failure telemetry. A side effect that exhausts its
// retries is logged and dropped — it never propagates back to the
// operation that dispatched it.
package fanout

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	defaultAttempts = 3
	defaultBackoff  = 1 * time.Second
	jobTimeout      = 2 * time.Minute
)

// Dispatcher runs named side-effect jobs in background goroutines.
type Dispatcher struct {
	wg       sync.WaitGroup
	attempts int
	backoff  time.Duration
}

// NewDispatcher returns a Dispatcher with the default retry budget.
func NewDispatcher() *Dispatcher {
	return NewDispatcherWithBudget(defaultAttempts, defaultBackoff)
}

// NewDispatcherWithBudget returns a Dispatcher with an explicit retry
// budget.
func NewDispatcherWithBudget(attempts int, backoff time.Duration) *Dispatcher {
	return &Dispatcher{attempts: attempts, backoff: backoff}
}

// Go dispatches fn asynchronously. Each run gets its own timeout context;
// transient failures are retried with exponential backoff.
func (d *Dispatcher) Go(name string, fn func(ctx context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if err := Retry(d.attempts, d.backoff, func() error { return fn(ctx) }); err != nil {
			slog.Warn("side effect gave up", "job", name, "err", err)
			return
		}
		slog.Debug("side effect done", "job", name)
	}()
}

// Wait blocks until all dispatched jobs finish. Called on shutdown.
func (d *Dispatcher) Wait() { d.wg.Wait() }

// Retry executes fn up to attempts times, sleeping between tries and
// doubling the sleep each time.
func Retry(attempts int, sleep time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < attempts-1 {
			time.Sleep(sleep)
			sleep *= 2
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, err)
}
