package resilience

import (
	"context"
	"fmt"
	"time"

	"github.com/cbodonnell/breedadventure/pkg/game/constants"
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Retrier retries setup steps with linearly increasing backoff.
type Retrier struct {
	MaxAttempts int
	Step        time.Duration
	Sink        ErrorSink
	Sleep       SleepFunc
}

func NewRetrier(sink ErrorSink) *Retrier {
	return &Retrier{
		MaxAttempts: constants.InitMaxAttempts,
		Step:        constants.InitBackoffStep,
		Sink:        sink,
		Sleep:       Sleep,
	}
}

// Do runs fn until it succeeds or MaxAttempts is reached. Every failure is
// recorded; the last one at high severity. The final error is returned.
func (r *Retrier) Do(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		severity := SeverityMedium
		if attempt == r.MaxAttempts {
			severity = SeverityHigh
		}
		r.Sink.Record(KindInitialization, fmt.Sprintf("%s failed (attempt %d/%d)", name, attempt, r.MaxAttempts), severity, err)

		if attempt == r.MaxAttempts {
			break
		}
		if err := r.Sleep(ctx, time.Duration(attempt)*r.Step); err != nil {
			return fmt.Errorf("%s: retry interrupted: %w", name, err)
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", name, r.MaxAttempts, lastErr)
}
