package sprout

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces the calls made to a QuoteSource.
type Limiter interface {
	// Wait blocks until the next call is allowed, or ctx is done.
	Wait(ctx context.Context) error
	// Interval is the expected time between two consecutive calls.
	Interval() time.Duration
}

// DefaultDelay is the pause between two quote calls that keeps a refresh under
// the free tier budget of five calls per minute.
const DefaultDelay = 15 * time.Second

// FixedDelay lets a call through only once Delay has elapsed since the
// previous one. The first call is never delayed.
type FixedDelay struct {
	Delay time.Duration

	mu   sync.Mutex
	last time.Time
}

// NewFixedDelay returns a FixedDelay limiter.
func NewFixedDelay(delay time.Duration) *FixedDelay { return &FixedDelay{Delay: delay} }

// Interval returns Delay.
func (f *FixedDelay) Interval() time.Duration { return f.Delay }

// Wait implements Limiter.
func (f *FixedDelay) Wait(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.last.IsZero() {
		if d := time.Until(f.last.Add(f.Delay)); d > 0 {
			t := time.NewTimer(d)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.C:
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	f.last = time.Now()
	return nil
}

// Budget is a token bucket allowing a number of calls per period, one at a
// time.
type Budget struct {
	limiter *rate.Limiter
	every   time.Duration
}

// NewBudget returns a limiter allowing calls per period. A non positive calls
// disables the limit.
func NewBudget(calls int, per time.Duration) *Budget {
	if calls <= 0 {
		return &Budget{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	every := per / time.Duration(calls)
	return &Budget{limiter: rate.NewLimiter(rate.Every(every), 1), every: every}
}

// Interval returns the time needed to earn a new token.
func (b *Budget) Interval() time.Duration { return b.every }

// Wait implements Limiter.
func (b *Budget) Wait(ctx context.Context) error { return b.limiter.Wait(ctx) }
