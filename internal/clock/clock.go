// Package clock provides an injectable time source so poll loops can be
// driven deterministically in tests.
//
// Production code uses Real(); tests use Fake(), whose time only moves
// when Advance is called. WaitForTimers closes the race between a
// goroutine registering a wait and the test advancing the clock:
//
//	c := clock.Fake(time.Unix(0, 0))
//	go loop(c)
//	c.WaitForTimers(1)
//	c.Advance(time.Second)
package clock

import (
	"context"
	"time"
)

// Clock abstracts the time operations used by the supervisor.
type Clock interface {
	Now() time.Time

	// After returns a channel that receives the current time once d has
	// elapsed. If d <= 0 the channel receives immediately.
	After(d time.Duration) <-chan time.Time
}

// Real returns a Clock backed by the standard time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// SleepContext waits for d on c, returning early with ctx.Err() when ctx is
// done first.
func SleepContext(ctx context.Context, c Clock, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.After(d):
		return nil
	}
}
