package backend

import (
	"context"
	"sync"
	"time"

	"github.com/atomicstack/tmux-popup-cascade/internal/cascade"
	"github.com/atomicstack/tmux-popup-cascade/internal/tree"
)

// throttle ensures a minimum interval between successive operations.
type throttle struct {
	interval time.Duration

	mu   sync.Mutex
	next time.Time
}

func newThrottle(interval time.Duration) *throttle {
	if interval <= 0 {
		return &throttle{}
	}
	return &throttle{interval: interval}
}

// wait blocks until the next slot, or until ctx is done.
func (t *throttle) wait(ctx context.Context) error {
	if t == nil || t.interval <= 0 {
		return nil
	}
	for {
		t.mu.Lock()
		wait := time.Until(t.next)
		if wait <= 0 {
			t.next = time.Now().Add(t.interval)
			t.mu.Unlock()
			return nil
		}
		t.mu.Unlock()
		if wait > t.interval {
			wait = t.interval
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

type throttledLoader struct {
	next     tree.Loader
	throttle *throttle
}

// Throttle spaces calls to next at least interval apart. Loaders that
// spawn processes or hit a database use it to absorb click bursts.
func Throttle(next tree.Loader, interval time.Duration) tree.Loader {
	return &throttledLoader{next: next, throttle: newThrottle(interval)}
}

func (l *throttledLoader) Children(ctx context.Context, req cascade.LoadRequest) ([]*cascade.Option, error) {
	if err := l.throttle.wait(ctx); err != nil {
		return nil, err
	}
	return l.next.Children(ctx, req)
}
