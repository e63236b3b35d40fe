package backend

import (
	"context"
	"time"

	"github.com/atomicstack/tmux-popup-cascade/internal/cascade"
	"github.com/atomicstack/tmux-popup-cascade/internal/logging/events"
	"github.com/atomicstack/tmux-popup-cascade/internal/tree"
	"github.com/cockroachdb/errors"
)

// Loads runs lazy-load requests against a loader. Concurrent requests
// for the same path share one call, and calls are spaced by the
// throttle interval. Load blocks; callers run it off the UI goroutine.
type Loads struct {
	loader  tree.Loader
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

// NewLoads wraps loader. A zero timeout leaves requests unbounded.
func NewLoads(loader tree.Loader, interval, timeout time.Duration) *Loads {
	ctx, cancel := context.WithCancel(context.Background())
	return &Loads{
		loader:  tree.Dedup(Throttle(loader, interval)),
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Load resolves the children for req and reports them as a KindChildren
// event. Failures are carried in Event.Err.
func (l *Loads) Load(req cascade.LoadRequest) Event {
	ctx := l.ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	events.Load.Request(req.ID, req.Path())
	children, err := l.loader.Children(ctx, req)
	if err != nil {
		err = errors.Wrapf(err, "load children of %s", req.Path().String())
	}
	return Event{Kind: KindChildren, Request: req, Children: children, Err: err}
}

// Stop cancels every in-flight load.
func (l *Loads) Stop() {
	l.cancel()
}
