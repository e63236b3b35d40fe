package dispatcher

import (
	"github.com/atomicstack/tmux-popup-cascade/internal/backend"
	"github.com/atomicstack/tmux-popup-cascade/internal/cascade"
	"github.com/atomicstack/tmux-popup-cascade/internal/logging/events"
	"github.com/atomicstack/tmux-popup-cascade/internal/tree"
	"github.com/cockroachdb/errors"
)

// Result reports how an event changed the tree.
type Result struct {
	Tree    cascade.Tree
	Updated bool
	// Stale is set when loaded children no longer have a place in the tree.
	Stale bool
	Err   error
}

// Dispatcher turns backend events into new tree snapshots.
type Dispatcher struct{}

func New() *Dispatcher {
	return &Dispatcher{}
}

// Handle applies evt to current. current is never modified.
func (d *Dispatcher) Handle(current cascade.Tree, evt backend.Event) Result {
	res := Result{Tree: current}
	if evt.Err != nil {
		res.Err = evt.Err
		if evt.Kind == backend.KindChildren {
			events.Load.Error(evt.Request.ID, evt.Err)
		}
		return res
	}
	switch evt.Kind {
	case backend.KindTree:
		res.Tree = evt.Tree
		res.Updated = true
		events.Cascade.Tree("reload", len(evt.Tree))
	case backend.KindChildren:
		path := evt.Request.Path()
		target := cascade.MatchOptions(current, path)
		if len(path) == 0 || len(target) != len(path) || !target[len(target)-1].PendingChildren() {
			res.Stale = true
			events.Load.Stale(evt.Request.ID, path)
			return res
		}
		if err := tree.Validate(evt.Children); err != nil {
			res.Err = errors.Wrapf(err, "children of %s", path.String())
			events.Load.Error(evt.Request.ID, res.Err)
			return res
		}
		next, err := cascade.WithChildren(current, path, evt.Children)
		if err != nil {
			res.Err = err
			return res
		}
		res.Tree = next
		res.Updated = true
		events.Load.Done(evt.Request.ID, len(evt.Children))
	}
	return res
}
