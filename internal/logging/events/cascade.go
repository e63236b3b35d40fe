package events

import (
	"github.com/atomicstack/tmux-popup-cascade/internal/cascade"
	"github.com/atomicstack/tmux-popup-cascade/internal/logging"
)

type CascadeTracer struct{}

type HoverTracer struct{}

var (
	Cascade = CascadeTracer{}
	Hover   = HoverTracer{}
)

func (CascadeTracer) Select(value string, depth int, outcome cascade.Outcome, active cascade.Path) {
	logging.Trace("cascade.select", map[string]interface{}{
		"value":   value,
		"depth":   depth,
		"outcome": outcome.String(),
		"active":  []string(active),
	})
}

func (CascadeTracer) Commit(c cascade.Commit) {
	logging.Trace("cascade.commit", map[string]interface{}{
		"path":       []string(c.Path()),
		"visibility": c.Visibility.String(),
	})
}

func (CascadeTracer) Visible(visible bool, active cascade.Path) {
	logging.Trace("cascade.visible", map[string]interface{}{"visible": visible, "active": []string(active)})
}

func (CascadeTracer) Tree(source string, roots int) {
	logging.Trace("cascade.tree", map[string]interface{}{"source": source, "roots": roots})
}

func (CascadeTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("cascade.error", map[string]interface{}{"error": err.Error()})
}

func (HoverTracer) Schedule(value string, depth int, ticket cascade.Ticket) {
	logging.Trace("hover.schedule", map[string]interface{}{"value": value, "depth": depth, "ticket": uint64(ticket)})
}

func (HoverTracer) Cancel(reason string) {
	logging.Trace("hover.cancel", map[string]interface{}{"reason": reason})
}

func (HoverTracer) Fire(ticket cascade.Ticket, ran bool) {
	logging.Trace("hover.fire", map[string]interface{}{"ticket": uint64(ticket), "ran": ran})
}
