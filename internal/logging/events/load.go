package events

import "github.com/atomicstack/tmux-popup-cascade/internal/logging"

type LoadTracer struct{}

var Load = LoadTracer{}

func (LoadTracer) Request(id string, path []string) {
	logging.Trace("load.request", map[string]interface{}{"id": id, "path": path})
}

func (LoadTracer) Done(id string, children int) {
	logging.Trace("load.done", map[string]interface{}{"id": id, "children": children})
}

func (LoadTracer) Error(id string, err error) {
	if err == nil {
		return
	}
	logging.Trace("load.error", map[string]interface{}{"id": id, "error": err.Error()})
}

func (LoadTracer) Stale(id string, path []string) {
	logging.Trace("load.stale", map[string]interface{}{"id": id, "path": path})
}
