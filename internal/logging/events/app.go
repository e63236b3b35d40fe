package events

import "github.com/atomicstack/tmux-popup-cascade/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Exit(committed bool, path []string, err error) {
	payload := map[string]interface{}{"committed": committed, "path": path}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("app.exit", payload)
}
