package cascade

import "time"

// DefaultHoverDelay is how long a hover must rest on an option before
// its column expands.
const DefaultHoverDelay = 300 * time.Millisecond

// Ticket identifies one scheduled action.
type Ticket uint64

// Debouncer holds at most one pending action. The owner arranges for
// Fire to be called once the delay elapses (a tea.Tick, a time.AfterFunc
// posting back to its event loop, ...); Fire runs the action only if no
// Schedule or Cancel happened in between.
type Debouncer struct {
	delay   time.Duration
	seq     Ticket
	pending func()
}

// NewDebouncer returns a debouncer using delay, or DefaultHoverDelay when
// delay is not positive.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultHoverDelay
	}
	return &Debouncer{delay: delay}
}

// Delay returns the configured delay.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Schedule cancels any pending action and stores action as the new one.
func (d *Debouncer) Schedule(action func()) Ticket {
	d.Cancel()
	d.seq++
	d.pending = action
	return d.seq
}

// Cancel drops the pending action, if any.
func (d *Debouncer) Cancel() {
	d.pending = nil
}

// Pending reports whether an action is waiting.
func (d *Debouncer) Pending() bool {
	return d.pending != nil
}

// Fire runs the pending action when t is still current. It reports
// whether an action ran.
func (d *Debouncer) Fire(t Ticket) bool {
	if d.pending == nil || t != d.seq {
		return false
	}
	action := d.pending
	d.pending = nil
	action()
	return true
}
