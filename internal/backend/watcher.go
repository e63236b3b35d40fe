package backend

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/atomicstack/tmux-popup-cascade/internal/cascade"
	"github.com/atomicstack/tmux-popup-cascade/internal/tree"
)

// Kind represents the type of data carried by an Event.
type Kind int

const (
	// KindTree carries a complete replacement snapshot.
	KindTree Kind = iota
	// KindChildren carries the result of a lazy load.
	KindChildren
)

func (k Kind) String() string {
	if k == KindChildren {
		return "children"
	}
	return "tree"
}

// Event conveys new tree data or an error.
type Event struct {
	Kind     Kind
	Tree     cascade.Tree
	Request  cascade.LoadRequest
	Children []*cascade.Option
	Err      error
}

// Watcher polls a tree file at a fixed interval and publishes a fresh
// snapshot whenever the file's size or modification time changes.
type Watcher struct {
	path     string
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher starts watching path. The file's current state is the
// baseline; only later changes are reported.
func NewWatcher(path string, interval time.Duration) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     path,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 4),
	}

	baseline, _ := w.stamp()
	w.wg.Add(1)
	go w.poll(baseline)

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of reload events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher. The poller exits after its current reload
// completes; use Wait if a clean drain is required (e.g. in tests).
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the poller has exited and the events channel is
// closed. Call after Stop when a clean shutdown is required.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

type fileStamp struct {
	size    int64
	modTime time.Time
}

func (w *Watcher) stamp() (fileStamp, error) {
	info, err := os.Stat(w.path)
	if err != nil {
		return fileStamp{}, err
	}
	return fileStamp{size: info.Size(), modTime: info.ModTime()}, nil
}

func (w *Watcher) poll(last fileStamp) {
	defer w.wg.Done()

	missing := false
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			current, err := w.stamp()
			if err != nil {
				if missing {
					continue
				}
				missing = true
			} else if current == last && !missing {
				continue
			}
			evt := Event{Kind: KindTree, Err: err}
			if err == nil {
				missing = false
				last = current
				evt.Tree, evt.Err = tree.LoadFile(w.path)
			}
			select {
			case <-w.ctx.Done():
				return
			case w.events <- evt:
			}
		}
	}
}
