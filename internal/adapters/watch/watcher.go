package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watcher watches the data directory for JSON edits and fires onChange once
// a burst of writes has settled. One callback covers the whole burst; the
// caller reloads the full dataset anyway.
type Watcher struct {
	dir      string
	onChange func(context.Context)

	w       *fsnotify.Watcher
	mu      sync.Mutex
	pending map[string]time.Time
	settle  time.Duration
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

func New(dir string, onChange func(context.Context)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		dir:      dir,
		onChange: onChange,
		w:        w,
		pending:  make(map[string]time.Time),
		settle:   500 * time.Millisecond, // ride out editors that save in pieces
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the event loop runs in a goroutine
// until Stop or ctx cancellation.
func (d *Watcher) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return nil
	}
	d.running = true
	d.mu.Unlock()

	if err := d.w.Add(d.dir); err != nil {
		return err
	}
	log.Info().Str("dir", d.dir).Msg("watching data directory")

	go d.run(ctx)
	return nil
}

// Stop halts the watcher and waits for the event loop to drain.
func (d *Watcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	d.mu.Unlock()

	close(d.stopCh)
	<-d.doneCh
	_ = d.w.Close()
}

func (d *Watcher) run(ctx context.Context) {
	defer close(d.doneCh)

	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-d.stopCh:
			return
		case ev, ok := <-d.w.Events:
			if !ok {
				return
			}
			d.note(ev)
		case err, ok := <-d.w.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("data watcher error")
		case <-tick.C:
			if d.settled() {
				log.Info().Msg("data files changed, refreshing")
				d.onChange(ctx)
			}
		}
	}
}

func (d *Watcher) note(ev fsnotify.Event) {
	if filepath.Ext(ev.Name) != ".json" {
		return
	}
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return // chmod noise
	}
	d.mu.Lock()
	d.pending[ev.Name] = time.Now()
	d.mu.Unlock()
}

// settled reports whether every pending file has been quiet for the settle
// window, and clears the set when so.
func (d *Watcher) settled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.pending) == 0 {
		return false
	}
	now := time.Now()
	for _, at := range d.pending {
		if now.Sub(at) < d.settle {
			return false
		}
	}
	d.pending = make(map[string]time.Time)
	return true
}
