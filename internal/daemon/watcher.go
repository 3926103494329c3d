package daemon

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sitecomposer/internal/logfields"
)

// Watcher monitors the configuration file and every source directory feeding
// a composition, coalescing bursts of filesystem events into single
// recompose triggers.
type Watcher struct {
	paths    []string
	onChange func()
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu       sync.Mutex
	stopChan chan struct{}
	stopped  bool
}

// NewWatcher creates a watcher over the given files and directories. Paths
// that do not exist yet are skipped; a translation directory added later is
// picked up on the next daemon restart.
func NewWatcher(paths []string, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		paths:    paths,
		onChange: onChange,
		watcher:  fsw,
		debounce: 2 * time.Second,
		stopChan: make(chan struct{}),
	}, nil
}

// Start registers the watch paths and launches the event loop.
func (w *Watcher) Start(ctx context.Context) error {
	for _, path := range w.paths {
		target := path
		if info, err := os.Stat(path); err != nil {
			slog.Debug("Skipping missing watch path", logfields.Path(path))
			continue
		} else if !info.IsDir() {
			// Watch the containing directory; editors replace files on save.
			target = filepath.Dir(path)
		}
		if err := w.watcher.Add(target); err != nil {
			slog.Warn("Failed to watch path", logfields.Path(target), logfields.Error(err))
			continue
		}
		slog.Debug("Watching path", logfields.Path(target))
	}

	go w.loop(ctx)
	return nil
}

// Stop shuts the watcher down.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.stopped = true
	close(w.stopChan)
	_ = w.watcher.Close()
}

// loop debounces raw filesystem events: the trigger fires once the event
// stream has been quiet for the debounce window.
func (w *Watcher) loop(ctx context.Context) {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("Source change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			if pending {
				if !timer.Stop() {
					<-timer.C
				}
			}
			pending = true
			timer.Reset(w.debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Watcher error", logfields.Error(err))
		case <-timer.C:
			if pending {
				pending = false
				w.onChange()
			}
		}
	}
}
