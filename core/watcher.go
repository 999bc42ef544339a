package core

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"panelfiles/logging"
)

const watchDebounce = 200 * time.Millisecond

// Watcher reloads the listing when the watched directory of a local backend
// changes on disk.
type Watcher struct {
	root      string
	listing   *Listing
	coord     *Coordinator
	watcher   *fsnotify.Watcher
	debounce  time.Duration
	onRefresh func()

	mu      sync.Mutex
	current string
	closed  chan struct{}
	done    chan struct{}
}

// NewWatcher starts watching the listing's directory. onRefresh, when set,
// runs after every reload it triggers.
func NewWatcher(root string, listing *Listing, coord *Coordinator, onRefresh func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	w := &Watcher{
		root:      root,
		listing:   listing,
		coord:     coord,
		watcher:   fw,
		debounce:  watchDebounce,
		onRefresh: onRefresh,
		closed:    make(chan struct{}),
		done:      make(chan struct{}),
	}
	if err := w.Follow(listing.Directory()); err != nil {
		fw.Close()
		return nil, err
	}
	go w.loop()
	return w, nil
}

// Follow moves the watch to dir, given relative to the backend root.
func (w *Watcher) Follow(dir string) error {
	full := filepath.Join(w.root, filepath.FromSlash(dir))

	w.mu.Lock()
	defer w.mu.Unlock()
	if full == w.current {
		return nil
	}
	if err := w.watcher.Add(full); err != nil {
		return fmt.Errorf("watch %s: %w", full, err)
	}
	if w.current != "" {
		_ = w.watcher.Remove(w.current)
	}
	w.current = full
	return nil
}

func (w *Watcher) Close() error {
	close(w.closed)
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	var pending <-chan time.Time
	for {
		select {
		case <-w.closed:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) == 0 {
				continue
			}
			pending = time.After(w.debounce)
		case <-pending:
			pending = nil
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Warn("watcher error", logging.Err(err))
		}
	}
}

func (w *Watcher) reload() {
	if w.coord != nil && w.coord.Busy() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	if err := w.listing.Reload(ctx); err != nil {
		return
	}
	if w.onRefresh != nil {
		w.onRefresh()
	}
}
