package vocabulary

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Alishbarana/InnoLearn/internal/debug"
)

// DefaultReloadDebounce collapses editor save bursts into one reload
const DefaultReloadDebounce = 200 * time.Millisecond

// Watcher reloads a vocabulary file when it changes and swaps the result into
// a Holder. A file that fails to parse leaves the previous table in place.
type Watcher struct {
	path     string
	holder   *Holder
	debounce time.Duration
	watcher  *fsnotify.Watcher

	onReload func(*Table, error)

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher for path. The parent directory is watched so
// rename-on-save editors are handled.
func NewWatcher(path string, holder *Holder, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultReloadDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vocabulary path %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		path:     abs,
		holder:   holder,
		debounce: debounce,
		watcher:  fw,
	}, nil
}

// OnReload registers a callback invoked after every reload attempt.
// Must be called before Start.
func (w *Watcher) OnReload(fn func(*Table, error)) {
	w.onReload = fn
}

// Start begins watching until ctx is cancelled or Stop is called
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go w.processEvents(ctx)

	debug.LogVocabulary("watching %s\n", w.path)
	return nil
}

// Stop ends watching and waits for the event loop to exit
func (w *Watcher) Stop() error {
	if w.cancel != nil {
		w.cancel()
	}
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer w.wg.Done()

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Vocabulary watcher error: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	t, err := Load(w.path)
	if err != nil {
		log.Printf("Vocabulary reload failed, keeping previous table: %v", err)
	} else {
		w.holder.Swap(t)
		debug.LogVocabulary("reloaded %s\n", t)
	}
	if w.onReload != nil {
		w.onReload(t, err)
	}
}
