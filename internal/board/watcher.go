package board

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Refresh drops and rebuilds the named sound's media element, picking up
// a changed source file. Sounds without a prepared element are prepared
// from scratch.
func (b *Board) Refresh(name string) {
	b.mu.Lock()
	s, err := b.findLocked(name)
	if err != nil {
		b.mu.Unlock()
		b.logger.Warn("cannot refresh sound", "sound", name, "error", err)
		return
	}
	if s.element != nil {
		if cerr := s.element.Close(); cerr != nil {
			b.logger.Warn("failed to close media element", "sound", name, "error", cerr)
		}
		s.element = nil
	}
	b.mu.Unlock()

	if err := b.prepareSound(s); err != nil {
		b.logger.Warn("failed to refresh sound", "sound", name, "error", err)
		return
	}
	b.logger.Debug("refreshed sound", "sound", name)
}

// sourceNames maps prepared source file base names to sound names.
func (b *Board) sourceNames() map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()

	names := make(map[string]string, len(b.sounds))
	for _, s := range b.sounds {
		if s.source.URL == "" {
			continue
		}
		names[filepath.Base(s.source.URL)] = s.name
	}
	return names
}

// sourceDir returns the directory generated source paths land in.
func (b *Board) sourceDir() string {
	return filepath.Dir(b.path + "sound")
}

// Watcher watches the board's source directory and refreshes sounds whose
// files change on disk.
type Watcher struct {
	watcher *fsnotify.Watcher
	board   *Board
	logger  *slog.Logger
	done    chan struct{}

	mu      sync.Mutex
	running bool
	stopped bool
}

// NewWatcher creates a watcher for the board's source directory.
func NewWatcher(b *Board, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher: watcher,
		board:   b,
		logger:  logger,
		done:    make(chan struct{}),
	}, nil
}

// Start begins watching. The containing directory is watched rather than
// the individual files, which survives editors that replace on write.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return ErrWatcherStopped
	}
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.board.sourceDir()); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}

	go w.watch(ctx)
	w.logger.Debug("source watcher started", "dir", w.board.sourceDir())
	return nil
}

// watch is the main watch loop.
func (w *Watcher) watch(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if name, ok := w.board.sourceNames()[filepath.Base(event.Name)]; ok {
				w.logger.Debug("source file changed", "file", event.Name, "sound", name)
				w.board.Refresh(name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("source watcher error", "error", err)

		case <-ctx.Done():
			return
		case <-w.done:
			return
		}
	}
}

// Stop stops the watcher. Stopping is terminal: the underlying fsnotify
// watcher is closed, so a stopped Watcher cannot be started again.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	w.running = false
	close(w.done)
	return w.watcher.Close()
}
