package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"focusos/internal/infrastructure/logging"
)

// DefaultDebounce coalesces the burst of writes a single store update causes
const DefaultDebounce = 250 * time.Millisecond

// Watcher reports changes to a SQLite database file and its WAL/journal
// siblings
type Watcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	names    map[string]bool
	debounce time.Duration
	logger   logging.Logger
}

// New watches the directory containing dbPath. A debounce of 0 uses
// DefaultDebounce.
func New(dbPath string, debounce time.Duration, logger logging.Logger) (*Watcher, error) {
	if dbPath == "" || dbPath == ":memory:" {
		return nil, fmt.Errorf("cannot watch in-memory database")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	absPath, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watching the directory survives the file being replaced or created later
	dir := filepath.Dir(absPath)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	base := filepath.Base(absPath)
	return &Watcher{
		watcher: fw,
		dir:     dir,
		names: map[string]bool{
			base:              true,
			base + "-wal":     true,
			base + "-journal": true,
		},
		debounce: debounce,
		logger:   logger,
	}, nil
}

// Run calls onChange after each burst of writes until ctx is cancelled or
// the watcher is closed
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	w.logger.Info("Watching store for changes", "dir", w.dir)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.names[filepath.Base(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.logger.Debug("Store file event", "file", event.Name, "op", event.Op.String())
			pending = time.After(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Store watcher error", "error", err)

		case <-pending:
			pending = nil
			onChange()
		}
	}
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
