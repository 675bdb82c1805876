package mention

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a names file whenever it changes on disk.
type Watcher struct {
	path     string
	fs       *fsnotify.Watcher
	onChange func(Directory)
}

// NewWatcher watches path. onChange receives a freshly loaded directory after
// every successful reload; it is called from the Run goroutine.
func NewWatcher(path string, onChange func(Directory)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Editors often replace the file instead of writing it, so watch the
	// parent directory and filter by name.
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		fs.Close()
		return nil, err
	}

	return &Watcher{path: abs, fs: fs, onChange: onChange}, nil
}

// Run processes file events until ctx is cancelled, then releases the
// underlying watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.reload()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			slog.Warn("names watcher error", "path", w.path, "error", err)
		}
	}
}

func (w *Watcher) reload() {
	dir, err := LoadFile(w.path)
	if err != nil {
		slog.Warn("failed to reload names file", "path", w.path, "error", err)
		return
	}
	slog.Debug("names file reloaded", "path", w.path, "names", len(dir))
	if w.onChange != nil {
		w.onChange(dir)
	}
}
