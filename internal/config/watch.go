package config

import (
	"context"
	"path/filepath"

	"github.com/dshills/tomlkeeper/internal/config/document"
	"github.com/dshills/tomlkeeper/internal/config/watcher"
)

// ReloadFunc receives the reloaded document after a change, or the error
// that prevented reloading it.
type ReloadFunc func(doc *document.Document, err error)

// Watcher starts watching path and calls fn with a freshly loaded document
// each time the file changes. Change detection uses the OS file system;
// reloads go through the store's FileSystem. The caller must Close the
// returned watcher.
func (s *Store) Watcher(path string, fn ReloadFunc, opts ...watcher.Option) (*watcher.Watcher, error) {
	opts = append([]watcher.Option{
		watcher.WithErrorHandler(func(err error) {
			s.logger.Warn("config watcher error", "path", path, "error", err)
		}),
	}, opts...)

	w, err := watcher.New(opts...)
	if err != nil {
		return nil, err
	}

	filename := filepath.Base(path)
	w.OnChange(func(ev watcher.Event) {
		s.logger.Debug("config file changed", "path", ev.Path, "op", ev.Op.String())
		doc, err := s.Load(context.Background(), path, filename)
		fn(doc, err)
	})

	if err := w.Watch(path); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}

// Watch calls fn after every change to path until ctx is done.
func (s *Store) Watch(ctx context.Context, path string, fn ReloadFunc, opts ...watcher.Option) error {
	w, err := s.Watcher(path, fn, opts...)
	if err != nil {
		return err
	}
	defer w.Close()

	<-ctx.Done()
	return nil
}
