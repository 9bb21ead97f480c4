package config

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/tomlkeeper/internal/config/document"
	"github.com/dshills/tomlkeeper/internal/config/loader"
)

// Default locations, relative to the working directory.
const (
	DefaultPrimaryPath   = "../Bot/config/bot_config.toml"
	DefaultSecondaryPath = "../Bot/config/model_config.toml"
	DefaultPluginsDir    = "../Bot/config/plugins"
	DefaultPluginFile    = "config.toml"
)

// DefaultConcurrency bounds how many plugin files are parsed at once.
const DefaultConcurrency = 4

// filePerm is the mode used when a save creates a file.
const filePerm fs.FileMode = 0644

// Paths names the files the store manages.
type Paths struct {
	// Primary is the main bot configuration file.
	Primary string
	// Secondary is the model configuration file.
	Secondary string
	// PluginsDir holds one subdirectory per plugin.
	PluginsDir string
	// PluginFile is the configuration file name inside each plugin directory.
	PluginFile string
}

// DefaultPaths returns the default file locations.
func DefaultPaths() Paths {
	return Paths{
		Primary:    DefaultPrimaryPath,
		Secondary:  DefaultSecondaryPath,
		PluginsDir: DefaultPluginsDir,
		PluginFile: DefaultPluginFile,
	}
}

// Store loads and saves configuration documents. It keeps no document
// state between calls and is safe for concurrent use. Concurrent saves to
// the same path are not coordinated; the last write wins.
type Store struct {
	paths       Paths
	fs          loader.FileSystem
	logger      *slog.Logger
	concurrency int
	reconstruct []document.ReconstructOption
}

// Option configures a Store instance.
type Option func(*Store)

// WithFileSystem sets the file system used for reads and writes.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(s *Store) {
		if fsys != nil {
			s.fs = fsys
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithConcurrency bounds how many plugin files are parsed at once.
func WithConcurrency(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithReconstructOptions sets the options Save passes to document.Reconstruct.
func WithReconstructOptions(opts ...document.ReconstructOption) Option {
	return func(s *Store) {
		s.reconstruct = append(s.reconstruct, opts...)
	}
}

// New creates a Store for the given paths. An empty PluginFile falls back
// to DefaultPluginFile.
func New(paths Paths, opts ...Option) *Store {
	if paths.PluginFile == "" {
		paths.PluginFile = DefaultPluginFile
	}

	s := &Store{
		paths:       paths,
		fs:          loader.DefaultFS(),
		logger:      slog.New(slog.DiscardHandler),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Paths returns the paths the store was created with.
func (s *Store) Paths() Paths {
	return s.paths
}

// LoadPrimary loads the primary configuration file.
func (s *Store) LoadPrimary(ctx context.Context) (*document.Document, error) {
	return s.Load(ctx, s.paths.Primary, filepath.Base(s.paths.Primary))
}

// LoadSecondary loads the secondary configuration file.
func (s *Store) LoadSecondary(ctx context.Context) (*document.Document, error) {
	return s.Load(ctx, s.paths.Secondary, filepath.Base(s.paths.Secondary))
}

// GetPrimary is LoadPrimary.
func (s *Store) GetPrimary(ctx context.Context) (*document.Document, error) {
	return s.LoadPrimary(ctx)
}

// GetSecondary is LoadSecondary.
func (s *Store) GetSecondary(ctx context.Context) (*document.Document, error) {
	return s.LoadSecondary(ctx)
}

// GetPluginDocuments is ListPluginDocuments.
func (s *Store) GetPluginDocuments(ctx context.Context) ([]document.PluginDocument, error) {
	return s.ListPluginDocuments(ctx)
}

// Load reads and parses the file at path into a document displayed as
// filename. Read failures are *PathError values matching ErrRead; syntax
// failures match ErrSyntax.
func (s *Store) Load(ctx context.Context, path, filename string) (*document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, &PathError{Op: OpRead, Path: path, Err: err}
	}

	doc, err := document.Parse(filename, path, raw)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("loaded config document",
		"path", path,
		"sections", len(doc.Sections),
	)
	return doc, nil
}

// PluginPath returns the configuration file path of the named plugin.
func (s *Store) PluginPath(name string) string {
	return filepath.Join(s.paths.PluginsDir, name, s.paths.PluginFile)
}

// LoadPlugin loads the configuration file of the named plugin.
func (s *Store) LoadPlugin(ctx context.Context, name string) (*document.PluginDocument, error) {
	path := s.PluginPath(name)
	doc, err := s.Load(ctx, path, name+"/"+s.paths.PluginFile)
	if err != nil {
		return nil, err
	}
	return &document.PluginDocument{Name: name, Path: path, Document: doc}, nil
}

// ListPluginDocuments loads the configuration file of every plugin, in
// directory order. A missing plugins directory yields an empty list. A
// plugin whose file cannot be read or parsed is logged and skipped.
func (s *Store) ListPluginDocuments(ctx context.Context) ([]document.PluginDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	names, err := s.pluginNames()
	if err != nil {
		return nil, err
	}

	docs := make([]*document.PluginDocument, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, name := range names {
		g.Go(func() error {
			doc, err := s.LoadPlugin(gctx, name)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				s.logger.Warn("skipping plugin config",
					"plugin", name,
					"path", s.PluginPath(name),
					"error", err,
				)
				return nil
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	plugins := make([]document.PluginDocument, 0, len(docs))
	for _, doc := range docs {
		if doc != nil {
			plugins = append(plugins, *doc)
		}
	}
	return plugins, nil
}

// pluginNames returns the plugin directories that contain a plugin file.
func (s *Store) pluginNames() ([]string, error) {
	dir := s.paths.PluginsDir
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &PathError{Op: OpRead, Path: dir, Err: err}
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := s.PluginPath(entry.Name())
		info, err := s.fs.Stat(path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				s.logger.Warn("skipping plugin config",
					"plugin", entry.Name(),
					"path", path,
					"error", err,
				)
			}
			continue
		}
		if info.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// Save reconstructs doc and writes it to path, replacing its contents.
// Write failures are *PathError values matching ErrWrite.
func (s *Store) Save(ctx context.Context, path string, doc *document.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	out := document.Reconstruct(doc, s.reconstruct...)
	if err := s.fs.WriteFile(path, []byte(out), filePerm); err != nil {
		return &PathError{Op: OpWrite, Path: path, Err: err}
	}

	s.logger.Info("saved config document",
		"path", path,
		"bytes", len(out),
	)
	return nil
}

// Reconstruct renders doc with the store's reconstruction options.
func (s *Store) Reconstruct(doc *document.Document) string {
	return document.Reconstruct(doc, s.reconstruct...)
}
