// Package cli implements the tomlkeeper command line.
//
// Commands address a configuration file by target: "primary",
// "secondary", "plugin:<name>", or a path to any TOML file.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jessevdk/go-flags"
	"golang.org/x/term"

	"github.com/dshills/tomlkeeper/internal/config"
	"github.com/dshills/tomlkeeper/internal/config/document"
	"github.com/dshills/tomlkeeper/internal/config/loader"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Env holds the process resources a command may use.
type Env struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// FS overrides the file system; nil means the OS.
	FS loader.FileSystem

	// IsTerminal reports whether w is an interactive terminal. Nil means
	// w is a terminal when it is an *os.File that x/term recognizes.
	IsTerminal func(w io.Writer) bool
}

// DefaultEnv returns an Env bound to the process's standard streams.
func DefaultEnv() Env {
	return Env{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// App carries the parsed global options into commands.
type App struct {
	ctx  context.Context
	env  Env
	opts *Options

	logger *slog.Logger
	store  *config.Store
}

// Run parses args and executes the selected command.
func Run(ctx context.Context, args []string, env Env) int {
	if env.Stdin == nil {
		env.Stdin = strings.NewReader("")
	}
	if env.Stdout == nil {
		env.Stdout = io.Discard
	}
	if env.Stderr == nil {
		env.Stderr = io.Discard
	}

	app := &App{ctx: ctx, env: env}
	app.opts = newOptions(app)

	parser := flags.NewParser(app.opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "tomlkeeper"
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if cmd == nil {
			return nil
		}
		if err := app.init(); err != nil {
			return err
		}
		return cmd.Execute(args)
	}

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) {
			if flagsErr.Type == flags.ErrHelp {
				fmt.Fprintln(env.Stdout, flagsErr.Message)
				return ExitOK
			}
			fmt.Fprintf(env.Stderr, "Error: %v\n", flagsErr.Message)
			return ExitUsage
		}
		fmt.Fprintf(env.Stderr, "Error: %v\n", err)
		return ExitError
	}
	return ExitOK
}

func (a *App) init() error {
	level, err := parseLevel(a.opts.LogLevel)
	if err != nil {
		return err
	}
	a.logger = slog.New(slog.NewTextHandler(a.env.Stderr, &slog.HandlerOptions{Level: level}))

	storeOpts := []config.Option{
		config.WithLogger(a.logger),
		config.WithConcurrency(a.opts.Concurrency),
	}
	if a.env.FS != nil {
		storeOpts = append(storeOpts, config.WithFileSystem(a.env.FS))
	}
	if a.opts.PreserveShape {
		storeOpts = append(storeOpts, config.WithReconstructOptions(document.WithPreserveShape()))
	}

	a.store = config.New(config.Paths{
		Primary:    a.opts.Primary,
		Secondary:  a.opts.Secondary,
		PluginsDir: a.opts.PluginsDir,
		PluginFile: a.opts.PluginFile,
	}, storeOpts...)
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", s)
	}
	return level, nil
}

// pluginPrefix introduces a plugin target.
const pluginPrefix = "plugin:"

// open loads the document a target names.
func (a *App) open(target string) (*document.Document, error) {
	switch {
	case target == "primary":
		return a.store.LoadPrimary(a.ctx)
	case target == "secondary":
		return a.store.LoadSecondary(a.ctx)
	case strings.HasPrefix(target, pluginPrefix):
		p, err := a.store.LoadPlugin(a.ctx, strings.TrimPrefix(target, pluginPrefix))
		if err != nil {
			return nil, err
		}
		return p.Document, nil
	default:
		return a.store.Load(a.ctx, target, filepath.Base(target))
	}
}

// resolve returns the file path a target names.
func (a *App) resolve(target string) string {
	paths := a.store.Paths()
	switch {
	case target == "primary":
		return paths.Primary
	case target == "secondary":
		return paths.Secondary
	case strings.HasPrefix(target, pluginPrefix):
		return a.store.PluginPath(strings.TrimPrefix(target, pluginPrefix))
	default:
		return target
	}
}

func (a *App) isTerminal(w io.Writer) bool {
	if a.env.IsTerminal != nil {
		return a.env.IsTerminal(w)
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
