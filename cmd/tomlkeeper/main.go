// Package main is the entry point for the tomlkeeper configuration tool.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/tomlkeeper/internal/cli"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	cli.Version, cli.Commit, cli.Date = version, commit, date

	// Handle signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return cli.Run(ctx, os.Args[1:], cli.DefaultEnv())
}
