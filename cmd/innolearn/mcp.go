package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Alishbarana/InnoLearn/internal/debug"
	"github.com/Alishbarana/InnoLearn/internal/mcp"
	"github.com/Alishbarana/InnoLearn/internal/vocabulary"
)

func mcpCommand(c *cli.Context) error {
	// stdio belongs to the protocol from here on
	debug.SetMCPMode(true)

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return debug.Fatal("failed to load config: %v\n", err)
	}
	rec, holder, err := newRecognizer(cfg)
	if err != nil {
		return debug.Fatal("failed to load vocabulary: %v\n", err)
	}

	server, err := mcp.NewServer(rec, holder, cfg)
	if err != nil {
		return debug.Fatal("failed to create MCP server: %v\n", err)
	}

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	if c.Bool("watch") || cfg.Vocabulary.Watch {
		if cfg.Vocabulary.Path == "" {
			return debug.Fatal("--watch needs a vocabulary file (--vocabulary or vocabulary.path)\n")
		}
		watcher, err := vocabulary.NewWatcher(cfg.Vocabulary.Path, holder, cfg.WatchDebounce())
		if err != nil {
			return debug.Fatal("failed to create vocabulary watcher: %v\n", err)
		}
		watcher.OnReload(func(t *vocabulary.Table, err error) {
			if err != nil {
				debug.LogServer("vocabulary reload failed, keeping previous table: %v\n", err)
				return
			}
			// Cached results point at the old table and would miss anyway
			rec.ResetCache()
			debug.LogServer("vocabulary reloaded: %s\n", t)
		})
		if err := watcher.Start(ctx); err != nil {
			return debug.Fatal("failed to watch vocabulary: %v\n", err)
		}
		defer watcher.Stop()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(ctx)
	}()

	select {
	case err := <-errChan:
		// Client closed stdin
		_ = server.Shutdown(context.Background())
		if err != nil && !errors.Is(err, context.Canceled) {
			return debug.Fatal("MCP server error: %v\n", err)
		}
		return nil
	case sig := <-sigChan:
		debug.LogServer("Received signal %v, shutting down gracefully...\n", sig)
		cancel()
		select {
		case <-errChan:
		case <-time.After(5 * time.Second):
			debug.LogServer("Graceful shutdown timeout, forcing exit\n")
		}
		return server.Shutdown(context.Background())
	}
}
