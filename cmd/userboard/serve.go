package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/userboard/config"
	"github.com/jpalmerr/userboard/internal/board"
)

const shutdownTimeout = 10 * time.Second

// newLogger creates a JSON logger for CLI use.
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// serveCmd starts the HTTP server and replays the configured script.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the user list and replay the script",
	Long: `Serve the user list over HTTP and replay the configured script.

The server will:
  - Seed the store from the config file (or the built-in demo)
  - Serve the list page, the JSON API and the SSE stream
  - Dispatch each scripted action when its offset elapses

The server runs until interrupted (Ctrl+C) or receives SIGTERM.

Example:
  userboard serve
  userboard serve -c config.yaml --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("config", "c", "", "path to config file (defaults to the built-in demo)")
	serveCmd.Flags().Bool("debug", false, "log every dispatched action and state change")
}

func runServe(cmd *cobra.Command, args []string) error {
	debug, _ := cmd.Flags().GetBool("debug")
	logger := newLogger(debug)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	script, err := config.BuildScript(cfg)
	if err != nil {
		return fmt.Errorf("failed to build script: %w", err)
	}

	logger.Info("config loaded",
		"seed", len(cfg.Seed),
		"script_steps", len(script),
		"port", cfg.Port,
	)

	b, err := board.New(
		board.WithTitle(cfg.Title),
		board.WithPort(cfg.Port),
		board.WithSeed(config.BuildSeed(cfg)...),
		board.WithScript(script...),
		board.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create board: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- b.Start(ctx)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("shutdown complete")
		return nil

	case <-ctx.Done():
		select {
		case err := <-errChan:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			logger.Info("shutdown complete")
			return nil
		case <-time.After(shutdownTimeout):
			logger.Warn("shutdown timed out",
				"timeout", shutdownTimeout.String(),
				"action", "forcing exit",
			)
			return nil
		}
	}
}
