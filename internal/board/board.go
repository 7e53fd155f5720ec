// Package board is the composition root of the userboard binary.
//
// A [Board] owns the store and wires the feed, HTTP server and timeline
// around it. It is the only place that knows about all of them.
package board

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jpalmerr/userboard"
	"github.com/jpalmerr/userboard/dashboard"
	"github.com/jpalmerr/userboard/internal/feed"
	"github.com/jpalmerr/userboard/internal/server"
	"github.com/jpalmerr/userboard/internal/timeline"
)

const defaultPort = 8080

// Board runs a store together with its HTTP surface and scripted timeline.
//
// The typical lifecycle is:
//
//	b, err := board.New(board.WithSeed(seed...), board.WithScript(steps...))
//	if err != nil {
//	    return err
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	b.Start(ctx) // blocks until ctx is cancelled
type Board struct {
	title  string
	port   int
	store  *userboard.Store
	feed   *feed.Feed
	script []timeline.Step
	logger *slog.Logger
}

// New creates a [Board] with the given options.
//
// The store is created immediately, so [Board.Store] is usable before
// [Board.Start]. Returns an error if any option is invalid.
func New(opts ...Option) (*Board, error) {
	cfg := &boardConfig{
		port: defaultPort,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	f := feed.NewFeed(feed.DefaultBuffer)

	st, err := userboard.New(
		userboard.WithSeed(cfg.seed...),
		userboard.WithLogger(logger),
		userboard.WithObserver(transitionLogger(logger)),
		userboard.WithObserver(f),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	return &Board{
		title:  cfg.title,
		port:   cfg.port,
		store:  st,
		feed:   f,
		script: cfg.script,
		logger: logger,
	}, nil
}

// Store returns the board's store.
func (b *Board) Store() *userboard.Store {
	return b.store
}

// Port returns the configured HTTP port.
func (b *Board) Port() int {
	return b.port
}

// Start serves the HTTP surface and replays the script.
//
// Start blocks until ctx is cancelled. On return the timeline has stopped
// and every streaming client has been disconnected.
//
// Returns nil on graceful shutdown, or an error if the HTTP server fails to
// start.
func (b *Board) Start(ctx context.Context) error {
	b.logger.Info("userboard starting",
		"users", b.store.Len(),
		"script_steps", len(b.script),
	)

	if ctx.Err() != nil {
		return nil
	}

	httpServer := server.NewServer(b.store, b.feed, b.port, dashboard.Assets, b.title, b.logger)
	if err := httpServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	b.logger.Info("dashboard available", "url", fmt.Sprintf("http://localhost:%d", b.port))

	tl := timeline.New(b.script, b.store, b.logger)
	tl.Start(ctx)

	<-ctx.Done()

	tl.Stop()
	b.feed.Close()
	b.logger.Info("userboard stopped", "users", b.store.Len())
	return nil
}

// transitionLogger returns an observer that logs the usernames of every new
// state. The store logs the action and count.
func transitionLogger(logger *slog.Logger) userboard.Observer {
	return userboard.ObserverFunc(func(users []userboard.UserRecord) {
		names := make([]string, len(users))
		for i, u := range users {
			names[i] = u.Username
		}
		logger.Debug("state changed", "usernames", names)
	})
}
