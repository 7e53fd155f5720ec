package board

import (
	"errors"
	"log/slog"

	"github.com/jpalmerr/userboard"
	"github.com/jpalmerr/userboard/internal/timeline"
)

// boardConfig holds mutable state during Board construction.
type boardConfig struct {
	title  string
	port   int
	seed   []userboard.UserRecord
	script []timeline.Step
	logger *slog.Logger
}

// Option configures a [Board] during construction.
type Option func(*boardConfig) error

// WithSeed sets the store's initial records. May be called more than once.
func WithSeed(records ...userboard.UserRecord) Option {
	return func(cfg *boardConfig) error {
		cfg.seed = append(cfg.seed, records...)
		return nil
	}
}

// WithScript adds steps replayed against the store after start.
//
// Returns an error if a step has a nil action or a negative offset.
func WithScript(steps ...timeline.Step) Option {
	return func(cfg *boardConfig) error {
		for _, s := range steps {
			if s.Action == nil {
				return errors.New("script step action cannot be nil")
			}
			if s.After < 0 {
				return errors.New("script step offset cannot be negative")
			}
		}
		cfg.script = append(cfg.script, steps...)
		return nil
	}
}

// WithPort sets the HTTP port. Defaults to 8080.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *boardConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithTitle sets the page title.
func WithTitle(title string) Option {
	return func(cfg *boardConfig) error {
		cfg.title = title
		return nil
	}
}

// WithLogger sets the logger shared by every component.
// If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *boardConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}
