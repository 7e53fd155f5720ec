package userboard

import (
	"errors"
	"log/slog"
)

// storeConfig holds mutable state during Store construction.
type storeConfig struct {
	seed      []UserRecord
	logger    *slog.Logger
	observers []Observer
}

// Option configures a [Store] during construction with [New].
//
// Options return an error if validation fails.
type Option func(*storeConfig) error

// WithSeed sets the initial state of the store.
//
// Records keep the order given. Calling WithSeed more than once appends to
// the seed. Without WithSeed the store starts empty.
//
// Example:
//
//	st, err := userboard.New(
//	    userboard.WithSeed(userboard.UserRecord{Username: "example1", Email: "example1@yopmail.com"}),
//	)
func WithSeed(records ...UserRecord) Option {
	return func(cfg *storeConfig) error {
		cfg.seed = append(cfg.seed, records...)
		return nil
	}
}

// WithLogger sets the [slog.Logger] used for dispatch and observer events.
//
// If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *storeConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithObserver subscribes an observer when the store is created.
//
// Observers registered this way are notified before any observer added later
// with [Store.Subscribe], in the order the options were given. Their
// subscriptions cannot be cancelled; use Subscribe when the observer needs to
// detach. Nil observers are silently ignored.
func WithObserver(o Observer) Option {
	return func(cfg *storeConfig) error {
		if o == nil {
			return nil
		}
		cfg.observers = append(cfg.observers, o)
		return nil
	}
}
