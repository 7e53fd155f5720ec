package userboard

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Store holds the current list of users and the registry of observers.
//
// A Store is created with [New] and owned by the composition root of the
// application; there is no package-level instance. All methods are safe for
// concurrent use. Dispatches are serialized so that reduction, state
// replacement and observer fan-out happen atomically with respect to other
// dispatches.
type Store struct {
	// dispatchMu serializes Dispatch end to end, including fan-out.
	dispatchMu sync.Mutex

	mu    sync.RWMutex
	state []UserRecord

	subMu     sync.RWMutex
	observers []subscription

	logger *slog.Logger
}

// New creates a [Store] configured by opts.
//
// The store starts with the records passed to [WithSeed], or empty.
// Returns an error if any option is invalid.
func New(opts ...Option) (*Store, error) {
	cfg := &storeConfig{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		state:  copyUsers(cfg.seed),
		logger: logger,
	}
	for _, o := range cfg.observers {
		s.Subscribe(o)
	}
	return s, nil
}

// GetState returns a snapshot of the current state.
//
// The returned slice is a copy; modifications do not affect the store.
func (s *Store) GetState() []UserRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyUsers(s.state)
}

// Len returns the number of records in the current state.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.state)
}

// Dispatch applies action to the current state and notifies all observers.
//
// The new state is computed with [Reduce], stored, and then passed to every
// subscribed observer in subscription order. Dispatch returns after the last
// observer has returned. An observer that panics is recovered and logged; the
// remaining observers are still notified.
//
// Dispatch panics if action is nil, leaving state and observers untouched.
func (s *Store) Dispatch(action Action) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	// only Dispatch writes state, so reading it under dispatchMu is safe
	next := Reduce(s.state, action)
	kind := action.Kind()

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	s.logger.Debug("action dispatched",
		"action", kind,
		"users", len(next),
	)

	s.notifyObservers(next)
}

// Subscribe registers an observer and returns the id of the registration.
//
// Subscribing the same observer more than once registers duplicate entries;
// each is notified and each must be removed separately. A nil observer is
// ignored and the zero [SubscriptionID] is returned.
func (s *Store) Subscribe(o Observer) SubscriptionID {
	if o == nil {
		return SubscriptionID{}
	}

	id := SubscriptionID(uuid.New())

	s.subMu.Lock()
	s.observers = append(s.observers, subscription{id: id, observer: o})
	s.subMu.Unlock()

	return id
}

// Unsubscribe removes the registration identified by id.
//
// The observer receives no notifications from dispatches that start after
// Unsubscribe returns. Safe to call multiple times or with an unknown id.
func (s *Store) Unsubscribe(id SubscriptionID) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	s.observers = slices.DeleteFunc(s.observers, func(sub subscription) bool {
		return sub.id == id
	})
}

// notifyObservers delivers state to a snapshot of the registry.
//
// The registry lock is released before calling out so observers may
// subscribe or unsubscribe from within their callback.
func (s *Store) notifyObservers(state []UserRecord) {
	s.subMu.RLock()
	subs := slices.Clone(s.observers)
	s.subMu.RUnlock()

	for _, sub := range subs {
		s.notifySafe(sub, copyUsers(state))
	}
}

// notifySafe calls a single observer with panic recovery.
// Panics are logged with a correlation id and stack trace and do not propagate.
func (s *Store) notifySafe(sub subscription, state []UserRecord) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("observer panicked",
				"correlation_id", uuid.NewString(),
				"subscription_id", sub.id.String(),
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	sub.observer.OnStateChange(state)
}
