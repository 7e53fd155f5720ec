package userboard

import "github.com/google/uuid"

// Observer receives every state produced by [Store.Dispatch].
//
// OnStateChange is called synchronously on the dispatching goroutine, after
// the store has replaced its state and before Dispatch returns. The slice is
// a private copy owned by the observer.
//
// Observers must not call [Store.Dispatch] from OnStateChange; dispatches are
// serialized and a nested call would block forever. Calling [Store.GetState],
// [Store.Subscribe] or [Store.Unsubscribe] is safe.
type Observer interface {
	OnStateChange(users []UserRecord)
}

// ObserverFunc adapts an ordinary function to the [Observer] interface.
type ObserverFunc func(users []UserRecord)

// OnStateChange calls f(users).
func (f ObserverFunc) OnStateChange(users []UserRecord) {
	f(users)
}

// SubscriptionID identifies a single registration made with [Store.Subscribe].
//
// Each call to Subscribe yields a distinct id, even for the same observer.
// The zero value never identifies a live subscription.
type SubscriptionID uuid.UUID

// String returns the canonical UUID text form of the id.
func (id SubscriptionID) String() string {
	return uuid.UUID(id).String()
}

// IsZero reports whether id is the zero value.
func (id SubscriptionID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}

// subscription is a single entry in the store's observer registry.
type subscription struct {
	id       SubscriptionID
	observer Observer
}
