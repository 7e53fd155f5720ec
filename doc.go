// Package userboard provides a small unidirectional data store for a list of
// user records.
//
// State changes flow one way: a caller dispatches an [Action], the store runs
// the pure [Reduce] function over the current state, replaces its state with
// the result, and notifies every subscribed [Observer] with the new state.
// State is never mutated in place; every transition produces a fresh slice.
//
// # Quick Start
//
//	st, _ := userboard.New(
//	    userboard.WithSeed(userboard.UserRecord{Username: "example1", Email: "example1@yopmail.com"}),
//	)
//
//	id := st.Subscribe(userboard.ObserverFunc(func(users []userboard.UserRecord) {
//	    fmt.Println(len(users), "users")
//	}))
//	defer st.Unsubscribe(id)
//
//	st.Dispatch(userboard.AddUser{Record: userboard.UserRecord{Username: "joe", Email: "joe@yopmail.com"}})
//	st.Dispatch(userboard.RemoveAllUsers{})
//
// # Notification Model
//
// [Store.Dispatch] runs to completion before returning: reduction, state
// replacement and the full observer fan-out all happen on the calling
// goroutine. Observers are notified in subscription order and each receives
// its own copy of the state. Dispatch calls are serialized, so observers see
// states in dispatch order even when several goroutines dispatch.
//
// Subscribing the same observer twice registers two independent
// subscriptions, each with its own [SubscriptionID].
//
// # Architecture
//
// The binary in cmd/userboard wires the store to a few internal packages:
//
//   - internal/feed: fans state snapshots out to buffered channels
//   - internal/timeline: dispatches scripted actions at fixed offsets
//   - internal/server: HTTP API, Server-Sent Events and the list page
//   - internal/board: composition root tying the pieces together
package userboard
