// Package timeline replays a script of actions against a store.
//
// A [Timeline] is the deferred caller of the userboard store: it calls
// Dispatch when each step's offset has elapsed, measured from the moment the
// timeline was started. The store itself knows nothing about time.
//
// The main components are:
//
//   - [Step]: an action paired with its offset from start
//   - [Dispatcher]: the single store method a timeline needs
//   - [Timeline]: runs the steps in a background goroutine
package timeline
