// Package feed turns store notifications into per-client channels.
//
// The userboard store notifies observers synchronously. Streaming consumers
// such as Server-Sent Events handlers cannot block the dispatching goroutine,
// so [Feed] subscribes to the store once and forwards every state snapshot
// to buffered channels with non-blocking sends. A slow client misses
// snapshots rather than stalling dispatch; since every snapshot carries the
// full user list, the next one it does receive is still complete.
//
// Users of the userboard library should not need to interact with this
// package directly.
package feed
