// Package server provides the HTTP surface of the userboard binary.
//
// The server is the UI collaborator of the store: it never caches state,
// it renders whatever the store hands it and turns requests into actions.
//
//   - GET /: the embedded user list page
//   - GET /api/users: the current state as a JSON array
//   - POST /api/users: dispatches AddUser with the JSON body
//   - DELETE /api/users: dispatches RemoveAllUsers
//   - GET /api/sse: Server-Sent Events, one full user list per state change
//
// Routing uses chi. The server supports graceful shutdown via context
// cancellation, with a 5-second timeout for in-flight requests.
package server
