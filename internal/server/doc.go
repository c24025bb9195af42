// Package server implements the HTTP and WebSocket echo server.
//
// The implementation is organized into specialized files for configuration,
// logging, the connection hub, per-connection sessions, routing, and HTTP
// handlers. A single Server value owns all of them; nothing is kept in
// package-level state.
package server
