// Package server implements the room-based chat relay: the WebSocket
// transport, the connection registry and room index, per-room message
// history, and the presence coordinator that fans rosters and chat
// messages out to the right subset of connections.
//
// The implementation is organized into specialized files for configuration,
// hub management, clients, the presence state machine, and HTTP handlers to
// keep the codebase maintainable and testable as the project grows.
package server
