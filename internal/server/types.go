// Package server defines shared internal types and utility helpers that
// are reused across client and hub logic.
package server

import "strings"

// inboundEvent pairs a parsed event envelope with the client that sent it,
// for processing on the hub's event loop.
type inboundEvent struct {
	client   *Client
	envelope Envelope
}

// isExpectedCloseError checks if an error is expected during connection closure.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "use of closed network connection") ||
		strings.Contains(errStr, "websocket: close sent") ||
		strings.Contains(errStr, "broken pipe")
}
