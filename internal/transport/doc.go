// Package transport wraps a single duplex websocket channel.
//
// A Channel carries text messages in both directions and reports its own
// termination exactly once, classified as clean (negotiated close) or
// unclean (abrupt/error-driven). Reconnection is the caller's concern.
package transport
