// Package feed implements the live feed connection manager.
//
// One Controller owns exactly one websocket channel and at most one pending
// retry timer. A Controller is parameterized by a View (endpoint builder +
// decoder/reducer), so the aggregate ticker table and the per-symbol detail
// view share a single lifecycle engine instead of duplicating it.
//
// All controller state is owned by a single event loop goroutine; public
// methods post commands into that loop. Reconnection uses a fixed delay and
// is gated on the host surface's visibility: a channel lost while the
// surface is hidden stays down until the surface becomes visible again.
package feed
