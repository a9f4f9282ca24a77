// Package broadcast provides an in-process, many-to-many broadcast bus for
// opaque byte frames.
//
// Every frame published on a [Bus] is appended to the backlog of every
// live [Subscription] while a single lock is held, so all subscribers
// observe frames in the same total order. Publishers never block: a
// subscriber that falls more than the backlog capacity behind loses its
// oldest frames and the loss is counted (see [Subscription.Lagged]).
//
// A subscription only sees frames published after it was created.
// Callers that need every frame must subscribe before anyone publishes.
//
// The bus exposes its counters as a prometheus.Collector.
package broadcast
