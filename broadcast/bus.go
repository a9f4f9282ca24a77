package broadcast

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// ErrClosed is returned by [Bus.Publish] after the bus is closed, and by
// [Subscription.Recv] once a closed bus has been drained.
var ErrClosed = errors.New("broadcast: bus closed")

const minBacklog = 64

// DefaultBacklog returns the per-subscriber backlog for a session of
// maxSigners participants: room for every participant's frames of both
// rounds, four times over, and never below 64.
func DefaultBacklog(maxSigners uint16) int {
	n := 4 * int(maxSigners) * int(maxSigners)
	if n < minBacklog {
		return minBacklog
	}
	return n
}

var (
	publishedDesc = prometheus.NewDesc(
		"frostd_bus_published_total", "Frames published on the bus.", nil, nil)
	deliveredDesc = prometheus.NewDesc(
		"frostd_bus_delivered_total", "Frames received by subscribers.", nil, nil)
	droppedDesc = prometheus.NewDesc(
		"frostd_bus_dropped_total", "Frames dropped from full subscriber backlogs.", nil, nil)
)

// Bus is a broadcast bus. The zero value is not usable; use [New].
type Bus struct {
	mu      sync.Mutex
	subs    map[uint64]*Subscription
	nextID  uint64
	backlog int
	closed  bool

	published atomic.Uint64
	delivered atomic.Uint64
	dropped   atomic.Uint64
}

// New returns an open bus keeping up to backlog undelivered frames per
// subscriber. A non-positive backlog selects 64.
func New(backlog int) *Bus {
	if backlog <= 0 {
		backlog = minBacklog
	}
	return &Bus{
		subs:    make(map[uint64]*Subscription),
		backlog: backlog,
	}
}

// Publish appends a copy of frame to every live subscription. It never
// blocks on slow subscribers.
func (b *Bus) Publish(frame []byte) error {
	frame = append([]byte(nil), frame...)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	b.published.Add(1)
	for _, s := range b.subs {
		s.push(frame)
	}
	return nil
}

// Subscribe returns a subscription that receives every frame published
// from now on.
func (b *Bus) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := &Subscription{
		bus:    b,
		id:     b.nextID,
		notify: make(chan struct{}, 1),
		closed: b.closed,
	}
	b.nextID++
	if !b.closed {
		b.subs[s.id] = s
	}
	return s
}

// Close closes the bus. Subscribers can still drain their backlog.
// Closing an already closed bus is a no-op.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, s := range b.subs {
		s.markClosed()
		delete(b.subs, id)
	}
}

// Closed reports whether [Bus.Close] was called.
func (b *Bus) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Subscribers returns the number of live subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Dropped returns the number of frames dropped across all subscriptions.
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}

func (b *Bus) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, id)
}

// Describe implements prometheus.Collector.
func (b *Bus) Describe(ch chan<- *prometheus.Desc) {
	ch <- publishedDesc
	ch <- deliveredDesc
	ch <- droppedDesc
}

// Collect implements prometheus.Collector.
func (b *Bus) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(publishedDesc, prometheus.CounterValue, float64(b.published.Load()))
	ch <- prometheus.MustNewConstMetric(deliveredDesc, prometheus.CounterValue, float64(b.delivered.Load()))
	ch <- prometheus.MustNewConstMetric(droppedDesc, prometheus.CounterValue, float64(b.dropped.Load()))
}
