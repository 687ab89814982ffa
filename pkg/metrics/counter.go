package metrics

import "sync/atomic"

// Counter is a monotonically increasing event count.
type Counter struct {
	name string
	n    atomic.Int64
}

// Inc adds one event when collection is on.
func (c *Counter) Inc() {
	if Enabled() {
		c.n.Add(1)
	}
}

// Name returns the counter name.
func (c *Counter) Name() string { return c.name }

// Value returns the current count.
func (c *Counter) Value() int64 { return c.n.Load() }

// Reset sets the count to zero.
func (c *Counter) Reset() { c.n.Store(0) }

// Event counters.
var (
	FramesRendered = &Counter{name: "frames_rendered"}
	HitsResolved   = &Counter{name: "hits_resolved"}
	HitsMissed     = &Counter{name: "hits_missed"}
	GraphReloads   = &Counter{name: "graph_reloads"}
)

var counters = []*Counter{FramesRendered, HitsResolved, HitsMissed, GraphReloads}

// CounterValues returns the non-zero counters by name.
func CounterValues() map[string]int64 {
	out := make(map[string]int64, len(counters))
	for _, c := range counters {
		if v := c.Value(); v > 0 {
			out[c.name] = v
		}
	}
	return out
}
