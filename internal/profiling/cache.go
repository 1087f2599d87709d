// Package profiling accumulates named elapsed-time measurements for
// diagnostic sessions.
//
// Scopes are created on first use and never evicted, so memory grows with
// the number of recorded samples. That is fine for bounded debugging runs,
// not for long-lived telemetry.
package profiling

import (
	"sort"
	"time"
)

// Scope is the full series of durations recorded under one name.
type Scope struct {
	Name      string
	Durations []time.Duration
}

// Stats summarises a scope.
type Stats struct {
	Name  string        `json:"name"`
	Count int           `json:"count"`
	Total time.Duration `json:"total"`
	Mean  time.Duration `json:"mean"`
	Min   time.Duration `json:"min"`
	Max   time.Duration `json:"max"`
}

// Observer is notified of every recorded sample.
type Observer func(name string, elapsed time.Duration)

// Cache holds every profile scope of one engine.
type Cache struct {
	scopes   map[string]*Scope
	observer Observer
}

// NewCache creates an empty profile cache.
func NewCache() *Cache {
	return &Cache{scopes: make(map[string]*Scope)}
}

// SetObserver installs fn to receive each recorded sample. Pass nil to remove it.
func (c *Cache) SetObserver(fn Observer) {
	c.observer = fn
}

// Begin opens a timing scope named name that started at start. The
// returned Profiler records into the cache when finished; now supplies the
// end time.
func (c *Cache) Begin(name string, start time.Time, now func() time.Time) *Profiler {
	return &Profiler{cache: c, name: name, start: start, now: now}
}

// Record appends elapsed to the named series, creating the scope if needed.
// Negative durations are recorded as zero.
func (c *Cache) Record(name string, elapsed time.Duration) {
	if elapsed < 0 {
		elapsed = 0
	}
	s, ok := c.scopes[name]
	if !ok {
		s = &Scope{Name: name}
		c.scopes[name] = s
	}
	s.Durations = append(s.Durations, elapsed)

	if c.observer != nil {
		c.observer(name, elapsed)
	}
}

// Query returns the statistics of the named scope.
func (c *Cache) Query(name string) (Stats, bool) {
	s, ok := c.scopes[name]
	if !ok {
		return Stats{Name: name}, false
	}
	return s.stats(), true
}

// Durations returns a copy of the raw series for name.
func (c *Cache) Durations(name string) []time.Duration {
	s, ok := c.scopes[name]
	if !ok {
		return nil
	}
	out := make([]time.Duration, len(s.Durations))
	copy(out, s.Durations)
	return out
}

// Snapshot returns statistics for every scope ordered by name.
func (c *Cache) Snapshot() []Stats {
	out := make([]Stats, 0, len(c.scopes))
	for _, s := range c.scopes {
		out = append(out, s.stats())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Scope) stats() Stats {
	st := Stats{Name: s.Name, Count: len(s.Durations)}
	for i, d := range s.Durations {
		st.Total += d
		if i == 0 || d < st.Min {
			st.Min = d
		}
		if d > st.Max {
			st.Max = d
		}
	}
	if st.Count > 0 {
		st.Mean = st.Total / time.Duration(st.Count)
	}
	return st
}
