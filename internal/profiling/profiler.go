package profiling

import "time"

// Profiler is an open timing scope. Call Finish exactly once, usually via
// defer, to record the elapsed time.
type Profiler struct {
	cache *Cache
	name  string
	start time.Time
	now   func() time.Time
	done  bool
}

// Name returns the scope name.
func (p *Profiler) Name() string { return p.name }

// Finish records the time elapsed since the scope opened. Later calls are no-ops.
func (p *Profiler) Finish() time.Duration {
	return p.FinishAt(p.now())
}

// FinishAt records end - start. Later calls are no-ops.
func (p *Profiler) FinishAt(end time.Time) time.Duration {
	if p.done {
		return 0
	}
	p.done = true

	elapsed := end.Sub(p.start)
	if elapsed < 0 {
		elapsed = 0
	}
	p.cache.Record(p.name, elapsed)
	return elapsed
}
