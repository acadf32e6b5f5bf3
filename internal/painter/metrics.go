package painter

import "sync/atomic"

// Metrics counts paint outcomes. Counters are monotonic for the life of
// the painter instance.
type Metrics struct {
	created   atomic.Uint64
	patched   atomic.Uint64
	replaced  atomic.Uint64
	removed   atomic.Uint64
	fragErrs  atomic.Uint64
	blockedRe atomic.Uint64
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	// Created, Patched, Replaced and Removed count fragment node
	// lifecycle decisions.
	Created  uint64
	Patched  uint64
	Replaced uint64
	Removed  uint64

	// FragmentErrors counts fragments substituted with an error
	// placeholder.
	FragmentErrors uint64

	// BlockedLinks counts untrusted references rejected by the link
	// policy (failed closed, silently from the caller's perspective).
	BlockedLinks uint64
}

// Snapshot returns a copy of the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Created:        m.created.Load(),
		Patched:        m.patched.Load(),
		Replaced:       m.replaced.Load(),
		Removed:        m.removed.Load(),
		FragmentErrors: m.fragErrs.Load(),
		BlockedLinks:   m.blockedRe.Load(),
	}
}
