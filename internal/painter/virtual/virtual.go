// Package virtual bounds the number of mounted pages for large documents.
//
// The manager precomputes a prefix sum of page heights (plus inter-page
// gaps), binary-searches it to anchor the window at the current scroll
// position, and reports the needed page set: the window plus any pinned
// indices. Mounted page count is bounded by window + 2*overscan + pinned,
// independent of total page count.
package virtual

import "sort"

// Options configures the window manager.
type Options struct {
	// Window is the base number of pages kept mounted.
	Window int

	// Overscan is the number of extra pages mounted on each side.
	Overscan int

	// Gap is the inter-page gap in layout units.
	Gap float64
}

// DefaultOptions returns sensible defaults for flowing vertical pages.
func DefaultOptions() Options {
	return Options{Window: 5, Overscan: 1, Gap: 24}
}

// Manager computes the virtualization window over a page list.
type Manager struct {
	opts    Options
	heights []float64

	// offsets is the prefix sum: offsets[0] = 0,
	// offsets[i+1] = offsets[i] + heights[i] + gap.
	offsets []float64

	pinned map[int]struct{}
}

// NewManager creates a window manager.
// Window is clamped to a minimum of 1; negative overscan is clamped to 0.
func NewManager(opts Options) *Manager {
	if opts.Window < 1 {
		opts.Window = 1
	}
	if opts.Overscan < 0 {
		opts.Overscan = 0
	}
	if opts.Gap < 0 {
		opts.Gap = 0
	}
	return &Manager{
		opts:   opts,
		pinned: make(map[int]struct{}),
	}
}

// SetHeights replaces the page heights and recomputes offsets.
func (m *Manager) SetHeights(heights []float64) {
	m.heights = append(m.heights[:0], heights...)
	m.offsets = make([]float64, len(heights)+1)
	for i, h := range heights {
		m.offsets[i+1] = m.offsets[i] + h + m.opts.Gap
	}
}

// SetPins replaces the pinned page indices. Out-of-range indices are kept
// and simply never materialize until the document grows to include them.
func (m *Manager) SetPins(indices []int) {
	m.pinned = make(map[int]struct{}, len(indices))
	for _, i := range indices {
		if i >= 0 {
			m.pinned[i] = struct{}{}
		}
	}
}

// PageCount returns the number of known pages.
func (m *Manager) PageCount() int { return len(m.heights) }

// Offset returns the content-space top of page i.
func (m *Manager) Offset(i int) float64 {
	if i < 0 || i >= len(m.offsets) {
		return 0
	}
	return m.offsets[i]
}

// ContentHeight returns the total scrollable extent (no trailing gap).
func (m *Manager) ContentHeight() float64 {
	n := len(m.heights)
	if n == 0 {
		return 0
	}
	return m.offsets[n] - m.opts.Gap
}

// Anchor returns the index of the page containing the content-space
// scroll position: the largest i with offsets[i] <= pos.
func (m *Manager) Anchor(pos float64) int {
	n := len(m.heights)
	if n == 0 {
		return 0
	}
	if pos <= 0 {
		return 0
	}
	// First index whose offset exceeds pos, minus one.
	i := sort.Search(n, func(i int) bool { return m.offsets[i+1] > pos })
	if i >= n {
		i = n - 1
	}
	return i
}

// Window returns the mounted page window [start, end] for the scroll
// position. The window begins at the anchor page and spans
// window + 2*overscan pages, so scrolling down by a page strictly
// advances the window until the end of the document clamps it.
func (m *Manager) Window(pos float64) (start, end int) {
	n := len(m.heights)
	if n == 0 {
		return 0, -1
	}

	span := m.opts.Window + 2*m.opts.Overscan
	start = m.Anchor(pos)
	if maxStart := n - span; start > maxStart && maxStart >= 0 {
		start = maxStart
	}

	end = start + span - 1
	if end > n-1 {
		end = n - 1
	}
	return start, end
}

// Needed returns the sorted set of page indices that must be mounted at
// the scroll position: the window plus in-range pinned indices.
func (m *Manager) Needed(pos float64) []int {
	n := len(m.heights)
	if n == 0 {
		return nil
	}

	start, end := m.Window(pos)
	set := make(map[int]struct{}, end-start+1+len(m.pinned))
	for i := start; i <= end; i++ {
		set[i] = struct{}{}
	}
	for i := range m.pinned {
		if i < n {
			set[i] = struct{}{}
		}
	}

	needed := make([]int, 0, len(set))
	for i := range set {
		needed = append(needed, i)
	}
	sort.Ints(needed)
	return needed
}

// MountBound returns the guaranteed upper bound on mounted pages:
// window + 2*overscan + pinned.
func (m *Manager) MountBound() int {
	return m.opts.Window + 2*m.opts.Overscan + len(m.pinned)
}

// LeadingHeight returns the spacer height that stands in for the pages
// before the first mounted index.
func (m *Manager) LeadingHeight(first int) float64 {
	if first <= 0 || first >= len(m.offsets) {
		return 0
	}
	return m.offsets[first]
}

// TrailingHeight returns the spacer height that stands in for the pages
// after the last mounted index.
func (m *Manager) TrailingHeight(last int) float64 {
	n := len(m.heights)
	if last < 0 || last >= n-1 {
		return 0
	}
	h := m.ContentHeight() - (m.offsets[last] + m.heights[last])
	if h < 0 {
		h = 0
	}
	return h
}

// GapHeight returns the spacer height between two mounted indices that
// are not contiguous, covering the exact extent of the absent pages so
// total scrollable extent stays correct.
func (m *Manager) GapHeight(after, before int) float64 {
	if before <= after+1 || after < 0 || before >= len(m.offsets) {
		return 0
	}
	h := m.offsets[before] - m.offsets[after+1]
	if h < 0 {
		h = 0
	}
	return h
}

// SameNeeded reports whether two needed sets are identical; combined with
// an unchanged dirty set and layout version, the painter short-circuits
// remounting and only refreshes spacer sizes.
func SameNeeded(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
