package layout

// Bias steers position mapping at edit boundaries.
type Bias int

const (
	// BiasBefore prefers the position before inserted content.
	BiasBefore Bias = -1

	// BiasAfter prefers the position after inserted content.
	BiasAfter Bias = 1
)

// Mapping translates pre-edit document positions to their post-edit
// equivalents. Steps counts the underlying edit steps; a mapping with more
// than one step is treated as complex and triggers full invalidation
// rather than incremental patching. That rule is a deliberately
// conservative classification, kept as-is.
type Mapping struct {
	// Steps is the number of edit steps the mapping composes.
	Steps int

	// Map translates a position. The function may be supplied by an
	// arbitrary host and is not trusted to be total; callers recover
	// from panics.
	Map func(pos int, bias Bias) int
}

// Complex reports whether the mapping is too ambiguous for incremental
// patching.
func (m *Mapping) Complex() bool {
	return m != nil && m.Steps > 1
}

// SimpleMapping builds a single-step mapping for an edit replacing
// [from, to) with length newLen, the well-defined incremental case the
// position mapper patches in place.
func SimpleMapping(from, to, newLen int) *Mapping {
	delta := newLen - (to - from)
	return &Mapping{
		Steps: 1,
		Map: func(pos int, bias Bias) int {
			switch {
			case pos <= from:
				return pos
			case pos >= to:
				return pos + delta
			default:
				// Inside the replaced range: collapse to an edge.
				if bias == BiasAfter {
					return from + newLen
				}
				return from
			}
		},
	}
}
