// Package reconcile plans the minimal keyed-tree updates that turn a
// previously rendered list into a desired list.
//
// The planner is deliberately independent of fragments and render targets:
// it sees only keys and signatures and emits create/patch/replace/move/
// remove instructions. The painter executes the plan against a target,
// which keeps the paint algorithm retargetable to any retained-mode
// surface.
package reconcile

// Op is the kind of a planned instruction.
type Op uint8

const (
	// OpCreate inserts a new node for a key absent from the previous list.
	OpCreate Op = iota

	// OpPatch updates a retained node in place (key and signature match).
	OpPatch

	// OpReplace destroys and recreates a node whose signature changed.
	OpReplace

	// OpMove repositions a retained node whose relative order changed.
	OpMove

	// OpRemove removes a node whose key is absent from the desired list.
	OpRemove
)

// String returns the string representation of the op.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpPatch:
		return "patch"
	case OpReplace:
		return "replace"
	case OpMove:
		return "move"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Keyed is one entry of a previous or desired list: a stable key plus a
// signature folding in every property whose change forces a rebuild.
type Keyed struct {
	Key       string
	Signature string
}

// Instruction is one planned update.
type Instruction struct {
	Op Op

	// Key identifies the affected entry.
	Key string

	// Index is the desired index for create/patch/replace/move, and the
	// previous index for remove.
	Index int
}

// Plan computes the instructions that transform prev into next. Removes
// come first (in previous-list order), then one instruction per desired
// entry in desired order. A retained entry whose signature matches gets
// OpPatch, and additionally OpMove when its previous position is out of
// order relative to already-placed retained entries.
//
// Duplicate keys in either list violate the per-page uniqueness invariant;
// the planner treats later duplicates as replacements to stay deterministic
// rather than panicking mid-paint.
func Plan(prev, next []Keyed) []Instruction {
	prevIndex := make(map[string]int, len(prev))
	prevSig := make(map[string]string, len(prev))
	for i, e := range prev {
		if _, dup := prevIndex[e.Key]; dup {
			continue
		}
		prevIndex[e.Key] = i
		prevSig[e.Key] = e.Signature
	}

	nextKeys := make(map[string]struct{}, len(next))
	for _, e := range next {
		nextKeys[e.Key] = struct{}{}
	}

	var plan []Instruction

	for i, e := range prev {
		if _, keep := nextKeys[e.Key]; !keep {
			plan = append(plan, Instruction{Op: OpRemove, Key: e.Key, Index: i})
		}
	}

	// lastPlaced tracks the highest previous index among retained entries
	// already emitted; a retained entry before it has moved forward.
	lastPlaced := -1
	seen := make(map[string]struct{}, len(next))

	for i, e := range next {
		if _, dup := seen[e.Key]; dup {
			plan = append(plan, Instruction{Op: OpReplace, Key: e.Key, Index: i})
			continue
		}
		seen[e.Key] = struct{}{}

		pi, existed := prevIndex[e.Key]
		switch {
		case !existed:
			plan = append(plan, Instruction{Op: OpCreate, Key: e.Key, Index: i})
		case prevSig[e.Key] != e.Signature:
			plan = append(plan, Instruction{Op: OpReplace, Key: e.Key, Index: i})
			if pi > lastPlaced {
				lastPlaced = pi
			}
		default:
			plan = append(plan, Instruction{Op: OpPatch, Key: e.Key, Index: i})
			if pi < lastPlaced {
				plan = append(plan, Instruction{Op: OpMove, Key: e.Key, Index: i})
			} else {
				lastPlaced = pi
			}
		}
	}

	return plan
}
