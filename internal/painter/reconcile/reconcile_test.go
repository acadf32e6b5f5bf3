package reconcile

import (
	"testing"
)

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{OpCreate, "create"},
		{OpPatch, "patch"},
		{OpReplace, "replace"},
		{OpMove, "move"},
		{OpRemove, "remove"},
		{Op(255), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.op.String(); got != tt.want {
				t.Errorf("Op.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func k(key, sig string) Keyed { return Keyed{Key: key, Signature: sig} }

func TestPlanEmptyToFull(t *testing.T) {
	next := []Keyed{k("a", "1"), k("b", "1"), k("c", "1")}

	plan := Plan(nil, next)
	if len(plan) != 3 {
		t.Fatalf("expected 3 instructions, got %d", len(plan))
	}
	for i, ins := range plan {
		if ins.Op != OpCreate {
			t.Errorf("instruction %d: expected create, got %s", i, ins.Op)
		}
		if ins.Index != i {
			t.Errorf("instruction %d: expected index %d, got %d", i, i, ins.Index)
		}
	}
}

func TestPlanUnchangedPatchesEverything(t *testing.T) {
	list := []Keyed{k("a", "1"), k("b", "2"), k("c", "3")}

	plan := Plan(list, list)
	for _, ins := range plan {
		if ins.Op != OpPatch {
			t.Errorf("expected only patches for an unchanged list, got %s for %s", ins.Op, ins.Key)
		}
	}
	if len(plan) != 3 {
		t.Errorf("expected 3 instructions, got %d", len(plan))
	}
}

func TestPlanSignatureChangeReplaces(t *testing.T) {
	prev := []Keyed{k("a", "1"), k("b", "1")}
	next := []Keyed{k("a", "1"), k("b", "2")}

	plan := Plan(prev, next)
	if len(plan) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(plan))
	}
	if plan[0].Op != OpPatch || plan[0].Key != "a" {
		t.Errorf("expected patch a, got %s %s", plan[0].Op, plan[0].Key)
	}
	if plan[1].Op != OpReplace || plan[1].Key != "b" {
		t.Errorf("expected replace b, got %s %s", plan[1].Op, plan[1].Key)
	}
}

func TestPlanRemovesComeFirst(t *testing.T) {
	prev := []Keyed{k("a", "1"), k("b", "1"), k("c", "1")}
	next := []Keyed{k("c", "1")}

	plan := Plan(prev, next)
	if len(plan) != 3 {
		t.Fatalf("expected 3 instructions, got %d", len(plan))
	}
	if plan[0].Op != OpRemove || plan[0].Key != "a" || plan[0].Index != 0 {
		t.Errorf("expected remove a at prev index 0, got %+v", plan[0])
	}
	if plan[1].Op != OpRemove || plan[1].Key != "b" || plan[1].Index != 1 {
		t.Errorf("expected remove b at prev index 1, got %+v", plan[1])
	}
	if plan[2].Op != OpPatch || plan[2].Key != "c" {
		t.Errorf("expected patch c, got %+v", plan[2])
	}
}

func TestPlanMoveDetection(t *testing.T) {
	prev := []Keyed{k("a", "1"), k("b", "1"), k("c", "1")}
	next := []Keyed{k("c", "1"), k("a", "1"), k("b", "1")}

	plan := Plan(prev, next)

	// c holds its ground (highest previous index placed first); a and b
	// moved relative to it.
	moves := map[string]bool{}
	for _, ins := range plan {
		if ins.Op == OpMove {
			moves[ins.Key] = true
		}
	}
	if moves["c"] {
		t.Errorf("c should not move")
	}
	if !moves["a"] || !moves["b"] {
		t.Errorf("expected a and b to move, got %v", moves)
	}
}

func TestPlanDuplicateDesiredKey(t *testing.T) {
	next := []Keyed{k("a", "1"), k("a", "1")}

	plan := Plan(nil, next)
	if len(plan) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(plan))
	}
	if plan[0].Op != OpCreate {
		t.Errorf("expected create for first occurrence, got %s", plan[0].Op)
	}
	if plan[1].Op != OpReplace {
		t.Errorf("expected replace for duplicate key, got %s", plan[1].Op)
	}
}

func TestPlanMixed(t *testing.T) {
	prev := []Keyed{k("a", "1"), k("b", "1"), k("c", "1"), k("d", "1")}
	next := []Keyed{k("b", "1"), k("c", "2"), k("e", "1")}

	ops := map[string]Op{}
	plan := Plan(prev, next)
	for _, ins := range plan {
		ops[ins.Key] = ins.Op
	}

	want := map[string]Op{
		"a": OpRemove,
		"d": OpRemove,
		"b": OpPatch,
		"c": OpReplace,
		"e": OpCreate,
	}
	for key, op := range want {
		if ops[key] != op {
			t.Errorf("key %s: expected %s, got %s", key, op, ops[key])
		}
	}
	if len(plan) != 5 {
		t.Errorf("expected 5 instructions, got %d", len(plan))
	}
}
