package posmap

import (
	"testing"

	"github.com/dshills/folio/internal/layout"
	"github.com/dshills/folio/internal/painter/core"
	"github.com/dshills/folio/internal/painter/target"
)

func newNode(t *testing.T, tree *target.Tree, kind string, start, end int) target.Node {
	t.Helper()
	n := tree.CreateNode(kind)
	target.SetIntAttr(n, core.AttrPMStart, start)
	target.SetIntAttr(n, core.AttrPMEnd, end)
	return n
}

func pmRange(t *testing.T, n target.Node) (int, int) {
	t.Helper()
	start, _ := target.IntAttr(n, core.AttrPMStart)
	end, _ := target.IntAttr(n, core.AttrPMEnd)
	return start, end
}

func TestPatchNodeBeforeEditIsSkipped(t *testing.T) {
	tree := target.NewTree()
	n := newNode(t, tree, core.KindFragment.String(), 10, 20)

	// Insert 5 characters at position 100, far after the node.
	m := layout.SimpleMapping(100, 100, 5)

	patched, err := Patch(n, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if patched {
		t.Errorf("node entirely before the edit point must be skipped")
	}
	if start, end := pmRange(t, n); start != 10 || end != 20 {
		t.Errorf("expected untouched range [10,20], got [%d,%d]", start, end)
	}
}

func TestPatchRemapsSubtree(t *testing.T) {
	tree := target.NewTree()
	frag := newNode(t, tree, core.KindFragment.String(), 100, 200)
	run := newNode(t, tree, core.KindRun.String(), 120, 180)
	frag.InsertChild(run, 0)

	// Insert 10 characters at position 50.
	m := layout.SimpleMapping(50, 50, 10)

	patched, err := Patch(frag, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !patched {
		t.Fatalf("expected the node to be patched")
	}
	if start, end := pmRange(t, frag); start != 110 || end != 210 {
		t.Errorf("fragment range = [%d,%d], want [110,210]", start, end)
	}
	if start, end := pmRange(t, run); start != 130 || end != 190 {
		t.Errorf("run range = [%d,%d], want [130,190]", start, end)
	}
}

func TestPatchBiases(t *testing.T) {
	tree := target.NewTree()
	// Node spanning exactly the replaced range: start collapses to the
	// range start, end lands after the inserted content.
	n := newNode(t, tree, core.KindFragment.String(), 40, 60)

	m := layout.SimpleMapping(40, 60, 5)

	if _, err := Patch(n, m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start, end := pmRange(t, n); start != 40 || end != 45 {
		t.Errorf("expected biased range [40,45], got [%d,%d]", start, end)
	}
}

func TestPatchSkipsDecorationSubtrees(t *testing.T) {
	tree := target.NewTree()
	frag := newNode(t, tree, core.KindFragment.String(), 100, 200)
	header := newNode(t, tree, core.KindHeader.String(), 5, 9)
	frag.InsertChild(header, 0)

	m := layout.SimpleMapping(0, 0, 50)

	if _, err := Patch(frag, m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start, end := pmRange(t, header); start != 5 || end != 9 {
		t.Errorf("header coordinates must not be remapped, got [%d,%d]", start, end)
	}
}

func TestPatchRecoversFromPanickingMapping(t *testing.T) {
	tree := target.NewTree()
	n := newNode(t, tree, core.KindFragment.String(), 10, 20)

	m := &layout.Mapping{
		Steps: 1,
		Map:   func(pos int, bias layout.Bias) int { panic("hostile mapping") },
	}

	patched, err := Patch(n, m)
	if err == nil {
		t.Fatalf("expected an error from a panicking mapping")
	}
	if patched {
		t.Errorf("a failed patch must not report success")
	}
	if start, end := pmRange(t, n); start != 10 || end != 20 {
		t.Errorf("expected stale-but-intact range [10,20], got [%d,%d]", start, end)
	}
}

func TestPatchNilInputs(t *testing.T) {
	tree := target.NewTree()
	n := newNode(t, tree, core.KindFragment.String(), 0, 1)

	if patched, err := Patch(nil, layout.SimpleMapping(0, 0, 1)); patched || err != nil {
		t.Errorf("nil node: got (%t, %v)", patched, err)
	}
	if patched, err := Patch(n, nil); patched || err != nil {
		t.Errorf("nil mapping: got (%t, %v)", patched, err)
	}
}

func TestReliable(t *testing.T) {
	tree := target.NewTree()
	n := newNode(t, tree, core.KindFragment.String(), 100, 200)

	m := layout.SimpleMapping(50, 50, 10)

	if !Reliable(n, m, 110) {
		t.Errorf("mapping reproducing the new start must be reliable")
	}
	if Reliable(n, m, 300) {
		t.Errorf("mapping missing the new start must be unreliable")
	}
}

func TestReliableMissingAttr(t *testing.T) {
	tree := target.NewTree()
	n := tree.CreateNode(core.KindFragment.String())

	if Reliable(n, layout.SimpleMapping(0, 0, 1), 0) {
		t.Errorf("a node without a cached start cannot be verified")
	}
}

func TestReliablePanicMeansUnreliable(t *testing.T) {
	tree := target.NewTree()
	n := newNode(t, tree, core.KindFragment.String(), 10, 20)

	m := &layout.Mapping{
		Steps: 1,
		Map:   func(pos int, bias layout.Bias) int { panic("hostile mapping") },
	}
	if Reliable(n, m, 10) {
		t.Errorf("a panicking mapping must be unreliable")
	}
}
