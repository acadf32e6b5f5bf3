package target

import "testing"

func TestNewTreeHasRoot(t *testing.T) {
	tree := NewTree()
	root := tree.Root()
	if root == nil {
		t.Fatalf("expected a root node")
	}
	if root.KindName() != "root" {
		t.Errorf("expected root kind, got %q", root.KindName())
	}
	if root.Parent() != nil {
		t.Errorf("root must have no parent")
	}
}

func TestCreateNodeIDsAreUnique(t *testing.T) {
	tree := NewTree()
	seen := make(map[NodeID]struct{})
	for i := 0; i < 100; i++ {
		n := tree.CreateNode("page")
		if _, dup := seen[n.ID()]; dup {
			t.Fatalf("duplicate node id %s", n.ID())
		}
		seen[n.ID()] = struct{}{}
	}
}

func TestInsertChildOrderAndReparenting(t *testing.T) {
	tree := NewTree()
	root := tree.Root()

	a := tree.CreateNode("page")
	b := tree.CreateNode("page")
	c := tree.CreateNode("page")

	root.InsertChild(a, 0)
	root.InsertChild(b, 1)
	root.InsertChild(c, 1)

	want := []Node{a, c, b}
	got := root.Children()
	if len(got) != 3 {
		t.Fatalf("expected 3 children, got %d", len(got))
	}
	for i := range want {
		if got[i].ID() != want[i].ID() {
			t.Errorf("child %d: expected %s, got %s", i, want[i].ID(), got[i].ID())
		}
	}

	// Re-inserting moves rather than duplicates.
	root.InsertChild(b, 0)
	if root.ChildCount() != 3 {
		t.Errorf("re-insert must not duplicate: got %d children", root.ChildCount())
	}
	if root.IndexOf(b) != 0 {
		t.Errorf("expected b at index 0, got %d", root.IndexOf(b))
	}
}

func TestInsertChildClampsIndex(t *testing.T) {
	tree := NewTree()
	root := tree.Root()
	a := tree.CreateNode("page")
	b := tree.CreateNode("page")

	root.InsertChild(a, -5)
	root.InsertChild(b, 99)

	if root.IndexOf(a) != 0 || root.IndexOf(b) != 1 {
		t.Errorf("expected clamped insertion order [a b], got indices %d %d",
			root.IndexOf(a), root.IndexOf(b))
	}
}

func TestRemoveChild(t *testing.T) {
	tree := NewTree()
	root := tree.Root()
	a := tree.CreateNode("page")
	root.InsertChild(a, 0)

	root.RemoveChild(a)
	if root.ChildCount() != 0 {
		t.Errorf("expected no children after removal")
	}
	if a.Parent() != nil {
		t.Errorf("removed child must be detached")
	}

	// Removing a non-child is a no-op.
	root.RemoveChild(a)
}

func TestAttrs(t *testing.T) {
	tree := NewTree()
	n := tree.CreateNode("line")

	if _, ok := n.Attr("style"); ok {
		t.Errorf("unset attribute must not exist")
	}
	n.SetAttr("style", "Body")
	n.SetAttr("align", "justify")

	if v, ok := n.Attr("style"); !ok || v != "Body" {
		t.Errorf("expected style=Body, got %q (%t)", v, ok)
	}

	names := n.AttrNames()
	if len(names) != 2 || names[0] != "align" || names[1] != "style" {
		t.Errorf("expected sorted attr names [align style], got %v", names)
	}

	n.RemoveAttr("style")
	if _, ok := n.Attr("style"); ok {
		t.Errorf("removed attribute must not exist")
	}
}

func TestFloatAndIntAttrs(t *testing.T) {
	tree := NewTree()
	n := tree.CreateNode("line")

	SetFloatAttr(n, "width", 123.5)
	if got := FloatAttr(n, "width"); got != 123.5 {
		t.Errorf("FloatAttr = %g, want 123.5", got)
	}
	if got := FloatAttr(n, "missing"); got != 0 {
		t.Errorf("missing float attr must read 0, got %g", got)
	}

	SetIntAttr(n, "pm-start", 42)
	if got, ok := IntAttr(n, "pm-start"); !ok || got != 42 {
		t.Errorf("IntAttr = (%d, %t), want (42, true)", got, ok)
	}
	n.SetAttr("pm-start", "not-a-number")
	if _, ok := IntAttr(n, "pm-start"); ok {
		t.Errorf("malformed int attr must not parse")
	}
}

func TestReleaseDropsSideDataRecursively(t *testing.T) {
	tree := NewTree()
	root := tree.Root()

	parent := tree.CreateNode("fragment")
	child := tree.CreateNode("line")
	parent.InsertChild(child, 0)
	root.InsertChild(parent, 0)

	tree.SetSideData(parent.ID(), "k", "v")
	tree.SetSideData(child.ID(), "k", "v")

	tree.Release(parent)

	if root.ChildCount() != 0 {
		t.Errorf("released node must be detached from its parent")
	}
	if _, ok := tree.SideData(parent.ID(), "k"); ok {
		t.Errorf("side data must be dropped on release")
	}
	if _, ok := tree.SideData(child.ID(), "k"); ok {
		t.Errorf("descendant side data must be dropped too")
	}

	created, released := tree.Stats()
	// Root plus two created; two released.
	if created != 3 || released != 2 {
		t.Errorf("Stats() = (%d, %d), want (3, 2)", created, released)
	}
}

func TestSideData(t *testing.T) {
	tree := NewTree()
	n := tree.CreateNode("fragment")

	if _, ok := tree.SideData(n.ID(), "k"); ok {
		t.Errorf("unset side data must not exist")
	}
	tree.SetSideData(n.ID(), "k", "v")
	if v, ok := tree.SideData(n.ID(), "k"); !ok || v != "v" {
		t.Errorf("expected side data v, got %q (%t)", v, ok)
	}
}
