// Package target defines the retained-tree surface the painter mutates
// and provides the in-memory reference implementation.
//
// The reconciler is written against the capability set below rather than
// any concrete UI tree, so the same paint algorithm is retargetable to
// any retained-mode surface that can create, attach, reorder and release
// identified nodes.
package target

import "strconv"

// NodeID is the stable identity issued to a node at creation. It outlives
// attachment: side data keyed by NodeID is removed by an explicit Release,
// not by garbage collection.
type NodeID string

// Node is one retained visual node.
type Node interface {
	// ID returns the node's stable identity.
	ID() NodeID

	// Kind returns the node's role, fixed at creation.
	KindName() string

	// Attr returns a named attribute and whether it is set.
	Attr(name string) (string, bool)

	// SetAttr sets a named attribute.
	SetAttr(name, value string)

	// RemoveAttr removes a named attribute.
	RemoveAttr(name string)

	// AttrNames returns the set attribute names in sorted order.
	AttrNames() []string

	// Text returns the node's text content.
	Text() string

	// SetText sets the node's text content.
	SetText(text string)

	// Parent returns the parent node, or nil for a detached node or the
	// root.
	Parent() Node

	// Children returns the children in order. The returned slice is a
	// snapshot; mutating it does not mutate the node.
	Children() []Node

	// ChildCount returns the number of children.
	ChildCount() int

	// InsertChild inserts child at index, detaching it from any previous
	// parent. Index is clamped to [0, ChildCount].
	InsertChild(child Node, index int)

	// RemoveChild detaches child. It is a no-op if child is not a child
	// of this node.
	RemoveChild(child Node)

	// IndexOf returns the index of child, or -1.
	IndexOf(child Node) int
}

// Target is a retained-tree mount the painter renders into.
type Target interface {
	// Root returns the mount root. A nil root means the mount is unusable
	// and paint calls must fail fast.
	Root() Node

	// CreateNode creates a detached node of the given kind with a fresh
	// stable id.
	CreateNode(kind string) Node

	// Release frees a detached node and any side data keyed by its id.
	// Releasing an attached node detaches it first.
	Release(n Node)
}

// FloatAttr reads a float attribute, returning 0 when unset or malformed.
func FloatAttr(n Node, name string) float64 {
	s, ok := n.Attr(name)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// SetFloatAttr writes a float attribute with stable formatting.
func SetFloatAttr(n Node, name string, v float64) {
	n.SetAttr(name, strconv.FormatFloat(v, 'g', -1, 64))
}

// IntAttr reads an int attribute, returning (0, false) when unset or
// malformed.
func IntAttr(n Node, name string) (int, bool) {
	s, ok := n.Attr(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// SetIntAttr writes an int attribute.
func SetIntAttr(n Node, name string, v int) {
	n.SetAttr(name, strconv.Itoa(v))
}
