package target

import (
	"sort"

	"github.com/google/uuid"
)

// Tree is the in-memory retained-tree target. It is the reference mount
// used by tests, the snapshot capturer and the terminal preview.
//
// Side data for nodes lives in an explicit map keyed by NodeID and is
// removed on Release; nothing relies on garbage-collector-driven cleanup.
type Tree struct {
	root *treeNode

	// side holds per-node side data (data stashed before attachment).
	side map[NodeID]map[string]string

	created  int
	released int
}

// NewTree creates a tree target with an empty root.
func NewTree() *Tree {
	t := &Tree{side: make(map[NodeID]map[string]string)}
	t.root = t.newNode("root")
	return t
}

// Root returns the mount root.
func (t *Tree) Root() Node {
	if t.root == nil {
		return nil
	}
	return t.root
}

// CreateNode creates a detached node of the given kind.
func (t *Tree) CreateNode(kind string) Node {
	return t.newNode(kind)
}

func (t *Tree) newNode(kind string) *treeNode {
	t.created++
	return &treeNode{
		tree: t,
		id:   NodeID(uuid.NewString()),
		kind: kind,
	}
}

// Release detaches the node, drops its side data, and recursively releases
// its children.
func (t *Tree) Release(n Node) {
	tn, ok := n.(*treeNode)
	if !ok || tn == nil {
		return
	}
	if tn.parent != nil {
		tn.parent.RemoveChild(tn)
	}
	t.releaseSubtree(tn)
}

func (t *Tree) releaseSubtree(tn *treeNode) {
	for _, c := range tn.children {
		t.releaseSubtree(c)
	}
	tn.children = nil
	delete(t.side, tn.id)
	t.released++
}

// SetSideData stashes side data for a node id. Used for data that must
// exist before the node is attached anywhere.
func (t *Tree) SetSideData(id NodeID, key, value string) {
	m := t.side[id]
	if m == nil {
		m = make(map[string]string)
		t.side[id] = m
	}
	m[key] = value
}

// SideData returns stashed side data for a node id.
func (t *Tree) SideData(id NodeID, key string) (string, bool) {
	m, ok := t.side[id]
	if !ok {
		return "", false
	}
	v, ok := m[key]
	return v, ok
}

// Stats returns created/released node counts, used by leak checks.
func (t *Tree) Stats() (created, released int) {
	return t.created, t.released
}

// treeNode is the concrete node of the in-memory tree.
type treeNode struct {
	tree     *Tree
	id       NodeID
	kind     string
	attrs    map[string]string
	text     string
	parent   *treeNode
	children []*treeNode
}

func (n *treeNode) ID() NodeID       { return n.id }
func (n *treeNode) KindName() string { return n.kind }

func (n *treeNode) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

func (n *treeNode) SetAttr(name, value string) {
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[name] = value
}

func (n *treeNode) RemoveAttr(name string) {
	delete(n.attrs, name)
}

func (n *treeNode) AttrNames() []string {
	names := make([]string, 0, len(n.attrs))
	for name := range n.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (n *treeNode) Text() string        { return n.text }
func (n *treeNode) SetText(text string) { n.text = text }

func (n *treeNode) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *treeNode) Children() []Node {
	out := make([]Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *treeNode) ChildCount() int { return len(n.children) }

func (n *treeNode) InsertChild(child Node, index int) {
	c, ok := child.(*treeNode)
	if !ok || c == nil || c == n {
		return
	}
	if c.parent != nil {
		c.parent.RemoveChild(c)
	}
	if index < 0 {
		index = 0
	}
	if index > len(n.children) {
		index = len(n.children)
	}
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = c
	c.parent = n
}

func (n *treeNode) RemoveChild(child Node) {
	c, ok := child.(*treeNode)
	if !ok || c == nil || c.parent != n {
		return
	}
	for i, existing := range n.children {
		if existing == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return
		}
	}
}

func (n *treeNode) IndexOf(child Node) int {
	c, ok := child.(*treeNode)
	if !ok {
		return -1
	}
	for i, existing := range n.children {
		if existing == c {
			return i
		}
	}
	return -1
}
