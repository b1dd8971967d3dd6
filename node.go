package sapling

import (
	"fmt"
	"slices"
	"strings"
)

// Node is the persistent scene graph element. A single flat struct is used for
// every component type; the typed payload lives in Component and is reached
// through the load, run and render slots bound when the node is built.
type Node struct {
	// Identity
	ID   int // -1 when unassigned
	Name string

	// Component
	Type      ComponentType
	Component any // *T for the type registered as Type, nil for ComponentEmpty

	// Hierarchy
	Parent   *Node
	children []*Node

	// Valid is cleared when a reference held by this node cannot be resolved.
	// Invalid nodes are skipped by Scene.Load, Scene.Run and Scene.Render.
	Valid bool

	// Metadata
	UserData any

	// Dispatch slots, never nil once constructed by an Arena.
	load   func(App, *Scene, *Node) error
	run    func(App, *Scene, *Node)
	render func(App, *Scene, *Node, Pipeline)

	disposed bool
}

// SetDefaults gives a freshly allocated node its documented defaults.
func (n *Node) SetDefaults() {
	n.ID = -1
	n.Name = "Object"
	n.Valid = true
	n.load, n.run, n.render = noopLoad, noopRun, noopRender
}

// --- Hierarchy ---

// AddChild makes child the last child of n, detaching it from its previous
// parent. It panics on a nil child or when child is n or one of its
// ancestors.
func (n *Node) AddChild(child *Node) {
	n.insert(child, -1, "AddChild")
}

// AddChildAt makes child the index-th child of n. It reparents and panics
// like AddChild, and also when index is past the end of the list.
func (n *Node) AddChildAt(child *Node, index int) {
	n.insert(child, index, "AddChildAt")
}

// insert attaches child at index; a negative index appends.
func (n *Node) insert(child *Node, index int, op string) {
	if child == nil {
		panic("sapling: " + op + ": nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, op+" (parent)")
		debugCheckDisposed(child, op+" (child)")
	}
	for p := n; p != nil; p = p.Parent {
		if p == child {
			panic("sapling: " + op + ": node would become its own ancestor")
		}
	}
	if old := child.Parent; old != nil {
		old.detach(child)
	}
	switch {
	case index < 0:
		index = len(n.children)
	case index > len(n.children):
		panic(fmt.Sprintf("sapling: %s: index %d out of range [0, %d]", op, index, len(n.children)))
	}
	n.children = slices.Insert(n.children, index, child)
	child.Parent = n
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from n. It panics if n is not child's parent.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("sapling: RemoveChild: node is not the parent of " + child.Name)
	}
	n.detach(child)
	child.Parent = nil
}

// RemoveChildAt detaches and returns the index-th child of n.
func (n *Node) RemoveChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		panic(fmt.Sprintf("sapling: RemoveChildAt: index %d out of range [0, %d)", index, len(n.children)))
	}
	child := n.children[index]
	n.children = slices.Delete(n.children, index, index+1)
	child.Parent = nil
	return child
}

// RemoveFromParent detaches n from its parent, if it has one.
func (n *Node) RemoveFromParent() {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Children returns the children of n in file order. Callers must not modify
// the slice.
func (n *Node) Children() []*Node { return n.children }

// NumChildren returns len(n.Children()).
func (n *Node) NumChildren() int { return len(n.children) }

// ChildAt returns the index-th child of n.
func (n *Node) ChildAt(index int) *Node { return n.children[index] }

// --- Queries ---

// Walk calls fn for n and its descendants, depth-first, parents before
// children, in file order. Returning false from fn skips that node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.children {
		child.Walk(fn)
	}
}

// Find returns the first node named name in n's subtree (n included), or nil.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}

// FindID returns the first node whose ID is id in n's subtree, or nil.
func (n *Node) FindID(id int) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.ID == id {
			found = c
			return false
		}
		return true
	})
	return found
}

// Path returns the slash-separated names from the root down to n.
func (n *Node) Path() string {
	var names []string
	for p := n; p != nil; p = p.Parent {
		names = append(names, p.Name)
	}
	var b strings.Builder
	for i := len(names) - 1; i >= 0; i-- {
		b.WriteString(names[i])
		if i > 0 {
			b.WriteByte('/')
		}
	}
	return b.String()
}

// String returns a short description used in logs and errors.
func (n *Node) String() string {
	return fmt.Sprintf("%s %q (id %d)", n.Type, n.Name, n.ID)
}

// --- Disposal ---

// Dispose detaches n and tears down its whole subtree: every node in it is
// marked disposed, loses its component and falls back to no-op dispatch.
// The owning arena calls it on release; components with their own Dispose
// are released separately.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.Component = nil
	n.UserData = nil
	n.Valid = false
	n.load, n.run, n.render = noopLoad, noopRun, noopRender
}

// IsDisposed reports whether Dispose has run on n or an ancestor.
func (n *Node) IsDisposed() bool { return n.disposed }

// detach drops child from n.children, leaving child.Parent untouched. The
// scan runs backwards because arena release disposes the newest node first.
func (n *Node) detach(child *Node) {
	for i := len(n.children) - 1; i >= 0; i-- {
		if n.children[i] == child {
			n.children = slices.Delete(n.children, i, i+1)
			return
		}
	}
}
