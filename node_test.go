package sapling

import (
	"fmt"
	"testing"
)

// newTestNode allocates a node from a fresh default arena.
func newTestNode(name string) *Node {
	n := Alloc[Node](NewArena(0))
	n.Name = name
	return n
}

// --- Defaults ---

func TestNodeDefaults(t *testing.T) {
	n := newTestNode("test")
	if n.ID != -1 {
		t.Errorf("ID = %d, want -1", n.ID)
	}
	if n.Type != ComponentEmpty {
		t.Errorf("Type = %v, want empty", n.Type)
	}
	if n.Component != nil {
		t.Errorf("Component = %v, want nil", n.Component)
	}
	if !n.Valid {
		t.Error("Valid should be true")
	}
	if n.NumChildren() != 0 {
		t.Errorf("NumChildren = %d, want 0", n.NumChildren())
	}
}

// --- AddChild ---

func TestAddChildBasic(t *testing.T) {
	parent := newTestNode("parent")
	child := newTestNode("child")
	parent.AddChild(child)

	if child.Parent != parent {
		t.Error("child.Parent should be parent")
	}
	if parent.NumChildren() != 1 {
		t.Errorf("NumChildren = %d, want 1", parent.NumChildren())
	}
	if parent.ChildAt(0) != child {
		t.Error("ChildAt(0) should be child")
	}
}

func TestAddChildReparent(t *testing.T) {
	p1 := newTestNode("p1")
	p2 := newTestNode("p2")
	child := newTestNode("child")

	p1.AddChild(child)
	p2.AddChild(child)
	if p1.NumChildren() != 0 {
		t.Error("p1 should have 0 children after reparent")
	}
	if p2.NumChildren() != 1 {
		t.Error("p2 should have 1 child")
	}
	if child.Parent != p2 {
		t.Error("child.Parent should be p2")
	}
}

func TestAddChildCyclePanic(t *testing.T) {
	parent := newTestNode("parent")
	child := newTestNode("child")
	grandchild := newTestNode("grandchild")
	parent.AddChild(child)
	child.AddChild(grandchild)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for cycle, got none")
		}
	}()
	grandchild.AddChild(parent)
}

func TestAddChildSelfPanic(t *testing.T) {
	n := newTestNode("self")
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for self-add, got none")
		}
	}()
	n.AddChild(n)
}

func TestAddChildNilPanic(t *testing.T) {
	n := newTestNode("n")
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for nil child, got none")
		}
	}()
	n.AddChild(nil)
}

func TestAddChildAt(t *testing.T) {
	parent := newTestNode("parent")
	a := newTestNode("a")
	b := newTestNode("b")
	c := newTestNode("c")
	parent.AddChild(a)
	parent.AddChild(c)
	parent.AddChildAt(b, 1)

	want := []*Node{a, b, c}
	for i, w := range want {
		if parent.ChildAt(i) != w {
			t.Errorf("ChildAt(%d) = %q, want %q", i, parent.ChildAt(i).Name, w.Name)
		}
	}
}

func TestAddChildAtOutOfRangePanic(t *testing.T) {
	parent := newTestNode("parent")
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for out of range index, got none")
		}
	}()
	parent.AddChildAt(newTestNode("a"), 2)
}

// --- RemoveChild ---

func TestRemoveChild(t *testing.T) {
	parent := newTestNode("parent")
	child := newTestNode("child")
	parent.AddChild(child)
	parent.RemoveChild(child)

	if child.Parent != nil {
		t.Error("child.Parent should be nil")
	}
	if parent.NumChildren() != 0 {
		t.Errorf("NumChildren = %d, want 0", parent.NumChildren())
	}
}

func TestRemoveChildWrongParentPanic(t *testing.T) {
	p1 := newTestNode("p1")
	p2 := newTestNode("p2")
	child := newTestNode("child")
	p1.AddChild(child)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for wrong parent, got none")
		}
	}()
	p2.RemoveChild(child)
}

func TestRemoveChildAt(t *testing.T) {
	parent := newTestNode("parent")
	a := newTestNode("a")
	b := newTestNode("b")
	parent.AddChild(a)
	parent.AddChild(b)

	got := parent.RemoveChildAt(0)
	if got != a {
		t.Errorf("RemoveChildAt(0) = %q, want a", got.Name)
	}
	if a.Parent != nil {
		t.Error("removed child should have no parent")
	}
	if parent.NumChildren() != 1 || parent.ChildAt(0) != b {
		t.Error("b should be the only child left")
	}
}

func TestRemoveFromParentNoOp(t *testing.T) {
	n := newTestNode("orphan")
	n.RemoveFromParent()
	if n.Parent != nil {
		t.Error("orphan should stay parentless")
	}
}

// --- Queries ---

func buildTestTree() *Node {
	root := newTestNode("Root")
	root.ID = 0
	for i := range 3 {
		c := newTestNode(fmt.Sprintf("c%d", i))
		c.ID = i + 1
		root.AddChild(c)
		for j := range 2 {
			g := newTestNode(fmt.Sprintf("c%d_%d", i, j))
			g.ID = 10*(i+1) + j
			c.AddChild(g)
		}
	}
	return root
}

func TestWalkOrder(t *testing.T) {
	root := buildTestTree()
	var names []string
	root.Walk(func(n *Node) bool {
		names = append(names, n.Name)
		return true
	})
	want := []string{"Root", "c0", "c0_0", "c0_1", "c1", "c1_0", "c1_1", "c2", "c2_0", "c2_1"}
	if fmt.Sprint(names) != fmt.Sprint(want) {
		t.Errorf("Walk order = %v, want %v", names, want)
	}
}

func TestWalkSkipsSubtree(t *testing.T) {
	root := buildTestTree()
	count := 0
	root.Walk(func(n *Node) bool {
		count++
		return n.Name != "c1"
	})
	if count != 8 {
		t.Errorf("visited %d nodes, want 8", count)
	}
}

func TestWalkNil(t *testing.T) {
	var n *Node
	n.Walk(func(*Node) bool {
		t.Error("fn called on nil node")
		return true
	})
}

func TestFind(t *testing.T) {
	root := buildTestTree()
	if got := root.Find("c2_1"); got == nil || got.ID != 31 {
		t.Errorf("Find(c2_1) = %v, want ID 31", got)
	}
	if root.Find("missing") != nil {
		t.Error("Find(missing) should be nil")
	}
	if got := root.FindID(20); got == nil || got.Name != "c1_0" {
		t.Errorf("FindID(20) = %v, want c1_0", got)
	}
	if root.FindID(99) != nil {
		t.Error("FindID(99) should be nil")
	}
}

func TestPath(t *testing.T) {
	root := buildTestTree()
	if got := root.Find("c1_1").Path(); got != "Root/c1/c1_1" {
		t.Errorf("Path = %q, want %q", got, "Root/c1/c1_1")
	}
	if got := root.Path(); got != "Root" {
		t.Errorf("Path = %q, want Root", got)
	}
}

func TestNodeString(t *testing.T) {
	n := newTestNode("Box")
	n.ID = 5
	if got, want := n.String(), `empty "Box" (id 5)`; got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
}

// --- Dispose ---

func TestDispose(t *testing.T) {
	root := buildTestTree()
	c1 := root.Find("c1")
	g := c1.ChildAt(0)
	c1.Dispose()

	if !c1.IsDisposed() || !g.IsDisposed() {
		t.Error("c1 and its subtree should be disposed")
	}
	if root.NumChildren() != 2 {
		t.Errorf("root NumChildren = %d, want 2", root.NumChildren())
	}
	if c1.Parent != nil || g.Parent != nil {
		t.Error("disposed nodes should be detached")
	}
	if c1.Valid {
		t.Error("disposed node should not be valid")
	}
}

func TestDisposeIdempotent(t *testing.T) {
	n := newTestNode("n")
	n.Dispose()
	n.Dispose()
	if !n.IsDisposed() {
		t.Error("node should be disposed")
	}
}

func TestArenaReleaseDisposesNodes(t *testing.T) {
	a := NewArena(0)
	root := Alloc[Node](a)
	child := Alloc[Node](a)
	root.AddChild(child)
	a.Release()

	if !root.IsDisposed() || !child.IsDisposed() {
		t.Error("Release should dispose every node")
	}
	if root.NumChildren() != 0 {
		t.Errorf("root NumChildren = %d, want 0", root.NumChildren())
	}
}
