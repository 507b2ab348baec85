package expr

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrInvalidNode = errors.New("node reference out of range")
	ErrNotNAry     = errors.New("node is not an n-ary term")
	ErrBrokenLink  = errors.New("parent and child links disagree")
)

// RenderData is the measured box of a node.
type RenderData struct {
	Width  float64
	Height float64
}

// TermNode is one slot of an Arena.
type TermNode struct {
	ID     NodeRef
	Term   Term
	Parent NodeRef
	// Layout is nil until the layout engine has measured the node.
	Layout *RenderData
}

// Arena is an append-only store of term nodes. Node 0 is always the root.
// Nodes are never removed; a new arena is built for every parse.
//
// Structural changes go through Set, Append and Lower, which keep the
// parent pointers and the child lists of both sides in agreement.
type Arena struct {
	nodes []TermNode
}

// NewArena creates an arena whose root is an Empty placeholder.
func NewArena() *Arena {
	a := &Arena{nodes: make([]TermNode, 0, 16)}
	a.alloc(Empty{}, NoNode)
	return a
}

// Root returns the root node reference.
func (a *Arena) Root() NodeRef {
	return 0
}

// Len returns the number of allocated nodes.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// Node returns the node with the given id. It panics on an out of range id,
// like a slice index would.
func (a *Arena) Node(id NodeRef) *TermNode {
	return &a.nodes[id]
}

// Term returns the term stored at id.
func (a *Arena) Term(id NodeRef) Term {
	return a.nodes[id].Term
}

// Parent returns the parent of id, or NoNode for the root.
func (a *Arena) Parent(id NodeRef) NodeRef {
	return a.nodes[id].Parent
}

// Children returns the children of id in positional order.
func (a *Arena) Children(id NodeRef) []NodeRef {
	return a.nodes[id].Term.children()
}

// Valid reports whether id addresses an allocated node.
func (a *Arena) Valid(id NodeRef) bool {
	return id >= 0 && int(id) < len(a.nodes)
}

func (a *Arena) alloc(t Term, parent NodeRef) NodeRef {
	id := NodeRef(len(a.nodes))
	a.nodes = append(a.nodes, TermNode{ID: id, Term: t, Parent: parent})
	return id
}

// NewEmpty allocates an Empty node under parent. The caller must make the
// parent reference it in the same step, usually through Set.
func (a *Arena) NewEmpty(parent NodeRef) NodeRef {
	return a.alloc(Empty{}, parent)
}

// NewLeaf allocates a leaf term under parent, with the same contract as
// NewEmpty.
func (a *Arena) NewLeaf(parent NodeRef, t Term) NodeRef {
	return a.alloc(t, parent)
}

// Set replaces the term at id and re-points every child of the new term at
// id. Children must be nodes that are not referenced by any other term.
func (a *Arena) Set(id NodeRef, t Term) error {
	if !a.Valid(id) {
		return fmt.Errorf("set %d: %w", id, ErrInvalidNode)
	}
	for _, c := range t.children() {
		if !a.Valid(c) {
			return fmt.Errorf("set %d: child %d: %w", id, c, ErrInvalidNode)
		}
	}
	a.nodes[id].Term = t
	for _, c := range t.children() {
		a.nodes[c].Parent = id
	}
	return nil
}

// Append allocates t as the last child of the Multiplication or Addition at
// parent and returns the new node.
func (a *Arena) Append(parent NodeRef, t Term) (NodeRef, error) {
	if !a.Valid(parent) {
		return NoNode, fmt.Errorf("append to %d: %w", parent, ErrInvalidNode)
	}
	switch p := a.nodes[parent].Term.(type) {
	case Multiplication:
		id := a.alloc(t, parent)
		p.Children = append(append([]NodeRef(nil), p.Children...), id)
		a.nodes[parent].Term = p
		return id, nil
	case Addition:
		id := a.alloc(t, parent)
		p.Children = append(append([]NodeRef(nil), p.Children...), id)
		a.nodes[parent].Term = p
		return id, nil
	default:
		return NoNode, fmt.Errorf("append to %s %d: %w", p.Kind(), parent, ErrNotNAry)
	}
}

// Lower moves the term at id into a freshly allocated node and returns it.
// The moved node becomes a child of id; the caller then installs the
// wrapping term at id with Set. Keeping the wrapper at id means ancestors
// (and the root at index 0) never need their child lists rewritten.
//
// Until Set is called, id holds Empty.
func (a *Arena) Lower(id NodeRef) (NodeRef, error) {
	if !a.Valid(id) {
		return NoNode, fmt.Errorf("lower %d: %w", id, ErrInvalidNode)
	}
	moved := a.nodes[id].Term
	low := a.alloc(moved, id)
	for _, c := range moved.children() {
		a.nodes[c].Parent = low
	}
	a.nodes[id].Term = Empty{}
	return low, nil
}

// ResetLayout clears every cached measurement.
func (a *Arena) ResetLayout() {
	for i := range a.nodes {
		a.nodes[i].Layout = nil
	}
}

// Walk visits id and all of its descendants, parents first. Returning false
// from fn skips the children of that node.
func (a *Arena) Walk(id NodeRef, fn func(n *TermNode) bool) {
	if !fn(&a.nodes[id]) {
		return
	}
	for _, c := range a.nodes[id].Term.children() {
		a.Walk(c, fn)
	}
}

// Validate checks the structural invariants: the root has no parent, every
// non-root node is referenced exactly once by its parent, and every child
// link points back at the referencing node.
func (a *Arena) Validate() error {
	if len(a.nodes) == 0 {
		return fmt.Errorf("arena has no root: %w", ErrInvalidNode)
	}
	if a.nodes[0].Parent != NoNode {
		return fmt.Errorf("root has parent %d: %w", a.nodes[0].Parent, ErrBrokenLink)
	}
	refs := make([]int, len(a.nodes))
	for i, n := range a.nodes {
		if n.ID != NodeRef(i) {
			return fmt.Errorf("node %d carries id %d: %w", i, n.ID, ErrBrokenLink)
		}
		for _, c := range n.Term.children() {
			if !a.Valid(c) {
				return fmt.Errorf("node %d child %d: %w", i, c, ErrInvalidNode)
			}
			if a.nodes[c].Parent != NodeRef(i) {
				return fmt.Errorf("node %d lists child %d whose parent is %d: %w", i, c, a.nodes[c].Parent, ErrBrokenLink)
			}
			refs[c]++
		}
	}
	for i := 1; i < len(a.nodes); i++ {
		p := a.nodes[i].Parent
		if !a.Valid(p) {
			return fmt.Errorf("node %d parent %d: %w", i, p, ErrInvalidNode)
		}
		if refs[i] != 1 {
			return fmt.Errorf("node %d referenced %d times: %w", i, refs[i], ErrBrokenLink)
		}
	}
	return nil
}
