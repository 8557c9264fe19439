package tree

import (
	"fmt"
	"strings"
)

// A prefix tree of runs.
//
// The root holds the initial payload. A path from the root to a leaf is one run.
// Children are compared with the equality function given to New, so runs with a common prefix share nodes.
type Tree[T any] struct {
	payload  T
	parent   *Tree[T]
	children []*Tree[T]
	depth    int
	eq       func(a, b T) bool
}

func New[T any](payload T, eq func(a, b T) bool) *Tree[T] {
	return &Tree[T]{
		payload:  payload,
		parent:   nil,
		children: []*Tree[T]{},
		depth:    0,
		eq:       eq,
	}
}

// Returns the total number of elements in the tree
func (t *Tree[T]) Len() int {
	len := 1
	for _, child := range t.children {
		len += child.Len()
	}
	return len
}

// Adds a new child with the provided payload as a child of the current Tree
// Returns the child when done
func (t *Tree[T]) AddChild(payload T) *Tree[T] {
	treeNode := &Tree[T]{
		payload:  payload,
		parent:   t,
		children: []*Tree[T]{},
		depth:    t.depth + 1,
		eq:       t.eq,
	}
	t.children = append(t.children, treeNode)
	return treeNode
}

// Add a run below this node.
//
// Shared prefixes are merged with the existing children. Returns true if the run was not already in the tree.
func (t *Tree[T]) AddPath(path []T) bool {
	current := t
	added := false
	for _, payload := range path {
		if next := current.GetChild(payload); next != nil {
			current = next
			continue
		}
		current = current.AddChild(payload)
		added = true
	}
	return added
}

// Returns the first child node with the provided payload.
// If no such child node exists returns nil
func (t *Tree[T]) GetChild(payload T) *Tree[T] {
	for _, node := range t.Children() {
		if t.eq(payload, node.Payload()) {
			return node
		}
	}
	return nil
}

// String representation of a TreeNode
func (t *Tree[T]) String() string {
	out := strings.Builder{}
	for i := 0; i < t.depth; i++ {
		out.WriteString("-")
	}
	out.WriteString(fmt.Sprintf("%v\n", t.Payload()))
	for _, child := range t.Children() {
		out.WriteString(fmt.Sprintf("%v", child))
	}
	return out.String()
}

func (t *Tree[T]) IsRoot() bool {
	return t.parent == nil
}

func (t *Tree[T]) IsLeafNode() bool {
	return len(t.Children()) == 0
}

// The number of leaf nodes, i.e. the number of distinct runs
func (t *Tree[T]) CountLeaves() int {
	if t.IsLeafNode() {
		return 1
	}
	count := 0
	for _, child := range t.Children() {
		count += child.CountLeaves()
	}
	return count
}

// The payloads on the path from the root to this node, root first
func (t *Tree[T]) Path() []T {
	path := make([]T, t.depth+1)
	for node := t; node != nil; node = node.parent {
		path[node.depth] = node.payload
	}
	return path
}

// Returns the first node, in depth first order, for which the search function is true.
// Returns nil if there is no such node.
func (t *Tree[T]) DepthFirstSearch(search func(T) bool) *Tree[T] {
	if search(t.Payload()) {
		return t
	}
	for _, child := range t.Children() {
		if found := child.DepthFirstSearch(search); found != nil {
			return found
		}
	}
	return nil
}

// Returns true if the search function is true for some leaf node
func (t *Tree[T]) SearchLeafNodes(search func(T) bool) bool {
	if t.IsLeafNode() {
		return search(t.Payload())
	}
	for _, child := range t.Children() {
		if child.SearchLeafNodes(search) {
			return true
		}
	}
	return false
}

func (t *Tree[T]) Payload() T {
	return t.payload
}

func (t *Tree[T]) Children() []*Tree[T] {
	return t.children
}

// The tree in Newick format, with the payloads as labels
func (t *Tree[T]) Newick() string {
	return t.NewickFunc(func(payload T) string {
		return fmt.Sprint(payload)
	})
}

// The tree in Newick format, with labels created by the label function
func (t *Tree[T]) NewickFunc(label func(T) string) string {
	out := strings.Builder{}
	if len(t.Children()) > 0 {
		out.WriteString("(")
		for i, child := range t.Children() {
			if i > 0 {
				out.WriteString(",")
			}
			out.WriteString(child.NewickFunc(label))
		}
		out.WriteString(")")
	}
	out.WriteString(fmt.Sprintf("%q", label(t.Payload())))
	if t.IsRoot() {
		out.WriteString(";")
	}
	return out.String()
}
