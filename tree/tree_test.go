package tree

import (
	"testing"

	"golang.org/x/exp/slices"
)

func eq(a, b string) bool { return a == b }

func TestTreeAddChild(t *testing.T) {
	// Add some nodes and check some basic properties to ensure that they have been added correctly
	tree := New("Tree 1", eq)
	tree.AddChild("Tree 1-1")
	child := tree.AddChild("Tree 1-2")
	child.AddChild("Tree 1-2-1")

	if !tree.IsRoot() {
		t.Fatalf("Tree should be root node")
	}
	if tree.Len() != 4 {
		t.Fatalf("Added four elements to the tree. Has length: %v", tree.Len())
	}
	if len(tree.Children()) != 2 {
		t.Fatalf("Added two children to the tree. Got: %v", len(tree.Children()))
	}
	if child.IsRoot() {
		t.Fatalf("This should be a child node. IsRoot(): %v", child.IsRoot())
	}

	found := tree.DepthFirstSearch(func(s string) bool {
		return s == "Tree 1-2-1"
	})
	if found == nil {
		t.Fatalf("The value \"Tree 1-2-1\" should be a descendant of this node, but it cant be found with a depth first search")
	}
	if !slices.Equal(found.Path(), []string{"Tree 1", "Tree 1-2", "Tree 1-2-1"}) {
		t.Errorf("Unexpected path: %v", found.Path())
	}

	if tree.SearchLeafNodes(func(s string) bool {
		return s == "Tree 1-2"
	}) {
		t.Fatalf("There is no element with value \"Tree 1-2\" in a leaf node")
	}
	if !tree.SearchLeafNodes(func(s string) bool {
		return s == "Tree 1-1"
	}) {
		t.Fatalf("There should be an element with value \"Tree 1-1\" in a leaf node")
	}
}

var addPathTest = []struct {
	paths    [][]string
	len      int
	leaves   int
	distinct int
}{
	{
		paths:    [][]string{{"a", "b", "c"}, {"a", "b", "c"}},
		len:      4,
		leaves:   1,
		distinct: 1,
	},
	{
		paths:    [][]string{{"a", "b", "c"}, {"a", "b", "d"}, {"a", "e"}},
		len:      6,
		leaves:   3,
		distinct: 3,
	},
	{
		paths:    [][]string{{}, {"a"}, {"a"}},
		len:      2,
		leaves:   1,
		distinct: 1,
	},
}

func TestTreeAddPath(t *testing.T) {
	for i, test := range addPathTest {
		tree := New("root", eq)
		distinct := 0
		for _, path := range test.paths {
			if tree.AddPath(path) {
				distinct++
			}
		}
		if tree.Len() != test.len {
			t.Errorf("Test %v: Expected %v nodes. Got: %v", i, test.len, tree.Len())
		}
		if tree.CountLeaves() != test.leaves {
			t.Errorf("Test %v: Expected %v leaves. Got: %v", i, test.leaves, tree.CountLeaves())
		}
		if distinct != test.distinct {
			t.Errorf("Test %v: Expected %v new runs. Got: %v", i, test.distinct, distinct)
		}
	}
}

func TestTreeNewick(t *testing.T) {
	tree := New("r", eq)
	tree.AddPath([]string{"a", "b"})
	tree.AddPath([]string{"c"})
	expected := `(("b")"a","c")"r";`
	if out := tree.Newick(); out != expected {
		t.Errorf("Expected %v. Got: %v", expected, out)
	}
}

func TestTreeString(t *testing.T) {
	tree := New("r", eq)
	tree.AddPath([]string{"a", "b"})
	expected := "r\n-a\n--b\n"
	if out := tree.String(); out != expected {
		t.Errorf("Expected %q. Got: %q", expected, out)
	}
}
