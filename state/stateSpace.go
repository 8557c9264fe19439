package state

import (
	"fmt"
	"io"

	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/tree"
)

type StateSpace interface {
	Payload() GlobalState
	Children() []StateSpace
	IsTerminal() bool

	Export(io.Writer)
}

// A wrapper around the Tree structure so that it implements the StateSpace interface
type TreeStateSpace struct {
	*tree.Tree[GlobalState]
}

func (tss TreeStateSpace) Children() []StateSpace {
	out := []StateSpace{}
	for _, child := range tss.Tree.Children() {
		out = append(out, TreeStateSpace{
			Tree: child,
		})
	}
	return out
}

func (tss TreeStateSpace) IsTerminal() bool {
	return tss.IsLeafNode()
}

func (tss TreeStateSpace) Export(w io.Writer) {
	fmt.Fprint(w, tss.Newick())
}
