package stateManager

import (
	"fmt"
	"io"
	"sync"

	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/state"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/tree"
)

// Organizes the discovered StateSpace as a tree structure
//
// Collect the discovered runs as a tree with the initial state as the root.
// A path from the root to a leaf node is one run.
type TreeStateManager struct {
	sync.RWMutex
	stateRoot *tree.Tree[state.GlobalState]
	runs      int
}

func NewTreeStateManager() *TreeStateManager {
	return &TreeStateManager{}
}

// Adds the run to the discovered state space.
//
// Is safe to call from multiple goroutines. Returns true if the run was not discovered before.
func (sm *TreeStateManager) AddRun(run []state.GlobalState) bool {
	sm.Lock()
	defer sm.Unlock()

	if len(run) < 1 {
		return false
	}
	sm.runs++

	// If the tree has not been initialized:
	// Initialize it with the initial state as the root
	if sm.stateRoot == nil {
		sm.stateRoot = tree.New(run[0], func(a, b state.GlobalState) bool {
			return a.Equal(b)
		})
		if len(run) == 1 {
			return true
		}
	}
	return sm.stateRoot.AddPath(run[1:])
}

// Create a RunStateManager to be used to collect the state of the new run
func (sm *TreeStateManager) GetRunStateManager() *RunStateManager {
	return NewRunStateManager(sm)
}

// The number of runs added and the number of distinct runs among them
func (sm *TreeStateManager) Runs() (total int, distinct int) {
	sm.RLock()
	defer sm.RUnlock()
	if sm.stateRoot == nil {
		return sm.runs, 0
	}
	return sm.runs, sm.stateRoot.CountLeaves()
}

// Write the Newick representation of the state tree to the writer.
//
// The nodes are labelled with the events of the run.
func (sm *TreeStateManager) Export(wrt io.Writer) {
	sm.RLock()
	defer sm.RUnlock()
	if sm.stateRoot == nil {
		return
	}
	fmt.Fprint(wrt, sm.stateRoot.NewickFunc(func(gs state.GlobalState) string {
		return gs.Evt.String()
	}))
}

func (sm *TreeStateManager) State() state.StateSpace {
	sm.RLock()
	defer sm.RUnlock()
	if sm.stateRoot == nil {
		return nil
	}
	return state.TreeStateSpace{Tree: sm.stateRoot}
}

func (sm *TreeStateManager) Reset() {
	sm.Lock()
	defer sm.Unlock()
	sm.stateRoot = nil
	sm.runs = 0
}
