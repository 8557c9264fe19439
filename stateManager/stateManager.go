package stateManager

import (
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/state"
)

// Manages the global state across several runs.
type StateManager interface {
	GetRunStateManager() *RunStateManager
	AddRun(run []state.GlobalState) bool
	State() state.StateSpace
}
