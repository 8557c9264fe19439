package checking

import "github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/state"

// The state of the system at the current point of execution
type State struct {
	state.GlobalState
	// True if this is the last recorded state in a run. False otherwise.
	IsTerminal bool
	// The sequence of GlobalStates that lead to this State, including it.
	Sequence []state.GlobalState
}
