package stateManager

import (
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/engine"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/event"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/state"
)

// A type that manages the state of a single run at a time.
//
// Should only be accessed from a single goroutine at a time.
// When the run has been completed and the EndRun function is called the run is added to the StateManager and the state is reset.
// The RunStateManager can then safely be used on a new run.
type RunStateManager struct {
	sm StateManager

	run []state.GlobalState
}

// Create a new RunStateManager
//
// Is initialized with a reference to the StateManager that created it
func NewRunStateManager(sm StateManager) *RunStateManager {
	return &RunStateManager{
		sm:  sm,
		run: make([]state.GlobalState, 0),
	}
}

// Capture the state of the model and add it to the current run
//
// evt is the event that caused the transition into the current state and res is the result of applying it.
// evt is nil for the initial state.
func (rss *RunStateManager) UpdateGlobalState(m *engine.Model, evt *event.Event, res engine.Result) {
	rss.run = append(rss.run, state.Capture(m, evt, res))
}

// The states recorded in the current run
func (rss *RunStateManager) Run() []state.GlobalState {
	return rss.run
}

// Add the run to the StateManager and prepare for the next run.
//
// Returns true if the run had not been discovered before.
func (rss *RunStateManager) EndRun() bool {
	added := rss.sm.AddRun(rss.run)
	rss.run = make([]state.GlobalState, 0)
	return added
}
