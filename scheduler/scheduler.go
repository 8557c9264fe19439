package scheduler

import (
	"errors"

	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/event"
)

type GlobalScheduler interface {
	// Used to manage the exploration of the state space.
	// The global scheduler manages the total state across several runs.
	// Communicates with several run schedulers in separate goroutines to ensure that the exploration remains consistent

	// Create a RunScheduler that will communicate with the global scheduler
	GetRunScheduler() RunScheduler
	// Reset the global state of the scheduler and prepare it for a new simulation
	Reset()
}

type RunScheduler interface {
	// Manages the exploration of the state space in a single goroutine.
	// Communicates with the GlobalScheduler to ensure that the state exploration remains consistent.

	// Choose the next event of the run among the enabled events.
	// Will return RunEndedError if there are no more events in the run.
	// The event returned is always one of the enabled events.
	GetEvent(enabled []event.Event) (event.Event, error)

	// Prepare for starting a new run. Returns a NoRunsError if all possible runs have been completed. May block until new runs are available.
	StartRun() error
	// Finish the current run and prepare for the next one
	EndRun()
}

var (
	RunEndedError        = errors.New("scheduler: The run has ended. Reset the state.")
	NoRunsError          = errors.New("scheduler: No available new runs to be started")
	EventNotEnabledError = errors.New("scheduler: The scheduled event is not enabled")
)

// Find the enabled event with the provided id
func findEvent(enabled []event.Event, id event.EventId) (event.Event, bool) {
	for _, evt := range enabled {
		if evt.Id() == id {
			return evt, true
		}
	}
	return event.Event{}, false
}
