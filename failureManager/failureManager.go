package failureManager

import (
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/engine"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/event"
)

// Used to manage the correctness of processes during exploration
type FailureManager interface {
	GetRunFailureManager() RunFailureManager
}

type RunFailureManager interface {
	Init(processes []int)                         // Initialize the FailureManager with the process ids of the model used in this run
	Filter(enabled []event.Event) []event.Event   // Remove the crash and recover events that the failure model does not allow at this point
	Observe(evt event.Event, res engine.Result)   // Update the status of the processes after an event has been applied
	CorrectProcesses() map[int]bool               // Return a map of the process ids and the status of the corresponding process
	Subscribe(callback func(id int, status bool)) // Subscribe to updates about process status. The callback is called with the process id and the new status when the status of a process changes
}

/*
	Failure Manager Should:
		- Keep track of which processes have crashed and which have not
		- Decide which crash and recover events the explorer may schedule
			- Fail-stop: a fixed set of faulty processes, each crashes at most once
			- Crash-recovery: any process may crash and recover, with a bound on the number of crashes per run
		- Leave all other events untouched. The model decides whether they are accepted.
*/

// The state shared by the run failure managers
type runStatus struct {
	correct   map[int]bool
	callbacks []func(int, bool)
}

func newRunStatus() runStatus {
	return runStatus{
		correct:   make(map[int]bool),
		callbacks: make([]func(int, bool), 0),
	}
}

func (rs *runStatus) init(processes []int) {
	rs.correct = make(map[int]bool, len(processes))
	for _, id := range processes {
		rs.correct[id] = true
	}
}

// Record the effect of an accepted crash or recover event.
// Returns true if the status of the target changed.
func (rs *runStatus) observe(evt event.Event, res engine.Result) bool {
	if !res.OK {
		return false
	}
	var status bool
	switch evt.Op {
	case event.OpCrash:
		status = false
	case event.OpRecover:
		status = true
	default:
		return false
	}
	if prev, ok := rs.correct[evt.On]; !ok || prev == status {
		return false
	}
	rs.correct[evt.On] = status
	for _, f := range rs.callbacks {
		f(evt.On, status)
	}
	return true
}

func (rs *runStatus) CorrectProcesses() map[int]bool {
	return rs.correct
}

func (rs *runStatus) Subscribe(callback func(int, bool)) {
	rs.callbacks = append(rs.callbacks, callback)
}

// Keep the events for which keep returns true. Events other than crash and recover are always kept.
func filterFaults(enabled []event.Event, keep func(evt event.Event) bool) []event.Event {
	out := make([]event.Event, 0, len(enabled))
	for _, evt := range enabled {
		if (evt.Op == event.OpCrash || evt.Op == event.OpRecover) && !keep(evt) {
			continue
		}
		out = append(out, evt)
	}
	return out
}
