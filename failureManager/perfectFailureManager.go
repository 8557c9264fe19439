package failureManager

import (
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/engine"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/event"
	"golang.org/x/exp/slices"
)

// The PerfectFailureManager is a failure manager for a fail-stop system.
//
// It is configured with a slice of processes that may crash at some point during a run, i.e. processes that are faulty.
// A faulty process crashes at most once and never recovers. All other processes are correct and never crash.
type PerfectFailureManager struct {
	failingProcesses []int
}

// Create a new PerfectFailureManager
//
// failingProcesses is a slice of process ids of the processes that may crash during a run.
// Ids that do not belong to the model are ignored.
func NewPerfectFailureManager(failingProcesses []int) *PerfectFailureManager {
	return &PerfectFailureManager{
		failingProcesses: failingProcesses,
	}
}

// Create a RunFailureManager that can be used when simulating a run
func (pfm PerfectFailureManager) GetRunFailureManager() RunFailureManager {
	return newRunPerfectFailureManager(pfm.failingProcesses)
}

// The run specific implementation of the PerfectFailureManager
type runPerfectFailureManager struct {
	runStatus
	failingProcesses []int
}

func newRunPerfectFailureManager(failingProcesses []int) *runPerfectFailureManager {
	return &runPerfectFailureManager{
		runStatus:        newRunStatus(),
		failingProcesses: failingProcesses,
	}
}

// Initialize the FailureManager with the processes that are used in this run
func (fm *runPerfectFailureManager) Init(processes []int) {
	fm.init(processes)
}

// Only correct faulty processes may crash. Recover events are never scheduled.
func (fm *runPerfectFailureManager) Filter(enabled []event.Event) []event.Event {
	return filterFaults(enabled, func(evt event.Event) bool {
		return evt.Op == event.OpCrash && fm.correct[evt.On] && slices.Contains(fm.failingProcesses, evt.On)
	})
}

func (fm *runPerfectFailureManager) Observe(evt event.Event, res engine.Result) {
	fm.observe(evt, res)
}
