package failureManager

import (
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/engine"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/event"
)

// The CrashRecoveryFailureManager lets any process crash and recover.
//
// The number of crashes in a single run is bounded by maxCrashes. Recoveries are not bounded.
type CrashRecoveryFailureManager struct {
	maxCrashes int
}

func NewCrashRecoveryFailureManager(maxCrashes int) *CrashRecoveryFailureManager {
	return &CrashRecoveryFailureManager{
		maxCrashes: maxCrashes,
	}
}

func (crm CrashRecoveryFailureManager) GetRunFailureManager() RunFailureManager {
	return &runCrashRecoveryFailureManager{
		runStatus:  newRunStatus(),
		maxCrashes: crm.maxCrashes,
	}
}

type runCrashRecoveryFailureManager struct {
	runStatus
	maxCrashes int
	crashes    int
}

func (fm *runCrashRecoveryFailureManager) Init(processes []int) {
	fm.init(processes)
	fm.crashes = 0
}

func (fm *runCrashRecoveryFailureManager) Filter(enabled []event.Event) []event.Event {
	return filterFaults(enabled, func(evt event.Event) bool {
		if evt.Op == event.OpCrash {
			return fm.crashes < fm.maxCrashes
		}
		return true
	})
}

func (fm *runCrashRecoveryFailureManager) Observe(evt event.Event, res engine.Result) {
	if fm.observe(evt, res) && evt.Op == event.OpCrash {
		fm.crashes++
	}
}
