package simulator

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/checking"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/engine"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/event"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/failureManager"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/scheduler"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/stateManager"
)

type runSimulator struct {
	sch scheduler.RunScheduler
	sm  *stateManager.RunStateManager
	fm  failureManager.RunFailureManager

	maxDepth     int
	ignorePanics bool
}

func newRunSimulator(sch scheduler.RunScheduler, sm *stateManager.RunStateManager, fm failureManager.RunFailureManager, maxDepth int, ignorePanics bool) *runSimulator {
	return &runSimulator{
		sch: sch,
		sm:  sm,
		fm:  fm,

		maxDepth:     maxDepth,
		ignorePanics: ignorePanics,
	}
}

// Main loop of the runSimulator.
// Continuously listens to the nextRun channel and starts simulating a new run each time it receives a signal.
// Stops simulating runs when the channel is closed or when a scheduler.NoRunsError is returned.
// Sends the status of each run on the status channel.
// When it closes it sends an indication on the closing channel
func (rs *runSimulator) SimulateRuns(nextRun chan bool, status chan error, closing chan bool, cfg *runParameters) {
	// Continue executing runs until the nextRun channel is closed or until the scheduler returns NoRunsError
	for range nextRun {
		err := rs.simulateRun(cfg)
		if errors.Is(err, scheduler.NoRunsError) {
			break
		}
		// Send error to main loop
		status <- err
	}

	// Indicate that the runSimulator has stopped
	closing <- true
}

func (rs *runSimulator) simulateRun(cfg *runParameters) error {
	m, err := rs.initRun(cfg.initModel)
	if err != nil {
		return err
	}

	err = rs.executeRun(m, cfg.omissions)
	run := rs.sm.Run()
	// Always teardown the run.
	rs.teardownRun()
	if err != nil {
		return fmt.Errorf("Simulator: An error occurred while simulating a run: %w", err)
	}

	if resp := cfg.checker.CheckRun(run); !holds(resp) {
		return violation{resp: resp}
	}
	return nil
}

func (rs *runSimulator) initRun(initModel func() (*engine.Model, error)) (*engine.Model, error) {
	m, err := initModel()
	if err != nil {
		return nil, fmt.Errorf("Simulator: Unable to create the model: %w", err)
	}

	err = rs.sch.StartRun()
	if err != nil {
		return nil, err
	}

	ids := []int{}
	for _, p := range m.Processes() {
		ids = append(ids, p.ID)
	}
	rs.fm.Init(ids)

	rs.sm.UpdateGlobalState(m, nil, engine.Result{})
	return m, nil
}

// Schedules and applies new events until either the scheduler returns a RunEndedError or there is an error while applying an event.
// If there is an error it returns the error, otherwise it returns nil
// Uses the state manager to record the global state of the model after each event
func (rs *runSimulator) executeRun(m *engine.Model, omissions bool) error {
	depth := 0
	for depth < rs.maxDepth {
		enabled := rs.fm.Filter(m.EnabledEvents())
		if !omissions {
			enabled = withoutOmissions(enabled)
		}
		// Select an event
		evt, err := rs.sch.GetEvent(enabled)
		if errors.Is(err, scheduler.RunEndedError) {
			return nil
		} else if err != nil {
			return err
		}
		res, err := rs.applyEvent(m, evt)
		if err != nil {
			return err
		}
		rs.fm.Observe(evt, res)
		rs.sm.UpdateGlobalState(m, &evt, res)
		depth++
	}
	return nil
}

// Applies the event to the model.
// Panics are returned as errors unless ignorePanics is set.
func (rs *runSimulator) applyEvent(m *engine.Model, evt event.Event) (res engine.Result, err error) {
	if !rs.ignorePanics {
		// Catch all panics that occur while applying the event. These are caused by faults in the model and are therefore reported to the simulator.
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("Model panicked while applying %v: %v \nStack Trace:\n %s", evt, p, debug.Stack())
			}
		}()
	}
	return m.Apply(evt), nil
}

// Teardown the current run
// This includes indicating to the scheduler and state manager that the run has ended
func (rs *runSimulator) teardownRun() {
	rs.sch.EndRun()
	rs.sm.EndRun()
}

func withoutOmissions(enabled []event.Event) []event.Event {
	out := make([]event.Event, 0, len(enabled))
	for _, evt := range enabled {
		switch evt.Op {
		case event.OpDropToken, event.OpDropMessage, event.OpDropNextSend:
			continue
		}
		out = append(out, evt)
	}
	return out
}

func holds(resp checking.CheckerResponse) bool {
	ok, _ := resp.Response()
	return ok
}

// Stores the parameters used to start a run.
// Should be read only.
type runParameters struct {
	initModel func() (*engine.Model, error)
	checker   checking.Checker
	omissions bool
}
