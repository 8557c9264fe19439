package simulator

import (
	"errors"
	"io"
	"runtime"

	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/checking"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/config"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/engine"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/failureManager"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/scheduler"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/stateManager"
)

// Explores the runs of a mutual exclusion model
//
// Every run starts from a fresh model and applies one enabled event at a time.
// Several runs are simulated concurrently, each on its own model.
type Simulator struct {

	// The scheduler selects the next event to be applied among the enabled events
	Scheduler scheduler.GlobalScheduler

	sm *stateManager.TreeStateManager
	fm failureManager.FailureManager

	export []io.Writer

	// If true will ignore all errors while simulating runs. Will return aggregate of errors at the end. If false will interrupt simulation if an error occur
	ignoreErrors bool

	// If true will ignore panics that are raised during the simulation. If false will catch the panic and return it as an error.
	ignorePanics bool

	// If true the explorer may drop the token and drop messages
	omissions bool

	maxRuns       int
	maxDepth      int
	numConcurrent int
}

// Create a new simulator
//
// See the config package for a full overview of the options.
// Default values will be used if no value is provided.
// The default scheduler is a Random scheduler and the default failure manager never crashes a process.
func NewSimulator(opts ...config.SimulatorOption) *Simulator {
	var (
		// Maximum number of runs simulated
		maxRuns = 10000

		// Maximum number of events in a run
		maxDepth = 100

		// number of runs that is simulated at the same time
		numConcurrent = runtime.GOMAXPROCS(0) // Will not change GOMAXPROCS but only return the current value

		seed int64 = 1

		ignoreErrors = false
		ignorePanics = false
		omissions    = false

		sch    scheduler.GlobalScheduler
		fm     failureManager.FailureManager
		export []io.Writer
	)

	for _, opt := range opts {
		switch t := opt.(type) {
		case config.SchedulerOption:
			sch = t.Sch
		case config.MaxRunsOption:
			maxRuns = t.MaxRuns
		case config.MaxDepthOption:
			maxDepth = t.MaxDepth
		case config.NumConcurrentOption:
			numConcurrent = t.N
		case config.SeedOption:
			seed = t.Seed
		case config.IgnoreErrorOption:
			ignoreErrors = true
		case config.IgnorePanicOption:
			ignorePanics = true
		case config.FailureManagerOption:
			fm = t.Fm
		case config.OmissionFaultsOption:
			omissions = true
		case config.ExportOption:
			export = append(export, t.W)
		}
	}
	if sch == nil {
		sch = scheduler.NewRandom(seed)
	}
	if fm == nil {
		fm = failureManager.NewPerfectFailureManager([]int{})
	}
	if numConcurrent < 1 {
		numConcurrent = 1
	}

	return &Simulator{
		Scheduler: sch,
		sm:        stateManager.NewTreeStateManager(),
		fm:        fm,
		export:    export,

		ignoreErrors: ignoreErrors,
		ignorePanics: ignorePanics,
		omissions:    omissions,

		maxRuns:       maxRuns,
		maxDepth:      maxDepth,
		numConcurrent: numConcurrent,
	}
}

// The outcome of a simulation
type Report struct {
	// Number of runs that were simulated to the end
	Runs int
	// Number of distinct runs among them
	DistinctRuns int

	// The result of checking the explored runs.
	// If a run broke a predicate the response contains that run.
	Response checking.CheckerResponse
}

// Run the simulations of the algorithm.
//
// initModel creates the model a run starts from. It is called once per run and must return a new model every time.
//
// checker is used on every run when it ends. The simulation stops at the first run that breaks a predicate, even if errors are ignored.
// If no run breaks a predicate the whole explored state space is checked at the end.
//
// Simulate returns an error if it was unable to complete the simulation.
func (s *Simulator) Simulate(initModel func() (*engine.Model, error), checker checking.Checker) (Report, error) {
	if initModel == nil || checker == nil {
		return Report{}, errors.New("Simulator: A model constructor and a checker must be provided to start simulation.")
	}

	// Pack the parameters into a runParameter to make it easier to handle
	cfg := &runParameters{
		initModel: initModel,
		checker:   checker,
		omissions: s.omissions,
	}

	// Reset the state of modules so that they are ready for a new simulation
	s.sm.Reset()
	s.Scheduler.Reset()

	// Used to signal to start the next run
	nextRun := make(chan bool)
	// used by runSimulators to signal that a run has been completed to the main loop. Errors are also returned
	status := make(chan error)
	// Used by the runSimulators to signal that they have stopped executing runs and have closed the goroutine
	// Main loop stops when all runSimulators have stopped executing runs
	closing := make(chan bool)

	ongoing := 0
	startedRuns := 0
	for ongoing < s.numConcurrent {
		ongoing++
		rsim := newRunSimulator(s.Scheduler.GetRunScheduler(), s.sm.GetRunStateManager(), s.fm.GetRunFailureManager(), s.maxDepth, s.ignorePanics)
		go rsim.SimulateRuns(nextRun, status, closing, cfg)

		// Send a signal to start processing runs
		startedRuns++
		nextRun <- true

		if startedRuns >= s.maxRuns {
			break
		}
	}

	resp, err := s.mainLoop(ongoing, startedRuns, nextRun, status, closing)
	total, distinct := s.sm.Runs()
	report := Report{
		Runs:         total,
		DistinctRuns: distinct,
		Response:     resp,
	}
	if err != nil {
		return report, err
	}

	for _, w := range s.export {
		s.sm.Export(w)
	}
	if report.Response == nil {
		report.Response = checker.Check(s.sm.State())
	}
	return report, nil
}

// The main loop of the simulation.
//
// Manages the simulation of runs and coordinates the runSimulators.
//
// Receives status updates from each of the runSimulators. One status update for each completed run.
// Processes the status updates and signals for the runSimulator to begin simulating the next run.
// Does not start new simulations if more than maxRuns simulations has been started, or if a run has broken a predicate.
// Returns when all runSimulators has stopped running.
func (s *Simulator) mainLoop(ongoing int, startedRuns int, nextRun chan bool, status chan error, closing chan bool) (checking.CheckerResponse, error) {
	errorSlice := []error{}
	var (
		out  error
		resp checking.CheckerResponse
	)

	// Stop the simulation by closing the nextRun channel if it is not already closed
	stopped := false
	stop := func() {
		if !stopped {
			stopped = true
			close(nextRun)
		}
	}
	// Loop until all runSimulators has stopped simulating
	for ongoing > 0 {
		select {
		case err := <-status:
			var v violation
			switch {
			case err == nil:
			case errors.As(err, &v):
				// Keep the first violating run
				if resp == nil {
					resp = v.resp
				}
				stop()
				continue
			case !s.ignoreErrors:
				if out == nil {
					out = err
				}
				stop()
				continue
			default:
				errorSlice = append(errorSlice, err)
			}

			if !stopped && startedRuns < s.maxRuns {
				nextRun <- true
				startedRuns++
			} else {
				stop()
			}
		case <-closing:
			ongoing--
		}
	}

	stop()

	// Can safely close the closing and status channels, since we know that all runSimulators has completed and will not try to send on them
	close(closing)
	close(status)

	if s.ignoreErrors && len(errorSlice) > 0 {
		return resp, simulationError{
			errorSlice: errorSlice,
		}
	}
	return resp, out
}
