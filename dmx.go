// Package dmx explores Token Ring and Ricart-Agrawala for runs that break mutual exclusion.
//
// A Simulation is prepared once with the algorithm, the number of processes and the simulator options,
// and can then be run multiple times.
package dmx

import (
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/checking"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/config"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/engine"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/event"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/failureManager"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/scheduler"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/simulator"
)

// Stores the configured Simulator.
//
// A simulation is started by calling the Run method.
// Only one simulation can be run at a time.
type Simulation struct {
	sim       *simulator.Simulator
	alg       engine.Algorithm
	n         int
	modelOpts []engine.ModelOption
}

// Prepare the simulation of alg with n processes.
//
// See the SimulatorOptions for a full overview of possible options.
// Default values will be used if no value is provided.
func PrepareSimulation(alg engine.Algorithm, n int, opts ...config.SimulatorOption) Simulation {
	return Simulation{
		sim: simulator.NewSimulator(opts...),
		alg: alg,
		n:   n,
	}
}

// Use the options for every model created by the simulation, e.g. to bound the trace log.
func (s Simulation) WithModelOptions(opts ...engine.ModelOption) Simulation {
	s.modelOpts = append(s.modelOpts[:len(s.modelOpts):len(s.modelOpts)], opts...)
	return s
}

// Run the simulation and check every run with SafetyChecker.
func (s Simulation) Run() (simulator.Report, error) {
	return s.RunWith(SafetyChecker())
}

// Run the simulation and check every run with the provided checker.
func (s Simulation) RunWith(checker checking.Checker) (simulator.Report, error) {
	return s.sim.Simulate(func() (*engine.Model, error) {
		return engine.New(s.alg, s.n, s.modelOpts...)
	}, checker)
}

// The safety properties every run of a mutual exclusion algorithm must satisfy
func SafetyChecker() *checking.PredicateChecker {
	return checking.NewPredicateChecker().
		Named("MutualExclusion", checking.MutualExclusion).
		Named("SingleTokenHolder", checking.SingleTokenHolder).
		Named("EntryAfterRequest", checking.EntryAfterRequest)
}

// Use a random walk scheduler for the simulation.
//
// It uniformly picks the next event from the currently enabled events and never runs out of runs.
// It does not guarantee that all runs have been tested, nor that the same run is not simulated multiple times.
func RandomWalkScheduler(seed int64) config.SimulatorOption {
	return config.SchedulerOption{Sch: scheduler.NewRandom(seed)}
}

// Use a prefix scheduler for the simulation.
//
// The prefix scheduler performs a depth first search of the runs.
// It stops when every run up to the maximum depth is explored and never schedules identical runs.
func PrefixScheduler() config.SimulatorOption {
	return config.SchedulerOption{Sch: scheduler.NewPrefix()}
}

// Use a replay scheduler for the simulation
//
// The run can be exported using CheckerResponse.Export()
func ReplayScheduler(run []event.EventId) config.SimulatorOption {
	return config.SchedulerOption{Sch: scheduler.NewReplay(run)}
}

// Default value is 10000
func MaxRuns(maxRuns int) config.SimulatorOption {
	return config.MaxRunsOption{MaxRuns: maxRuns}
}

// Default value is 100
func MaxDepth(maxDepth int) config.SimulatorOption {
	return config.MaxDepthOption{MaxDepth: maxDepth}
}

// Configure the number of runs that will be executed concurrently.
//
// Default value is GOMAXPROCS
func NumConcurrent(n int) config.SimulatorOption {
	return config.NumConcurrentOption{N: n}
}

// Seed of the default random scheduler
func Seed(seed int64) config.SimulatorOption {
	return config.SeedOption{Seed: seed}
}

// Crash-stop failures: the listed processes may crash once and never recover.
func WithPerfectFailureManager(failingProcesses ...int) config.SimulatorOption {
	return config.FailureManagerOption{Fm: failureManager.NewPerfectFailureManager(failingProcesses)}
}

// Crash-recovery failures: any process may crash and recover, at most maxCrashes crashes per run.
func WithCrashRecoveryFailureManager(maxCrashes int) config.SimulatorOption {
	return config.FailureManagerOption{Fm: failureManager.NewCrashRecoveryFailureManager(maxCrashes)}
}

// Let runs drop the token and messages
func WithOmissionFaults() config.SimulatorOption {
	return config.OmissionFaultsOption{}
}

// If true will ignore panics that occur during the simulation and let them execute as normal, stopping the simulation.
func IgnorePanic() config.SimulatorOption {
	return config.IgnorePanicOption{}
}

// Ignore errors while simulating runs. The errors are returned together at the end.
//
// A run that breaks a predicate still stops the simulation.
func IgnoreError() config.SimulatorOption {
	return config.IgnoreErrorOption{}
}
