package config

import "github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/scheduler"

// A option used to configure the Simulator
type SimulatorOption interface {
	// noop method
	SimOpt()
}

// Use the provided scheduler for the simulation.
//
// Default value is a Random scheduler seeded with the SeedOption.
type SchedulerOption struct {
	Sch scheduler.GlobalScheduler
}

func (so SchedulerOption) SimOpt() {}

// The maximum number of events in a run.
//
// Default value is 100.
type MaxDepthOption struct{ MaxDepth int }

func (mdo MaxDepthOption) SimOpt() {}

// The maximum number of runs simulated.
//
// Default value is 10000.
type MaxRunsOption struct{ MaxRuns int }

func (mro MaxRunsOption) SimOpt() {}

// The number of runs simulated at the same time.
//
// Default value is GOMAXPROCS.
type NumConcurrentOption struct{ N int }

func (nco NumConcurrentOption) SimOpt() {}

// The seed of the default Random scheduler. Ignored if a SchedulerOption is given.
//
// Default value is 1.
type SeedOption struct{ Seed int64 }

func (so SeedOption) SimOpt() {}

// Let panics raised while applying events propagate instead of returning them as errors.
type IgnorePanicOption struct{}

func (ipo IgnorePanicOption) SimOpt() {}

// Continue simulating runs when a run fails. The errors are aggregated and returned at the end.
type IgnoreErrorOption struct{}

func (ieo IgnoreErrorOption) SimOpt() {}
