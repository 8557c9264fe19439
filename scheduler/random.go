package scheduler

import (
	"math/rand"
	"sync"

	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/event"
)

// A scheduler that randomly picks the next event from the enabled events.
//
// It is useful for testing a random selection of the state space when the state space is to large to perform an exhaustive search
// It provides no guarantee that all errors have been found, but since it is random it generally contains a larger spread in the states that are checked compared to the exhaustive search.
type Random struct {
	sync.Mutex
	seed int64
	rand *rand.Rand
}

// Create a new Random scheduler
//
// Initialized with a seed which is used to initialize run-specific schedulers.
// With a single run scheduler the sequence of runs is fully determined by the seed.
func NewRandom(seed int64) *Random {
	// The provided seed is used to generate seeds for the run schedulers
	return &Random{
		seed: seed,
		rand: rand.New(rand.NewSource(seed)),
	}
}

// Create a RunScheduler that will communicate with the global scheduler
func (r *Random) GetRunScheduler() RunScheduler {
	r.Lock()
	defer r.Unlock()
	return newRandomRun(r.rand.Int63())
}

// Reset the global state of the GlobalScheduler.
// Run schedulers created after the reset draw the same seeds as after creation.
func (r *Random) Reset() {
	r.Lock()
	defer r.Unlock()
	r.rand = rand.New(rand.NewSource(r.seed))
}

// Manages the exploration of the state space in a single goroutine.
type randomRun struct {
	rand *rand.Rand
}

// Create a new randomRun scheduler
func newRandomRun(seed int64) *randomRun {
	return &randomRun{
		rand: rand.New(rand.NewSource(seed)),
	}
}

// Get the next event in the run.
//
// Selects uniformly among the enabled events.
// Will return RunEndedError if there are no enabled events.
func (rs *randomRun) GetEvent(enabled []event.Event) (event.Event, error) {
	if len(enabled) == 0 {
		return event.Event{}, RunEndedError
	}
	return enabled[rs.rand.Intn(len(enabled))], nil
}

// Random runs never run out
func (rs *randomRun) StartRun() error {
	return nil
}

func (rs *randomRun) EndRun() {
}
