package scheduler

import (
	"fmt"
	"sync"

	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/event"
)

// Replays a single run given as a sequence of event ids.
//
// Only one run is replayed. Further run schedulers report NoRunsError when a run is started.
type Replay struct {
	sync.Mutex
	run  []event.EventId
	done bool
}

func NewReplay(run []event.EventId) *Replay {
	return &Replay{
		run: run,
	}
}

func (r *Replay) GetRunScheduler() RunScheduler {
	r.Lock()
	defer r.Unlock()
	if r.done {
		return newRunReplay(nil)
	}
	r.done = true
	return newRunReplay(r.run)
}

func (r *Replay) Reset() {
	r.Lock()
	defer r.Unlock()
	r.done = false
}

type runReplay struct {
	// A slice of the run to be replayed with event ids in order
	run []event.EventId
	// The index of the current event
	index int
}

func newRunReplay(run []event.EventId) *runReplay {
	return &runReplay{
		index: 0,
		run:   run,
	}
}

// Get the next event in the run.
//
// Will return RunEndedError if all events of the run have been replayed.
// Returns EventNotEnabledError if the next event of the run is not among the enabled events.
func (rr *runReplay) GetEvent(enabled []event.Event) (event.Event, error) {
	if rr.index >= len(rr.run) {
		return event.Event{}, RunEndedError
	}
	evtId := rr.run[rr.index]
	evt, ok := findEvent(enabled, evtId)
	if !ok {
		return event.Event{}, fmt.Errorf("%w: %v at index %v", EventNotEnabledError, evtId, rr.index)
	}
	rr.index++
	return evt, nil
}

func (rr *runReplay) StartRun() error {
	if rr.run == nil {
		return NoRunsError
	}
	return nil
}

// Finish the current run. The run is only replayed once.
func (rr *runReplay) EndRun() {
	rr.index = 0
	rr.run = nil
}
