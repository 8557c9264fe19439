package scheduler

import (
	"fmt"
	"sync"

	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/event"
	"golang.org/x/exp/slices"
)

type run []event.EventId

// Explores the state space exhaustively by maintaining a stack of unexplored prefixes.
// When a new run is started it follows the prefix and begins exploring from there, adding new prefixes it discovers as it executes events.
//
// The number of runs grows exponentially with the depth of the runs. Bound the depth and the number of runs of the simulation.
type Prefix struct {
	// unexplored prefixes
	r []run

	// Used to wait for a change in p.ongoing or p.r. The condition is len(p.r) == 0 and p.ongoing > 0
	cond *sync.Cond

	// Number of runScheduler currently scheduling a run. I.e. runScheduler no waiting for a new run
	ongoing int
}

func NewPrefix() *Prefix {
	return &Prefix{
		r:    []run{{}},
		cond: sync.NewCond(new(sync.Mutex)),
	}
}

func (p *Prefix) GetRunScheduler() RunScheduler {
	return newRunPrefix(p)
}

// Start over with the empty prefix
func (p *Prefix) Reset() {
	p.cond.L.Lock()
	defer p.cond.L.Unlock()
	p.r = []run{{}}
	p.ongoing = 0
}

func (p *Prefix) addRun(r run) {
	p.cond.L.Lock()
	defer p.cond.L.Unlock()

	p.r = append(p.r, r)

	if len(p.r) == 1 {
		p.cond.Broadcast()
	}
}

func (p *Prefix) endRun() {
	p.cond.L.Lock()
	defer p.cond.L.Unlock()

	p.ongoing--
	p.cond.Broadcast()
}

func (p *Prefix) getRun() run {
	p.cond.L.Lock()
	defer p.cond.L.Unlock()

	// If there are no available prefixes wait until there are.
	// If at the same time all runSchedulers are waiting for a new prefix then there will never be a new one,
	// since there are no runSchedulers that can add it.
	// All possible runs have therefore been explored and we return nil
	for len(p.r) == 0 && p.ongoing > 0 {
		p.cond.Wait()
	}
	if len(p.r) == 0 {
		return nil
	}

	// Pop the latest prefix
	r := p.r[len(p.r)-1]
	p.r = p.r[:len(p.r)-1]

	p.ongoing++
	return r
}

type runPrefix struct {
	p *Prefix

	currentIndex int
	currentRun   run
}

func newRunPrefix(p *Prefix) *runPrefix {
	return &runPrefix{
		p: p,

		currentIndex: 0,
		currentRun:   make(run, 0),
	}
}

// Get the next event in the run.
//
// Follows the prefix of the run until it has no more events.
// Afterwards it picks the first enabled event and adds a new prefix for each of the other enabled events.
// Will return RunEndedError if there are no enabled events.
func (rp *runPrefix) GetEvent(enabled []event.Event) (event.Event, error) {
	if len(enabled) == 0 {
		return event.Event{}, RunEndedError
	}

	if rp.currentIndex < len(rp.currentRun) {
		evtId := rp.currentRun[rp.currentIndex]
		evt, ok := findEvent(enabled, evtId)
		if !ok {
			return event.Event{}, fmt.Errorf("%w: prefix event %v", EventNotEnabledError, evtId)
		}
		rp.currentIndex++
		return evt, nil
	}

	evt := enabled[0]
	// The other enabled events start new runs. Push them in reverse so that they are explored in order.
	for i := len(enabled) - 1; i > 0; i-- {
		newRun := slices.Clone(rp.currentRun)
		newRun = append(newRun, enabled[i].Id())
		rp.p.addRun(newRun)
	}
	rp.currentRun = append(rp.currentRun, evt.Id())
	rp.currentIndex++
	return evt, nil
}

func (rp *runPrefix) StartRun() error {
	rp.currentIndex = 0
	r := rp.p.getRun()
	if r == nil {
		return NoRunsError
	}
	rp.currentRun = r
	return nil
}

// Finish the current run and prepare for the next one
func (rp *runPrefix) EndRun() {
	rp.p.endRun()
}
