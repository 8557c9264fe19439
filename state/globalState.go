package state

import (
	"fmt"
	"strings"

	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/engine"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/event"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// The state of the shared resource of the algorithm
type Resource struct {
	// True if the algorithm uses a token
	HasToken bool
	Holder   int
	Lost     bool

	// Number of messages in flight
	InFlight int
}

// The global state of the model after one event of a run
type GlobalState struct {
	Algorithm engine.Algorithm
	Ring      []int

	// A map storing the local state of the processes.
	//
	// The map stores (id, state) combination.
	LocalStates map[int]engine.Process

	// A map storing the status of the processes.
	//
	// If status is true, the process with id "id" is running, otherwise it has crashed.
	Correct map[int]bool

	Resource Resource

	// A record of the event that caused the transition into this state
	Evt EventRecord
}

// Capture the global state of the model.
//
// evt is the event that caused the transition into the current state and res the result of applying it.
// It is nil for the initial state.
func Capture(m *engine.Model, evt *event.Event, res engine.Result) GlobalState {
	gs := GlobalState{
		Algorithm:   m.Algorithm(),
		Ring:        m.Ring(),
		LocalStates: map[int]engine.Process{},
		Correct:     map[int]bool{},
		Evt:         CreateEventRecord(evt, res),
	}
	for _, p := range m.Processes() {
		gs.LocalStates[p.ID] = p
		gs.Correct[p.ID] = !p.Crashed
	}
	if holder, lost, ok := m.Token(); ok {
		gs.Resource = Resource{HasToken: true, Holder: holder, Lost: lost}
	}
	gs.Resource.InFlight = len(m.Queue())
	return gs
}

// The ids of the processes in the critical section in ascending order
func (gs GlobalState) InCS() []int {
	ids := []int{}
	for id, p := range gs.LocalStates {
		if p.InCS {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Two states are equal if they were reached by the same event and the processes are in the same state
func (gs GlobalState) Equal(other GlobalState) bool {
	if gs.Evt.Id != other.Evt.Id || gs.Resource != other.Resource {
		return false
	}
	if !maps.Equal(gs.Correct, other.Correct) {
		return false
	}
	return maps.EqualFunc(gs.LocalStates, other.LocalStates, func(a, b engine.Process) bool {
		return a.Requesting == b.Requesting && a.InCS == b.InCS && a.Crashed == b.Crashed &&
			a.Clock == b.Clock && a.ReqTs == b.ReqTs &&
			slices.Equal(a.Awaiting(), b.Awaiting()) && slices.Equal(a.Deferred(), b.Deferred())
	})
}

func (gs GlobalState) String() string {
	ids := maps.Keys(gs.LocalStates)
	slices.Sort(ids)
	states := make([]string, 0, len(ids))
	for _, id := range ids {
		states = append(states, fmt.Sprintf("%v:%v", event.ProcessName(id), gs.LocalStates[id].State()))
	}
	out := fmt.Sprintf("Evt: %v\t States: [%v]", gs.Evt, strings.Join(states, " "))
	if gs.Resource.HasToken {
		if gs.Resource.Lost {
			out += "\t Token: lost"
		} else {
			out += fmt.Sprintf("\t Token: %v", event.ProcessName(gs.Resource.Holder))
		}
	} else {
		out += fmt.Sprintf("\t InFlight: %v", gs.Resource.InFlight)
	}
	return out
}
