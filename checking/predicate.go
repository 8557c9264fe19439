package checking

import (
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/engine"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/event"
)

// A function to be evaluated on the states
// It returns true if the predicate holds for the state and false otherwise
type Predicate func(s State) bool

// At most one process is in the critical section.
//
// Crashed processes that are stuck in the critical section are counted.
func MutualExclusion(s State) bool {
	return len(s.InCS()) <= 1
}

// While the token is not lost it is held by exactly one alive process.
// Holds trivially for algorithms without a token.
func SingleTokenHolder(s State) bool {
	r := s.Resource
	if !r.HasToken || r.Lost {
		return true
	}
	p, ok := s.LocalStates[r.Holder]
	return ok && !p.Crashed
}

// A process only enters the critical section if it was requesting it or the event is its own request.
//
// Compares each state with the state before it.
func EntryAfterRequest(s State) bool {
	if len(s.Sequence) < 2 {
		return true
	}
	prev := s.Sequence[len(s.Sequence)-2]
	evt := s.Evt.Evt
	for id, p := range s.LocalStates {
		before := prev.LocalStates[id]
		if !p.InCS || before.InCS || before.Requesting {
			continue
		}
		if evt.Op != event.OpRequest || evt.On != id {
			return false
		}
	}
	return true
}

// Check that the predicate happens eventually.
//
// Return a predicate that run the provided predicate on terminal states.
// Returns the value of the original predicate if the state is terminal.
// Otherwise, it always returns true.
func Eventually(pred Predicate) Predicate {
	return func(s State) bool {
		if !s.IsTerminal {
			return true
		}
		return pred(s)
	}
}

// Check that condition returns true for all processes in the provided global state
//
// Returns false if cond returns false for some process.
// Returns true otherwise.
// If checkCorrect is true, only correct processes will be checked, otherwise crashed processes will also be checked.
func ForAllProcesses(cond func(engine.Process) bool, s State, checkCorrect bool) bool {
	for id, p := range s.LocalStates {
		if checkCorrect && !s.Correct[id] {
			continue
		}
		if !cond(p) {
			return false
		}
	}
	return true
}
