package engine

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// The state of a process with respect to the critical section
type ProcessState int

const (
	Idle ProcessState = iota
	Requesting
	InCS
	Crashed
)

func (s ProcessState) String() string {
	switch s {
	case Requesting:
		return "requesting"
	case InCS:
		return "in CS"
	case Crashed:
		return "crashed"
	}
	return "idle"
}

// A process taking part in the mutual exclusion algorithm.
//
// The Lamport clock and the request bookkeeping are only used by Ricart-Agrawala.
type Process struct {
	ID         int
	Requesting bool
	InCS       bool
	Crashed    bool

	// Lamport clock
	Clock int
	// Timestamp of the outstanding request. 0 if there is none
	ReqTs int

	// Peers that have not yet replied to the outstanding request
	awaiting map[int]bool
	// Peers that are owed a reply when the process leaves the critical section
	deferred map[int]bool
}

func newProcess(id int) *Process {
	return &Process{
		ID:       id,
		awaiting: make(map[int]bool),
		deferred: make(map[int]bool),
	}
}

// The state of the process. A crashed process is reported as crashed even if it is stuck in the critical section.
func (p Process) State() ProcessState {
	switch {
	case p.Crashed:
		return Crashed
	case p.InCS:
		return InCS
	case p.Requesting:
		return Requesting
	}
	return Idle
}

// The peers that have not yet replied, in ascending order
func (p Process) Awaiting() []int {
	return sortedIds(p.awaiting)
}

// The peers that are owed a reply, in ascending order
func (p Process) Deferred() []int {
	return sortedIds(p.deferred)
}

func (p *Process) clearRequest() {
	p.ReqTs = 0
	p.awaiting = make(map[int]bool)
	p.deferred = make(map[int]bool)
}

func (p *Process) clone() *Process {
	c := *p
	c.awaiting = maps.Clone(p.awaiting)
	c.deferred = maps.Clone(p.deferred)
	return &c
}

func sortedIds(set map[int]bool) []int {
	ids := maps.Keys(set)
	slices.Sort(ids)
	return ids
}

// Request priority of Ricart-Agrawala.
//
// Returns true if the request (tsA, idA) is ordered before (tsB, idB).
// Lower timestamps come first. Equal timestamps are ordered by ascending process id.
func hasPriority(tsA, idA, tsB, idB int) bool {
	if tsA != tsB {
		return tsA < tsB
	}
	return idA < idB
}
