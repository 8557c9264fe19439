package checking

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/document"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/event"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/state"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type predicateCheckerResponse struct {
	Result   bool                // True if all tests holds. False otherwise
	Sequence []state.GlobalState // A sequence of states leading to the false test. nil if Result is true
	Test     int                 // The index of the failing test. -1 if Result is true
	Name     string              // The name of the failing test
}

// Generate a response
// Returns two parameters, result, and description.
// Result is true if all predicates hold, false otherwise.
// Description is a formatted string providing a detailed description of the result.
// If result is false the description contain a representation of the sequence of states that lead to the failing state
func (pcr predicateCheckerResponse) Response() (bool, string) {
	if pcr.Result {
		return pcr.Result, "All predicates holds"
	}
	var buffer bytes.Buffer
	wrt := tabwriter.NewWriter(&buffer, 4, 4, 0, ' ', 0)
	out := fmt.Sprintf("Predicate broken. Predicate: %v (%v). Sequence: \n", pcr.Name, pcr.Test)
	for _, element := range pcr.Sequence {
		fmt.Fprintf(wrt, "-> %v \n", element)
	}
	wrt.Flush()
	out += buffer.String()
	return pcr.Result, out
}

// Export the failing event sequence to be replayed by the Replay scheduler
func (pcr predicateCheckerResponse) Export() []event.EventId {
	evtSequence := []event.EventId{}
	for _, gs := range pcr.Sequence {
		if gs.Evt.IsEmpty() {
			continue
		}
		evtSequence = append(evtSequence, gs.Evt.Id)
	}
	return evtSequence
}

// Convert the failing event sequence to a script document.
//
// The script recreates the processes and the ring of the initial state. Events get consecutive logical times.
func (pcr predicateCheckerResponse) Script() *document.Script {
	if pcr.Result || len(pcr.Sequence) == 0 {
		return nil
	}
	initial := pcr.Sequence[0]
	ids := maps.Keys(initial.LocalStates)
	slices.Sort(ids)

	doc := &document.Script{
		DocKind:     document.KindDemo,
		Algorithm:   initial.Algorithm.String(),
		Processes:   processNames(ids),
		Ring:        processNames(initial.Ring),
		Description: fmt.Sprintf("Counterexample: predicate %v broken after %v events", pcr.Name, len(pcr.Sequence)-1),
		Events:      []document.Event{},
	}
	for _, gs := range pcr.Sequence {
		if gs.Evt.IsEmpty() {
			continue
		}
		evt := gs.Evt.Evt
		de := document.Event{T: float64(len(doc.Events) + 1), Op: evt.Op.String()}
		if evt.On != 0 {
			de.On = event.ProcessName(evt.On)
		}
		if evt.From != 0 {
			de.From = event.ProcessName(evt.From)
		}
		if evt.To != 0 {
			de.To = event.ProcessName(evt.To)
		}
		doc.Events = append(doc.Events, de)
	}
	return doc
}

func processNames(ids []int) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, event.ProcessName(id))
	}
	return out
}

type PredicateChecker struct {
	// A slice of predicates that returns true if the predicate holds.
	predicates []Predicate
	names      []string
}

func NewPredicateChecker(predicates ...Predicate) *PredicateChecker {
	names := make([]string, len(predicates))
	for i := range predicates {
		names[i] = fmt.Sprint(i)
	}
	return &PredicateChecker{
		predicates: predicates,
		names:      names,
	}
}

// Add a predicate with a name that is used in the response
func (pc *PredicateChecker) Named(name string, pred Predicate) *PredicateChecker {
	pc.predicates = append(pc.predicates, pred)
	pc.names = append(pc.names, name)
	return pc
}

// Checks that all predicates holds for all nodes of the state space.
//
// Nodes are searched depth first and the search is interrupted when a state breaks a predicate.
func (pc *PredicateChecker) Check(root state.StateSpace) CheckerResponse {
	if root != nil {
		if resp := pc.checkNode(root, []state.GlobalState{}); resp != nil {
			return resp
		}
	}
	return pc.holds()
}

// Check all predicates on each state of a single run. The last state of the run is terminal.
func (pc *PredicateChecker) CheckRun(run []state.GlobalState) CheckerResponse {
	for i := range run {
		sequence := run[:i+1]
		if ok, index := pc.checkState(run[i], i == len(run)-1, sequence); !ok {
			return pc.broken(index, slices.Clone(sequence))
		}
	}
	return pc.holds()
}

func (pc *PredicateChecker) checkNode(node state.StateSpace, sequence []state.GlobalState) *predicateCheckerResponse {
	sequence = append(sequence, node.Payload())
	if ok, index := pc.checkState(node.Payload(), node.IsTerminal(), sequence); !ok {
		return pc.broken(index, slices.Clone(sequence))
	}

	for _, child := range node.Children() {
		if resp := pc.checkNode(child, sequence); resp != nil {
			return resp
		}
	}
	return nil
}

// Check the state on all predicates. Returns the index of the first broken predicate.
func (pc *PredicateChecker) checkState(gs state.GlobalState, terminal bool, sequence []state.GlobalState) (bool, int) {
	for index, pred := range pc.predicates {
		if !pred(State{
			GlobalState: gs,
			IsTerminal:  terminal,
			Sequence:    sequence,
		}) {
			return false, index
		}
	}
	return true, -1
}

func (pc *PredicateChecker) holds() *predicateCheckerResponse {
	return &predicateCheckerResponse{
		Result:   true,
		Sequence: nil,
		Test:     -1,
	}
}

func (pc *PredicateChecker) broken(index int, sequence []state.GlobalState) *predicateCheckerResponse {
	return &predicateCheckerResponse{
		Result:   false,
		Sequence: sequence,
		Test:     index,
		Name:     pc.names[index],
	}
}
