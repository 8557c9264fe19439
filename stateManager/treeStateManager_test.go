package stateManager

import (
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/engine"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/event"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/state"
)

// Apply the events of the run to a fresh model and record every state
func recordRun(t *testing.T, rsm *RunStateManager, run []event.Event) {
	m, err := engine.New(engine.TokenRing, 3)
	if err != nil {
		t.Errorf("Unable to create model: %v", err)
		return
	}
	rsm.UpdateGlobalState(m, nil, engine.Result{})
	for _, evt := range run {
		evt := evt
		res := m.Apply(evt)
		rsm.UpdateGlobalState(m, &evt, res)
	}
	rsm.EndRun()
}

var (
	request1 = event.Event{Op: event.OpRequest, On: 1}
	request2 = event.Event{Op: event.OpRequest, On: 2}
	pass     = event.Event{Op: event.OpPassToken}
	crash3   = event.Event{Op: event.OpCrash, On: 3}
)

var mergeTest = []struct {
	numProcesses int
	runs         [][]event.Event
	expectedLen  int
	distinct     int
}{
	{
		numProcesses: 1,
		runs:         [][]event.Event{{request1, pass, pass}, {request1, pass, pass}},
		expectedLen:  4,
		distinct:     1,
	},
	{
		numProcesses: 3,
		runs:         [][]event.Event{{}, {}, {}},
		expectedLen:  1,
		distinct:     1,
	},
	{
		numProcesses: 5,
		runs:         [][]event.Event{{request1, pass}, {request1, request2}, {request2, request1}, {crash3}},
		expectedLen:  7,
		distinct:     4,
	},
	{
		numProcesses: 2,
		runs:         [][]event.Event{{request1, pass, crash3}, {request1, pass, request2}, {request1}},
		expectedLen:  5,
		distinct:     2,
	},
}

func TestStateManagerMerge(t *testing.T) {
	for i, test := range mergeTest {
		sm := NewTreeStateManager()
		inChan := make(chan []event.Event)
		var wait sync.WaitGroup
		wait.Add(len(test.runs))
		for j := 0; j < test.numProcesses; j++ {
			go func() {
				for run := range inChan {
					recordRun(t, sm.GetRunStateManager(), run)
					wait.Done()
				}
			}()
		}
		for _, run := range test.runs {
			inChan <- run
		}
		wait.Wait()
		close(inChan)

		root := sm.State().(state.TreeStateSpace)
		if size := root.Len(); size != test.expectedLen {
			root.Export(os.Stdout)
			t.Errorf("Test %v: Unexpected Size of the state tree. Got %v. Expected %v", i, size, test.expectedLen)
		}
		total, distinct := sm.Runs()
		if total != len(test.runs) || distinct != test.distinct {
			t.Errorf("Test %v: Expected %v runs with %v distinct. Got %v and %v", i, len(test.runs), test.distinct, total, distinct)
		}
	}
}

func TestStateManagerExport(t *testing.T) {
	sm := NewTreeStateManager()
	recordRun(t, sm.GetRunStateManager(), []event.Event{request1, pass})
	out := strings.Builder{}
	sm.Export(&out)
	expected := `(("pass")"request P1")"init";`
	if out.String() != expected {
		t.Errorf("Expected %v. Got: %v", expected, out.String())
	}

	sm.Reset()
	if sm.State() != nil {
		t.Errorf("Expected an empty state space after reset")
	}
}
