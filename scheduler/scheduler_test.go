package scheduler

import (
	"errors"
	"sync"
	"testing"

	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/event"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	evtA = event.Event{Op: event.OpRequest, On: 1}
	evtB = event.Event{Op: event.OpRequest, On: 2}
	evtC = event.Event{Op: event.OpDeliver}
)

// A toy system: every event can happen once and the run ends when all events have happened
func remaining(all []event.Event, done []event.Event) []event.Event {
	out := []event.Event{}
	for _, evt := range all {
		if slices.IndexFunc(done, func(d event.Event) bool { return event.EventsEquals(d, evt) }) < 0 {
			out = append(out, evt)
		}
	}
	return out
}

// Simulate runs of the toy system until the scheduler has no more runs or maxRuns is reached
func explore(t *testing.T, sch RunScheduler, all []event.Event, maxRuns int) [][]event.Event {
	runs := [][]event.Event{}
	for len(runs) < maxRuns {
		err := sch.StartRun()
		if errors.Is(err, NoRunsError) {
			break
		} else if err != nil {
			t.Fatalf("Did not expect to receive an error. Got %v", err)
		}
		done := []event.Event{}
		for {
			evt, err := sch.GetEvent(remaining(all, done))
			if errors.Is(err, RunEndedError) {
				break
			} else if err != nil {
				t.Fatalf("Did not expect to receive an error. Got %v", err)
			}
			done = append(done, evt)
		}
		sch.EndRun()
		runs = append(runs, done)
	}
	return runs
}

func runKey(run []event.Event) string {
	key := ""
	for _, evt := range run {
		key += string(evt.Id()) + ";"
	}
	return key
}

func TestRandomScheduler(t *testing.T) {
	all := []event.Event{evtA, evtB, evtC}
	runs := explore(t, NewRandom(1).GetRunScheduler(), all, 200)
	if len(runs) != 200 {
		t.Fatalf("Expected random runs to never run out. Got %v runs", len(runs))
	}
	seen := map[string]bool{}
	for _, run := range runs {
		if len(run) != len(all) {
			t.Errorf("Expected every event exactly once. Got: %v", run)
		}
		seen[runKey(run)] = true
	}
	// 3! interleavings. 200 runs will find them all with overwhelming probability.
	if len(seen) != 6 {
		t.Errorf("Expected all 6 interleavings. Got: %v", maps.Keys(seen))
	}

	_, err := NewRandom(1).GetRunScheduler().GetEvent(nil)
	if !errors.Is(err, RunEndedError) {
		t.Errorf("Expected to get a RunEndedError. Got: %v", err)
	}
}

func TestRandomSchedulerIsSeeded(t *testing.T) {
	all := []event.Event{evtA, evtB, evtC}
	a := NewRandom(42)
	b := NewRandom(42)
	runsA := explore(t, a.GetRunScheduler(), all, 20)
	runsB := explore(t, b.GetRunScheduler(), all, 20)
	for i := range runsA {
		if runKey(runsA[i]) != runKey(runsB[i]) {
			t.Fatalf("Expected the same seed to give the same runs. Run %v: %v and %v", i, runsA[i], runsB[i])
		}
	}

	a.Reset()
	again := explore(t, a.GetRunScheduler(), all, 20)
	for i := range runsA {
		if runKey(runsA[i]) != runKey(again[i]) {
			t.Fatalf("Expected a reset to restart the sequence of runs")
		}
	}
}

func TestReplayScheduler(t *testing.T) {
	all := []event.Event{evtA, evtB, evtC}
	gsch := NewReplay([]event.EventId{evtC.Id(), evtA.Id()})
	runs := explore(t, gsch.GetRunScheduler(), all, 10)
	if len(runs) != 1 {
		t.Fatalf("Expected exactly one run. Got: %v", runs)
	}
	if !slices.Equal(runs[0], []event.Event{evtC, evtA}) {
		t.Errorf("Unexpected replayed run: %v", runs[0])
	}

	if err := gsch.GetRunScheduler().StartRun(); !errors.Is(err, NoRunsError) {
		t.Errorf("Expected a second run scheduler to have no runs. Got: %v", err)
	}
	gsch.Reset()
	if err := gsch.GetRunScheduler().StartRun(); err != nil {
		t.Errorf("Expected the run to be available after a reset. Got: %v", err)
	}
}

func TestReplayEventNotEnabled(t *testing.T) {
	sch := NewReplay([]event.EventId{evtA.Id(), evtA.Id()}).GetRunScheduler()
	if err := sch.StartRun(); err != nil {
		t.Fatalf("Did not expect to receive an error. Got %v", err)
	}
	if _, err := sch.GetEvent([]event.Event{evtA}); err != nil {
		t.Fatalf("Did not expect to receive an error. Got %v", err)
	}
	if _, err := sch.GetEvent([]event.Event{evtB}); !errors.Is(err, EventNotEnabledError) {
		t.Errorf("Expected to get an EventNotEnabledError. Got: %v", err)
	}
}

func TestPrefixExploresAllRuns(t *testing.T) {
	all := []event.Event{evtA, evtB, evtC}
	runs := explore(t, NewPrefix().GetRunScheduler(), all, 100)
	if len(runs) != 6 {
		t.Fatalf("Expected 6 runs. Got %v: %v", len(runs), runs)
	}
	seen := map[string]bool{}
	for _, run := range runs {
		seen[runKey(run)] = true
	}
	if len(seen) != 6 {
		t.Errorf("Expected every run to be distinct. Got: %v", maps.Keys(seen))
	}
	// The first run takes the first enabled event at every step
	if !slices.Equal(runs[0], all) {
		t.Errorf("Unexpected first run: %v", runs[0])
	}
}

func TestPrefixConcurrent(t *testing.T) {
	all := []event.Event{evtA, evtB, evtC, {Op: event.OpCrash, On: 1}}
	gsch := NewPrefix()
	results := make(chan [][]event.Event)
	var wait sync.WaitGroup
	for i := 0; i < 4; i++ {
		wait.Add(1)
		go func() {
			defer wait.Done()
			results <- explore(t, gsch.GetRunScheduler(), all, 1000)
		}()
	}
	go func() {
		wait.Wait()
		close(results)
	}()

	seen := map[string]bool{}
	total := 0
	for runs := range results {
		for _, run := range runs {
			seen[runKey(run)] = true
			total++
		}
	}
	// 4! interleavings, each explored exactly once
	if total != 24 || len(seen) != 24 {
		t.Errorf("Expected 24 distinct runs. Got %v runs, %v distinct", total, len(seen))
	}
}
