package state

import (
	"strings"
	"testing"

	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/engine"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/event"
	"golang.org/x/exp/slices"
)

func TestCapture(t *testing.T) {
	m, err := engine.New(engine.TokenRing, 3)
	if err != nil {
		t.Fatalf("Unable to create model: %v", err)
	}
	initial := Capture(m, nil, engine.Result{})
	if !initial.Evt.IsEmpty() || initial.Evt.String() != "init" {
		t.Errorf("Expected an empty record for the initial state. Got: %v", initial.Evt)
	}
	if !initial.Resource.HasToken || initial.Resource.Holder != 1 {
		t.Errorf("Expected P1 to hold the token. Got: %+v", initial.Resource)
	}

	evt := event.Event{Op: event.OpRequest, On: 1}
	res := m.Apply(evt)
	after := Capture(m, &evt, res)
	evt = event.Event{Op: event.OpPassToken}
	res = m.Apply(evt)
	inCS := Capture(m, &evt, res)

	if len(after.InCS()) != 0 {
		t.Errorf("Expected nobody in the CS after a request")
	}
	if !slices.Equal(inCS.InCS(), []int{1}) {
		t.Errorf("Expected P1 in the CS. Got: %v", inCS.InCS())
	}
	if after.LocalStates[1].State() != engine.Requesting {
		t.Errorf("Captured state changed with the model. Got: %v", after.LocalStates[1].State())
	}
	if !strings.Contains(inCS.String(), "P1:in CS") || !strings.Contains(inCS.String(), "Token: P1") {
		t.Errorf("Unexpected string representation: %v", inCS)
	}
	if !inCS.Evt.Result.OK || inCS.Evt.Id != evt.Id() {
		t.Errorf("Unexpected event record: %+v", inCS.Evt)
	}
}

func TestGlobalStateEqual(t *testing.T) {
	a, _ := engine.New(engine.RicartAgrawala, 2)
	b, _ := engine.New(engine.RicartAgrawala, 2)
	evt := event.Event{Op: event.OpRequest, On: 2}

	sa := Capture(a, &evt, a.Apply(evt))
	sb := Capture(b, &evt, b.Apply(evt))
	if !sa.Equal(sb) {
		t.Errorf("Expected states reached by the same events to be equal")
	}
	if sa.Resource.InFlight != 1 || sa.Resource.HasToken {
		t.Errorf("Unexpected resource: %+v", sa.Resource)
	}

	deliver := event.Event{Op: event.OpDeliver}
	sb = Capture(b, &deliver, b.Apply(deliver))
	if sa.Equal(sb) {
		t.Errorf("Expected states reached by different events to differ")
	}
}
