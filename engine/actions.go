package engine

import (
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/document"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/event"
)

// Reject interactive actions while a script is being replayed
func (m *Model) interactiveGate(action string) (Result, bool) {
	if m.mode != Interactive {
		return rejected(ReasonWrongMode, "%v is not allowed in %v mode", action, m.mode), false
	}
	return Result{}, true
}

// Ask for the critical section on behalf of a process.
//
// Rejected if the process is unknown, crashed, already in the critical section or already requesting.
func (m *Model) RequestCS(id int) Result {
	if res, ok := m.interactiveGate("request"); !ok {
		return m.record(res)
	}
	return m.record(m.requestCS(id))
}

// Leave the critical section. Rejected if the process is not in the critical section.
func (m *Model) ReleaseCS(id int) Result {
	if res, ok := m.interactiveGate("release"); !ok {
		return m.record(res)
	}
	return m.record(m.releaseCS(id))
}

// Crash a process. Rejected if it has already crashed.
func (m *Model) Crash(id int) Result {
	if res, ok := m.interactiveGate("crash"); !ok {
		return m.record(res)
	}
	return m.record(m.crash(id))
}

// Recover a crashed process. Rejected if it has not crashed.
func (m *Model) Recover(id int) Result {
	if res, ok := m.interactiveGate("recover"); !ok {
		return m.record(res)
	}
	return m.record(m.recover(id))
}

// Lose the token. Token Ring only.
func (m *Model) DropToken() Result {
	if res, ok := m.interactiveGate("dropToken"); !ok {
		return m.record(res)
	}
	return m.record(m.dropToken())
}

// Create a new token after it was lost. Token Ring only.
func (m *Model) RegenerateToken() Result {
	if res, ok := m.interactiveGate("regenerate"); !ok {
		return m.record(res)
	}
	return m.record(m.regenerateToken())
}

// Arm or disarm the one-shot loss of the next message sent. Ricart-Agrawala only.
func (m *Model) ToggleDropNextSend() Result {
	if res, ok := m.interactiveGate("dropNextSend"); !ok {
		return m.record(res)
	}
	return m.record(m.toggleDropNextSend())
}

// Lose the message at the head of the queue. Ricart-Agrawala only.
func (m *Model) DropNextMessage() Result {
	if res, ok := m.interactiveGate("dropMessage"); !ok {
		return m.record(res)
	}
	return m.record(m.dropNextMessage())
}

// Apply an event in interactive mode.
//
// The event is dispatched to the same action as the corresponding method.
// Operations the algorithm does not support are rejected.
func (m *Model) Apply(evt event.Event) Result {
	if res, ok := m.interactiveGate(evt.Op.String()); !ok {
		return m.record(res)
	}
	return m.record(m.dispatch(evt))
}

// Decode an event in the document vocabulary and apply it in interactive mode.
//
// Used by the transports. An event that can not be decoded is rejected with ReasonInvalidEvent.
func (m *Model) ApplyRaw(raw document.Event) Result {
	if res, ok := m.interactiveGate(raw.Op); !ok {
		return m.record(res)
	}
	evt, err := decodeEvent(raw, m.proto)
	if err != nil {
		return m.record(rejected(ReasonInvalidEvent, "event op=%q rejected: %v", raw.Op, err))
	}
	return m.record(m.dispatch(evt))
}

// Advance the model by one logical step.
//
// In interactive mode the algorithm takes one step: the Token Ring grants entry or passes the token,
// Ricart-Agrawala delivers the message at the head of the queue, or reports what it waits for.
// In script mode the next script event is applied.
func (m *Model) Step() Result {
	m.tick++
	if m.mode == Script {
		return m.scriptStep()
	}
	return m.record(m.proto.step(m))
}

// Dispatch an event to its action without checking the mode
func (m *Model) dispatch(evt event.Event) Result {
	switch evt.Op {
	case event.OpRequest:
		return m.requestCS(evt.On)
	case event.OpRelease:
		return m.releaseCS(evt.On)
	case event.OpCrash:
		return m.crash(evt.On)
	case event.OpRecover:
		return m.recover(evt.On)
	case event.OpInvalid:
		return rejected(ReasonInvalidEvent, "invalid event")
	}
	if !m.proto.supports(evt.Op) {
		return rejected(ReasonUnsupported, "%v is not supported by %v", evt.Op, m.Algorithm())
	}
	return m.proto.apply(m, evt)
}

func (m *Model) requestCS(id int) Result {
	p, res := m.lookup(id)
	if !res.OK {
		return res
	}
	name := event.ProcessName(id)
	switch {
	case p.Crashed:
		return rejected(ReasonCrashed, "%v cannot request: crashed", name)
	case p.InCS:
		return rejected(ReasonAlreadyInCS, "%v cannot request: already in CS", name)
	case p.Requesting:
		return rejected(ReasonAlreadyRequesting, "%v cannot request: already requesting", name)
	}
	return m.proto.request(m, p)
}

func (m *Model) releaseCS(id int) Result {
	p, res := m.lookup(id)
	if !res.OK {
		return res
	}
	name := event.ProcessName(id)
	switch {
	case p.Crashed:
		return rejected(ReasonCrashed, "%v cannot release: crashed", name)
	case !p.InCS:
		return rejected(ReasonNotInCS, "%v cannot release: not in CS", name)
	}
	return m.proto.release(m, p)
}

// The operations that can currently be applied in interactive mode and would be accepted.
//
// Used by the explorer to choose the next action. The order is deterministic.
func (m *Model) EnabledEvents() []event.Event {
	if m.mode != Interactive {
		return []event.Event{}
	}
	events := []event.Event{}
	for _, p := range m.processes {
		switch {
		case p.Crashed:
			events = append(events, event.Event{Op: event.OpRecover, On: p.ID})
			continue
		case p.InCS:
			events = append(events, event.Event{Op: event.OpRelease, On: p.ID})
		case !p.Requesting:
			events = append(events, event.Event{Op: event.OpRequest, On: p.ID})
		}
		events = append(events, event.Event{Op: event.OpCrash, On: p.ID})
	}
	return append(events, m.proto.enabled(m)...)
}
