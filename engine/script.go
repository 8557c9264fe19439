package engine

import (
	"fmt"

	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/document"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/event"
	"golang.org/x/exp/slices"
)

// One entry of a script. Entries that could not be decoded keep the reason in problem.
type scriptEntry struct {
	evt     event.Event
	raw     document.Event
	problem string
}

// A sequence of events replayed one per step
type script struct {
	description string
	entries     []scriptEntry
	index       int
}

func (s *script) clone() *script {
	c := *s
	c.entries = slices.Clone(s.entries)
	return &c
}

// Decode the events of a script document and order them by logical time.
//
// Events that do not fit the operation vocabulary of the algorithm are kept and reported when reached.
func newScript(doc *document.Script, proto protocol) *script {
	entries := make([]scriptEntry, 0, len(doc.Events))
	for _, raw := range doc.Events {
		evt, err := decodeEvent(raw, proto)
		entry := scriptEntry{evt: evt, raw: raw}
		if err != nil {
			entry.problem = err.Error()
		}
		entries = append(entries, entry)
	}
	slices.SortStableFunc(entries, func(a, b scriptEntry) bool {
		return a.raw.T < b.raw.T
	})
	return &script{
		description: doc.Description,
		entries:     entries,
	}
}

func decodeEvent(raw document.Event, proto protocol) (event.Event, error) {
	evt := event.Event{T: raw.T}
	op, err := event.ParseOp(raw.Op)
	if err != nil {
		return evt, err
	}
	evt.Op = op
	switch op {
	case event.OpRequest, event.OpRelease, event.OpCrash, event.OpRecover:
	default:
		if !proto.supports(op) {
			return evt, fmt.Errorf("operation %q is not supported by %v", raw.Op, proto.algorithm())
		}
	}

	fields := []struct {
		name  string
		value string
		dst   *int
	}{
		{"on", raw.On, &evt.On},
		{"from", raw.From, &evt.From},
		{"to", raw.To, &evt.To},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		id, err := event.ParseProcessName(f.value)
		if err != nil {
			return evt, fmt.Errorf("field %v: %w", f.name, err)
		}
		*f.dst = id
	}
	if op.NeedsTarget() && evt.On == 0 {
		return evt, fmt.Errorf("operation %q requires the field on", raw.Op)
	}
	return evt, nil
}

// Load a script document into the model and switch to script mode.
//
// Only allowed in interactive mode. The processes of the script must match the processes of the model.
func (m *Model) LoadScript(doc *document.Script) Result {
	if res, ok := m.interactiveGate("loadScript"); !ok {
		return m.record(res)
	}
	if err := doc.Validate(); err != nil {
		return m.record(rejected(ReasonInvalidEvent, "script rejected: %v", err))
	}
	if doc.Algorithm != m.Algorithm().String() {
		return m.record(rejected(ReasonUnsupported, "script is for %v, model runs %v", doc.Algorithm, m.Algorithm()))
	}
	if len(doc.Processes) != len(m.processes) {
		return m.record(rejected(ReasonUnknownProcess, "script processes do not match the model"))
	}
	for _, name := range doc.Processes {
		id, _ := event.ParseProcessName(name)
		if _, ok := m.byId[id]; !ok {
			return m.record(rejected(ReasonUnknownProcess, "script processes do not match the model"))
		}
	}
	m.script = newScript(doc, m.proto)
	m.mode = Script
	return m.record(accepted("script loaded: %v events", len(m.script.entries)))
}

// Switch between interactive and script mode.
//
// Switching to script mode requires a loaded script. The script continues where it stopped.
func (m *Model) SetMode(mode Mode) Result {
	if mode == m.mode {
		return m.record(accepted("already in %v mode", mode))
	}
	if mode == Script && m.script == nil {
		return m.record(rejected(ReasonNoScript, "no script loaded"))
	}
	m.mode = mode
	return m.record(accepted("switched to %v mode", mode))
}

// The description of the loaded script and how many of its events have been consumed
func (m *Model) ScriptProgress() (description string, done int, total int) {
	if m.script == nil {
		return "", 0, 0
	}
	return m.script.description, m.script.index, len(m.script.entries)
}

// Consume the next script event
func (m *Model) scriptStep() Result {
	if m.script == nil || m.script.index >= len(m.script.entries) {
		return m.record(rejected(ReasonScriptFinished, "script finished"))
	}
	entry := m.script.entries[m.script.index]
	m.script.index++

	if entry.problem != "" {
		res := rejected(ReasonInvalidEvent, "skipped event t=%v op=%q: %v", entry.raw.T, entry.raw.Op, entry.problem)
		return m.record(res)
	}
	res := m.dispatch(entry.evt)
	if !res.OK {
		res.Text = fmt.Sprintf("t=%v %v: %v", entry.raw.T, entry.evt, res.Text)
	}
	return m.record(res)
}
