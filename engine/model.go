// Package engine simulates distributed mutual exclusion.
//
// A Model holds a set of processes running either the Token Ring or the Ricart-Agrawala algorithm.
// The model advances one logical step per call to Step and is changed only by its action methods.
// Every action either applies completely or is rejected with a reason and leaves the model unchanged.
// Message delivery is FIFO, so a sequence of actions always produces the same outcome.
//
// A model must only be used by one goroutine at a time.
package engine

import (
	"errors"
	"fmt"
	"log"

	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/event"
	"golang.org/x/exp/slices"
)

// Monotonic counters updated when the corresponding transition happens
type Metrics struct {
	CSEntries   int
	Releases    int
	TokenPasses int

	MessagesSent      int
	MessagesDelivered int
	MessagesDropped   int
}

// The algorithm specific part of a model.
//
// Implemented by *tokenRing and *ricartAgrawala only.
type protocol interface {
	algorithm() Algorithm

	// Called after the shared preconditions of the action have been checked
	request(m *Model, p *Process) Result
	release(m *Model, p *Process) Result
	step(m *Model) Result

	// Side effects of a crash or a recovery on the shared resource
	crashed(m *Model, p *Process, wasInCS bool)
	recovered(m *Model, p *Process)

	// Algorithm specific script operations
	supports(op event.Op) bool
	apply(m *Model, evt event.Event) Result

	// Algorithm specific operations that are currently possible
	enabled(m *Model) []event.Event

	clone() protocol
}

var ErrInvalidConfiguration = errors.New("engine: invalid configuration")

// The state of a simulated system
type Model struct {
	mode Mode

	// Ordered by id
	processes []*Process
	byId      map[int]*Process
	// Fixed cyclic order used by the Token Ring
	ring []int

	proto protocol

	metrics Metrics
	trace   *traceLog
	script  *script

	// Number of steps taken
	tick int
}

// Create a new model with n processes named P1..Pn.
//
// The ring order is ascending by id unless a RingOption is given.
// For the Token Ring the token starts at the first process of the ring unless an InitialHolderOption is given.
func New(alg Algorithm, n int, opts ...ModelOption) (*Model, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: at least one process is required, got %v", ErrInvalidConfiguration, n)
	}
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i + 1
	}
	return newModel(alg, ids, opts...)
}

func newModel(alg Algorithm, ids []int, opts ...ModelOption) (*Model, error) {
	var (
		traceLimit = defaultTraceLimit
		ring       = slices.Clone(ids)
		holder     = 0
		sink       TraceSink
		logger     *log.Logger
	)
	slices.Sort(ring)

	for _, opt := range opts {
		switch t := opt.(type) {
		case TraceLimitOption:
			traceLimit = t.Limit
		case RingOption:
			ring = slices.Clone(t.Order)
		case InitialHolderOption:
			holder = t.ID
		case TraceSinkOption:
			sink = t.Sink
		case LoggerOption:
			logger = t.Logger
		}
	}

	m := &Model{
		mode:      Interactive,
		processes: make([]*Process, 0, len(ids)),
		byId:      make(map[int]*Process, len(ids)),
		ring:      ring,
		trace:     newTraceLog(traceLimit),
	}
	m.trace.sink = sink
	m.trace.logger = logger

	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	for _, id := range sorted {
		if id < 1 {
			return nil, fmt.Errorf("%w: process id %v is not positive", ErrInvalidConfiguration, id)
		}
		if _, ok := m.byId[id]; ok {
			return nil, fmt.Errorf("%w: duplicate process id %v", ErrInvalidConfiguration, id)
		}
		p := newProcess(id)
		m.processes = append(m.processes, p)
		m.byId[id] = p
	}
	if err := m.validateRing(); err != nil {
		return nil, err
	}

	switch alg {
	case TokenRing:
		if holder == 0 {
			holder = m.ring[0]
		}
		if _, ok := m.byId[holder]; !ok {
			return nil, fmt.Errorf("%w: initial token holder %v is not a process", ErrInvalidConfiguration, holder)
		}
		m.proto = newTokenRing(holder)
	case RicartAgrawala:
		m.proto = newRicartAgrawala()
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedAlgorithm, alg)
	}
	return m, nil
}

func (m *Model) validateRing() error {
	if len(m.ring) != len(m.processes) {
		return fmt.Errorf("%w: ring must contain every process exactly once", ErrInvalidConfiguration)
	}
	seen := make(map[int]bool, len(m.ring))
	for _, id := range m.ring {
		if _, ok := m.byId[id]; !ok || seen[id] {
			return fmt.Errorf("%w: ring must contain every process exactly once", ErrInvalidConfiguration)
		}
		seen[id] = true
	}
	return nil
}

func (m *Model) Algorithm() Algorithm {
	return m.proto.algorithm()
}

func (m *Model) Mode() Mode {
	return m.mode
}

// Number of steps taken so far
func (m *Model) Tick() int {
	return m.tick
}

func (m *Model) Metrics() Metrics {
	return m.metrics
}

// A copy of the processes, ordered by id
func (m *Model) Processes() []Process {
	out := make([]Process, 0, len(m.processes))
	for _, p := range m.processes {
		out = append(out, *p.clone())
	}
	return out
}

// A copy of the process with the given id
func (m *Model) Process(id int) (Process, bool) {
	p, ok := m.byId[id]
	if !ok {
		return Process{}, false
	}
	return *p.clone(), true
}

// The ring order
func (m *Model) Ring() []int {
	return slices.Clone(m.ring)
}

// The current token holder and whether the token is lost.
// ok is false if the model does not run the Token Ring.
func (m *Model) Token() (holder int, lost bool, ok bool) {
	tr, isRing := m.proto.(*tokenRing)
	if !isRing {
		return 0, false, false
	}
	return tr.holder, tr.lost, true
}

// A copy of the messages in flight, head first. Empty for the Token Ring.
func (m *Model) Queue() []Message {
	ra, isRA := m.proto.(*ricartAgrawala)
	if !isRA {
		return []Message{}
	}
	return slices.Clone(ra.net.queue)
}

// True if the next send attempt will be dropped. Always false for the Token Ring.
func (m *Model) DropNextSendArmed() bool {
	ra, isRA := m.proto.(*ricartAgrawala)
	return isRA && ra.net.dropNextSend
}

// A copy of the trace log, oldest entry first
func (m *Model) Trace() []TraceEntry {
	return m.trace.snapshot()
}

// Create a deep copy of the model.
//
// The copy starts with an empty trace log and without trace sink or logger.
func (m *Model) Clone() *Model {
	c := &Model{
		mode:      m.mode,
		processes: make([]*Process, 0, len(m.processes)),
		byId:      make(map[int]*Process, len(m.processes)),
		ring:      slices.Clone(m.ring),
		proto:     m.proto.clone(),
		metrics:   m.metrics,
		trace:     newTraceLog(m.trace.limit),
		tick:      m.tick,
	}
	for _, p := range m.processes {
		cp := p.clone()
		c.processes = append(c.processes, cp)
		c.byId[cp.ID] = cp
	}
	if m.script != nil {
		c.script = m.script.clone()
	}
	return c
}

func (m *Model) info(format string, args ...any) {
	m.trace.add(m.tick, Info, fmt.Sprintf(format, args...))
}

func (m *Model) warn(format string, args ...any) {
	m.trace.add(m.tick, Warning, fmt.Sprintf(format, args...))
}

// Write the result of an action to the trace log and return it
func (m *Model) record(res Result) Result {
	if res.OK {
		m.trace.add(m.tick, Info, res.Text)
	} else {
		m.trace.add(m.tick, Warning, res.String())
	}
	return res
}

// Find a process. Returns a rejection if it does not exist.
func (m *Model) lookup(id int) (*Process, Result) {
	p, ok := m.byId[id]
	if !ok {
		return nil, rejected(ReasonUnknownProcess, "unknown process %v", event.ProcessName(id))
	}
	return p, Result{OK: true}
}

// Processes currently in the critical section, ordered by id
func (m *Model) csHolders() []*Process {
	holders := []*Process{}
	for _, p := range m.processes {
		if p.InCS {
			holders = append(holders, p)
		}
	}
	return holders
}

// Let the process enter the critical section
func (m *Model) grant(p *Process) {
	p.Requesting = false
	p.InCS = true
	m.metrics.CSEntries++
}
