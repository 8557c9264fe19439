package engine

import (
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/event"
	"golang.org/x/exp/slices"
)

// Mutual exclusion with a single token that circulates along the ring.
//
// Only the holder of the token may enter the critical section. The token skips crashed processes.
type tokenRing struct {
	holder int
	lost   bool
}

func newTokenRing(holder int) *tokenRing {
	return &tokenRing{holder: holder}
}

func (tr *tokenRing) algorithm() Algorithm {
	return TokenRing
}

func (tr *tokenRing) clone() protocol {
	c := *tr
	return &c
}

func (tr *tokenRing) request(m *Model, p *Process) Result {
	p.Requesting = true
	return accepted("%v requests the CS", event.ProcessName(p.ID))
}

// Leave the critical section. If the process still holds the token it is passed on.
func (tr *tokenRing) release(m *Model, p *Process) Result {
	p.InCS = false
	m.metrics.Releases++
	name := event.ProcessName(p.ID)
	if tr.lost || tr.holder != p.ID {
		return accepted("%v leaves the CS", name)
	}
	if next, moved := tr.advance(m); moved {
		return accepted("%v leaves the CS and passes the token to %v", name, event.ProcessName(next))
	}
	return accepted("%v leaves the CS and keeps the token", name)
}

// One step of the ring.
//
// A lost token or an occupied critical section stalls the ring. Otherwise a requesting holder enters
// the critical section, or the token moves to the next alive process.
func (tr *tokenRing) step(m *Model) Result {
	if tr.lost {
		return rejected(ReasonTokenLost, "stalled: token lost")
	}
	if holders := m.csHolders(); len(holders) > 0 {
		h := holders[0]
		if h.Crashed {
			return rejected(ReasonHolderCrashedInCS, "stalled: %v crashed inside the CS", event.ProcessName(h.ID))
		}
		return rejected(ReasonCSOccupied, "stalled: %v is in the CS", event.ProcessName(h.ID))
	}
	holder := m.byId[tr.holder]
	if holder.Requesting && !holder.Crashed {
		m.grant(holder)
		return accepted("%v enters the CS", event.ProcessName(holder.ID))
	}
	from := tr.holder
	if next, moved := tr.advance(m); moved {
		return accepted("token passed %v -> %v", event.ProcessName(from), event.ProcessName(next))
	}
	return accepted("token stays at %v: no other alive process", event.ProcessName(from))
}

// Move the token to the next alive successor of the holder.
// Returns false if no other process is alive.
func (tr *tokenRing) advance(m *Model) (int, bool) {
	next, ok := nextAlive(m, tr.holder)
	if !ok {
		return tr.holder, false
	}
	tr.holder = next
	m.metrics.TokenPasses++
	return next, true
}

// The first alive process after id in ring order, not counting id itself.
func nextAlive(m *Model, id int) (int, bool) {
	start := slices.Index(m.ring, id)
	for i := 1; i <= len(m.ring); i++ {
		candidate := m.ring[(start+i+len(m.ring))%len(m.ring)]
		if candidate != id && !m.byId[candidate].Crashed {
			return candidate, true
		}
	}
	return 0, false
}

// Create a new token after it was lost.
//
// The holder keeps the token if it is alive. Otherwise the token goes to the next alive process after the
// last known holder, or to the first alive process of the ring.
func (tr *tokenRing) regenerate(m *Model) Result {
	if !tr.lost {
		return rejected(ReasonTokenPresent, "token is not lost")
	}
	holder := 0
	if p, ok := m.byId[tr.holder]; ok && !p.Crashed {
		holder = p.ID
	} else if next, ok := nextAlive(m, tr.holder); ok {
		holder = next
	}
	if holder == 0 {
		return rejected(ReasonNoAliveProcesses, "cannot regenerate token: no alive process")
	}
	tr.holder = holder
	tr.lost = false
	return accepted("token regenerated at %v", event.ProcessName(holder))
}

// Create a new token at a chosen alive process
func (tr *tokenRing) regenerateAt(m *Model, id int) Result {
	if !tr.lost {
		return rejected(ReasonTokenPresent, "token is not lost")
	}
	p, res := m.lookup(id)
	if !res.OK {
		return res
	}
	if p.Crashed {
		return rejected(ReasonCrashed, "cannot regenerate token at %v: crashed", event.ProcessName(id))
	}
	tr.holder = id
	tr.lost = false
	return accepted("token regenerated at %v", event.ProcessName(id))
}

// A crash inside the critical section or of the holder of a live token loses the token.
func (tr *tokenRing) crashed(m *Model, p *Process, wasInCS bool) {
	if wasInCS || (!tr.lost && tr.holder == p.ID) {
		if !tr.lost {
			m.warn("token lost: %v crashed", event.ProcessName(p.ID))
		}
		tr.lost = true
	}
}

func (tr *tokenRing) recovered(m *Model, p *Process) {}

func (tr *tokenRing) supports(op event.Op) bool {
	switch op {
	case event.OpPlaceToken, event.OpPassToken, event.OpDropToken, event.OpRegenerateToken:
		return true
	}
	return false
}

func (tr *tokenRing) apply(m *Model, evt event.Event) Result {
	switch evt.Op {
	case event.OpPlaceToken:
		return tr.place(m, evt.On)
	case event.OpPassToken:
		return tr.pass(m, evt.From, evt.To)
	case event.OpDropToken:
		return m.dropToken()
	case event.OpRegenerateToken:
		if evt.On != 0 {
			return tr.regenerateAt(m, evt.On)
		}
		return m.regenerateToken()
	}
	return rejected(ReasonUnsupported, "%v is not supported by %v", evt.Op, TokenRing)
}

// Put a live token on an alive process
func (tr *tokenRing) place(m *Model, id int) Result {
	p, res := m.lookup(id)
	if !res.OK {
		return res
	}
	if p.Crashed {
		return rejected(ReasonCrashed, "cannot place token at %v: crashed", event.ProcessName(id))
	}
	if !tr.lost && tr.holder != id && m.byId[tr.holder].InCS {
		return rejected(ReasonCSOccupied, "cannot place token: %v holds it in the CS", event.ProcessName(tr.holder))
	}
	tr.holder = id
	tr.lost = false
	return accepted("token placed at %v", event.ProcessName(id))
}

// Pass the token.
//
// Without a destination this is one ring step. With a destination the token moves there directly.
// If from is set it must be the current holder.
func (tr *tokenRing) pass(m *Model, from, to int) Result {
	if tr.lost {
		return rejected(ReasonTokenLost, "cannot pass: token lost")
	}
	if from != 0 && from != tr.holder {
		return rejected(ReasonNotHolder, "cannot pass: %v does not hold the token", event.ProcessName(from))
	}
	if to == 0 {
		return tr.step(m)
	}
	p, res := m.lookup(to)
	if !res.OK {
		return res
	}
	if p.Crashed {
		return rejected(ReasonCrashed, "cannot pass token to %v: crashed", event.ProcessName(to))
	}
	if m.byId[tr.holder].InCS {
		return rejected(ReasonCSOccupied, "cannot pass: %v is in the CS", event.ProcessName(tr.holder))
	}
	prev := tr.holder
	tr.holder = to
	if prev != to {
		m.metrics.TokenPasses++
	}
	return accepted("token passed %v -> %v", event.ProcessName(prev), event.ProcessName(to))
}

func (tr *tokenRing) enabled(m *Model) []event.Event {
	if tr.lost {
		if _, ok := nextAlive(m, 0); ok {
			return []event.Event{{Op: event.OpRegenerateToken}}
		}
		return []event.Event{}
	}
	events := []event.Event{{Op: event.OpDropToken}}
	if len(m.csHolders()) == 0 {
		events = append(events, event.Event{Op: event.OpPassToken})
	}
	return events
}
