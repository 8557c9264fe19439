package engine

import (
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/event"
)

// Crash a process in a fail-stop manner.
//
// The process stops requesting. A process that crashes inside the critical section stays there
// until it recovers. The algorithm decides what happens to the shared resource.
func (m *Model) crash(id int) Result {
	p, res := m.lookup(id)
	if !res.OK {
		return res
	}
	if p.Crashed {
		return rejected(ReasonCrashed, "%v has already crashed", event.ProcessName(id))
	}
	wasInCS := p.InCS
	p.Crashed = true
	p.Requesting = false
	m.proto.crashed(m, p, wasInCS)
	if wasInCS {
		return accepted("%v crashed inside the CS", event.ProcessName(id))
	}
	return accepted("%v crashed", event.ProcessName(id))
}

// Recover a crashed process.
//
// A process that crashed inside the critical section is forced out of it.
// Recovery never resumes a request made before the crash.
func (m *Model) recover(id int) Result {
	p, res := m.lookup(id)
	if !res.OK {
		return res
	}
	if !p.Crashed {
		return rejected(ReasonNotCrashed, "%v has not crashed", event.ProcessName(id))
	}
	p.Crashed = false
	forced := p.InCS
	p.InCS = false
	m.proto.recovered(m, p)
	if forced {
		return accepted("%v recovered and was forced out of the CS", event.ProcessName(id))
	}
	return accepted("%v recovered", event.ProcessName(id))
}

func (m *Model) dropToken() Result {
	tr, ok := m.proto.(*tokenRing)
	if !ok {
		return rejected(ReasonUnsupported, "dropToken is not supported by %v", m.Algorithm())
	}
	if tr.lost {
		return rejected(ReasonTokenLost, "token is already lost")
	}
	tr.lost = true
	return accepted("token lost at %v", event.ProcessName(tr.holder))
}

func (m *Model) regenerateToken() Result {
	tr, ok := m.proto.(*tokenRing)
	if !ok {
		return rejected(ReasonUnsupported, "regenerate is not supported by %v", m.Algorithm())
	}
	return tr.regenerate(m)
}

func (m *Model) toggleDropNextSend() Result {
	ra, ok := m.proto.(*ricartAgrawala)
	if !ok {
		return rejected(ReasonUnsupported, "dropNextSend is not supported by %v", m.Algorithm())
	}
	ra.net.dropNextSend = !ra.net.dropNextSend
	if ra.net.dropNextSend {
		return accepted("next send will be dropped")
	}
	return accepted("drop of next send disarmed")
}

func (m *Model) dropNextMessage() Result {
	ra, ok := m.proto.(*ricartAgrawala)
	if !ok {
		return rejected(ReasonUnsupported, "dropMessage is not supported by %v", m.Algorithm())
	}
	msg, ok := ra.net.pop()
	if !ok {
		return rejected(ReasonQueueEmpty, "no message in flight")
	}
	m.metrics.MessagesDropped++
	return accepted("message %v lost in flight", msg)
}
