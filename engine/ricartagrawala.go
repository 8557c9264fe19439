package engine

import (
	"strings"

	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/event"
)

// Permission based mutual exclusion.
//
// A requester broadcasts a timestamped REQUEST to every other alive process and enters the critical
// section once all of them have replied. A process defers its reply while it is in the critical section
// or while its own pending request has priority, and sends the deferred replies when it releases.
type ricartAgrawala struct {
	net *network
}

func newRicartAgrawala() *ricartAgrawala {
	return &ricartAgrawala{net: newNetwork()}
}

func (ra *ricartAgrawala) algorithm() Algorithm {
	return RicartAgrawala
}

func (ra *ricartAgrawala) clone() protocol {
	return &ricartAgrawala{net: ra.net.clone()}
}

// Send a message. Sender-side loss is counted as both sent and dropped.
func (ra *ricartAgrawala) send(m *Model, kind MessageKind, from, to, ts int) {
	m.metrics.MessagesSent++
	msg, queued := ra.net.send(kind, from, to, ts)
	if !queued {
		m.metrics.MessagesDropped++
		m.warn("message %v lost on send", msg)
	}
}

func (ra *ricartAgrawala) request(m *Model, p *Process) Result {
	p.Clock++
	p.ReqTs = p.Clock
	p.Requesting = true
	p.awaiting = make(map[int]bool)
	p.deferred = make(map[int]bool)

	peers := []string{}
	for _, q := range m.processes {
		if q.ID == p.ID || q.Crashed {
			continue
		}
		p.awaiting[q.ID] = true
		peers = append(peers, event.ProcessName(q.ID))
	}
	name := event.ProcessName(p.ID)
	if len(p.awaiting) == 0 {
		m.grant(p)
		return accepted("%v requests the CS at ts=%v and enters: no alive peer", name, p.ReqTs)
	}
	for _, q := range m.processes {
		if p.awaiting[q.ID] {
			ra.send(m, RequestMessage, p.ID, q.ID, p.ReqTs)
		}
	}
	return accepted("%v requests the CS at ts=%v, waiting for %v", name, p.ReqTs, strings.Join(peers, ","))
}

// Leave the critical section and answer every deferred request of a process that is still alive.
// Each reply is a local event and advances the clock of the sender.
func (ra *ricartAgrawala) release(m *Model, p *Process) Result {
	p.InCS = false
	p.Requesting = false
	m.metrics.Releases++
	replied := 0
	for _, id := range p.Deferred() {
		if q, ok := m.byId[id]; !ok || q.Crashed {
			continue
		}
		p.Clock++
		ra.send(m, ReplyMessage, p.ID, id, p.Clock)
		replied++
	}
	p.clearRequest()
	if replied == 0 {
		return accepted("%v leaves the CS", event.ProcessName(p.ID))
	}
	return accepted("%v leaves the CS and replies to %v deferred requests", event.ProcessName(p.ID), replied)
}

// Deliver the next message. With nothing in flight the step stalls and the reason tells what blocks
// progress: a process in the critical section, or the earliest request that still misses replies.
func (ra *ricartAgrawala) step(m *Model) Result {
	if len(ra.net.queue) > 0 {
		return ra.deliver(m)
	}
	if holders := m.csHolders(); len(holders) > 0 {
		h := holders[0]
		if h.Crashed {
			return rejected(ReasonHolderCrashedInCS, "stalled: %v crashed inside the CS", event.ProcessName(h.ID))
		}
		return rejected(ReasonCSOccupied, "stalled: %v is in the CS, release required", event.ProcessName(h.ID))
	}
	var waiter *Process
	for _, p := range m.processes {
		if !p.Requesting || p.Crashed || len(p.awaiting) == 0 {
			continue
		}
		if waiter == nil || hasPriority(p.ReqTs, p.ID, waiter.ReqTs, waiter.ID) {
			waiter = p
		}
	}
	if waiter != nil {
		missing := []string{}
		for _, id := range waiter.Awaiting() {
			missing = append(missing, event.ProcessName(id))
		}
		return rejected(ReasonWaitingReplies, "stalled: %v is waiting for REPLY from %v",
			event.ProcessName(waiter.ID), strings.Join(missing, ","))
	}
	return rejected(ReasonQueueEmpty, "no message in flight")
}

// Deliver the message at the head of the queue.
//
// A message to a crashed process is dropped. Otherwise the receiver advances its clock past the timestamp
// of the message and handles it.
func (ra *ricartAgrawala) deliver(m *Model) Result {
	msg, ok := ra.net.pop()
	if !ok {
		return rejected(ReasonQueueEmpty, "no message in flight")
	}
	recv, known := m.byId[msg.To]
	if !known || recv.Crashed {
		m.metrics.MessagesDropped++
		return accepted("message %v dropped: %v has crashed", msg, event.ProcessName(msg.To))
	}
	m.metrics.MessagesDelivered++
	recv.Clock = max(recv.Clock, msg.Timestamp) + 1

	if msg.Kind == RequestMessage {
		return ra.onRequest(m, recv, msg)
	}
	return ra.onReply(m, recv, msg)
}

// Reply unless the receiver is in the critical section or its own request has priority
func (ra *ricartAgrawala) onRequest(m *Model, recv *Process, msg Message) Result {
	name := event.ProcessName(recv.ID)
	if recv.InCS {
		recv.deferred[msg.From] = true
		return accepted("%v delivered, %v defers the reply: in CS", msg, name)
	}
	if recv.Requesting && hasPriority(recv.ReqTs, recv.ID, msg.Timestamp, msg.From) {
		recv.deferred[msg.From] = true
		return accepted("%v delivered, %v defers the reply: own request ts=%v has priority", msg, name, recv.ReqTs)
	}
	recv.Clock++
	ra.send(m, ReplyMessage, recv.ID, msg.From, recv.Clock)
	return accepted("%v delivered, %v replies at ts=%v", msg, name, recv.Clock)
}

func (ra *ricartAgrawala) onReply(m *Model, recv *Process, msg Message) Result {
	name := event.ProcessName(recv.ID)
	if !recv.Requesting || !recv.awaiting[msg.From] {
		return accepted("%v delivered, stale reply ignored by %v", msg, name)
	}
	delete(recv.awaiting, msg.From)
	if len(recv.awaiting) == 0 {
		m.grant(recv)
		return accepted("%v delivered, %v has all replies and enters the CS", msg, name)
	}
	return accepted("%v delivered, %v still waits for %v replies", msg, name, len(recv.awaiting))
}

// A crashed process forgets its request. Replies it owed are never sent.
func (ra *ricartAgrawala) crashed(m *Model, p *Process, wasInCS bool) {
	p.clearRequest()
}

func (ra *ricartAgrawala) recovered(m *Model, p *Process) {
	p.clearRequest()
}

func (ra *ricartAgrawala) supports(op event.Op) bool {
	switch op {
	case event.OpDeliver, event.OpDropMessage, event.OpDropNextSend:
		return true
	}
	return false
}

func (ra *ricartAgrawala) apply(m *Model, evt event.Event) Result {
	switch evt.Op {
	case event.OpDeliver:
		return ra.deliver(m)
	case event.OpDropMessage:
		return m.dropNextMessage()
	case event.OpDropNextSend:
		return m.toggleDropNextSend()
	}
	return rejected(ReasonUnsupported, "%v is not supported by %v", evt.Op, RicartAgrawala)
}

func (ra *ricartAgrawala) enabled(m *Model) []event.Event {
	events := []event.Event{}
	if len(ra.net.queue) > 0 {
		events = append(events, event.Event{Op: event.OpDeliver}, event.Event{Op: event.OpDropMessage})
	}
	if !ra.net.dropNextSend {
		events = append(events, event.Event{Op: event.OpDropNextSend})
	}
	return events
}
