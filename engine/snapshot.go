package engine

import (
	"fmt"

	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/document"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/event"
)

// Export the state of the model as a snapshot document.
//
// Loading the snapshot gives a model with the same processes, ring, resource state and metrics.
// The trace log and the script are not part of the snapshot.
func (m *Model) Snapshot() *document.Snapshot {
	snap := &document.Snapshot{
		DocKind:   document.KindState,
		Algorithm: m.Algorithm().String(),
		Mode:      m.mode.String(),
		Processes: make([]document.Process, 0, len(m.processes)),
		Ring:      names(m.ring),
	}

	for _, p := range m.processes {
		dp := document.Process{
			ID:         event.ProcessName(p.ID),
			Requesting: p.Requesting,
			InCS:       p.InCS,
			Crashed:    p.Crashed,
		}
		if m.Algorithm() == RicartAgrawala {
			clock := p.Clock
			dp.Clock = &clock
			if p.ReqTs != 0 {
				reqTs := p.ReqTs
				dp.ReqTs = &reqTs
			}
			dp.Awaiting = names(p.Awaiting())
			dp.Deferred = names(p.Deferred())
		}
		snap.Processes = append(snap.Processes, dp)
	}

	switch proto := m.proto.(type) {
	case *tokenRing:
		token := &document.Token{Lost: proto.lost}
		if proto.holder != 0 {
			holder := event.ProcessName(proto.holder)
			token.Holder = &holder
		}
		snap.Resource.Token = token
	case *ricartAgrawala:
		queue := make([]document.Message, 0, len(proto.net.queue))
		for _, msg := range proto.net.queue {
			queue = append(queue, document.Message{
				ID:        msg.ID,
				Kind:      msg.Kind.String(),
				From:      event.ProcessName(msg.From),
				To:        event.ProcessName(msg.To),
				Timestamp: msg.Timestamp,
			})
		}
		snap.Resource.Network = &document.Network{
			NextMessageID: proto.net.nextMessageID,
			DropNextSend:  proto.net.dropNextSend,
			Queue:         queue,
		}
	}

	safety := m.CheckSafety()
	if len(safety.Holders) > 0 {
		holder := event.ProcessName(safety.Holders[0])
		snap.Derived.InCS = &holder
	}
	snap.Derived.Safe = safety.OK
	snap.Derived.Metrics = document.Metrics{
		CSEntries:         m.metrics.CSEntries,
		Releases:          m.metrics.Releases,
		TokenPasses:       m.metrics.TokenPasses,
		MessagesSent:      m.metrics.MessagesSent,
		MessagesDelivered: m.metrics.MessagesDelivered,
		MessagesDropped:   m.metrics.MessagesDropped,
	}
	return snap
}

// Create a model from a document.
//
// A snapshot document restores the exported state. A script document creates a fresh model in script mode
// with the script loaded. The document is validated first. Returns an error and no model if it is rejected.
func Load(doc document.Document, opts ...ModelOption) (*Model, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: no document", document.ErrMissingField)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	switch d := doc.(type) {
	case *document.Snapshot:
		return loadSnapshot(d, opts...)
	case *document.Script:
		return loadScript(d, opts...)
	}
	return nil, fmt.Errorf("%w: %q", document.ErrUnsupportedKind, doc.Kind())
}

func loadScript(doc *document.Script, opts ...ModelOption) (*Model, error) {
	alg, err := ParseAlgorithm(doc.Algorithm)
	if err != nil {
		return nil, err
	}
	ids, err := parseNames(doc.Processes)
	if err != nil {
		return nil, err
	}
	if len(doc.Ring) > 0 {
		ring, err := parseNames(doc.Ring)
		if err != nil {
			return nil, err
		}
		opts = append(opts, RingOption{Order: ring})
	}
	m, err := newModel(alg, ids, opts...)
	if err != nil {
		return nil, err
	}
	m.script = newScript(doc, m.proto)
	m.mode = Script
	m.info("script loaded: %v events", len(m.script.entries))
	return m, nil
}

func loadSnapshot(doc *document.Snapshot, opts ...ModelOption) (*Model, error) {
	alg, err := ParseAlgorithm(doc.Algorithm)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(doc.Processes))
	for _, dp := range doc.Processes {
		id, err := event.ParseProcessName(dp.ID)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if len(doc.Ring) > 0 {
		ring, err := parseNames(doc.Ring)
		if err != nil {
			return nil, err
		}
		opts = append(opts, RingOption{Order: ring})
	}
	if alg == TokenRing && doc.Resource.Token.Holder != nil {
		holder, err := event.ParseProcessName(*doc.Resource.Token.Holder)
		if err != nil {
			return nil, err
		}
		opts = append(opts, InitialHolderOption{ID: holder})
	}

	m, err := newModel(alg, ids, opts...)
	if err != nil {
		return nil, err
	}

	for i, dp := range doc.Processes {
		p := m.byId[ids[i]]
		p.Requesting = dp.Requesting
		p.InCS = dp.InCS
		p.Crashed = dp.Crashed
		if dp.Clock != nil {
			p.Clock = *dp.Clock
		}
		if dp.ReqTs != nil {
			p.ReqTs = *dp.ReqTs
		}
		for _, list := range []struct {
			names []string
			set   map[int]bool
		}{{dp.Awaiting, p.awaiting}, {dp.Deferred, p.deferred}} {
			peers, err := parseNames(list.names)
			if err != nil {
				return nil, err
			}
			for _, id := range peers {
				list.set[id] = true
			}
		}
	}

	switch proto := m.proto.(type) {
	case *tokenRing:
		proto.lost = doc.Resource.Token.Lost || doc.Resource.Token.Holder == nil
		if doc.Resource.Token.Holder == nil {
			proto.holder = 0
		} else if !proto.lost && m.byId[proto.holder].Crashed {
			// A crashed process cannot hold a live token
			proto.lost = true
			m.warn("token lost: holder %v has crashed", event.ProcessName(proto.holder))
		}
	case *ricartAgrawala:
		n := doc.Resource.Network
		proto.net.nextMessageID = n.NextMessageID
		proto.net.dropNextSend = n.DropNextSend
		for _, dm := range n.Queue {
			from, _ := event.ParseProcessName(dm.From)
			to, _ := event.ParseProcessName(dm.To)
			kind := RequestMessage
			if dm.Kind == document.MessageReply {
				kind = ReplyMessage
			}
			proto.net.queue = append(proto.net.queue, Message{
				ID:        dm.ID,
				Kind:      kind,
				From:      from,
				To:        to,
				Timestamp: dm.Timestamp,
			})
		}
		if proto.net.nextMessageID < 1 {
			proto.net.nextMessageID = 1
		}
	}

	if doc.Mode == document.ModeScript {
		m.mode = Script
	}
	dm := doc.Derived.Metrics
	m.metrics = Metrics{
		CSEntries:         dm.CSEntries,
		Releases:          dm.Releases,
		TokenPasses:       dm.TokenPasses,
		MessagesSent:      dm.MessagesSent,
		MessagesDelivered: dm.MessagesDelivered,
		MessagesDropped:   dm.MessagesDropped,
	}
	m.info("snapshot loaded: %v processes", len(m.processes))
	return m, nil
}

func names(ids []int) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, event.ProcessName(id))
	}
	return out
}

func parseNames(list []string) ([]int, error) {
	ids := make([]int, 0, len(list))
	for _, name := range list {
		id, err := event.ParseProcessName(name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
