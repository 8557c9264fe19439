// Package session serialises access to a single model so that it can be shared by the transports.
package session

import (
	"sync"

	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/document"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/engine"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/event"
	"github.com/rs/xid"
)

// A Session owns one model. All methods are safe to call from multiple goroutines.
type Session struct {
	sync.Mutex

	id    xid.ID
	model *engine.Model

	// Options applied to every model created by Load and Reset
	opts []engine.ModelOption
}

// Create a session around a model.
//
// opts are used when the model is replaced by Load or Reset, e.g. to keep the trace sink.
func New(m *engine.Model, opts ...engine.ModelOption) *Session {
	return &Session{
		id:    xid.New(),
		model: m,
		opts:  opts,
	}
}

func (s *Session) ID() string {
	return s.id.String()
}

// Replace the model with the one described by the JSON document.
//
// The model is only replaced if the document is accepted.
func (s *Session) Load(raw []byte) error {
	doc, err := document.Parse(raw)
	if err != nil {
		return err
	}
	return s.LoadDocument(doc)
}

func (s *Session) LoadDocument(doc document.Document) error {
	m, err := engine.Load(doc, s.opts...)
	if err != nil {
		return err
	}
	s.Lock()
	defer s.Unlock()
	s.model = m
	return nil
}

// Replace the model with a fresh one
func (s *Session) Reset(alg engine.Algorithm, n int) error {
	m, err := engine.New(alg, n, s.opts...)
	if err != nil {
		return err
	}
	s.Lock()
	defer s.Unlock()
	s.model = m
	return nil
}

func (s *Session) Apply(evt event.Event) engine.Result {
	s.Lock()
	defer s.Unlock()
	return s.model.Apply(evt)
}

func (s *Session) ApplyRaw(raw document.Event) engine.Result {
	s.Lock()
	defer s.Unlock()
	return s.model.ApplyRaw(raw)
}

func (s *Session) Step() engine.Result {
	s.Lock()
	defer s.Unlock()
	return s.model.Step()
}

func (s *Session) SetMode(mode engine.Mode) engine.Result {
	s.Lock()
	defer s.Unlock()
	return s.model.SetMode(mode)
}

func (s *Session) Snapshot() *document.Snapshot {
	s.Lock()
	defer s.Unlock()
	return s.model.Snapshot()
}

func (s *Session) Trace() []engine.TraceEntry {
	s.Lock()
	defer s.Unlock()
	return s.model.Trace()
}

func (s *Session) Safety() engine.SafetyReport {
	s.Lock()
	defer s.Unlock()
	return s.model.CheckSafety()
}

func (s *Session) EnabledEvents() []event.Event {
	s.Lock()
	defer s.Unlock()
	return s.model.EnabledEvents()
}

// A copy of the model that the caller owns
func (s *Session) Model() *engine.Model {
	s.Lock()
	defer s.Unlock()
	return s.model.Clone()
}
