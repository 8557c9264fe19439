package document

import (
	"fmt"

	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/event"
)

// The exported state of a model
type Snapshot struct {
	DocKind   string    `json:"kind"`
	Algorithm string    `json:"algorithm"`
	Mode      string    `json:"mode"`
	Processes []Process `json:"processes"`
	Ring      []string  `json:"ring"`
	Resource  Resource  `json:"resource"`
	Derived   Derived   `json:"derived"`
}

type Process struct {
	ID         string `json:"id"`
	Requesting bool   `json:"requesting"`
	InCS       bool   `json:"inCS"`
	Crashed    bool   `json:"crashed"`

	// Ricart-Agrawala only
	Clock    *int     `json:"clock,omitempty"`
	ReqTs    *int     `json:"reqTs,omitempty"`
	Awaiting []string `json:"awaiting,omitempty"`
	Deferred []string `json:"deferred,omitempty"`
}

// The shared resource of the algorithm. Exactly one of the fields is set.
type Resource struct {
	Token   *Token   `json:"token,omitempty"`
	Network *Network `json:"network,omitempty"`
}

type Token struct {
	// Nil if no process has ever held the token
	Holder *string `json:"holder"`
	Lost   bool    `json:"lost"`
}

type Network struct {
	NextMessageID int       `json:"nextMessageId"`
	DropNextSend  bool      `json:"dropNextSend"`
	Queue         []Message `json:"queue"`
}

type Message struct {
	ID        int    `json:"id"`
	Kind      string `json:"kind"`
	From      string `json:"from"`
	To        string `json:"to"`
	Timestamp int    `json:"timestamp"`
}

// Values derived from the state. They are ignored when a snapshot is loaded, except for the metrics.
type Derived struct {
	// The process in the critical section, nil if there is none.
	// If several processes are in the critical section this is the first of them.
	InCS    *string `json:"inCS"`
	Safe    bool    `json:"safe"`
	Metrics Metrics `json:"metrics"`
}

type Metrics struct {
	CSEntries         int `json:"csEntries"`
	Releases          int `json:"releases"`
	TokenPasses       int `json:"tokenPasses"`
	MessagesSent      int `json:"messagesSent"`
	MessagesDelivered int `json:"messagesDelivered"`
	MessagesDropped   int `json:"messagesDropped"`
}

func (s *Snapshot) Kind() string {
	return KindState
}

// Validate the snapshot.
//
// Checks that all required fields are present, that all process references resolve,
// that the ring is a permutation of the processes and that the resource matches the algorithm.
func (s *Snapshot) Validate() error {
	if s.DocKind != KindState {
		return fmt.Errorf("%w: %q", ErrUnsupportedKind, s.DocKind)
	}
	if err := validateAlgorithm(s.Algorithm); err != nil {
		return err
	}
	switch s.Mode {
	case "", ModeInteractive, ModeScript:
	default:
		return fmt.Errorf("%w: mode %q", ErrInvalidField, s.Mode)
	}
	if len(s.Processes) == 0 {
		return fmt.Errorf("%w: processes", ErrMissingField)
	}

	ids := make([]string, 0, len(s.Processes))
	for _, p := range s.Processes {
		ids = append(ids, p.ID)
	}
	known, err := processSet(ids)
	if err != nil {
		return err
	}
	if s.Ring != nil {
		if err := validateRing(s.Ring, known); err != nil {
			return err
		}
	}

	for _, p := range s.Processes {
		for _, peer := range append(append([]string{}, p.Awaiting...), p.Deferred...) {
			if !known[peer] || peer == p.ID {
				return fmt.Errorf("%w: process %v references peer %q", ErrInvalidField, p.ID, peer)
			}
		}
		if p.Clock != nil && *p.Clock < 0 {
			return fmt.Errorf("%w: process %v has a negative clock", ErrInvalidField, p.ID)
		}
		if p.ReqTs != nil && *p.ReqTs < 1 {
			return fmt.Errorf("%w: process %v has request timestamp %v", ErrInvalidField, p.ID, *p.ReqTs)
		}
	}

	switch s.Algorithm {
	case AlgorithmTokenRing:
		if s.Resource.Token == nil {
			return fmt.Errorf("%w: resource.token", ErrMissingField)
		}
		if s.Resource.Network != nil {
			return fmt.Errorf("%w: resource.network is not used by %v", ErrInvalidField, s.Algorithm)
		}
		if h := s.Resource.Token.Holder; h != nil && !known[*h] {
			return fmt.Errorf("%w: token holder %q", ErrInvalidField, *h)
		}
	case AlgorithmRA:
		if s.Resource.Network == nil {
			return fmt.Errorf("%w: resource.network", ErrMissingField)
		}
		if s.Resource.Token != nil {
			return fmt.Errorf("%w: resource.token is not used by %v", ErrInvalidField, s.Algorithm)
		}
		return validateNetwork(s.Resource.Network, known)
	}
	return nil
}

func validateNetwork(n *Network, known map[string]bool) error {
	seen := map[int]bool{}
	for _, msg := range n.Queue {
		if msg.Kind != MessageRequest && msg.Kind != MessageReply {
			return fmt.Errorf("%w: message %v has kind %q", ErrInvalidField, msg.ID, msg.Kind)
		}
		if !known[msg.From] || !known[msg.To] {
			return fmt.Errorf("%w: message %v references unknown process", ErrInvalidField, msg.ID)
		}
		if seen[msg.ID] {
			return fmt.Errorf("%w: duplicate message id %v", ErrInvalidField, msg.ID)
		}
		if msg.ID >= n.NextMessageID {
			return fmt.Errorf("%w: message id %v is not below nextMessageId %v", ErrInvalidField, msg.ID, n.NextMessageID)
		}
		seen[msg.ID] = true
	}
	return nil
}

// Parse a list of process names and check that they are unique
func processSet(names []string) (map[string]bool, error) {
	known := make(map[string]bool, len(names))
	for _, name := range names {
		if _, err := event.ParseProcessName(name); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidField, err)
		}
		if known[name] {
			return nil, fmt.Errorf("%w: duplicate process %q", ErrInvalidField, name)
		}
		known[name] = true
	}
	return known, nil
}

func validateRing(ring []string, known map[string]bool) error {
	if len(ring) != len(known) {
		return fmt.Errorf("%w: ring must list every process exactly once", ErrInvalidField)
	}
	seen := map[string]bool{}
	for _, id := range ring {
		if !known[id] || seen[id] {
			return fmt.Errorf("%w: ring must list every process exactly once", ErrInvalidField)
		}
		seen[id] = true
	}
	return nil
}
