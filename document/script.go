package document

import (
	"fmt"
)

// A replayable sequence of operations
type Script struct {
	DocKind     string   `json:"kind"`
	Algorithm   string   `json:"algorithm"`
	Processes   []string `json:"processes"`
	Ring        []string `json:"ring,omitempty"`
	Description string   `json:"description"`
	Events      []Event  `json:"events"`
}

// One operation of a script.
//
// Events are not validated against the operation vocabulary when the document is parsed.
// A malformed event is reported when the script reaches it.
type Event struct {
	T    float64 `json:"t"`
	Op   string  `json:"op"`
	On   string  `json:"on,omitempty"`
	From string  `json:"from,omitempty"`
	To   string  `json:"to,omitempty"`
}

func (s *Script) Kind() string {
	return KindDemo
}

// Validate the script header.
//
// The processes must be present and unique, the ring if present must be a permutation of the processes
// and the events field must be present.
func (s *Script) Validate() error {
	if s.DocKind != KindDemo {
		return fmt.Errorf("%w: %q", ErrUnsupportedKind, s.DocKind)
	}
	if err := validateAlgorithm(s.Algorithm); err != nil {
		return err
	}
	if len(s.Processes) == 0 {
		return fmt.Errorf("%w: processes", ErrMissingField)
	}
	known, err := processSet(s.Processes)
	if err != nil {
		return err
	}
	if len(s.Ring) > 0 {
		if err := validateRing(s.Ring, known); err != nil {
			return err
		}
	}
	if s.Events == nil {
		return fmt.Errorf("%w: events", ErrMissingField)
	}
	return nil
}
