package event

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// An operation that can be applied to a model.
//
// The set of operations is closed. Which of them a model accepts depends on the algorithm it runs.
type Op int

const (
	// No operation. Used for events that could not be decoded.
	OpInvalid Op = iota

	// Operations shared by both algorithms
	OpRequest
	OpRelease
	OpCrash
	OpRecover

	// Token Ring operations
	OpPlaceToken
	OpPassToken
	OpDropToken
	OpRegenerateToken

	// Ricart-Agrawala operations
	OpDeliver
	OpDropMessage
	OpDropNextSend
)

var opNames = map[Op]string{
	OpRequest:         "request",
	OpRelease:         "release",
	OpCrash:           "crash",
	OpRecover:         "recover",
	OpPlaceToken:      "place",
	OpPassToken:       "pass",
	OpDropToken:       "dropToken",
	OpRegenerateToken: "regenerate",
	OpDeliver:         "deliver",
	OpDropMessage:     "dropMessage",
	OpDropNextSend:    "dropNextSend",
}

// Other names accepted when parsing. Older scripts use the names of the actions.
var opAliases = map[string]Op{
	"requestCS":          OpRequest,
	"releaseCS":          OpRelease,
	"holdToken":          OpPlaceToken,
	"passToken":          OpPassToken,
	"regenerateToken":    OpRegenerateToken,
	"deliverNext":        OpDeliver,
	"dropNextMessage":    OpDropMessage,
	"toggleDropNextSend": OpDropNextSend,
}

var ErrUnknownOp = errors.New("event: unknown operation")

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "invalid"
}

// Parse the wire name of an operation. Aliases such as "requestCS" or "passToken" are accepted too.
//
// Returns ErrUnknownOp if the name does not match any operation.
func ParseOp(name string) (Op, error) {
	for op, n := range opNames {
		if n == name {
			return op, nil
		}
	}
	if op, ok := opAliases[name]; ok {
		return op, nil
	}
	return OpInvalid, fmt.Errorf("%w: %q", ErrUnknownOp, name)
}

// True if the operation acts on a single process and needs the On field.
func (o Op) NeedsTarget() bool {
	switch o {
	case OpRequest, OpRelease, OpCrash, OpRecover, OpPlaceToken:
		return true
	}
	return false
}

// An event represents one operation applied to the model.
//
// Events are used by scripts, by the explorer and by the transports.
// Process ids are positive. A zero id means the field is not set.
type Event struct {
	// Logical time of the event. Scripts are ordered by it.
	T float64

	Op Op

	// The process the operation acts on
	On int

	// Source and destination of an explicit token pass
	From int
	To   int
}

// An id that identifies the event.
// Two events with the same operation and payload have the same id regardless of their logical time.
type EventId string

func (e Event) Id() EventId {
	return EventId(fmt.Sprintf("%v:%v:%v:%v", e.Op, e.On, e.From, e.To))
}

// The id of the process whose state is changed by the event.
// Returns 0 if the event does not target a single process.
func (e Event) Target() int {
	if e.On != 0 {
		return e.On
	}
	return e.To
}

func (e Event) String() string {
	out := strings.Builder{}
	out.WriteString(e.Op.String())
	if e.On != 0 {
		fmt.Fprintf(&out, " %v", ProcessName(e.On))
	}
	if e.From != 0 {
		fmt.Fprintf(&out, " from %v", ProcessName(e.From))
	}
	if e.To != 0 {
		fmt.Fprintf(&out, " to %v", ProcessName(e.To))
	}
	return out.String()
}

// Compares two events by id
func EventsEquals(a, b Event) bool {
	return a.Id() == b.Id()
}

var ErrInvalidProcessName = errors.New("event: invalid process name")

// The external name of a process, e.g. "P3"
func ProcessName(id int) string {
	return "P" + strconv.Itoa(id)
}

// Parse an external process name of the form "P<n>" with n >= 1.
func ParseProcessName(name string) (int, error) {
	if len(name) < 2 || (name[0] != 'P' && name[0] != 'p') {
		return 0, fmt.Errorf("%w: %q", ErrInvalidProcessName, name)
	}
	id, err := strconv.Atoi(name[1:])
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidProcessName, name)
	}
	return id, nil
}
