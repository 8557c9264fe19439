package engine

import "fmt"

// Why an action was rejected or a step stalled
type Reason int

const (
	ReasonNone Reason = iota
	ReasonUnknownProcess
	ReasonCrashed
	ReasonNotCrashed
	ReasonAlreadyInCS
	ReasonAlreadyRequesting
	ReasonNotInCS
	ReasonWrongMode
	ReasonUnsupported
	ReasonTokenLost
	ReasonTokenPresent
	ReasonNotHolder
	ReasonCSOccupied
	ReasonHolderCrashedInCS
	ReasonNoAliveProcesses
	ReasonQueueEmpty
	ReasonWaitingReplies
	ReasonNoScript
	ReasonScriptFinished
	ReasonInvalidEvent
)

var reasonNames = [...]string{
	ReasonNone:              "",
	ReasonUnknownProcess:    "unknown-process",
	ReasonCrashed:           "crashed",
	ReasonNotCrashed:        "not-crashed",
	ReasonAlreadyInCS:       "already-in-cs",
	ReasonAlreadyRequesting: "already-requesting",
	ReasonNotInCS:           "not-in-cs",
	ReasonWrongMode:         "wrong-mode",
	ReasonUnsupported:       "unsupported",
	ReasonTokenLost:         "token-lost",
	ReasonTokenPresent:      "token-present",
	ReasonNotHolder:         "not-holder",
	ReasonCSOccupied:        "cs-occupied",
	ReasonHolderCrashedInCS: "holder-crashed-in-cs",
	ReasonNoAliveProcesses:  "no-alive-processes",
	ReasonQueueEmpty:        "queue-empty",
	ReasonWaitingReplies:    "waiting-replies",
	ReasonNoScript:          "no-script",
	ReasonScriptFinished:    "script-finished",
	ReasonInvalidEvent:      "invalid-event",
}

func (r Reason) String() string {
	if int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// The outcome of an action or a step.
//
// If OK is false the processes, the shared resource and the metrics are unchanged and Reason tells why.
// The rejection is still written to the trace log as a warning, a rejected step still advances the tick
// and a skipped script event still advances the script.
// Text is a human readable description that is also written to the trace log.
type Result struct {
	OK     bool
	Reason Reason
	Text   string
}

func (r Result) String() string {
	if r.OK {
		return r.Text
	}
	return fmt.Sprintf("%v (%v)", r.Text, r.Reason)
}

func accepted(format string, args ...any) Result {
	return Result{OK: true, Text: fmt.Sprintf(format, args...)}
}

func rejected(reason Reason, format string, args ...any) Result {
	return Result{Reason: reason, Text: fmt.Sprintf(format, args...)}
}
