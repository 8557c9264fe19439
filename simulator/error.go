package simulator

import (
	"fmt"

	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/checking"
)

// The errors of all failed runs when errors are ignored
type simulationError struct {
	errorSlice []error
}

func (se simulationError) Error() string {
	return fmt.Sprintf("Simulator: %v runs failed. First error: %v", len(se.errorSlice), se.errorSlice[0])
}

func (se simulationError) Unwrap() []error {
	return se.errorSlice
}

// Sent by a runSimulator on the status channel when a run breaks a predicate
type violation struct {
	resp checking.CheckerResponse
}

func (v violation) Error() string {
	_, desc := v.resp.Response()
	return fmt.Sprintf("Simulator: %v", desc)
}
