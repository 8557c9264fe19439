package engine

import (
	"fmt"
	"strings"

	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/event"
)

// The result of a safety check
type SafetyReport struct {
	// True if at most one process is in the critical section
	OK bool
	// The processes in the critical section, ordered by id
	Holders []int
}

func (r SafetyReport) String() string {
	if r.OK {
		return "mutual exclusion holds"
	}
	names := make([]string, 0, len(r.Holders))
	for _, id := range r.Holders {
		names = append(names, event.ProcessName(id))
	}
	return fmt.Sprintf("mutual exclusion violated: %v are in the CS", strings.Join(names, ","))
}

// Check that at most one process is in the critical section.
//
// Crashed processes that are stuck in the critical section count. The check never changes the model.
func (m *Model) CheckSafety() SafetyReport {
	holders := []int{}
	for _, p := range m.processes {
		if p.InCS {
			holders = append(holders, p.ID)
		}
	}
	return SafetyReport{
		OK:      len(holders) <= 1,
		Holders: holders,
	}
}
