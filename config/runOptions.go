package config

import (
	"io"

	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/failureManager"
)

// Configures the Failure Manager that will be used during the simulation

// The Failure Manager controls which processes may crash during a run and whether they may recover.
// Default value is no process crashes.
type FailureManagerOption struct {
	Fm failureManager.FailureManager
}

func (fmo FailureManagerOption) SimOpt() {}

// Let the explorer schedule omission faults: dropping the token, dropping a queued message and arming a send drop.
//
// Default value is no omission faults. Regenerating a lost token is always possible.
type OmissionFaultsOption struct{}

func (ofo OmissionFaultsOption) SimOpt() {}

// Configures io.writers that the discovered state will be exported to

// Can be applied multiple times to add multiple io.writers.
// Default value is no writers.
type ExportOption struct {
	W io.Writer
}

func (eo ExportOption) SimOpt() {}
