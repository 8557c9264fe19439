package engine

import (
	"errors"
	"fmt"

	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/document"
)

// The mutual exclusion algorithm simulated by a model
type Algorithm int

const (
	TokenRing Algorithm = iota + 1
	RicartAgrawala
)

var ErrUnsupportedAlgorithm = errors.New("engine: unsupported algorithm")

func (a Algorithm) String() string {
	switch a {
	case TokenRing:
		return document.AlgorithmTokenRing
	case RicartAgrawala:
		return document.AlgorithmRA
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// Parse the document name of an algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case document.AlgorithmTokenRing:
		return TokenRing, nil
	case document.AlgorithmRA, "RicartAgrawala":
		return RicartAgrawala, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
}

// Where the input of a model comes from.
//
// In interactive mode actions are applied by the caller. In script mode each step consumes one script event
// and interactive actions are rejected.
type Mode int

const (
	Interactive Mode = iota
	Script
)

func (m Mode) String() string {
	if m == Script {
		return document.ModeScript
	}
	return document.ModeInteractive
}
