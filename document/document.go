// Package document defines the plain-data documents exchanged with the engine.
//
// Two shapes exist: the snapshot document (kind "state") produced by exporting a model,
// and the script document (kind "demo") describing a replayable sequence of operations.
// Documents are validated once, when they are parsed. The engine converts a valid document
// into a model without further checks on the shape.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	KindState = "state"
	KindDemo  = "demo"

	AlgorithmTokenRing = "TokenRing"
	AlgorithmRA        = "RA"

	ModeInteractive = "interactive"
	ModeScript      = "script"

	MessageRequest = "REQUEST"
	MessageReply   = "REPLY"
)

var (
	ErrUnsupportedKind      = errors.New("document: unsupported kind")
	ErrUnsupportedAlgorithm = errors.New("document: unsupported algorithm")
	ErrMissingField         = errors.New("document: missing required field")
	ErrInvalidField         = errors.New("document: invalid field")
)

// A document accepted by the engine. Implemented by *Snapshot and *Script.
type Document interface {
	Kind() string
	Validate() error
}

// Parse a JSON encoded document.
//
// The kind field selects the document shape. The decoded document is validated before it is returned.
// Returns an error wrapping one of the package sentinel errors if the document is rejected.
func Parse(data []byte) (Document, error) {
	var header struct {
		Kind *string `json:"kind"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("document: unable to decode: %w", err)
	}
	if header.Kind == nil {
		return nil, fmt.Errorf("%w: kind", ErrMissingField)
	}

	var doc Document
	switch *header.Kind {
	case KindState:
		doc = &Snapshot{}
	case KindDemo:
		doc = &Script{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, *header.Kind)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(doc); err != nil {
		return nil, fmt.Errorf("document: unable to decode %v document: %w", *header.Kind, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Encode a document as indented JSON
func Marshal(doc Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

func validateAlgorithm(algorithm string) error {
	switch algorithm {
	case AlgorithmTokenRing, AlgorithmRA:
		return nil
	case "":
		return fmt.Errorf("%w: algorithm", ErrMissingField)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
}
