package document

import (
	"errors"
	"testing"
)

const validTokenRing = `{
	"kind": "state",
	"algorithm": "TokenRing",
	"mode": "interactive",
	"processes": [
		{"id": "P1", "requesting": false, "inCS": true, "crashed": false},
		{"id": "P2", "requesting": true, "inCS": false, "crashed": false}
	],
	"ring": ["P2", "P1"],
	"resource": {"token": {"holder": "P1", "lost": false}},
	"derived": {"inCS": "P1", "safe": true, "metrics": {"csEntries": 1}}
}`

const validRA = `{
	"kind": "state",
	"algorithm": "RA",
	"processes": [
		{"id": "P1", "requesting": true, "clock": 1, "reqTs": 1, "awaiting": ["P2"]},
		{"id": "P2", "clock": 0}
	],
	"resource": {"network": {"nextMessageId": 2, "dropNextSend": false, "queue": [
		{"id": 1, "kind": "REQUEST", "from": "P1", "to": "P2", "timestamp": 1}
	]}}
}`

const validScript = `{
	"kind": "demo",
	"algorithm": "RA",
	"processes": ["P1", "P2"],
	"description": "two requesters",
	"events": [
		{"t": 0, "op": "request", "on": "P1"},
		{"t": 1, "op": "anything goes here"}
	]
}`

func TestParseValidDocuments(t *testing.T) {
	for i, test := range []struct {
		data string
		kind string
	}{
		{validTokenRing, KindState},
		{validRA, KindState},
		{validScript, KindDemo},
	} {
		doc, err := Parse([]byte(test.data))
		if err != nil {
			t.Errorf("Test %v: Unable to parse: %v", i, err)
			continue
		}
		if doc.Kind() != test.kind {
			t.Errorf("Test %v: Expected kind %v. Got: %v", i, test.kind, doc.Kind())
		}
	}

	doc, _ := Parse([]byte(validTokenRing))
	snap := doc.(*Snapshot)
	if *snap.Resource.Token.Holder != "P1" || snap.Ring[0] != "P2" || snap.Derived.Metrics.CSEntries != 1 {
		t.Errorf("Unexpected decoded snapshot: %+v", snap)
	}
	doc, _ = Parse([]byte(validScript))
	script := doc.(*Script)
	if len(script.Events) != 2 || script.Events[0].On != "P1" {
		t.Errorf("Unexpected decoded script: %+v", script)
	}
}

var parseRejectionTest = []struct {
	data     string
	expected error
}{
	{`{"algorithm": "RA"}`, ErrMissingField},
	{`{"kind": "checkpoint"}`, ErrUnsupportedKind},
	{`{"kind": "state", "algorithm": "Paxos", "processes": [{"id": "P1"}]}`, ErrUnsupportedAlgorithm},
	{`{"kind": "state", "processes": [{"id": "P1"}]}`, ErrMissingField},
	{`{"kind": "state", "algorithm": "RA", "mode": "replay", "processes": [{"id": "P1"}]}`, ErrInvalidField},
	{`{"kind": "state", "algorithm": "RA", "processes": []}`, ErrMissingField},
	{`{"kind": "state", "algorithm": "RA", "processes": [{"id": "P1"}, {"id": "P1"}]}`, ErrInvalidField},
	{`{"kind": "state", "algorithm": "RA", "processes": [{"id": "X"}]}`, ErrInvalidField},
	{`{"kind": "state", "algorithm": "TokenRing", "processes": [{"id": "P1"}], "ring": ["P1", "P1"],
		"resource": {"token": {"holder": "P1"}}}`, ErrInvalidField},
	{`{"kind": "state", "algorithm": "TokenRing", "processes": [{"id": "P1"}]}`, ErrMissingField},
	{`{"kind": "state", "algorithm": "TokenRing", "processes": [{"id": "P1"}],
		"resource": {"token": {"holder": "P9"}}}`, ErrInvalidField},
	{`{"kind": "state", "algorithm": "TokenRing", "processes": [{"id": "P1"}],
		"resource": {"token": {"holder": "P1"}, "network": {"nextMessageId": 1, "queue": []}}}`, ErrInvalidField},
	{`{"kind": "state", "algorithm": "RA", "processes": [{"id": "P1"}]}`, ErrMissingField},
	{`{"kind": "state", "algorithm": "RA", "processes": [{"id": "P1", "awaiting": ["P1"]}],
		"resource": {"network": {"nextMessageId": 1, "queue": []}}}`, ErrInvalidField},
	{`{"kind": "state", "algorithm": "RA", "processes": [{"id": "P1", "clock": -1}],
		"resource": {"network": {"nextMessageId": 1, "queue": []}}}`, ErrInvalidField},
	{`{"kind": "state", "algorithm": "RA", "processes": [{"id": "P1", "reqTs": 0}],
		"resource": {"network": {"nextMessageId": 1, "queue": []}}}`, ErrInvalidField},
	{`{"kind": "state", "algorithm": "RA", "processes": [{"id": "P1"}, {"id": "P2"}],
		"resource": {"network": {"nextMessageId": 2, "queue": [
			{"id": 1, "kind": "PING", "from": "P1", "to": "P2", "timestamp": 1}]}}}`, ErrInvalidField},
	{`{"kind": "state", "algorithm": "RA", "processes": [{"id": "P1"}, {"id": "P2"}],
		"resource": {"network": {"nextMessageId": 2, "queue": [
			{"id": 1, "kind": "REPLY", "from": "P1", "to": "P3", "timestamp": 1}]}}}`, ErrInvalidField},
	{`{"kind": "state", "algorithm": "RA", "processes": [{"id": "P1"}, {"id": "P2"}],
		"resource": {"network": {"nextMessageId": 1, "queue": [
			{"id": 1, "kind": "REPLY", "from": "P1", "to": "P2", "timestamp": 1}]}}}`, ErrInvalidField},
	{`{"kind": "demo", "algorithm": "RA", "processes": ["P1"]}`, ErrMissingField},
	{`{"kind": "demo", "algorithm": "RA", "events": []}`, ErrMissingField},
	{`{"kind": "demo", "algorithm": "RA", "processes": ["P1", "P2"], "ring": ["P1"], "events": []}`, ErrInvalidField},
}

func TestParseRejections(t *testing.T) {
	for i, test := range parseRejectionTest {
		doc, err := Parse([]byte(test.data))
		if !errors.Is(err, test.expected) {
			t.Errorf("Test %v: Expected %v. Got: %v", i, test.expected, err)
		}
		if doc != nil {
			t.Errorf("Test %v: Expected no document to be returned", i)
		}
	}
}

func TestParseMalformedJSON(t *testing.T) {
	if _, err := Parse([]byte(`{"kind": "state",`)); err == nil {
		t.Errorf("Expected an error for malformed JSON")
	}
	if _, err := Parse([]byte(`{"kind": "state", "processes": "P1"}`)); err == nil {
		t.Errorf("Expected an error for a field of the wrong type")
	}
}

func TestMarshalParse(t *testing.T) {
	doc, err := Parse([]byte(validRA))
	if err != nil {
		t.Fatalf("Unable to parse: %v", err)
	}
	data, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Unable to encode: %v", err)
	}
	again, err := Parse(data)
	if err != nil {
		t.Fatalf("Unable to parse encoded document: %v\n%s", err, data)
	}
	snap := again.(*Snapshot)
	if len(snap.Resource.Network.Queue) != 1 || *snap.Processes[0].ReqTs != 1 || snap.Processes[1].ReqTs != nil {
		t.Errorf("Unexpected document after encoding: %+v", snap)
	}
}
