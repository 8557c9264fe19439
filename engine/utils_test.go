package engine

import (
	"testing"
)

// Create a model or fail the test
func mustNew(t *testing.T, alg Algorithm, n int, opts ...ModelOption) *Model {
	t.Helper()
	m, err := New(alg, n, opts...)
	if err != nil {
		t.Fatalf("Unable to create model: %v", err)
	}
	return m
}

func mustOK(t *testing.T, res Result) {
	t.Helper()
	if !res.OK {
		t.Fatalf("Expected action to be accepted. Got: %v", res)
	}
}

func mustReject(t *testing.T, res Result, reason Reason) {
	t.Helper()
	if res.OK {
		t.Fatalf("Expected action to be rejected with %v. Got: %v", reason, res)
	}
	if res.Reason != reason {
		t.Fatalf("Expected reason %v. Got: %v", reason, res)
	}
}

func mustBeSafe(t *testing.T, m *Model) {
	t.Helper()
	if report := m.CheckSafety(); !report.OK {
		t.Fatalf("Safety violated: %v", report)
	}
}

func inCS(t *testing.T, m *Model, id int) bool {
	t.Helper()
	p, ok := m.Process(id)
	if !ok {
		t.Fatalf("Unknown process %v", id)
	}
	return p.InCS
}
