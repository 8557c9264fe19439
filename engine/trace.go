package engine

import (
	"fmt"
	"log"
)

type Level int

const (
	Info Level = iota
	Warning
)

func (l Level) String() string {
	if l == Warning {
		return "warning"
	}
	return "info"
}

// An immutable entry of the trace log
type TraceEntry struct {
	Step  int
	Level Level
	Text  string
}

func (e TraceEntry) String() string {
	return fmt.Sprintf("[%4d] %-7v %v", e.Step, e.Level, e.Text)
}

// Receives every trace entry written by a model, e.g. to persist it.
type TraceSink interface {
	Record(entry TraceEntry)
}

const defaultTraceLimit = 500

// A bounded trace log. The oldest entries are evicted once the limit is exceeded.
type traceLog struct {
	entries []TraceEntry
	limit   int

	sink   TraceSink
	logger *log.Logger
}

func newTraceLog(limit int) *traceLog {
	if limit < 1 {
		limit = defaultTraceLimit
	}
	return &traceLog{
		entries: make([]TraceEntry, 0),
		limit:   limit,
	}
}

func (t *traceLog) add(step int, level Level, text string) {
	entry := TraceEntry{Step: step, Level: level, Text: text}
	t.entries = append(t.entries, entry)
	if over := len(t.entries) - t.limit; over > 0 {
		t.entries = append(t.entries[:0:0], t.entries[over:]...)
	}
	if t.sink != nil {
		t.sink.Record(entry)
	}
	if t.logger != nil {
		t.logger.Print(entry)
	}
}

func (t *traceLog) snapshot() []TraceEntry {
	return append(make([]TraceEntry, 0, len(t.entries)), t.entries...)
}
