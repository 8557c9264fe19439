package session

import (
	"sync"
	"testing"

	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/document"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/engine"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const raScript = `{
	"kind": "demo",
	"algorithm": "RA",
	"processes": ["P1", "P2"],
	"description": "P1 enters",
	"events": [
		{"t": 1, "op": "request", "on": "P1"},
		{"t": 2, "op": "deliver"},
		{"t": 3, "op": "deliver"}
	]
}`

func newSession(t *testing.T, alg engine.Algorithm, n int) *Session {
	m, err := engine.New(alg, n)
	require.NoError(t, err)
	return New(m)
}

func TestSessionActions(t *testing.T) {
	s := newSession(t, engine.TokenRing, 3)
	assert.NotEmpty(t, s.ID())

	res := s.Apply(event.Event{Op: event.OpRequest, On: 1})
	require.True(t, res.OK, res.String())
	res = s.Step()
	require.True(t, res.OK, res.String())

	snap := s.Snapshot()
	assert.Equal(t, document.AlgorithmTokenRing, snap.Algorithm)
	assert.True(t, snap.Processes[0].InCS)

	res = s.ApplyRaw(document.Event{Op: "crash", On: "P2"})
	assert.True(t, res.OK, res.String())
	res = s.ApplyRaw(document.Event{Op: "deliver"})
	assert.False(t, res.OK)
	assert.Equal(t, engine.ReasonInvalidEvent, res.Reason)

	assert.True(t, s.Safety().OK)
	assert.Len(t, s.Trace(), 4)
	assert.NotEmpty(t, s.EnabledEvents())
}

func TestSessionLoad(t *testing.T) {
	s := newSession(t, engine.TokenRing, 3)
	before := s.Snapshot()

	err := s.Load([]byte(`{"kind": "demo", "algorithm": "Paxos", "processes": ["P1"], "events": []}`))
	require.ErrorIs(t, err, document.ErrUnsupportedAlgorithm)
	assert.Equal(t, before, s.Snapshot(), "a rejected document must not replace the model")

	require.NoError(t, s.Load([]byte(raScript)))
	for i := 0; i < 3; i++ {
		res := s.Step()
		require.True(t, res.OK, res.String())
	}
	res := s.Step()
	assert.Equal(t, engine.ReasonScriptFinished, res.Reason)

	res = s.SetMode(engine.Interactive)
	require.True(t, res.OK)
	res = s.Apply(event.Event{Op: event.OpRelease, On: 1})
	assert.True(t, res.OK, res.String())

	// The snapshot of the session can be loaded again
	raw, err := document.Marshal(s.Snapshot())
	require.NoError(t, err)
	require.NoError(t, s.Load(raw))
	assert.Equal(t, 1, s.Snapshot().Derived.Metrics.CSEntries)
}

func TestSessionReset(t *testing.T) {
	s := newSession(t, engine.TokenRing, 3)
	require.NoError(t, s.Reset(engine.RicartAgrawala, 4))
	assert.Equal(t, document.AlgorithmRA, s.Snapshot().Algorithm)
	assert.Len(t, s.Snapshot().Processes, 4)

	assert.Error(t, s.Reset(engine.RicartAgrawala, 0))
	assert.Len(t, s.Snapshot().Processes, 4)
}

func TestSessionIsSafeForConcurrentUse(t *testing.T) {
	s := newSession(t, engine.RicartAgrawala, 3)
	var wait sync.WaitGroup
	for i := 1; i <= 3; i++ {
		wait.Add(1)
		go func(id int) {
			defer wait.Done()
			s.Apply(event.Event{Op: event.OpRequest, On: id})
			for j := 0; j < 10; j++ {
				s.Step()
				s.Snapshot()
			}
		}(i)
	}
	wait.Wait()

	// Drain the network and let every process leave the critical section in turn
	for k := 0; k < 50; k++ {
		for id := 1; id <= 3; id++ {
			s.Apply(event.Event{Op: event.OpRelease, On: id})
		}
		s.Step()
		require.True(t, s.Safety().OK)
	}
	assert.Equal(t, 3, s.Model().Metrics().CSEntries)
}
