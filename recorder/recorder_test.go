package recorder

import (
	"os"
	"path/filepath"

	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/engine"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/event"
	"go.uber.org/mock/gomock"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Recorder", func() {
	var (
		dir  string
		path string
		r    *Recorder
	)

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "dmx_recorder")
		Expect(err).To(BeNil())
		path = filepath.Join(dir, "trace")

		r, err = New(path)
		Expect(err).To(BeNil())
	})

	AfterEach(func() {
		r.Close()
		os.RemoveAll(dir)
	})

	It("should create the database", func() {
		Expect(r.DBName()).To(Equal(path + ".sqlite3"))
		_, err := os.Stat(path + ".sqlite3")
		Expect(err).To(BeNil())

		var name string
		err = r.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='trace';").Scan(&name)
		Expect(err).To(BeNil())
		Expect(name).To(Equal("trace"))
	})

	It("should record the trace of a model", func() {
		m, err := engine.New(engine.TokenRing, 3, engine.TraceSinkOption{Sink: r})
		Expect(err).To(BeNil())
		m.Apply(event.Event{Op: event.OpRequest, On: 1})
		m.Step()
		m.Apply(event.Event{Op: event.OpCrash, On: 1})

		Expect(r.Flush()).To(Succeed())

		entries, err := r.Entries(r.RunID())
		Expect(err).To(BeNil())
		Expect(entries).To(Equal(m.Trace()))
	})

	It("should only write buffered entries on flush", func() {
		r.Record(engine.TraceEntry{Step: 1, Level: engine.Info, Text: "a"})

		entries, err := r.Entries(r.RunID())
		Expect(err).To(BeNil())
		Expect(entries).To(BeEmpty())

		Expect(r.Flush()).To(Succeed())
		entries, err = r.Entries(r.RunID())
		Expect(err).To(BeNil())
		Expect(entries).To(HaveLen(1))
	})

	It("should write full batches", func() {
		r.WithBatchSize(2)
		r.Record(engine.TraceEntry{Step: 1, Level: engine.Info, Text: "a"})
		r.Record(engine.TraceEntry{Step: 2, Level: engine.Warning, Text: "b"})

		entries, err := r.Entries(r.RunID())
		Expect(err).To(BeNil())
		Expect(entries).To(Equal([]engine.TraceEntry{
			{Step: 1, Level: engine.Info, Text: "a"},
			{Step: 2, Level: engine.Warning, Text: "b"},
		}))
	})

	It("should keep runs apart", func() {
		other, err := New(path)
		Expect(err).To(BeNil())
		defer other.Close()
		Expect(other.RunID()).NotTo(Equal(r.RunID()))

		r.Record(engine.TraceEntry{Step: 1, Text: "first"})
		other.Record(engine.TraceEntry{Step: 1, Text: "second"})
		other.Record(engine.TraceEntry{Step: 2, Text: "second"})
		Expect(r.Flush()).To(Succeed())
		Expect(other.Flush()).To(Succeed())

		runs, err := r.Runs()
		Expect(err).To(BeNil())
		Expect(runs).To(ConsistOf(r.RunID(), other.RunID()))

		entries, err := r.Entries(other.RunID())
		Expect(err).To(BeNil())
		Expect(entries).To(HaveLen(2))
	})
})

var _ = Describe("Tee", func() {
	var (
		mockCtrl *gomock.Controller
		a, b     *MockTraceSink
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		a = NewMockTraceSink(mockCtrl)
		b = NewMockTraceSink(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should forward every entry to all sinks", func() {
		entry := engine.TraceEntry{Step: 3, Level: engine.Warning, Text: "token lost"}
		a.EXPECT().Record(entry)
		b.EXPECT().Record(entry)

		Tee(a, b).Record(entry)
	})

	It("should receive every entry written by a model", func() {
		a.EXPECT().Record(gomock.Any()).Times(2)
		b.EXPECT().Record(gomock.Any()).Times(2)

		m, err := engine.New(engine.RicartAgrawala, 2, engine.TraceSinkOption{Sink: Tee(a, b)})
		Expect(err).To(BeNil())
		m.Apply(event.Event{Op: event.OpRequest, On: 1})
		m.Apply(event.Event{Op: event.OpDeliver})
	})
})
