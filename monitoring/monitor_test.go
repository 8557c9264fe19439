package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/engine"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/session"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
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

var _ = Describe("Monitor", func() {
	var (
		s       *session.Session
		m       *Monitor
		handler http.Handler
	)

	do := func(method, target, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		handler.ServeHTTP(rec, req)
		return rec
	}

	decode := func(rec *httptest.ResponseRecorder, v any) {
		Expect(json.Unmarshal(rec.Body.Bytes(), v)).To(Succeed())
	}

	BeforeEach(func() {
		model, err := engine.New(engine.TokenRing, 3)
		Expect(err).To(BeNil())
		s = session.New(model)
		m = NewMonitor(s)
		handler = m.Handler()
	})

	It("should ignore reserved port numbers", func() {
		Expect(m.WithPortNumber(80).portNumber).To(Equal(0))
		Expect(m.WithPortNumber(8080).portNumber).To(Equal(8080))
	})

	It("should not open a browser before the server is started", func() {
		Expect(m.OpenBrowser()).NotTo(Succeed())
	})

	It("should serve the state", func() {
		rec := do(http.MethodGet, "/api/state", "")

		Expect(rec.Code).To(Equal(http.StatusOK))
		snap := map[string]any{}
		decode(rec, &snap)
		Expect(snap["algorithm"]).To(Equal("TokenRing"))
		Expect(snap["processes"]).To(HaveLen(3))
	})

	It("should apply events and step", func() {
		rec := do(http.MethodPost, "/api/apply", `{"op": "request", "on": "P1"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		res := resultRsp{}
		decode(rec, &res)
		Expect(res.OK).To(BeTrue())

		rec = do(http.MethodPost, "/api/step", "")
		decode(rec, &res)
		Expect(res.OK).To(BeTrue())

		rec = do(http.MethodGet, "/api/safety", "")
		safety := safetyRsp{}
		decode(rec, &safety)
		Expect(safety.OK).To(BeTrue())
		Expect(safety.Holders).To(Equal([]string{"P1"}))

		rec = do(http.MethodGet, "/api/trace", "")
		trace := []traceEntryRsp{}
		decode(rec, &trace)
		Expect(trace).To(HaveLen(2))
		Expect(trace[0].Level).To(Equal("info"))
	})

	It("should report rejected events in the result", func() {
		rec := do(http.MethodPost, "/api/apply", `{"op": "deliver"}`)

		Expect(rec.Code).To(Equal(http.StatusOK))
		res := resultRsp{}
		decode(rec, &res)
		Expect(res.OK).To(BeFalse())
		Expect(res.Reason).To(Equal("invalid-event"))
	})

	It("should reject malformed requests", func() {
		Expect(do(http.MethodPost, "/api/apply", `{"op":`).Code).To(Equal(http.StatusBadRequest))
		Expect(do(http.MethodPost, "/api/load", `{"kind": "demo", "algorithm": "Paxos", "processes": ["P1"], "events": []}`).Code).
			To(Equal(http.StatusBadRequest))
		Expect(do(http.MethodPost, "/api/reset?algorithm=RA&n=x", "").Code).To(Equal(http.StatusBadRequest))
		Expect(do(http.MethodGet, "/api/step", "").Code).To(Equal(http.StatusMethodNotAllowed))
	})

	It("should load a script and report its progress", func() {
		rec := do(http.MethodPost, "/api/load", raScript)
		Expect(rec.Code).To(Equal(http.StatusOK))

		do(http.MethodPost, "/api/step", "")
		rec = do(http.MethodGet, "/api/progress", "")
		progress := progressRsp{}
		decode(rec, &progress)
		Expect(progress.Description).To(Equal("P1 enters"))
		Expect(progress.Done).To(Equal(1))
		Expect(progress.Total).To(Equal(3))
	})

	It("should reset the model", func() {
		rec := do(http.MethodPost, "/api/reset?algorithm=RA&n=2", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(s.Snapshot().Algorithm).To(Equal("RA"))

		rec = do(http.MethodGet, "/api/enabled", "")
		enabled := []string{}
		decode(rec, &enabled)
		Expect(enabled).NotTo(BeEmpty())
	})

	It("should serialize a process", func() {
		Expect(do(http.MethodGet, "/api/process/P1", "").Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodGet, "/api/process/P9", "").Code).To(Equal(http.StatusNotFound))
		Expect(do(http.MethodGet, "/api/process/x", "").Code).To(Equal(http.StatusNotFound))
	})

	It("should list resources", func() {
		rec := do(http.MethodGet, "/api/resource", "")

		Expect(rec.Code).To(Equal(http.StatusOK))
		rsp := resourceRsp{}
		decode(rec, &rsp)
		Expect(rsp.MemorySize).To(BeNumerically(">", 0))
	})
})
