// Package monitoring serves a session over HTTP so that it can be driven and inspected from a browser.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/document"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/engine"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/event"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/session"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// Monitor turns a session into a web server.
type Monitor struct {
	session    *session.Session
	portNumber int
	url        string
}

func NewMonitor(s *session.Session) *Monitor {
	return &Monitor{session: s}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// The router with all api endpoints
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/state", m.state).Methods(http.MethodGet)
	r.HandleFunc("/api/trace", m.trace).Methods(http.MethodGet)
	r.HandleFunc("/api/safety", m.safety).Methods(http.MethodGet)
	r.HandleFunc("/api/enabled", m.enabled).Methods(http.MethodGet)
	r.HandleFunc("/api/progress", m.progress).Methods(http.MethodGet)
	r.HandleFunc("/api/process/{name}", m.processDetails).Methods(http.MethodGet)
	r.HandleFunc("/api/resource", m.listResources).Methods(http.MethodGet)
	r.HandleFunc("/api/profile", m.collectProfile).Methods(http.MethodGet)
	r.HandleFunc("/api/step", m.step).Methods(http.MethodPost)
	r.HandleFunc("/api/apply", m.apply).Methods(http.MethodPost)
	r.HandleFunc("/api/load", m.load).Methods(http.MethodPost)
	r.HandleFunc("/api/reset", m.reset).Methods(http.MethodPost)
	return r
}

// StartServer starts the monitor as a web server and returns its address.
func (m *Monitor) StartServer() string {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	m.url = fmt.Sprintf("http://localhost:%d", listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring session %v with %v\n", m.session.ID(), m.url)

	handler := m.Handler()
	go func() {
		err := http.Serve(listener, handler)
		dieOnErr(err)
	}()
	return m.url
}

// Open the monitor in the default browser. The server must be started.
func (m *Monitor) OpenBrowser() error {
	if m.url == "" {
		return fmt.Errorf("the monitoring server is not started")
	}
	return browser.OpenURL(m.url + "/api/state")
}

func (m *Monitor) state(w http.ResponseWriter, _ *http.Request) {
	m.writeSnapshot(w)
}

func (m *Monitor) writeSnapshot(w http.ResponseWriter) {
	bytes, err := document.Marshal(m.session.Snapshot())
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

type traceEntryRsp struct {
	Step  int    `json:"step"`
	Level string `json:"level"`
	Text  string `json:"text"`
}

func (m *Monitor) trace(w http.ResponseWriter, _ *http.Request) {
	rsp := []traceEntryRsp{}
	for _, entry := range m.session.Trace() {
		rsp = append(rsp, traceEntryRsp{
			Step:  entry.Step,
			Level: entry.Level.String(),
			Text:  entry.Text,
		})
	}
	writeJSON(w, http.StatusOK, rsp)
}

type safetyRsp struct {
	OK      bool     `json:"ok"`
	Holders []string `json:"holders"`
	Text    string   `json:"text"`
}

func (m *Monitor) safety(w http.ResponseWriter, _ *http.Request) {
	report := m.session.Safety()
	rsp := safetyRsp{
		OK:      report.OK,
		Holders: []string{},
		Text:    report.String(),
	}
	for _, id := range report.Holders {
		rsp.Holders = append(rsp.Holders, event.ProcessName(id))
	}
	writeJSON(w, http.StatusOK, rsp)
}

func (m *Monitor) enabled(w http.ResponseWriter, _ *http.Request) {
	rsp := []string{}
	for _, evt := range m.session.EnabledEvents() {
		rsp = append(rsp, evt.String())
	}
	writeJSON(w, http.StatusOK, rsp)
}

type progressRsp struct {
	Mode        string `json:"mode"`
	Description string `json:"description"`
	Done        int    `json:"done"`
	Total       int    `json:"total"`
}

func (m *Monitor) progress(w http.ResponseWriter, _ *http.Request) {
	model := m.session.Model()
	description, done, total := model.ScriptProgress()
	writeJSON(w, http.StatusOK, progressRsp{
		Mode:        model.Mode().String(),
		Description: description,
		Done:        done,
		Total:       total,
	})
}

func (m *Monitor) processDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	id, err := event.ParseProcessName(name)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	p, ok := m.session.Model().Process(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("process %s not found", name))
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(&p)
	serializer.SetMaxDepth(1)
	err = serializer.Serialize(w)

	dieOnErr(err)
}

type resultRsp struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason"`
	Text   string `json:"text"`
}

func writeResult(w http.ResponseWriter, res engine.Result) {
	writeJSON(w, http.StatusOK, resultRsp{
		OK:     res.OK,
		Reason: res.Reason.String(),
		Text:   res.Text,
	})
}

func (m *Monitor) step(w http.ResponseWriter, _ *http.Request) {
	writeResult(w, m.session.Step())
}

// Apply an event given as {"op": ..., "on": ...}. A rejected event is reported in the result, not as an http error.
func (m *Monitor) apply(w http.ResponseWriter, r *http.Request) {
	evt := document.Event{}
	if err := json.NewDecoder(r.Body).Decode(&evt); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeResult(w, m.session.ApplyRaw(evt))
}

func (m *Monitor) load(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := m.session.Load(raw); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	m.writeSnapshot(w)
}

// Replace the model with a fresh one, e.g. /api/reset?algorithm=RA&n=3
func (m *Monitor) reset(w http.ResponseWriter, r *http.Request) {
	alg, err := engine.ParseAlgorithm(r.URL.Query().Get("algorithm"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	n, err := strconv.Atoi(r.URL.Query().Get("n"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := m.session.Reset(alg, n); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	m.writeSnapshot(w)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, http.StatusOK, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		// Another profile is running
		writeError(w, http.StatusConflict, err)
		return
	}

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, http.StatusOK, prof)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, err = w.Write(bytes)
	dieOnErr(err)
}

type errorRsp struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, errorRsp{Error: err.Error()})
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
