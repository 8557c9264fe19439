// Package recorder persists trace entries into a SQLite database.
package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fatih/structs"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/engine"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

const tableName = "trace"

// One row of the trace table
type traceRow struct {
	RunID string
	Step  int
	Level string
	Text  string
}

// Recorder is a trace sink that writes the entries of one run into the trace table.
//
// Entries are buffered and written in batches. Several runs can share a database, they are told apart by the run id.
type Recorder struct {
	sync.Mutex
	*sql.DB

	dbName    string
	runID     string
	batchSize int
	entries   []traceRow
}

// New opens the database at path + ".sqlite3", creating it if needed.
//
// If path is empty a new database with a unique name is created in the working directory.
// Buffered entries are flushed when the program exits through atexit.
func New(path string) (*Recorder, error) {
	if path == "" {
		path = "dmx_trace_" + xid.New().String()
	}
	filename := path + ".sqlite3"

	if _, err := os.Stat(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Database created for recording: %s\n", filename)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, err
	}
	r, err := NewWithDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	r.dbName = filename
	return r, nil
}

// NewWithDB creates a recorder that writes into the given database.
func NewWithDB(db *sql.DB) (*Recorder, error) {
	r := &Recorder{
		DB:        db,
		runID:     xid.New().String(),
		batchSize: 1000,
		entries:   []traceRow{},
	}
	if err := r.createTable(); err != nil {
		return nil, err
	}

	atexit.Register(func() { r.Flush() })

	return r, nil
}

// Set the number of buffered entries that triggers a write
func (r *Recorder) WithBatchSize(size int) *Recorder {
	if size < 1 {
		size = 1
	}
	r.batchSize = size
	return r
}

func (r *Recorder) RunID() string {
	return r.runID
}

func (r *Recorder) DBName() string {
	return r.dbName
}

func (r *Recorder) createTable() error {
	fields := strings.Join(structs.Names(traceRow{}), ", \n\t")
	createTableSQL := `CREATE TABLE IF NOT EXISTS ` + tableName +
		` (` + "\n\t" + fields + "\n" + `);`
	_, err := r.Exec(createTableSQL)
	return err
}

// Record buffers the entry. It implements engine.TraceSink.
func (r *Recorder) Record(entry engine.TraceEntry) {
	r.Lock()
	r.entries = append(r.entries, traceRow{
		RunID: r.runID,
		Step:  entry.Step,
		Level: entry.Level.String(),
		Text:  entry.Text,
	})
	full := len(r.entries) >= r.batchSize
	r.Unlock()

	if full {
		if err := r.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to record trace: %v\n", err)
		}
	}
}

// Flush writes all buffered entries in one transaction.
func (r *Recorder) Flush() error {
	r.Lock()
	defer r.Unlock()

	if len(r.entries) == 0 {
		return nil
	}

	tx, err := r.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(insertStatement(traceRow{}))
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, row := range r.entries {
		if _, err := stmt.Exec(structs.Values(row)...); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	r.entries = r.entries[:0]
	return nil
}

func insertStatement(sample any) string {
	n := structs.Names(sample)
	for i := 0; i < len(n); i++ {
		n[i] = "?"
	}
	return "INSERT INTO " + tableName + " VALUES (" + strings.Join(n, ", ") + ")"
}

// Flush the buffered entries and close the database
func (r *Recorder) Close() error {
	if err := r.Flush(); err != nil {
		return err
	}
	return r.DB.Close()
}

// The flushed entries of a run, in the order they were recorded
func (r *Recorder) Entries(runID string) ([]engine.TraceEntry, error) {
	rows, err := r.Query("SELECT Step, Level, Text FROM "+tableName+" WHERE RunID = ? ORDER BY rowid", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []engine.TraceEntry{}
	for rows.Next() {
		var (
			entry engine.TraceEntry
			level string
		)
		if err := rows.Scan(&entry.Step, &level, &entry.Text); err != nil {
			return nil, err
		}
		if level == engine.Warning.String() {
			entry.Level = engine.Warning
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// The ids of all runs in the database
func (r *Recorder) Runs() ([]string, error) {
	rows, err := r.Query("SELECT DISTINCT RunID FROM " + tableName + " ORDER BY RunID")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

type teeSink []engine.TraceSink

func (t teeSink) Record(entry engine.TraceEntry) {
	for _, sink := range t {
		sink.Record(entry)
	}
}

// Tee returns a sink that forwards every entry to all the sinks
func Tee(sinks ...engine.TraceSink) engine.TraceSink {
	return teeSink(sinks)
}
