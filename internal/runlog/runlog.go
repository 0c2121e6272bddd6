// Package runlog records completed aggregation runs so they can be
// compared across inputs, runners, and worker counts.
package runlog

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/mod/semver"

	"pkg.jsn.cam/rowstat/pkg/storage"
)

// SchemaVersion is written into new log files. A log whose recorded
// major version differs cannot be read by this binary.
const SchemaVersion = "v1.0.0"

var ErrIncompatibleSchema = errors.New("incompatible run log schema")

var (
	runsBucket = []byte("runs")
	metaBucket = []byte("meta")
)

const schemaKey = "schema"

// Entry is one recorded aggregation run.
type Entry struct {
	ID         string        `json:"id"`
	Input      string        `json:"input"`
	InputBytes int64         `json:"input_bytes"`
	Runner     string        `json:"runner"`
	Workers    int           `json:"workers"`
	Rows       uint64        `json:"rows"`
	Keys       int           `json:"keys"`
	Duration   time.Duration `json:"duration_ns"`
	StartedAt  time.Time     `json:"started_at"`
}

// Log stores entries in a storage.Backend.
type Log struct {
	backend storage.Backend
}

// New wraps an open backend, creating the buckets and checking the
// schema version mark. A fresh backend is stamped with SchemaVersion.
func New(backend storage.Backend) (*Log, error) {
	for _, bucket := range [][]byte{runsBucket, metaBucket} {
		if err := backend.CreateBucket(bucket); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	if err := checkSchema(backend); err != nil {
		return nil, err
	}
	return &Log{backend: backend}, nil
}

// OpenBbolt opens (or creates) a bbolt-backed run log at dbPath.
func OpenBbolt(dbPath string) (*Log, error) {
	backend, err := storage.NewBboltBackend(dbPath)
	if err != nil {
		return nil, err
	}

	l, err := New(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	log.Printf("[RUNLOG] Run log opened at %s", dbPath)
	return l, nil
}

func checkSchema(backend storage.Backend) error {
	data, err := storage.GetString(backend, metaBucket, schemaKey)
	if err != nil {
		return err
	}
	if data == nil {
		return storage.PutString(backend, metaBucket, schemaKey, []byte(SchemaVersion))
	}

	have := string(data)
	if !semver.IsValid(have) {
		return fmt.Errorf("%w: log reports version %q", ErrIncompatibleSchema, have)
	}
	if semver.Major(have) != semver.Major(SchemaVersion) {
		return fmt.Errorf("%w: log is %s, this binary speaks %s", ErrIncompatibleSchema, have, SchemaVersion)
	}
	return nil
}

// Append records a run. An empty ID is filled in.
func (l *Log) Append(e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.StartedAt.IsZero() {
		e.StartedAt = time.Now()
	}

	data, err := storage.EncodeJSON(e)
	if err != nil {
		return err
	}
	return storage.PutString(l.backend, runsBucket, e.ID, data)
}

// List returns all recorded runs, oldest first. Entries that fail to
// decode are skipped with a warning rather than failing the whole
// listing.
func (l *Log) List() ([]Entry, error) {
	var entries []Entry

	err := l.backend.ForEach(runsBucket, func(k, v []byte) error {
		var e Entry
		if err := storage.DecodeJSON(v, &e); err != nil {
			log.Printf("[RUNLOG] Warning: failed to decode run %s: %v", k, err)
			return nil
		}
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].StartedAt.Before(entries[j].StartedAt)
	})
	return entries, nil
}

// Delete removes a recorded run.
func (l *Log) Delete(id string) error {
	return storage.DeleteString(l.backend, runsBucket, id)
}

// Close closes the underlying backend.
func (l *Log) Close() error {
	return l.backend.Close()
}
