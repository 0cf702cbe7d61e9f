// Package runstore persists a record per bridge run under the scenario:
//
//	<scenario>/.ceabridge/runs/<run-id>/run.json
//
// Records are observational: they let a host list what was run against a
// scenario and how it ended, and they never feed back into execution.
package runstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RunKind identifies which operation produced a record.
type RunKind string

const (
	KindLayout RunKind = "layout"
	KindDemand RunKind = "demand"
)

// RunStatus is the final outcome of a run.
type RunStatus string

const (
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusFailed    RunStatus = "failed"
)

// StageRecord captures one pipeline stage's outcome.
type StageRecord struct {
	Name   string `json:"name"`
	State  string `json:"state"`
	Output string `json:"output,omitempty"`
}

// Record is the persistent metadata of one run.
type Record struct {
	RunID      string        `json:"run_id"`
	Kind       RunKind       `json:"kind"`
	Scenario   string        `json:"scenario"`
	StartTime  time.Time     `json:"start_time"`
	FinishTime time.Time     `json:"finish_time"`
	Status     RunStatus     `json:"status"`
	Error      string        `json:"error,omitempty"`
	Stages     []StageRecord `json:"stages,omitempty"`
}

// NewRecord starts a record for a run beginning now.
func NewRecord(kind RunKind, scenario string) Record {
	return Record{
		RunID:     uuid.NewString(),
		Kind:      kind,
		Scenario:  scenario,
		StartTime: time.Now().UTC(),
		Status:    StatusRunning,
	}
}

// Finish stamps the outcome onto the record.
func (r *Record) Finish(err error) {
	r.FinishTime = time.Now().UTC()
	if err != nil {
		r.Status = StatusFailed
		r.Error = err.Error()
		return
	}
	r.Status = StatusCompleted
}

func (r Record) Validate() error {
	var errs []error
	if strings.TrimSpace(r.RunID) == "" {
		errs = append(errs, errors.New("run_id is required"))
	}
	switch r.Kind {
	case KindLayout, KindDemand:
	default:
		errs = append(errs, fmt.Errorf("invalid kind %q", r.Kind))
	}
	if strings.TrimSpace(r.Scenario) == "" {
		errs = append(errs, errors.New("scenario is required"))
	}
	if r.StartTime.IsZero() {
		errs = append(errs, errors.New("start_time is required"))
	}
	if strings.TrimSpace(string(r.Status)) == "" {
		errs = append(errs, errors.New("status is required"))
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

// Store writes and reads run records. All writes are atomic and durable
// (file sync + atomic rename + dir sync).
type Store struct {
	scenario string
}

func NewStore(scenario string) (*Store, error) {
	if strings.TrimSpace(scenario) == "" {
		return nil, errors.New("scenario is required")
	}
	return &Store{scenario: scenario}, nil
}

func (s *Store) runsRootDir() string {
	return filepath.Join(s.scenario, ".ceabridge", "runs")
}

func (s *Store) runPath(runID string) string {
	return filepath.Join(s.runsRootDir(), runID, "run.json")
}

// Save persists the record.
func (s *Store) Save(rec Record) error {
	if s == nil {
		return errors.New("nil Store")
	}
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("invalid run record: %w", err)
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run record: %w", err)
	}
	data = append(data, '\n')
	if err := writeFileAtomicDurable(s.runPath(rec.RunID), data, 0o644); err != nil {
		return fmt.Errorf("write run record: %w", err)
	}
	return nil
}

// Load reads one record back.
func (s *Store) Load(runID string) (Record, error) {
	var rec Record
	if s == nil {
		return rec, errors.New("nil Store")
	}
	if strings.TrimSpace(runID) == "" {
		return rec, errors.New("runID is required")
	}
	f, err := os.Open(s.runPath(runID))
	if err != nil {
		return rec, err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&rec); err != nil {
		return Record{}, err
	}
	if err := rec.Validate(); err != nil {
		return Record{}, fmt.Errorf("invalid run record on disk: %w", err)
	}
	return rec, nil
}

// ListRunIDs returns all run IDs currently present on disk, sorted
// lexicographically.
func (s *Store) ListRunIDs() ([]string, error) {
	if s == nil {
		return nil, errors.New("nil Store")
	}
	entries, err := os.ReadDir(s.runsRootDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if name := strings.TrimSpace(e.Name()); name != "" {
			ids = append(ids, name)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func writeFileAtomicDurable(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return fsyncDir(dir)
}

func fsyncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	// Directory fsync is best-effort on some filesystems.
	if err := d.Sync(); err != nil && !errors.Is(err, os.ErrInvalid) {
		return err
	}
	return nil
}
