package storage

import (
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
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/metrics"
	"github.com/san-kum/rocketsim/internal/sim"
	"github.com/san-kum/rocketsim/internal/vehicle"
)

const metadataFile = "metadata.json"

var (
	ErrRunNotFound  = errors.New("storage: run not found")
	ErrAmbiguousRun = errors.New("storage: run id prefix is ambiguous")
)

// Store keeps runs on disk, one directory per run named by its id.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string                `json:"id"`
	Mission    string                `json:"mission"`
	Controller string                `json:"controller"`
	Timestamp  time.Time             `json:"timestamp"`
	Dt         float64               `json:"dt"`
	Steps      int                   `json:"steps"`
	Outcome    sim.Outcome           `json:"outcome"`
	Error      string                `json:"error,omitempty"`
	Summary    metrics.FlightSummary `json:"summary"`
	Metrics    map[string]float64    `json:"metrics"`
	Vehicle    *vehicle.Mission      `json:"vehicle"`
}

// Save writes a completed run and returns its id.
func (s *Store) Save(r *sim.Result, m *vehicle.Mission) (string, error) {
	id := uuid.NewString()
	runDir := filepath.Join(s.baseDir, id)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         id,
		Mission:    r.Mission,
		Controller: r.Controller,
		Timestamp:  time.Now().UTC(),
		Dt:         r.Dt,
		Steps:      r.StepsTaken,
		Outcome:    r.Outcome,
		Summary:    metrics.Summarize(r),
		Metrics:    r.Metrics,
		Vehicle:    m,
	}
	if r.Err != nil {
		meta.Error = r.Err.Error()
	}

	if err := writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(runDir, TrajectoryFile), func(w io.Writer) error {
		return WriteTrajectoryCSV(w, r)
	}); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(runDir, EventsFile), func(w io.Writer) error {
		return WriteEventsCSV(w, r.Events)
	}); err != nil {
		return "", err
	}

	return id, nil
}

// List returns the stored runs, newest first. Unreadable entries are
// skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

// Resolve expands a unique id prefix to the full run id.
func (s *Store) Resolve(prefix string) (string, error) {
	if _, err := uuid.Parse(prefix); err == nil {
		if _, err := os.Stat(filepath.Join(s.baseDir, prefix, metadataFile)); err != nil {
			return "", fmt.Errorf("%w: %s", ErrRunNotFound, prefix)
		}
		return prefix, nil
	}

	entries, err := os.ReadDir(s.baseDir)
	if err != nil && !os.IsNotExist(err) {
		return "", err
	}
	var matches []string
	for _, entry := range entries {
		if entry.IsDir() && prefix != "" && strings.HasPrefix(entry.Name(), prefix) {
			matches = append(matches, entry.Name())
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrRunNotFound, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s matches %d runs", ErrAmbiguousRun, prefix, len(matches))
	}
}

func (s *Store) runPath(runID, name string) (string, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return "", fmt.Errorf("%w: invalid id %q", ErrRunNotFound, runID)
	}
	return filepath.Join(s.baseDir, runID, name), nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	path, err := s.runPath(runID, metadataFile)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) ([]dynamo.State, []dynamo.GncCommand, error) {
	path, err := s.runPath(runID, TrajectoryFile)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return ReadTrajectoryCSV(f)
}

func (s *Store) LoadEvents(runID string) ([]sim.Event, error) {
	path, err := s.runPath(runID, EventsFile)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadEventsCSV(f)
}

// LoadResult rebuilds a run for replay, plotting and export. The
// reconstructed Err carries only the stored message.
func (s *Store) LoadResult(runID string) (*sim.Result, *RunMetadata, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	states, cmds, err := s.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}
	events, err := s.LoadEvents(runID)
	if err != nil {
		return nil, nil, err
	}

	r := &sim.Result{
		Mission:    meta.Mission,
		Controller: meta.Controller,
		Dt:         meta.Dt,
		States:     states,
		Commands:   cmds,
		Events:     events,
		Outcome:    meta.Outcome,
		Metrics:    meta.Metrics,
		StepsTaken: meta.Steps,
	}
	if meta.Error != "" {
		r.Err = errors.New(meta.Error)
	}
	return r, meta, nil
}

func (s *Store) Delete(runID string) error {
	dir, err := s.runPath(runID, "")
	if err != nil {
		return err
	}
	return os.RemoveAll(dir)
}
