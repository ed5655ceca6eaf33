package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/orbitprop/internal/elements"
	"github.com/san-kum/orbitprop/internal/orbit"
	"github.com/soypat/geometry/md3"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

var csvHeader = []string{"time", "x", "y", "z", "vx", "vy", "vz"}

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
	ID         string             `json:"id"`
	Preset     string             `json:"preset,omitempty"`
	Propagator string             `json:"propagator"`
	Timestamp  time.Time          `json:"timestamp"`
	Mu         float64            `json:"mu"`
	T0         float64            `json:"t0"`
	TF         float64            `json:"tf"`
	Step       float64            `json:"step"`
	Samples    int                `json:"samples"`
	Elements   elements.Classical `json:"elements"`
	P          float64            `json:"p,omitempty"`
	Status     string             `json:"status"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes meta and the history into a new run directory and returns its
// ID. meta.ID, Timestamp and Samples are filled in.
func (s *Store) Save(meta RunMetadata, h *orbit.History) (string, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Propagator, now.UnixNano())
	meta.Timestamp = now
	meta.Samples = h.Len()

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, statesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, h); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// WriteCSV writes the history as time,x,y,z,vx,vy,vz rows.
func WriteCSV(w io.Writer, h *orbit.History) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i := 0; i < h.Len(); i++ {
		sm := h.At(i)
		row := make([]string, 0, len(csvHeader))
		for _, v := range []float64{sm.Time, sm.Position.X, sm.Position.Y, sm.Position.Z, sm.Velocity.X, sm.Velocity.Y, sm.Velocity.Z} {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// List returns the metadata of every run, oldest first. Directories without
// readable metadata are skipped.
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
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Latest returns the ID of the most recent run.
func (s *Store) Latest() (string, error) {
	runs, err := s.List()
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", fmt.Errorf("no runs in %s", s.baseDir)
	}
	return runs[len(runs)-1].ID, nil
}

// LoadHistory reads a run's states back into a sealed history.
func (s *Store) LoadHistory(runID string) (*orbit.History, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadCSV(file)
}

// ReadCSV parses rows written by WriteCSV.
func ReadCSV(r io.Reader) (*orbit.History, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("missing header")
	}

	h := orbit.NewHistory(len(records) - 1)
	for i, rec := range records[1:] {
		var v [7]float64
		for j, field := range rec {
			v[j], err = strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+1, err)
			}
		}
		sm := orbit.Sample{
			Time:     v[0],
			Position: md3.Vec{X: v[1], Y: v[2], Z: v[3]},
			Velocity: md3.Vec{X: v[4], Y: v[5], Z: v[6]},
		}
		if err := h.Append(sm); err != nil {
			return nil, err
		}
	}
	h.Seal()
	return h, nil
}
