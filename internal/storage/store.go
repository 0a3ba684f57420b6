// Package storage keeps run records on disk: one directory per run with the
// run metadata, the configuration and the per-frame metric series. Particle
// state is never written.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/metrics"
)

const (
	metadataFile = "metadata.json"
	configFile   = "config.yaml"
	seriesFile   = "metrics.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

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
	Name       string             `json:"name,omitempty"`
	Model      string             `json:"model"`
	Dim        int                `json:"dim"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Substeps   int                `json:"substeps"`
	Frames     int                `json:"frames"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator"`
	Capacity   int                `json:"capacity"`
	Particles  int                `json:"particles"`
	Elapsed    time.Duration      `json:"elapsed_ns"`
	Metrics    map[string]float64 `json:"metrics"`
}

// NewMetadata fills the configuration part of a run record.
func NewMetadata(cfg *config.Config) RunMetadata {
	return RunMetadata{
		Name:       cfg.Name,
		Model:      cfg.Model,
		Dim:        cfg.Dim,
		Seed:       cfg.Seed,
		Dt:         cfg.Dt,
		Substeps:   cfg.Substeps,
		Integrator: cfg.Integrator,
		Capacity:   cfg.Capacity,
	}
}

// Save writes a new run directory and returns its ID. cfg may be nil.
func (s *Store) Save(meta RunMetadata, cfg *config.Config, rec *metrics.Recorder) (string, error) {
	now := time.Now()
	label := meta.Model
	if meta.Name != "" {
		label = meta.Name
	}
	runID := fmt.Sprintf("%s_%d", label, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	if meta.Metrics == nil {
		meta.Metrics = rec.Final()
	}
	// JSON has no NaN or Inf
	for k, v := range meta.Metrics {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			delete(meta.Metrics, k)
		}
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	if cfg != nil {
		if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
			return "", err
		}
	}

	if err := writeSeries(filepath.Join(runDir, seriesFile), rec); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSeries(path string, rec *metrics.Recorder) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	names := rec.Names()
	header := append([]string{"time"}, names...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i, t := range rec.Times() {
		row := []string{strconv.FormatFloat(t, 'g', -1, 64)}
		for _, name := range names {
			row = append(row, strconv.FormatFloat(rec.Series(name)[i], 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
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
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
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

// LoadConfig returns the configuration stored with a run.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	cfg, err := config.Load(filepath.Join(s.baseDir, runID, configFile))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s has no configuration", ErrRunNotFound, runID)
	}
	return cfg, err
}

// Series is the metric table of one run.
type Series struct {
	Names  []string
	Times  []float64
	Values map[string][]float64
}

func (s *Store) LoadSeries(runID string) (*Series, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	out := &Series{Values: make(map[string][]float64)}
	if len(records) == 0 {
		return out, nil
	}
	out.Names = append(out.Names, records[0][1:]...)

	for _, record := range records[1:] {
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("storage: bad time %q: %w", record[0], err)
		}
		out.Times = append(out.Times, t)
		for j, name := range out.Names {
			v, err := strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("storage: bad %s value %q: %w", name, record[j+1], err)
			}
			out.Values[name] = append(out.Values[name], v)
		}
	}
	return out, nil
}

// SeriesPath is the location of a run's metric CSV.
func (s *Store) SeriesPath(runID string) string {
	return filepath.Join(s.baseDir, runID, seriesFile)
}
