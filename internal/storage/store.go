package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	seriesFile   = "trajectory.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID             string             `json:"id"`
	Model          string             `json:"model"`
	Case           string             `json:"case"`
	Preset         string             `json:"preset,omitempty"`
	Timestamp      time.Time          `json:"timestamp"`
	K              float64            `json:"k"`
	Epsilon        float64            `json:"epsilon"`
	ZMin           float64            `json:"z_min"`
	ZMax           float64            `json:"z_max"`
	GridPoints     int                `json:"grid_points"`
	Method         string             `json:"method"`
	Terminal       float64            `json:"terminal_nl"`
	EtaB           float64            `json:"eta_b"`
	Steps          int                `json:"steps"`
	Rejected       int                `json:"rejected"`
	RHSEvaluations int                `json:"rhs_evaluations"`
	ElapsedSeconds float64            `json:"elapsed_seconds"`
	Metrics        map[string]float64 `json:"metrics,omitempty"`
}

// Series is the sampled output of a run. NN and NEq are optional and, when
// present, have the length of Z.
type Series struct {
	Z   []float64 `json:"z"`
	NL  []float64 `json:"n_l"`
	NN  []float64 `json:"n_n,omitempty"`
	NEq []float64 `json:"n_n_eq,omitempty"`
}

func (s Series) columns() ([]string, [][]float64, error) {
	header := []string{"z", "n_l"}
	cols := [][]float64{s.Z, s.NL}
	if s.NN != nil {
		header = append(header, "n_n")
		cols = append(cols, s.NN)
	}
	if s.NEq != nil {
		header = append(header, "n_n_eq")
		cols = append(cols, s.NEq)
	}
	for i, c := range cols {
		if len(c) != len(s.Z) {
			return nil, nil, fmt.Errorf("storage: column %s has %d rows, want %d", header[i], len(c), len(s.Z))
		}
	}
	return header, cols, nil
}

// Save writes a run directory and returns its ID. The ID and timestamp in meta
// are filled in.
func (s *Store) Save(meta RunMetadata, series Series) (string, error) {
	header, cols, err := series.columns()
	if err != nil {
		return "", err
	}

	if err := s.Init(); err != nil {
		return "", err
	}

	// IDs must stay unique when a sweep saves several runs at once.
	now := time.Now()
	var runID, runDir string
	for {
		runID = fmt.Sprintf("%s_%d", meta.Model, now.UnixNano())
		runDir = filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return "", err
		}
		now = now.Add(time.Nanosecond)
	}

	meta.ID = runID
	meta.Timestamp = now

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

	csvFile, err := os.Create(filepath.Join(runDir, seriesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(header); err != nil {
		return "", err
	}
	row := make([]string, len(cols))
	for i := range series.Z {
		for j, c := range cols {
			row[j] = strconv.FormatFloat(c[i], 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns all readable runs, newest first.
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
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
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

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	series := &Series{}
	if len(records) == 0 {
		return series, nil
	}

	targets := make([]*[]float64, len(records[0]))
	for j, name := range records[0] {
		switch name {
		case "z":
			targets[j] = &series.Z
		case "n_l":
			targets[j] = &series.NL
		case "n_n":
			targets[j] = &series.NN
		case "n_n_eq":
			targets[j] = &series.NEq
		}
	}

	for i, record := range records[1:] {
		for j, field := range record {
			if targets[j] == nil {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("run %s: row %d column %s: %w", runID, i+1, records[0][j], err)
			}
			*targets[j] = append(*targets[j], v)
		}
	}
	return series, nil
}

// SeriesPath is the CSV file of a run.
func (s *Store) SeriesPath(runID string) string {
	return filepath.Join(s.baseDir, runID, seriesFile)
}
