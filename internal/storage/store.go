package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/oscillab/crvdo/internal/dynamo"
	"github.com/oscillab/crvdo/internal/sim"
)

// Store persists simulation runs under a base directory, one
// subdirectory per run holding metadata.json and states.csv.
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
	ID          string             `json:"id"`
	Timestamp   time.Time          `json:"timestamp"`
	Dt          float64            `json:"dt"`
	Steps       int                `json:"steps"`
	Oscillators int                `json:"oscillators"`
	Integrator  string             `json:"integrator"`
	Controller  string             `json:"controller"`
	Params      [][]float64        `json:"params"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes one run. The CSV carries a time column followed by
// o<i>_z<j> columns, one block of four per oscillator.
func (s *Store) Save(dt float64, integrator, controller string, params dynamo.ParamBatch, result *sim.Result) (string, error) {
	if len(result.States) == 0 {
		return "", fmt.Errorf("storage: refusing to save empty run")
	}

	runID := fmt.Sprintf("run_%d", time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	n := len(result.States[0])

	paramRows := make([][]float64, len(params))
	for i, p := range params {
		row := make([]float64, dynamo.ParamDim)
		copy(row, p[:])
		paramRows[i] = row
	}

	meta := RunMetadata{
		ID:          runID,
		Timestamp:   time.Now(),
		Dt:          dt,
		Steps:       result.StepsTaken,
		Oscillators: n,
		Integrator:  integrator,
		Controller:  controller,
		Params:      paramRows,
		Metrics:     result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := []string{"time"}
	for i := 0; i < n; i++ {
		for j := 1; j <= dynamo.StateDim; j++ {
			header = append(header, fmt.Sprintf("o%d_z%d", i, j))
		}
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for k, batch := range result.States {
		row := make([]string, 0, 1+n*dynamo.StateDim)
		row = append(row, strconv.FormatFloat(result.Times[k], 'g', 17, 64))
		for i := range batch {
			for _, v := range batch[i] {
				row = append(row, strconv.FormatFloat(v, 'g', 17, 64))
			}
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, w.Error()
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadStates reads back the state history of a run.
func (s *Store) LoadStates(runID string) ([]dynamo.StateBatch, []float64, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 1 {
		return nil, nil, fmt.Errorf("storage: empty states.csv for %s", runID)
	}

	cols := len(records[0])
	if (cols-1)%dynamo.StateDim != 0 {
		return nil, nil, fmt.Errorf("storage: malformed states.csv for %s: %d columns", runID, cols)
	}
	n := (cols - 1) / dynamo.StateDim

	states := make([]dynamo.StateBatch, 0, len(records)-1)
	times := make([]float64, 0, len(records)-1)

	for _, rec := range records[1:] {
		if len(rec) != cols {
			return nil, nil, fmt.Errorf("storage: ragged row in states.csv for %s", runID)
		}
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, nil, err
		}
		batch := make(dynamo.StateBatch, n)
		for i := 0; i < n; i++ {
			for j := 0; j < dynamo.StateDim; j++ {
				v, err := strconv.ParseFloat(rec[1+i*dynamo.StateDim+j], 64)
				if err != nil {
					return nil, nil, err
				}
				batch[i][j] = v
			}
		}
		states = append(states, batch)
		times = append(times, t)
	}

	return states, times, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.Load(e.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}
