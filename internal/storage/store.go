// Package storage persists scenario runs to disk: one metadata.json
// describing the run's configuration, and one states.csv sampling a
// tracked body's kinematics (and the run's constraint residual) once per
// recorded step.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
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

// RunMetadata describes the scenario and step configuration a run used.
type RunMetadata struct {
	ID          string    `json:"id"`
	Model       string    `json:"model"`
	Timestamp   time.Time `json:"timestamp"`
	Seed        int64     `json:"seed"`
	Dt          float64   `json:"dt"`
	Steps       int       `json:"steps"`
	ThreadModel string    `json:"thread_model"`
	ThreadCount int       `json:"thread_count"`
}

// Sample is one recorded step of a tracked body: its kinematics plus the
// step's total constraint residual (sum of |accumulated_impulse| across
// every active hinge and point-on-plane row), a coarse proxy for how far the solver still is from
// converged.
type Sample struct {
	Time        float64
	Position    [3]float64
	Orientation [4]float64 // w, x, y, z
	Residual    float64
}

// Save writes a run's metadata and sample history under a fresh run
// directory and returns its id.
func (s *Store) Save(model string, dt float64, steps int, seed int64, threadModel string, threadCount int, samples []Sample) (string, error) {
	runID := fmt.Sprintf("%s_%d", model, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Model:       model,
		Timestamp:   time.Now(),
		Seed:        seed,
		Dt:          dt,
		Steps:       steps,
		ThreadModel: threadModel,
		ThreadCount: threadCount,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "states.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := []string{"time", "px", "py", "pz", "qw", "qx", "qy", "qz", "residual"}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, smp := range samples {
		row := []string{
			strconv.FormatFloat(smp.Time, 'f', 6, 64),
			strconv.FormatFloat(smp.Position[0], 'f', 6, 64),
			strconv.FormatFloat(smp.Position[1], 'f', 6, 64),
			strconv.FormatFloat(smp.Position[2], 'f', 6, 64),
			strconv.FormatFloat(smp.Orientation[0], 'f', 6, 64),
			strconv.FormatFloat(smp.Orientation[1], 'f', 6, 64),
			strconv.FormatFloat(smp.Orientation[2], 'f', 6, 64),
			strconv.FormatFloat(smp.Orientation[3], 'f', 6, 64),
			strconv.FormatFloat(smp.Residual, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

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

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]Sample, error) {
	csvPath := filepath.Join(s.baseDir, runID, "states.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Sample{}, nil
	}

	samples := make([]Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 9 {
			continue
		}
		vals := make([]float64, 9)
		ok := true
		for i := 0; i < 9; i++ {
			v, err := strconv.ParseFloat(record[i], 64)
			if err != nil {
				ok = false
				break
			}
			vals[i] = v
		}
		if !ok {
			continue
		}
		samples = append(samples, Sample{
			Time:        vals[0],
			Position:    [3]float64{vals[1], vals[2], vals[3]},
			Orientation: [4]float64{vals[4], vals[5], vals[6], vals[7]},
			Residual:    vals[8],
		})
	}

	return samples, nil
}
