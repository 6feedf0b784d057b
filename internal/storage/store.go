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

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/sim"
)

// Store keeps one directory per run under baseDir, each holding
// metadata.json and states.csv.
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
	ID              string             `json:"id"`
	Scene           string             `json:"scene"`
	Timestamp       time.Time          `json:"timestamp"`
	Dim             string             `json:"dim"`
	Method          string             `json:"method"`
	Dt              float64            `json:"dt"`
	Duration        float64            `json:"duration"`
	ErrorTracking   bool               `json:"error_tracking"`
	Collisions      string             `json:"collisions"`
	Particles       int                `json:"particles"`
	Steps           int                `json:"steps"`
	EnergyDrift     float64            `json:"energy_drift"`
	CumulativeError float64            `json:"cumulative_error"`
	Metrics         map[string]float64 `json:"metrics"`
}

var stateHeader = []string{"step", "time", "energy", "error", "id", "x", "y", "z", "vx", "vy", "vz"}

// Save writes the run and returns its id. ID, Timestamp, Steps and the
// result summaries in meta are filled in from the run.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	meta.ID = fmt.Sprintf("%s_%s", meta.Scene, uuid.NewString()[:8])
	meta.Timestamp = time.Now()
	meta.Steps = result.StepsTaken
	meta.EnergyDrift = result.EnergyDrift
	meta.CumulativeError = result.CumulativeError
	meta.Metrics = result.Metrics
	if len(result.Frames) > 0 {
		meta.Particles = len(result.Frames[0].Particles)
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
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
	if err := w.Write(stateHeader); err != nil {
		return "", err
	}
	for _, f := range result.Frames {
		for _, p := range f.Particles {
			row := []string{
				strconv.Itoa(f.Step),
				formatFloat(f.Time),
				formatFloat(f.Energy),
				formatFloat(f.Error),
				p.ID,
				formatFloat(p.Pos.X), formatFloat(p.Pos.Y), formatFloat(p.Pos.Z),
				formatFloat(p.Vel.X), formatFloat(p.Vel.Y), formatFloat(p.Vel.Z),
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return meta.ID, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns the stored runs, oldest first. Directories without readable
// metadata are skipped.
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
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("run %q: %w", runID, dynamo.ErrNotFound)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %q metadata: %w", runID, err)
	}
	return &meta, nil
}

// LoadStates reads states.csv back into frames, one per recorded step.
func (s *Store) LoadStates(runID string) ([]sim.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("run %q: %w", runID, dynamo.ErrNotFound)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(stateHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	frames := make([]sim.Frame, 0)
	for i, rec := range records[1:] {
		step, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("states.csv line %d: %w", i+2, err)
		}
		vals, err := parseFloats(rec[1:4], rec[5:])
		if err != nil {
			return nil, fmt.Errorf("states.csv line %d: %w", i+2, err)
		}

		if len(frames) == 0 || frames[len(frames)-1].Step != step {
			frames = append(frames, sim.Frame{Step: step, Time: vals[0], Energy: vals[1], Error: vals[2]})
		}
		f := &frames[len(frames)-1]
		f.Particles = append(f.Particles, sim.ParticleState{
			ID:  rec[4],
			Pos: r3.Vec{X: vals[3], Y: vals[4], Z: vals[5]},
			Vel: r3.Vec{X: vals[6], Y: vals[7], Z: vals[8]},
		})
	}
	return frames, nil
}

func parseFloats(groups ...[]string) ([]float64, error) {
	var out []float64
	for _, g := range groups {
		for _, field := range g {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
	}
	return out, nil
}
