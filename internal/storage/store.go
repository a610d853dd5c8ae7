// Package storage records simulation runs on disk. Each run gets its own
// directory under the base path holding a metadata document and the
// recorded link pose trajectory.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/rigsim/internal/rig"
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

type RunMetadata struct {
	ID        string    `json:"id"`
	World     string    `json:"world"`
	Timestamp time.Time `json:"timestamp"`
	Step      float64   `json:"step"`
	Duration  float64   `json:"duration"`
	Accuracy  float64   `json:"accuracy"`
	Links     []string  `json:"links"`
	Steps     int       `json:"steps"`
}

// Trajectory buffers link poses in step order. Links fixes the column
// order; Poses holds one row per recorded step in that order.
type Trajectory struct {
	Times []float64
	Links []string
	Poses [][]rig.Pose
}

func NewTrajectory(links []string) *Trajectory {
	return &Trajectory{Links: links}
}

func (tr *Trajectory) Append(t float64, poses []rig.Pose) {
	tr.Times = append(tr.Times, t)
	tr.Poses = append(tr.Poses, poses)
}

// Save writes one run directory named <world>_<unixtime> and returns its
// id.
func (s *Store) Save(world string, step, duration, accuracy float64, tr *Trajectory) (string, error) {
	base := fmt.Sprintf("%s_%d", world, time.Now().Unix())
	runID := base
	runDir := filepath.Join(s.baseDir, runID)
	// Back-to-back saves of the same world can land in the same second.
	for n := 2; ; n++ {
		if _, err := os.Stat(runDir); os.IsNotExist(err) {
			break
		}
		runID = fmt.Sprintf("%s_%d", base, n)
		runDir = filepath.Join(s.baseDir, runID)
	}

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		World:     world,
		Timestamp: time.Now(),
		Step:      step,
		Duration:  duration,
		Accuracy:  accuracy,
		Links:     tr.Links,
		Steps:     len(tr.Times),
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

	csvFile, err := os.Create(filepath.Join(runDir, "poses.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := []string{"time", "link", "px", "py", "pz", "qw", "qx", "qy", "qz"}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i, t := range tr.Times {
		for j, link := range tr.Links {
			p := tr.Poses[i][j]
			row := []string{
				strconv.FormatFloat(t, 'f', 6, 64),
				link,
				strconv.FormatFloat(p.Pos[0], 'f', 6, 64),
				strconv.FormatFloat(p.Pos[1], 'f', 6, 64),
				strconv.FormatFloat(p.Pos[2], 'f', 6, 64),
				strconv.FormatFloat(p.Rot.W, 'f', 6, 64),
				strconv.FormatFloat(p.Rot.V[0], 'f', 6, 64),
				strconv.FormatFloat(p.Rot.V[1], 'f', 6, 64),
				strconv.FormatFloat(p.Rot.V[2], 'f', 6, 64),
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}

	return runID, nil
}

// List scans the base directory for runs. Entries without a readable
// metadata document are skipped.
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

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
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

// LoadPoses reads a run's trajectory back. Rows are regrouped into steps
// by their time column, so the row order within a step does not matter.
func (s *Store) LoadPoses(runID string) (*Trajectory, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, "poses.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	ix := make(map[string]int, len(meta.Links))
	for i, link := range meta.Links {
		ix[link] = i
	}

	tr := NewTrajectory(meta.Links)
	lastTime := 0.0
	for i := 1; i < len(records); i++ {
		rec := records[i]
		if len(rec) < 9 {
			continue
		}
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			continue
		}
		col, ok := ix[rec[1]]
		if !ok {
			continue
		}

		if len(tr.Times) == 0 || t != lastTime {
			tr.Append(t, make([]rig.Pose, len(meta.Links)))
			lastTime = t
		}

		var v [7]float64
		bad := false
		for k := 0; k < 7; k++ {
			v[k], err = strconv.ParseFloat(rec[2+k], 64)
			if err != nil {
				bad = true
				break
			}
		}
		if bad {
			continue
		}
		tr.Poses[len(tr.Poses)-1][col] = rig.Pose{
			Pos: mgl64.Vec3{v[0], v[1], v[2]},
			Rot: mgl64.Quat{W: v[3], V: mgl64.Vec3{v[4], v[5], v[6]}},
		}
	}

	return tr, nil
}
