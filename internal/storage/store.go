// Package storage archives completed runs on disk. Each run gets its
// own directory under the base path holding a metadata.json and a
// snapshot of the configuration it was produced from.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nkrah/opengate-nils/internal/config"
	"github.com/nkrah/opengate-nils/internal/engine"
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
	Timestamp time.Time `json:"timestamp"`
	Seed      int64     `json:"seed"`
	Particle  string    `json:"particle"`
	Energy    float64   `json:"energy_mev"`
	Events    int       `json:"events"`
	Tracks    int       `json:"tracks"`
	Steps     int       `json:"steps"`
	EdepTotal float64   `json:"edep_mev"`
	Duration  float64   `json:"duration_s"`
	Outputs   []string  `json:"outputs,omitempty"`
}

// Save records one finished run and returns its ID. The configuration
// is written next to the metadata so the run can be reproduced.
func (s *Store) Save(cfg *config.Config, result *engine.Result, outputs []string) (string, error) {
	runID := fmt.Sprintf("%s_%d", cfg.Source.Particle, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: time.Now(),
		Seed:      result.Seed,
		Particle:  cfg.Source.Particle,
		Energy:    cfg.Source.Energy,
		Events:    result.EventCount,
		Tracks:    result.TrackCount,
		Steps:     result.StepCount,
		EdepTotal: result.EdepTotal,
		Duration:  result.Duration.Seconds(),
		Outputs:   outputs,
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

	if err := config.Save(filepath.Join(runDir, "config.yaml"), cfg); err != nil {
		return "", err
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

// LoadConfig restores the configuration snapshot of an archived run.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, "config.yaml"))
}
