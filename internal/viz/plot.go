// Package viz renders run results in the terminal: ascii dose
// profiles and a live progress view for long runs.
package viz

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/guptarohit/asciigraph"
)

// DoseProfile renders a depth-dose curve. zStart is the world z of the
// first bin edge, binWidth the bin pitch in mm.
func DoseProfile(profile []float64, zStart, binWidth float64) string {
	if len(profile) == 0 {
		return "(empty profile)"
	}
	caption := fmt.Sprintf("depth dose, z from %.0f mm, %.1f mm/bin (MeV)", zStart, binWidth)
	return asciigraph.Plot(profile,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
}

// doseFile matches the JSON written by the dose actor's export.
type doseFile struct {
	Bins       int       `json:"bins"`
	Center     float64   `json:"center_mm"`
	HalfLength float64   `json:"half_length_mm"`
	EdepMeV    []float64 `json:"edep_mev"`
}

// DoseProfileFromFile renders a previously exported dose profile.
func DoseProfileFromFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	var d doseFile
	if err := json.NewDecoder(file).Decode(&d); err != nil {
		return "", fmt.Errorf("viz: decode %s: %w", path, err)
	}
	if d.Bins <= 0 || len(d.EdepMeV) == 0 {
		return "", fmt.Errorf("viz: %s holds no dose profile", path)
	}
	binWidth := 2 * d.HalfLength / float64(d.Bins)
	return DoseProfile(d.EdepMeV, d.Center-d.HalfLength, binWidth), nil
}
