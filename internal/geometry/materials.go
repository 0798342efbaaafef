package geometry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/nkrah/opengate-nils/internal/engine"
)

// ErrUnknownMaterial indicates a material name absent from the database.
var ErrUnknownMaterial = errors.New("geometry: unknown material")

// Material carries the bulk properties the physics processes need.
// Density is in g/cm3, MeanExcitation in MeV, ZoverA dimensionless,
// RadLen the radiation length in mm.
type Material struct {
	Name           string
	Density        float64
	ZoverA         float64
	MeanExcitation float64
	RadLen         float64
}

// ElectronDensity returns electrons per mm3 times the classical
// prefactor folded into the stopping power formula; processes use it
// as the density scale of the medium.
func (m Material) ElectronDensity() float64 {
	// N_A * Z/A * rho, in electrons per cm3, converted to mm3
	const avogadro = 6.02214076e23
	return avogadro * m.ZoverA * m.Density / 1000.0
}

// MaterialDatabase is the built-in material table. Matches the subset
// of the NIST names the configuration layer accepts.
type MaterialDatabase struct {
	materials map[string]Material
}

func NewMaterialDatabase() *MaterialDatabase {
	db := &MaterialDatabase{materials: make(map[string]Material)}
	for _, m := range []Material{
		{Name: "Vacuum", Density: 1e-25 * engine.GramPerCM3, ZoverA: 0.5, MeanExcitation: 19.2e-6 * engine.MeV, RadLen: 1e12 * engine.MM},
		{Name: "Air", Density: 1.205e-3 * engine.GramPerCM3, ZoverA: 0.499, MeanExcitation: 85.7e-6 * engine.MeV, RadLen: 3.04e5 * engine.MM},
		{Name: "Water", Density: 1.0 * engine.GramPerCM3, ZoverA: 0.555, MeanExcitation: 78.0e-6 * engine.MeV, RadLen: 360.8 * engine.MM},
		{Name: "Bone", Density: 1.85 * engine.GramPerCM3, ZoverA: 0.530, MeanExcitation: 106.4e-6 * engine.MeV, RadLen: 178.0 * engine.MM},
		{Name: "Lung", Density: 0.26 * engine.GramPerCM3, ZoverA: 0.550, MeanExcitation: 75.3e-6 * engine.MeV, RadLen: 1390.0 * engine.MM},
		{Name: "Aluminium", Density: 2.699 * engine.GramPerCM3, ZoverA: 0.482, MeanExcitation: 166.0e-6 * engine.MeV, RadLen: 89.0 * engine.MM},
		{Name: "Lead", Density: 11.35 * engine.GramPerCM3, ZoverA: 0.396, MeanExcitation: 823.0e-6 * engine.MeV, RadLen: 5.6 * engine.MM},
	} {
		db.materials[m.Name] = m
	}
	return db
}

// Find returns the material with the given name.
func (db *MaterialDatabase) Find(name string) (Material, error) {
	m, ok := db.materials[name]
	if !ok {
		return Material{}, fmt.Errorf("%w: %q", ErrUnknownMaterial, name)
	}
	return m, nil
}

// Names returns all material names, sorted.
func (db *MaterialDatabase) Names() []string {
	names := make([]string, 0, len(db.materials))
	for name := range db.materials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
