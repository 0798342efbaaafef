package actors

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/nkrah/opengate-nils/internal/engine"
)

// PhaseSpaceActor records every track entering its attached volume:
// species, kinetic energy, position and direction at the crossing.
type PhaseSpaceActor struct {
	BaseActor

	Volume string

	rows [][]string
	// seen tracks inside the volume, reset per event
	inside map[int]bool
}

func NewPhaseSpaceActor(name, volume string) *PhaseSpaceActor {
	return &PhaseSpaceActor{
		BaseActor: BaseActor{Name: name},
		Volume:    volume,
		inside:    make(map[int]bool),
	}
}

func (a *PhaseSpaceActor) BeginOfEvent(eventID int) {
	a.inside = make(map[int]bool)
}

func (a *PhaseSpaceActor) SteppingAction(t *engine.Track, s *engine.Step) {
	entering := t.Volume == a.Volume && s.PreVolume != a.Volume
	if !entering || a.inside[t.ID] {
		return
	}
	a.inside[t.ID] = true
	a.rows = append(a.rows, []string{
		strconv.Itoa(t.EventID),
		t.Particle.Name,
		strconv.FormatFloat(t.Energy, 'g', -1, 64),
		strconv.FormatFloat(t.Position.X, 'g', -1, 64),
		strconv.FormatFloat(t.Position.Y, 'g', -1, 64),
		strconv.FormatFloat(t.Position.Z, 'g', -1, 64),
		strconv.FormatFloat(t.Direction.X, 'g', -1, 64),
		strconv.FormatFloat(t.Direction.Y, 'g', -1, 64),
		strconv.FormatFloat(t.Direction.Z, 'g', -1, 64),
	})
}

// Count is the number of recorded crossings.
func (a *PhaseSpaceActor) Count() int { return len(a.rows) }

// WriteCSV stores the recorded crossings.
func (a *PhaseSpaceActor) WriteCSV(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := []string{"event", "particle", "energy_mev", "x_mm", "y_mm", "z_mm", "dx", "dy", "dz"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range a.rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
