package engine

// Track is one particle in flight. Energy is kinetic energy in MeV.
// Direction is kept unit-length by the stepping loop.
type Track struct {
	ID        int
	EventID   int
	Particle  Particle
	Energy    float64
	Position  Vec3
	Direction Vec3
	Time      float64
	Weight    float64
	Alive     bool

	// Volume is the name of the volume currently containing the track,
	// updated by the stepping loop after each step.
	Volume string
}

// Kill marks the track dead; the stepping loop stops it after the
// current step completes.
func (t *Track) Kill() {
	t.Alive = false
}

// IsValid reports whether energy and position are finite.
func (t *Track) IsValid() bool {
	return t.Position.IsValid() && t.Direction.IsValid() &&
		t.Energy == t.Energy && t.Energy >= 0
}

// Step records one advance of a track. Edep is the energy deposited
// along the step, Length the geometric path length.
type Step struct {
	Length    float64
	Edep      float64
	PrePos    Vec3
	PostPos   Vec3
	PreVolume string
	// LimitedBy names the process that proposed the winning step limit.
	LimitedBy string
	// Secondaries spawned by the post-step action; the run manager
	// pushes them onto the track stack of the current event.
	Secondaries []*Track
}
