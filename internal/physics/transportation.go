package physics

import (
	"github.com/nkrah/opengate-nils/internal/engine"
	"github.com/nkrah/opengate-nils/internal/geometry"
)

// boundaryPush moves the post-step point just past the surface so the
// relocation lands in the next volume.
const boundaryPush = 1e-6 * engine.MM

// Transportation limits every step at the next geometry boundary.
// Every track needs it attached; a physics list without it never moves
// a track across volumes.
type Transportation struct {
	world *geometry.World
}

func NewTransportation(world *geometry.World) *Transportation {
	return &Transportation{world: world}
}

func (t *Transportation) Name() string { return "Transportation" }

func (t *Transportation) StepLimit(tr *engine.Track) float64 {
	d := t.world.DistanceToBoundary(tr.Position, tr.Direction)
	return d + boundaryPush
}

func (t *Transportation) Execute(tr *engine.Track, s *engine.Step) {
	// crossing itself has no physics action; relocation happens in the
	// stepping loop
}
