package actors

import (
	"github.com/nkrah/opengate-nils/internal/engine"
)

// KillActor stops every track that enters its attached volume.
type KillActor struct {
	BaseActor

	Volume string
	Killed int
}

func NewKillActor(name, volume string) *KillActor {
	return &KillActor{BaseActor: BaseActor{Name: name}, Volume: volume}
}

func (a *KillActor) SteppingAction(t *engine.Track, s *engine.Step) {
	if t.Alive && t.Volume == a.Volume {
		t.Kill()
		a.Killed++
	}
}
