// Package actors provides run observers: scoring and bookkeeping hooks
// called by the run manager at run, event, track and step boundaries.
package actors

import (
	"github.com/nkrah/opengate-nils/internal/engine"
)

// BaseActor implements every engine.Actor hook as a no-op. Concrete
// actors embed it and override only the hooks they score on.
type BaseActor struct {
	Name string
}

func (b *BaseActor) ActorName() string { return b.Name }

func (b *BaseActor) BeginOfRun(r *engine.RunInfo) {}
func (b *BaseActor) EndOfRun(r *engine.RunInfo)   {}
func (b *BaseActor) BeginOfEvent(eventID int)     {}
func (b *BaseActor) EndOfEvent(eventID int)       {}
func (b *BaseActor) PreTracking(t *engine.Track)  {}
func (b *BaseActor) PostTracking(t *engine.Track) {}

func (b *BaseActor) SteppingAction(t *engine.Track, s *engine.Step) {}

// TypeNames returns the actor types the configuration layer accepts.
func TypeNames() []string {
	return []string{"SimulationStatistics", "Dose", "PhaseSpace", "Kill"}
}
