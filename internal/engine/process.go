package engine

import "math"

// Unlimited is the step limit returned by processes that do not
// constrain the current step.
const Unlimited = math.MaxFloat64

// Process is the abstract interaction behavior. Concrete processes are
// created and owned by the physics list; nothing outside the engine may
// destroy one. Each step, every attached process proposes a limit and
// the smallest proposal wins; the winning process then gets to act on
// the track.
type Process interface {
	Name() string

	// StepLimit returns the maximum step length this process allows
	// for the track, or Unlimited.
	StepLimit(t *Track) float64

	// Execute applies the post-step action. Only the process whose
	// limit won the step is executed.
	Execute(t *Track, s *Step)
}

// ContinuousProcess acts along every step regardless of which process
// limited it, e.g. continuous energy loss.
type ContinuousProcess interface {
	Process
	AlongStep(t *Track, s *Step)
}

// Configurable is implemented by processes and sources whose
// parameters may be inspected and tuned at assembly time or from the
// scripting layer.
type Configurable interface {
	Params() map[string]float64
	SetParam(name string, value float64) error
}

// Source generates the primary tracks of an event.
type Source interface {
	Name() string

	// EventCount is the number of events this source wants to run.
	EventCount() int

	// GeneratePrimaries returns the primary tracks for one event.
	GeneratePrimaries(eventID int, rng *Rand) []*Track
}

// Actor observes a run. Hooks are called synchronously from the
// tracking loop; an actor that does nothing for a hook implements it
// as a no-op.
type Actor interface {
	ActorName() string

	BeginOfRun(r *RunInfo)
	EndOfRun(r *RunInfo)
	BeginOfEvent(eventID int)
	EndOfEvent(eventID int)
	PreTracking(t *Track)
	PostTracking(t *Track)
	SteppingAction(t *Track, s *Step)
}
