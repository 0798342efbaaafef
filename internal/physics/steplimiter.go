package physics

import (
	"fmt"

	"github.com/nkrah/opengate-nils/internal/engine"
)

// StepLimiter caps the step length of every track at a user value.
type StepLimiter struct {
	maxStep float64
}

func NewStepLimiter(maxStep float64) *StepLimiter {
	return &StepLimiter{maxStep: maxStep}
}

func (sl *StepLimiter) Name() string { return "StepLimiter" }

func (sl *StepLimiter) StepLimit(tr *engine.Track) float64 {
	if sl.maxStep <= 0 {
		return engine.Unlimited
	}
	return sl.maxStep
}

func (sl *StepLimiter) Execute(tr *engine.Track, s *engine.Step) {}

func (sl *StepLimiter) Params() map[string]float64 {
	return map[string]float64{"max_step": sl.maxStep}
}

func (sl *StepLimiter) SetParam(name string, value float64) error {
	if name != "max_step" {
		return fmt.Errorf("physics: StepLimiter has no parameter %q", name)
	}
	if value <= 0 {
		return fmt.Errorf("physics: max_step must be positive, got %f", value)
	}
	sl.maxStep = value
	return nil
}
