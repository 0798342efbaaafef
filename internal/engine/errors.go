package engine

import "errors"

// Domain errors for transport runs.
var (
	// ErrUnknownParticle indicates a species name absent from the table.
	ErrUnknownParticle = errors.New("engine: unknown particle")

	// ErrInvalidTrack indicates a track with NaN/Inf kinematics.
	ErrInvalidTrack = errors.New("engine: invalid track (NaN or Inf detected)")

	// ErrNoSource indicates a run started without any primary source.
	ErrNoSource = errors.New("engine: no source attached")

	// ErrStepStuck indicates the stepping loop stopped making progress.
	ErrStepStuck = errors.New("engine: step length below minimum (track stuck)")

	// ErrCanceled indicates the run was interrupted.
	ErrCanceled = errors.New("engine: run canceled by context")
)

// TrackingError wraps an error with tracking context.
type TrackingError struct {
	EventID int
	TrackID int
	Wrapped error
}

func (e *TrackingError) Error() string {
	return e.Wrapped.Error()
}

func (e *TrackingError) Unwrap() error {
	return e.Wrapped
}
