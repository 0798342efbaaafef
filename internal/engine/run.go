package engine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"
)

// speed of light in mm/ns
const cLight = 299.792458

// Navigator locates a point in the geometry. Implemented by the
// geometry world; the engine only needs containment answers.
type Navigator interface {
	// LocateVolume returns the name of the innermost volume containing
	// p, or ok=false when p is outside the world.
	LocateVolume(p Vec3) (name string, ok bool)
}

// Config holds the run parameters.
type Config struct {
	Seed      int64
	EnergyCut float64
	MaxSteps  int
	MinStep   float64
	Verbose   bool
}

func DefaultConfig() Config {
	return Config{
		Seed:      1234567,
		EnergyCut: 1 * KeV,
		MaxSteps:  100000,
		MinStep:   1e-9 * MM,
	}
}

// RunInfo is the per-run metadata handed to actor hooks.
type RunInfo struct {
	RunID  int
	Seed   int64
	Events int
}

// Result accumulates run counters and non-fatal errors.
type Result struct {
	EventCount int
	TrackCount int
	StepCount  int
	EdepTotal  float64
	Duration   time.Duration
	Seed       int64
	Errors     []error
}

// RunManager drives events through the physics list and geometry,
// invoking actor hooks along the way.
type RunManager struct {
	nav     Navigator
	physics *PhysicsList
	sources []Source
	actors  []Actor
	cfg     Config
	rng     *Rand
	logger  *log.Logger

	// Progress, when non-nil, receives the event index after each
	// completed event. Sends never block.
	Progress chan<- int
}

func NewRunManager(nav Navigator, physics *PhysicsList, cfg Config) *RunManager {
	return &RunManager{
		nav:     nav,
		physics: physics,
		cfg:     cfg,
		rng:     NewRand(cfg.Seed),
		sources: make([]Source, 0),
		actors:  make([]Actor, 0),
		logger:  log.Default(),
	}
}

// Rng returns the run's random engine, shared with processes and
// sources so one seed reproduces the whole run.
func (m *RunManager) Rng() *Rand { return m.rng }

// Config exposes the run parameters for assembly-time adjustment.
func (m *RunManager) Config() *Config { return &m.cfg }

func (m *RunManager) AddSource(s Source) { m.sources = append(m.sources, s) }
func (m *RunManager) AddActor(a Actor)   { m.actors = append(m.actors, a) }

// SetLogger replaces the default logger.
func (m *RunManager) SetLogger(l *log.Logger) { m.logger = l }

// TotalEvents is the number of events the attached sources will produce.
func (m *RunManager) TotalEvents() int {
	n := 0
	for _, s := range m.sources {
		n += s.EventCount()
	}
	return n
}

// Run executes one run: every event of every source, tracked to
// completion. The returned result is valid even when an error is
// returned; ctx cancellation stops between events.
func (m *RunManager) Run(ctx context.Context) (*Result, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}

	rng := m.rng
	result := &Result{Seed: rng.Seed()}
	info := &RunInfo{RunID: 0, Seed: rng.Seed(), Events: m.TotalEvents()}

	m.logger.Info("run start", "events", info.Events, "seed", info.Seed)
	start := time.Now()

	for _, a := range m.actors {
		a.BeginOfRun(info)
	}

	eventID := 0
	for _, src := range m.sources {
		for i := 0; i < src.EventCount(); i++ {
			select {
			case <-ctx.Done():
				result.Duration = time.Since(start)
				return result, fmt.Errorf("%w: %v", ErrCanceled, ctx.Err())
			default:
			}

			m.runEvent(eventID, src, rng, result)
			result.EventCount++
			eventID++

			if m.Progress != nil {
				select {
				case m.Progress <- eventID:
				default:
				}
			}
		}
	}

	for _, a := range m.actors {
		a.EndOfRun(info)
	}

	result.Duration = time.Since(start)
	m.logger.Info("run done",
		"events", result.EventCount,
		"tracks", result.TrackCount,
		"steps", result.StepCount,
		"duration", result.Duration)
	return result, nil
}

func (m *RunManager) validate() error {
	if len(m.sources) == 0 {
		return ErrNoSource
	}
	if m.cfg.MaxSteps <= 0 {
		return fmt.Errorf("engine: max steps must be positive, got %d", m.cfg.MaxSteps)
	}
	if m.cfg.EnergyCut < 0 {
		return fmt.Errorf("engine: energy cut must be non-negative, got %f", m.cfg.EnergyCut)
	}
	return nil
}

func (m *RunManager) runEvent(eventID int, src Source, rng *Rand, result *Result) {
	for _, a := range m.actors {
		a.BeginOfEvent(eventID)
	}

	stack := src.GeneratePrimaries(eventID, rng)
	nextTrackID := 1
	for _, tr := range stack {
		tr.ID = nextTrackID
		nextTrackID++
		tr.EventID = eventID
	}

	for len(stack) > 0 {
		tr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		result.TrackCount++

		for _, a := range m.actors {
			a.PreTracking(tr)
		}

		secondaries := m.trackToCompletion(tr, result)
		for _, sec := range secondaries {
			sec.ID = nextTrackID
			nextTrackID++
			sec.EventID = eventID
			stack = append(stack, sec)
		}

		for _, a := range m.actors {
			a.PostTracking(tr)
		}
	}

	for _, a := range m.actors {
		a.EndOfEvent(eventID)
	}
}

// trackToCompletion steps one track until it dies, collecting any
// secondaries it spawns.
func (m *RunManager) trackToCompletion(tr *Track, result *Result) []*Track {
	var secondaries []*Track
	continuous := m.physics.Continuous()
	stuckSteps := 0

	if name, ok := m.nav.LocateVolume(tr.Position); ok {
		tr.Volume = name
	} else {
		// primary born outside the world
		tr.Kill()
		return nil
	}

	for steps := 0; tr.Alive; steps++ {
		if steps >= m.cfg.MaxSteps {
			result.Errors = append(result.Errors, &TrackingError{
				EventID: tr.EventID, TrackID: tr.ID,
				Wrapped: fmt.Errorf("engine: track exceeded %d steps", m.cfg.MaxSteps),
			})
			tr.Kill()
			break
		}
		if !tr.IsValid() {
			result.Errors = append(result.Errors, &TrackingError{
				EventID: tr.EventID, TrackID: tr.ID, Wrapped: ErrInvalidTrack,
			})
			tr.Kill()
			break
		}

		length, winner := m.physics.ProposeStep(tr)
		if winner == nil {
			// no process wants the track; nothing can happen to it
			tr.Kill()
			break
		}
		if length < m.cfg.MinStep {
			length = m.cfg.MinStep
			stuckSteps++
			if stuckSteps > 100 {
				result.Errors = append(result.Errors, &TrackingError{
					EventID: tr.EventID, TrackID: tr.ID, Wrapped: ErrStepStuck,
				})
				tr.Kill()
				break
			}
		} else {
			stuckSteps = 0
		}

		step := &Step{
			Length:    length,
			PrePos:    tr.Position,
			PreVolume: tr.Volume,
			LimitedBy: winner.Name(),
		}

		for _, cp := range continuous {
			cp.AlongStep(tr, step)
		}

		tr.Position = tr.Position.Add(tr.Direction.Scale(step.Length))
		tr.Time += step.Length / (cLight * beta(tr))
		step.PostPos = tr.Position

		winner.Execute(tr, step)

		if name, ok := m.nav.LocateVolume(tr.Position); ok {
			tr.Volume = name
		} else {
			tr.Kill()
		}

		// below the cut the remaining kinetic energy stops locally
		if tr.Alive && tr.Energy <= m.cfg.EnergyCut {
			step.Edep += tr.Energy
			tr.Energy = 0
			tr.Kill()
		}

		result.StepCount++
		result.EdepTotal += step.Edep
		for _, a := range m.actors {
			a.SteppingAction(tr, step)
		}

		secondaries = append(secondaries, step.Secondaries...)
	}

	return secondaries
}

// beta is v/c for the track, 1 for massless particles.
func beta(t *Track) float64 {
	if t.Particle.Mass == 0 {
		return 1
	}
	gamma := 1 + t.Energy/t.Particle.Mass
	b := math.Sqrt(1 - 1/(gamma*gamma))
	if b < 1e-6 {
		return 1e-6
	}
	return b
}
