package actors

import (
	"fmt"
	"os"
	"time"

	"github.com/nkrah/opengate-nils/internal/engine"
)

// SimulationStatisticsActor counts runs, events, tracks and steps, and
// reports the event throughput of the run.
type SimulationStatisticsActor struct {
	BaseActor

	RunCount   int
	EventCount int
	TrackCount int
	StepCount  int

	start    time.Time
	Duration time.Duration

	// TrackTypes counts tracks per species when enabled.
	CountTrackTypes bool
	TrackTypes      map[string]int
}

func NewSimulationStatisticsActor(name string) *SimulationStatisticsActor {
	return &SimulationStatisticsActor{
		BaseActor:  BaseActor{Name: name},
		TrackTypes: make(map[string]int),
	}
}

func (a *SimulationStatisticsActor) BeginOfRun(r *engine.RunInfo) {
	a.RunCount++
	a.start = time.Now()
}

func (a *SimulationStatisticsActor) EndOfRun(r *engine.RunInfo) {
	a.Duration = time.Since(a.start)
}

func (a *SimulationStatisticsActor) BeginOfEvent(eventID int) {
	a.EventCount++
}

func (a *SimulationStatisticsActor) PreTracking(t *engine.Track) {
	a.TrackCount++
	if a.CountTrackTypes {
		a.TrackTypes[t.Particle.Name]++
	}
}

func (a *SimulationStatisticsActor) SteppingAction(t *engine.Track, s *engine.Step) {
	a.StepCount++
}

// PPS is the primary events per second of the last run.
func (a *SimulationStatisticsActor) PPS() float64 {
	if a.Duration <= 0 {
		return 0
	}
	return float64(a.EventCount) / a.Duration.Seconds()
}

func (a *SimulationStatisticsActor) String() string {
	s := fmt.Sprintf("Runs     %d\nEvents   %d\nTracks   %d\nSteps    %d\nDuration %v\nPPS      %.1f\n",
		a.RunCount, a.EventCount, a.TrackCount, a.StepCount, a.Duration, a.PPS())
	if a.CountTrackTypes {
		for name, n := range a.TrackTypes {
			s += fmt.Sprintf("  %-10s %d\n", name, n)
		}
	}
	return s
}

// Write stores the statistics dump in a text file.
func (a *SimulationStatisticsActor) Write(path string) error {
	return os.WriteFile(path, []byte(a.String()), 0644)
}
