package engine

// PhysicsList holds the processes attached to a run. Process instances
// are owned here for their whole lifetime; handles given out to the
// scripting layer are observation-only.
type PhysicsList struct {
	processes []Process
}

func NewPhysicsList() *PhysicsList {
	return &PhysicsList{processes: make([]Process, 0, 8)}
}

func (pl *PhysicsList) Attach(p Process) {
	pl.processes = append(pl.processes, p)
}

// Processes returns the attached processes in attachment order.
func (pl *PhysicsList) Processes() []Process {
	return pl.processes
}

// Find returns the attached process with the given name, or nil.
func (pl *PhysicsList) Find(name string) Process {
	for _, p := range pl.processes {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// ProposeStep asks every process for a limit and returns the smallest
// one with the process that proposed it. Ties go to the earlier
// attachment, matching the deterministic ordering of the run.
func (pl *PhysicsList) ProposeStep(t *Track) (float64, Process) {
	limit := Unlimited
	var winner Process
	for _, p := range pl.processes {
		if l := p.StepLimit(t); l < limit {
			limit = l
			winner = p
		}
	}
	return limit, winner
}

// Continuous returns the attached processes that act along every step.
func (pl *PhysicsList) Continuous() []ContinuousProcess {
	var cps []ContinuousProcess
	for _, p := range pl.processes {
		if cp, ok := p.(ContinuousProcess); ok {
			cps = append(cps, cp)
		}
	}
	return cps
}
