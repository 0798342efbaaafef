package assembly

import (
	"context"
	"math"
	"sync"

	"github.com/nkrah/opengate-nils/internal/config"
	"github.com/nkrah/opengate-nils/internal/engine"
)

// Ensemble repeats the same configuration with consecutive seeds so
// that statistical uncertainty can be estimated from independent runs.
type Ensemble struct {
	cfg       *config.Config
	numRuns   int
	seedStart int64
}

func NewEnsemble(cfg *config.Config, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{cfg: cfg, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context) ([]*engine.Result, error) {
	results := make([]*engine.Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := *e.cfg
			cfgCopy.Run.Seed = e.seedStart + int64(idx)

			a, err := Build(&cfgCopy)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = a.Manager.Run(ctx)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// EnsembleSummary aggregates the deposited energy over independent runs.
type EnsembleSummary struct {
	Runs     int
	MeanEdep float64
	StdEdep  float64
}

func Summarize(results []*engine.Result) EnsembleSummary {
	s := EnsembleSummary{Runs: len(results)}
	if len(results) == 0 {
		return s
	}

	for _, r := range results {
		s.MeanEdep += r.EdepTotal
	}
	s.MeanEdep /= float64(len(results))

	if len(results) > 1 {
		var ss float64
		for _, r := range results {
			d := r.EdepTotal - s.MeanEdep
			ss += d * d
		}
		s.StdEdep = math.Sqrt(ss / float64(len(results)-1))
	}
	return s
}
