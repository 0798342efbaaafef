package bind

import (
	"fmt"

	"github.com/nkrah/opengate-nils/internal/actors"
	"github.com/nkrah/opengate-nils/internal/engine"
)

// ActorBaseName is the external name of the abstract actor type.
const ActorBaseName = "VActor"

// RegisterActorBase installs the abstract actor base type, mirroring
// the process base: ForeignOwned, non-constructible, registered before
// any concrete actor binding.
func RegisterActorBase(r *Registry) error {
	return r.Register(Entry{
		Name:      ActorBaseName,
		Ownership: ForeignOwned,
	})
}

// RegisterActorTypes installs the concrete actor bindings. Unlike
// processes, actors are script-constructible: the script builds one,
// attaches it to the run and keeps the handle to read results back.
func RegisterActorTypes(r *Registry) error {
	entries := []Entry{
		{
			Name:      "SimulationStatisticsActor",
			Base:      ActorBaseName,
			Ownership: Owned,
			New: func(args []any) (any, error) {
				name, err := stringArg(args, 0, "name")
				if err != nil {
					return nil, err
				}
				return actors.NewSimulationStatisticsActor(name), nil
			},
			Methods: map[string]Method{
				"event_count": func(recv any, _ []any) ([]any, error) {
					return []any{statsOf(recv).EventCount}, nil
				},
				"track_count": func(recv any, _ []any) ([]any, error) {
					return []any{statsOf(recv).TrackCount}, nil
				},
				"step_count": func(recv any, _ []any) ([]any, error) {
					return []any{statsOf(recv).StepCount}, nil
				},
				"pps": func(recv any, _ []any) ([]any, error) {
					return []any{statsOf(recv).PPS()}, nil
				},
				"dump": func(recv any, _ []any) ([]any, error) {
					return []any{statsOf(recv).String()}, nil
				},
				"write": func(recv any, args []any) ([]any, error) {
					path, err := stringArg(args, 0, "path")
					if err != nil {
						return nil, err
					}
					return nil, statsOf(recv).Write(path)
				},
			},
		},
		{
			Name:      "DoseActor",
			Base:      ActorBaseName,
			Ownership: Owned,
			New: func(args []any) (any, error) {
				name, err := stringArg(args, 0, "name")
				if err != nil {
					return nil, err
				}
				volume, err := stringArg(args, 1, "volume")
				if err != nil {
					return nil, err
				}
				bins, err := numberArg(args, 2, "bins")
				if err != nil {
					return nil, err
				}
				center, err := numberArg(args, 3, "center")
				if err != nil {
					return nil, err
				}
				halfLen, err := numberArg(args, 4, "half_length")
				if err != nil {
					return nil, err
				}
				return actors.NewDoseActor(name, volume, int(bins), center, halfLen)
			},
			Methods: map[string]Method{
				"profile": func(recv any, _ []any) ([]any, error) {
					return []any{recv.(*actors.DoseActor).Profile()}, nil
				},
				"export_json": func(recv any, args []any) ([]any, error) {
					path, err := stringArg(args, 0, "path")
					if err != nil {
						return nil, err
					}
					return nil, recv.(*actors.DoseActor).ExportJSON(path)
				},
				"export_csv": func(recv any, args []any) ([]any, error) {
					path, err := stringArg(args, 0, "path")
					if err != nil {
						return nil, err
					}
					return nil, recv.(*actors.DoseActor).ExportCSV(path)
				},
			},
		},
		{
			Name:      "PhaseSpaceActor",
			Base:      ActorBaseName,
			Ownership: Owned,
			New: func(args []any) (any, error) {
				name, err := stringArg(args, 0, "name")
				if err != nil {
					return nil, err
				}
				volume, err := stringArg(args, 1, "volume")
				if err != nil {
					return nil, err
				}
				return actors.NewPhaseSpaceActor(name, volume), nil
			},
			Methods: map[string]Method{
				"count": func(recv any, _ []any) ([]any, error) {
					return []any{recv.(*actors.PhaseSpaceActor).Count()}, nil
				},
				"write_csv": func(recv any, args []any) ([]any, error) {
					path, err := stringArg(args, 0, "path")
					if err != nil {
						return nil, err
					}
					return nil, recv.(*actors.PhaseSpaceActor).WriteCSV(path)
				},
			},
		},
		{
			Name:      "KillActor",
			Base:      ActorBaseName,
			Ownership: Owned,
			New: func(args []any) (any, error) {
				name, err := stringArg(args, 0, "name")
				if err != nil {
					return nil, err
				}
				volume, err := stringArg(args, 1, "volume")
				if err != nil {
					return nil, err
				}
				return actors.NewKillActor(name, volume), nil
			},
			Methods: map[string]Method{
				"killed": func(recv any, _ []any) ([]any, error) {
					return []any{recv.(*actors.KillActor).Killed}, nil
				},
			},
		},
	}

	for _, e := range entries {
		if err := r.Register(e); err != nil {
			return err
		}
	}
	return nil
}

func statsOf(recv any) *actors.SimulationStatisticsActor {
	return recv.(*actors.SimulationStatisticsActor)
}

// AsActor converts a constructed actor value back to the engine hook
// interface, for attachment to a run.
func AsActor(v any) (engine.Actor, error) {
	a, ok := v.(engine.Actor)
	if !ok {
		return nil, fmt.Errorf("%w: not an actor", ErrTypeMismatch)
	}
	return a, nil
}

func stringArg(args []any, i int, name string) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("bind: missing argument %q", name)
	}
	s, ok := args[i].(string)
	if !ok {
		return "", fmt.Errorf("bind: argument %q must be a string", name)
	}
	return s, nil
}

func numberArg(args []any, i int, name string) (float64, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("bind: missing argument %q", name)
	}
	f, ok := args[i].(float64)
	if !ok {
		return 0, fmt.Errorf("bind: argument %q must be a number", name)
	}
	return f, nil
}
