// gate is a particle transport simulation toolkit with an embedded
// Lua scripting front-end.
//
// Usage:
//
//	gate run [config.yaml]    - run a simulation from a config file or preset
//	gate script <file.lua>    - run a Lua simulation script
//	gate list <what>          - list processes, actors, sources, materials, particles or presets
//	gate plot <dose.json>     - render a saved dose profile in the terminal
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nkrah/opengate-nils/internal/actors"
	"github.com/nkrah/opengate-nils/internal/assembly"
	"github.com/nkrah/opengate-nils/internal/bind"
	"github.com/nkrah/opengate-nils/internal/config"
	"github.com/nkrah/opengate-nils/internal/engine"
	"github.com/nkrah/opengate-nils/internal/geometry"
	"github.com/nkrah/opengate-nils/internal/script"
	"github.com/nkrah/opengate-nils/internal/sources"
	"github.com/nkrah/opengate-nils/internal/storage"
	"github.com/nkrah/opengate-nils/internal/viz"
)

var (
	flagPreset   string
	flagEvents   int
	flagEnergy   float64
	flagParticle string
	flagSeed     int64
	flagLive     bool
	flagPlot     bool
	flagVerbose  bool
	flagRuns     int
	flagSave     string
	flagRunsDir  string

	flagWorldHalf float64
)

const version = "0.3.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "gate",
		Short: "particle transport simulation lab",
	}
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [config.yaml]",
		Short: "run a simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&flagPreset, "preset", "", "preset name (see gate list presets)")
	runCmd.Flags().IntVar(&flagEvents, "events", 0, "override event count")
	runCmd.Flags().Float64Var(&flagEnergy, "energy", 0, "override beam energy (MeV)")
	runCmd.Flags().StringVar(&flagParticle, "particle", "", "override beam particle")
	runCmd.Flags().Int64Var(&flagSeed, "seed", 0, "override random seed")
	runCmd.Flags().BoolVar(&flagLive, "live", false, "live progress view")
	runCmd.Flags().BoolVar(&flagPlot, "plot", true, "plot the dose profile when a dose actor is configured")
	runCmd.Flags().IntVar(&flagRuns, "runs", 1, "independent runs with consecutive seeds")
	runCmd.Flags().StringVar(&flagSave, "save", "", "archive the run under this directory")

	scriptCmd := &cobra.Command{
		Use:   "script <file.lua>",
		Short: "run a lua simulation script",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}
	scriptCmd.Flags().Float64Var(&flagWorldHalf, "world", 500, "world half size (mm)")

	listCmd := &cobra.Command{
		Use:       "list <what>",
		Short:     "list processes, actors, sources, materials, particles or presets",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"processes", "actors", "sources", "materials", "particles", "presets"},
		RunE:      runList,
	}

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list archived runs",
		Args:  cobra.NoArgs,
		RunE:  runArchiveList,
	}
	runsCmd.Flags().StringVar(&flagRunsDir, "dir", "runs", "archive directory")

	plotCmd := &cobra.Command{
		Use:   "plot <dose.json>",
		Short: "render a saved dose profile",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlot,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "print the gate version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("gate " + version)
		},
	}

	rootCmd.AddCommand(runCmd, scriptCmd, listCmd, runsCmd, plotCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func loadConfig(args []string) (*config.Config, error) {
	switch {
	case flagPreset != "":
		return config.Preset(flagPreset)
	case len(args) == 1:
		return config.Load(args[0])
	default:
		return config.DefaultConfig(), nil
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	if flagEvents > 0 {
		cfg.Source.N = flagEvents
	}
	if flagEnergy > 0 {
		cfg.Source.Energy = flagEnergy
	}
	if flagParticle != "" {
		cfg.Source.Particle = flagParticle
	}
	if flagSeed != 0 {
		cfg.Run.Seed = flagSeed
	}

	if flagRuns > 1 {
		ens := assembly.NewEnsemble(cfg, flagRuns, cfg.Run.Seed)
		results, err := ens.Run(context.Background())
		if err != nil {
			return err
		}
		sum := assembly.Summarize(results)
		fmt.Printf("%d runs: edep %.3f +- %.3f MeV\n", sum.Runs, sum.MeanEdep, sum.StdEdep)
		return nil
	}

	a, err := assembly.Build(cfg)
	if err != nil {
		return err
	}
	a.Manager.SetLogger(logger)

	var result *engine.Result
	if flagLive {
		result, err = viz.RunLive(context.Background(), a.Manager)
	} else {
		result, err = a.Manager.Run(context.Background())
	}
	if err != nil {
		return err
	}

	if stats := a.Stats(); stats != nil {
		fmt.Println(stats.String())
	}
	fmt.Printf("total edep: %.3f MeV (seed %d)\n", result.EdepTotal, result.Seed)
	for _, e := range result.Errors {
		logger.Warn("tracking issue", "err", e)
	}

	if dose := a.Dose(); dose != nil && flagPlot {
		fmt.Println()
		fmt.Println(viz.DoseProfile(dose.Profile(), dose.Center-dose.HalfLength, dose.BinWidth()))
	}

	if err := a.WriteOutputs(); err != nil {
		return err
	}

	if flagSave != "" {
		st := storage.New(flagSave)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(cfg, result, a.OutputPaths())
		if err != nil {
			return err
		}
		logger.Info("run archived", "id", id, "dir", flagSave)
	}
	return nil
}

func runPlot(cmd *cobra.Command, args []string) error {
	plot, err := viz.DoseProfileFromFile(args[0])
	if err != nil {
		return err
	}
	fmt.Println(plot)
	return nil
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(flagRunsDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no archived runs")
		return nil
	}
	for _, r := range runs {
		fmt.Printf("%-28s %-10s %8.2f MeV %8d events  edep %10.3f MeV  %6.2fs\n",
			r.ID, r.Particle, r.Energy, r.Events, r.EdepTotal, r.Duration)
	}
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	sim, err := script.NewSimulation(flagWorldHalf * engine.MM)
	if err != nil {
		return err
	}
	sim.SetLogger(logger)

	st := script.NewState()
	defer st.Close()

	if err := sim.Install(st); err != nil {
		return err
	}
	return st.DoFile(args[0])
}

func runList(cmd *cobra.Command, args []string) error {
	switch args[0] {
	case "processes":
		// registered binding names, base first
		reg := bind.NewRegistry()
		if err := bind.RegisterProcessBase(reg); err != nil {
			return err
		}
		if err := bind.RegisterProcessTypes(reg); err != nil {
			return err
		}
		for _, name := range reg.List() {
			fmt.Println(name)
		}
	case "actors":
		for _, name := range actors.TypeNames() {
			fmt.Println(name)
		}
	case "sources":
		for _, name := range sources.TypeNames() {
			fmt.Println(name)
		}
	case "materials":
		for _, name := range geometry.NewMaterialDatabase().Names() {
			fmt.Println(name)
		}
	case "particles":
		for _, name := range engine.ParticleNames() {
			fmt.Println(name)
		}
	case "presets":
		for _, name := range config.PresetNames() {
			fmt.Println(name)
		}
	default:
		return fmt.Errorf("unknown list target %q", args[0])
	}
	return nil
}
