package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/oscillab/crvdo/internal/analysis"
	"github.com/oscillab/crvdo/internal/config"
	"github.com/oscillab/crvdo/internal/control"
	"github.com/oscillab/crvdo/internal/crvdo"
	"github.com/oscillab/crvdo/internal/dynamo"
	"github.com/oscillab/crvdo/internal/integrators"
	"github.com/oscillab/crvdo/internal/metrics"
	"github.com/oscillab/crvdo/internal/sim"
	"github.com/oscillab/crvdo/internal/storage"
	"github.com/oscillab/crvdo/internal/sweep"
	"github.com/oscillab/crvdo/internal/tui"
	"github.com/oscillab/crvdo/internal/viz"
)

var (
	dataDir     string
	configFile  string
	preset      string
	dt          float64
	steps       int
	oscillators int
	integrator  string
	controller  string
	amplitude   float64
	omega       float64

	// plot/analyze selection
	oscIdx       int
	componentIdx int
	phasePlot    bool

	outPath      string
	frameRate    int
	stepsPerTick int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "crvdo",
		Short: "batched complex Rayleigh-van-der-Pol-Duffing oscillator lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".crvdo", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a batch simulation",
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&oscIdx, "osc", 0, "oscillator index")
	plotCmd.Flags().IntVar(&componentIdx, "component", 0, "state component (0..3)")
	plotCmd.Flags().BoolVar(&phasePlot, "phase", false, "braille z1-z3 phase portrait")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&outPath, "out", "", "output file (default stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectrum and synchronization analysis of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&oscIdx, "osc", 0, "oscillator index")
	analyzeCmd.Flags().IntVar(&componentIdx, "component", 0, "state component (0..3)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid-search forcing and coupling for pairwise synchronization",
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch a batch evolve in the terminal",
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frames per second")
	liveCmd.Flags().IntVar(&stepsPerTick, "steps-per-tick", 4, "integration steps per frame")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure step throughput",
		RunE:  benchSteps,
	}
	addRunFlags(benchCmd)

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, analyzeCmd, sweepCmd, liveCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "preset name ("+fmt.Sprint(config.ListPresets())+")")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().IntVar(&oscillators, "oscillators", config.DefaultOscillators, "batch size")
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator (rk4, euler)")
	cmd.Flags().StringVar(&controller, "controller", "constant", "controller (constant, none, sinusoid)")
	cmd.Flags().Float64Var(&amplitude, "amplitude", 0.5, "sinusoid forcing amplitude")
	cmd.Flags().Float64Var(&omega, "omega", 1.0, "sinusoid forcing angular frequency")
}

func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	if configFile != "" {
		return config.Load(configFile)
	}
	if preset != "" {
		cfg := config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q, have %v", preset, config.ListPresets())
		}
		return cfg, nil
	}

	cfg := config.DefaultConfig()
	cfg.Dt = dt
	cfg.Steps = steps
	cfg.Oscillators = oscillators
	cfg.Integrator = integrator
	cfg.Controller = controller
	cfg.Control.Amplitude = amplitude
	cfg.Control.Omega = omega
	return cfg, cfg.Validate()
}

func buildIntegrator(cfg *config.Config) (dynamo.Integrator, error) {
	switch cfg.Integrator {
	case "rk4", "":
		return integrators.NewRK4(cfg.Dt)
	case "euler":
		return integrators.NewEuler(cfg.Dt)
	default:
		return nil, fmt.Errorf("unknown integrator %q", cfg.Integrator)
	}
}

func buildController(cfg *config.Config) (dynamo.Controller, error) {
	switch cfg.Controller {
	case "constant", "":
		return control.NewConstant(cfg.BuildControl()), nil
	case "none":
		return control.NewNone(cfg.Oscillators), nil
	case "sinusoid":
		return control.NewSinusoid(cfg.Oscillators, cfg.Control.Amplitude, cfg.Control.Omega), nil
	default:
		return nil, fmt.Errorf("unknown controller %q", cfg.Controller)
	}
}

func buildRunner(cfg *config.Config) (*sim.Runner, dynamo.Integrator, error) {
	integ, err := buildIntegrator(cfg)
	if err != nil {
		return nil, nil, err
	}
	ctrl, err := buildController(cfg)
	if err != nil {
		return nil, nil, err
	}
	return sim.New(crvdo.New(), integ, ctrl), integ, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	runner, _, err := buildRunner(cfg)
	if err != nil {
		return err
	}
	runner.AddMetric(metrics.NewAmplitude())
	runner.AddMetric(metrics.NewStability(1e6))
	runner.AddMetric(metrics.NewControlEffort())

	params := cfg.BuildParams()
	start := time.Now()
	result, err := runner.Run(context.Background(), cfg.BuildInitState(), params, sim.Config{
		Steps:         cfg.Steps,
		ValidateState: true,
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	runID, err := store.Save(cfg.Dt, cfg.Integrator, cfg.Controller, params, result)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "run\t%s\n", runID)
	fmt.Fprintf(w, "oscillators\t%d\n", cfg.Oscillators)
	fmt.Fprintf(w, "steps\t%d\n", result.StepsTaken)
	fmt.Fprintf(w, "wall time\t%s\n", elapsed.Round(time.Millisecond))
	for name, value := range result.Metrics {
		fmt.Fprintf(w, "%s\t%.6g\n", name, value)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(w, "warning\t%v\n", e)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tN\tSTEPS\tDT\tINTEGRATOR\tCONTROLLER")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.6g\t%s\t%s\n",
			r.ID, r.Timestamp.Format("2006-01-02 15:04:05"),
			r.Oscillators, r.Steps, r.Dt, r.Integrator, r.Controller)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	states, _, err := store.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("run %s has no states", args[0])
	}
	if oscIdx < 0 || oscIdx >= len(states[0]) {
		return fmt.Errorf("oscillator index %d out of range (batch size %d)", oscIdx, len(states[0]))
	}
	if componentIdx < 0 || componentIdx >= dynamo.StateDim {
		return fmt.Errorf("component index %d out of range", componentIdx)
	}

	if phasePlot {
		portrait := analysis.PhasePortrait(states, oscIdx, 0, 2)
		fmt.Println(viz.ComponentCaption(oscIdx, 0) + " vs z3")
		fmt.Print(viz.PhasePlot(portrait, 70, 20))
		return nil
	}

	series := make([]float64, len(states))
	for i, b := range states {
		series[i] = b[oscIdx][componentIdx]
	}
	fmt.Println(viz.TimeSeries(viz.Downsample(series, 400),
		viz.ComponentCaption(oscIdx, componentIdx), 80, 15))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	states, times, err := store.LoadStates(args[0])
	if err != nil {
		return err
	}

	result := &sim.Result{
		States:     states,
		Times:      times,
		Metrics:    meta.Metrics,
		StepsTaken: meta.Steps,
	}

	if outPath != "" {
		return storage.ExportJSONFile(outPath, meta.Integrator, meta.Controller, meta.Dt, result)
	}
	return storage.ExportJSON(os.Stdout, meta.Integrator, meta.Controller, meta.Dt, result)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	states, _, err := store.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("run %s has no states", args[0])
	}
	if oscIdx < 0 || oscIdx >= len(states[0]) {
		return fmt.Errorf("oscillator index %d out of range (batch size %d)", oscIdx, len(states[0]))
	}

	series := make([]float64, len(states))
	for i, b := range states {
		series[i] = b[oscIdx][componentIdx]
	}

	ps := analysis.PowerSpectrum(series)
	fmt.Println(viz.TimeSeries(viz.Downsample(ps, 400),
		fmt.Sprintf("power spectrum, %s", viz.ComponentCaption(oscIdx, componentIdx)), 80, 15))
	fmt.Printf("dominant frequency: %.6g Hz\n\n", analysis.DominantFrequency(series, meta.Dt))

	n := len(states[0])
	if n > 1 {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PAIR\tSYNC ERR\tANTIPHASE ERR")
		for j := 1; j < n; j++ {
			fmt.Fprintf(w, "0-%d\t%.6g\t%.6g\n", j,
				analysis.SyncError(states, 0, j),
				analysis.AntiphaseSyncError(states, 0, j))
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Oscillators < 2 {
		return fmt.Errorf("sweep needs at least 2 oscillators to measure synchronization")
	}

	grid := sweep.NewGrid(
		[]string{"c_base", "u_base"},
		[][]float64{
			{4, 8, 16, 32, 64},
			{1, 2, 4, 8},
		},
	)

	best, bestErr, err := grid.Search(context.Background(), func(knobs map[string]float64) (float64, error) {
		trial := *cfg
		trial.Params.CBase = knobs["c_base"]
		trial.Control.UBase = knobs["u_base"]

		runner, _, err := buildRunner(&trial)
		if err != nil {
			return 0, err
		}
		result, err := runner.Run(context.Background(), trial.BuildInitState(), trial.BuildParams(), sim.Config{
			Steps:         trial.Steps,
			ValidateState: true,
		})
		if err != nil {
			return 0, err
		}
		if len(result.Errors) > 0 {
			return 0, result.Errors[0]
		}
		return analysis.SyncError(result.States, 0, 1), nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("best sync error %.6g at c_base=%.6g u_base=%.6g\n",
		bestErr, best["c_base"], best["u_base"])
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	integ, err := buildIntegrator(cfg)
	if err != nil {
		return err
	}
	ctrl, err := buildController(cfg)
	if err != nil {
		return err
	}

	return tui.RunLive(crvdo.New(), integ, ctrl, cfg.BuildInitState(), cfg.BuildParams(), stepsPerTick, frameRate)
}

func benchSteps(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	runner, _, err := buildRunner(cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	err = runner.RunWithCallback(context.Background(), cfg.BuildInitState(), cfg.BuildParams(), sim.Config{
		Steps:         cfg.Steps,
		ValidateState: false,
	}, func(dynamo.StateBatch, dynamo.ControlBatch, float64) bool { return true })
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	perStep := elapsed / time.Duration(cfg.Steps)
	fmt.Printf("%d oscillators, %d steps in %s (%s/step, %.0f row-steps/s)\n",
		cfg.Oscillators, cfg.Steps, elapsed.Round(time.Millisecond), perStep,
		float64(cfg.Oscillators)*float64(cfg.Steps)/elapsed.Seconds())
	return nil
}
