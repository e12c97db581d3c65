package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/san-kum/rocketsim/internal/config"
	"github.com/san-kum/rocketsim/internal/control"
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/integrators"
	"github.com/san-kum/rocketsim/internal/metrics"
	"github.com/san-kum/rocketsim/internal/sim"
	"github.com/san-kum/rocketsim/internal/storage"
	"github.com/san-kum/rocketsim/internal/vehicle"
	"github.com/san-kum/rocketsim/internal/viz"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	dataDir string

	missionFile string
	controller  string
	integrator  string
	dt          float64
	maxTime     float64
	exportDir   string
	showPlot    bool
	saveRun     bool
	altMarkers  []float64
	controllers []string

	pngDir string

	log = newLogger("info")
)

const (
	chartWidth  = 80
	chartHeight = 12
)

// main registers the commands and exits with status 1 when one fails.
func main() {
	rootCmd := &cobra.Command{
		Use:               "rocketsim",
		Short:             "multi-stage rocket flight simulator",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "settings file (default ./rocketsim.yaml)")
	rootCmd.PersistentFlags().String("data", ".rocketsim", "data directory")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("theme", config.DefaultTheme, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	viper.BindPFlag(config.KeyDataDir, rootCmd.PersistentFlags().Lookup("data"))
	viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag(config.KeyTheme, rootCmd.PersistentFlags().Lookup("theme"))

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "fly a mission",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runFlight,
	}
	runCmd.Flags().StringVar(&missionFile, "mission", "", "mission file (yaml)")
	runCmd.Flags().StringVar(&controller, "controller", config.DefaultController, "controller (tvc, zero, bangbang)")
	runCmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator (rk4, euler)")
	runCmd.Flags().Float64Var(&dt, "dt", dynamo.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&maxTime, "max-time", dynamo.DefaultMaxTime, "maximum flight time")
	runCmd.Flags().StringVar(&exportDir, "export", "", "write trajectory.csv and summary.json to this directory")
	runCmd.Flags().BoolVar(&showPlot, "plot", false, "print altitude, speed and mach charts")
	runCmd.Flags().BoolVar(&saveRun, "save", false, "store the run in the data directory")
	runCmd.Flags().Float64SliceVar(&altMarkers, "alt-marker", nil, "record an ALTITUDE event at these altitudes (m)")
	viper.BindPFlag(config.KeyDt, runCmd.Flags().Lookup("dt"))
	viper.BindPFlag(config.KeyMaxTime, runCmd.Flags().Lookup("max-time"))
	viper.BindPFlag(config.KeyController, runCmd.Flags().Lookup("controller"))

	compareCmd := &cobra.Command{
		Use:   "compare [preset]",
		Short: "fly the same mission with several controllers",
		Args:  cobra.MaximumNArgs(1),
		RunE:  compareControllers,
	}
	compareCmd.Flags().StringVar(&missionFile, "mission", "", "mission file (yaml)")
	compareCmd.Flags().StringSliceVar(&controllers, "controllers", control.NewRegistry().Names(), "controllers to compare")
	compareCmd.Flags().Float64Var(&dt, "dt", dynamo.DefaultDt, "timestep")
	compareCmd.Flags().Float64Var(&maxTime, "max-time", dynamo.DefaultMaxTime, "maximum flight time")

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
	plotCmd.Flags().StringVar(&pngDir, "png", "", "also write PNG charts to this directory")

	replayCmd := &cobra.Command{
		Use:   "replay [run_id]",
		Short: "step through a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  replayRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print the summary JSON of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "write trajectory.csv and summary.json here instead")

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "remove a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list mission presets",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, compareCmd, listCmd, plotCmd, replayCmd, exportCmd, deleteCmd, presetsCmd, tuneCommand(), orbitCommand(), hohmannCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// setup layers the settings and configures logging before any command.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.Init(cfgFile); err != nil {
		return err
	}
	settings, err := config.Current()
	if err != nil {
		return err
	}
	log = newLogger(settings.LogLevel)
	dataDir = settings.DataDir
	if viz.GetTheme(settings.Theme).Name != settings.Theme {
		log.Warn().Str("theme", settings.Theme).Strs("available", viz.ThemeNames()).Msg("unknown theme, using default")
	}
	viz.SetTheme(settings.Theme)
	log.Debug().Str("data", dataDir).Str("config", viper.ConfigFileUsed()).Msg("settings loaded")
	return nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).Level(lvl).With().Timestamp().Logger()
}

// runFile resolves the run settings: the mission file when given,
// otherwise the layered settings, then any flags set explicitly.
func runFile(cmd *cobra.Command, args []string) (*config.File, error) {
	var f *config.File
	if missionFile == "" {
		settings, err := config.Current()
		if err != nil {
			return nil, err
		}
		f = settings.RunFile()
	} else {
		loaded, err := config.Load(missionFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load mission: %w", err)
		}
		f = loaded
	}

	if len(args) > 0 {
		if config.GetPreset(args[0]) == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
		f.Preset = args[0]
		f.Mission = nil
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		f.Sim.Dt = dt
	}
	if flags.Changed("max-time") {
		f.Sim.MaxTime = maxTime
	}
	if flags.Changed("controller") {
		f.Controller = controller
	}
	if flags.Changed("integrator") {
		f.Integrator = integrator
	}
	f.AltitudeMarkers = append(f.AltitudeMarkers, altMarkers...)
	return f, nil
}

func newRunner(f *config.File, m *vehicle.Mission, ctrlName string) (*sim.Runner, error) {
	ctrl, err := control.NewRegistry().Get(ctrlName, m)
	if err != nil {
		return nil, err
	}
	integ, err := integrators.ByName[dynamo.State, dynamo.Derivative](f.Integrator)
	if err != nil {
		return nil, err
	}

	opts := []sim.Option{sim.WithIntegrator(integ)}
	for _, alt := range f.AltitudeMarkers {
		opts = append(opts, sim.WithDetector(sim.NewAltitudeDetector(alt)))
	}
	for _, mt := range metrics.ForMission(m) {
		opts = append(opts, sim.WithMetric(mt))
	}
	return sim.New(m, ctrl, opts...), nil
}

func runFlight(cmd *cobra.Command, args []string) error {
	f, err := runFile(cmd, args)
	if err != nil {
		return err
	}

	m, err := f.ResolveMission()
	if err != nil {
		return fmt.Errorf("invalid mission: %w", err)
	}

	runner, err := newRunner(f, m, f.Controller)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := f.SimConfig()
	log.Info().
		Str("mission", m.Name).
		Str("controller", runner.Controller().Name()).
		Str("integrator", f.Integrator).
		Float64("dt", cfg.Dt).
		Float64("max_time", cfg.MaxTime).
		Int("stages", len(m.Stages)).
		Msg("starting flight")

	start := time.Now()
	result, runErr := runner.Run(ctx, cfg)
	if runErr != nil {
		if result == nil || !errors.Is(runErr, dynamo.ErrContextCanceled) {
			return runErr
		}
		log.Warn().Err(runErr).Msg("flight interrupted")
	}

	for _, e := range result.Events {
		log.Debug().
			Str("event", e.Kind.String()).
			Float64("t", e.Time).
			Float64("altitude", e.Altitude).
			Int("stage", e.Stage).
			Msg("flight event")
	}
	log.Info().
		Str("outcome", result.Outcome.String()).
		Int("steps", result.StepsTaken).
		Int("events", len(result.Events)).
		Dur("elapsed", time.Since(start)).
		Msg("flight complete")

	fmt.Print(viz.FlightReport(m, result))
	if showPlot {
		fmt.Println()
		fmt.Println(viz.FlightCharts(result, chartWidth, chartHeight))
	}

	if exportDir != "" {
		paths, err := storage.Export(exportDir, result, m)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		log.Info().Strs("files", paths).Msg("exported")
	}

	if saveRun {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(result, m)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		log.Info().Str("run_id", runID).Str("data", dataDir).Msg("run saved")
		fmt.Printf("run id: %s\n", runID)
	}

	if result.Outcome == sim.OutcomeAborted {
		return fmt.Errorf("flight aborted: %w", result.Err)
	}
	return runErr
}

func compareControllers(cmd *cobra.Command, args []string) error {
	f, err := runFile(cmd, args)
	if err != nil {
		return err
	}
	m, err := f.ResolveMission()
	if err != nil {
		return fmt.Errorf("invalid mission: %w", err)
	}

	batch := sim.NewBatch()
	for _, name := range controllers {
		r, err := newRunner(f, m, name)
		if err != nil {
			return err
		}
		batch.Add(r)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info().Str("mission", m.Name).Strs("controllers", controllers).Msg("comparing controllers")
	start := time.Now()
	results, err := batch.Run(ctx, f.SimConfig())
	if err != nil {
		return err
	}
	log.Info().Int("runs", batch.Len()).Dur("elapsed", time.Since(start)).Msg("comparison complete")

	fmt.Println(viz.ComparisonTable(results))
	return nil
}

func openStore() *storage.Store {
	return storage.New(dataDir)
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := openStore().List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMISSION\tTIME\tCTRL\tOUTCOME\tAPOGEE\tSTEPS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.1fm\t%d\n",
			run.ID[:8],
			run.Mission,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			run.Controller,
			run.Outcome,
			run.Summary.ApogeeM,
			run.Steps,
		)
	}

	return w.Flush()
}

func loadRun(prefix string) (*sim.Result, *storage.RunMetadata, error) {
	st := openStore()
	runID, err := st.Resolve(prefix)
	if err != nil {
		return nil, nil, err
	}
	return st.LoadResult(runID)
}

func plotRun(cmd *cobra.Command, args []string) error {
	result, meta, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(result.States) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("mission: %s\n", meta.Mission)
	fmt.Printf("samples: %d\n\n", len(result.States))
	fmt.Println(viz.FlightCharts(result, chartWidth, chartHeight))

	if pngDir != "" {
		paths, err := viz.SavePNG(pngDir, result)
		if err != nil {
			return err
		}
		log.Info().Strs("files", paths).Msg("charts written")
	}
	return nil
}

func replayRun(cmd *cobra.Command, args []string) error {
	result, _, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return viz.RunReplay(result)
}

func exportRun(cmd *cobra.Command, args []string) error {
	result, meta, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if meta.Vehicle == nil {
		return fmt.Errorf("run %s has no stored vehicle", meta.ID)
	}

	if exportDir != "" {
		paths, err := storage.Export(exportDir, result, meta.Vehicle)
		if err != nil {
			return err
		}
		log.Info().Strs("files", paths).Msg("exported")
		return nil
	}
	return storage.WriteSummaryJSON(os.Stdout, storage.NewSummary(meta.Vehicle, result))
}

func deleteRun(cmd *cobra.Command, args []string) error {
	st := openStore()
	runID, err := st.Resolve(args[0])
	if err != nil {
		return err
	}
	if err := st.Delete(runID); err != nil {
		return err
	}
	log.Info().Str("run_id", runID).Msg("run deleted")
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := config.ListPresets()
	missions := make([]*vehicle.Mission, 0, len(names))
	for _, name := range names {
		m, err := vehicle.Preset(name)
		if err != nil {
			return fmt.Errorf("preset %s: %w", name, err)
		}
		missions = append(missions, m)
	}
	fmt.Println(viz.PresetsTable(missions))
	return nil
}
