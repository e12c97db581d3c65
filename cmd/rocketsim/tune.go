package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/rocketsim/internal/config"
	"github.com/san-kum/rocketsim/internal/control"
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/metrics"
	"github.com/san-kum/rocketsim/internal/optim"
	"github.com/san-kum/rocketsim/internal/sim"
	"github.com/san-kum/rocketsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	tuneParams    []string
	tuneObjective string
)

func tuneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tune [preset]",
		Short: "grid-search TVC gains",
		Long: "Flies the mission once per combination of the given gain values and reports\n" +
			"the best one. Gains are named pitch.Kp, pitch.Ki, pitch.Kd, yaw.Kp and so on.",
		Args: cobra.MaximumNArgs(1),
		RunE: tuneGains,
	}
	cmd.Flags().StringVar(&missionFile, "mission", "", "mission file (yaml)")
	cmd.Flags().StringArrayVar(&tuneParams, "param", nil, "gain values to try, e.g. pitch.Kp=1,2,4 (repeatable)")
	cmd.Flags().StringVar(&tuneObjective, "objective", "apogee", "objective (apogee, effort, max-q)")
	cmd.Flags().Float64Var(&dt, "dt", dynamo.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&maxTime, "max-time", dynamo.DefaultMaxTime, "maximum flight time")
	cmd.MarkFlagRequired("param")
	return cmd
}

// parseGrid reads "name=v1,v2,..." arguments.
func parseGrid(args []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(args))
	ranges := make([][]float64, 0, len(args))
	for _, arg := range args {
		name, list, ok := strings.Cut(arg, "=")
		if !ok || name == "" || list == "" {
			return nil, nil, fmt.Errorf("invalid --param %q, want name=v1,v2", arg)
		}
		var values []float64
		for _, field := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid value in --param %q: %w", arg, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func tuneGains(cmd *cobra.Command, args []string) error {
	f, err := runFile(cmd, args)
	if err != nil {
		return err
	}
	m, err := f.ResolveMission()
	if err != nil {
		return fmt.Errorf("invalid mission: %w", err)
	}
	objective, err := optim.ObjectiveByName(tuneObjective)
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(tuneParams)
	if err != nil {
		return err
	}
	grid, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	f.Controller = config.DefaultController
	build := func(params map[string]float64) (*sim.Runner, error) {
		r, err := newRunner(f, m, f.Controller)
		if err != nil {
			return nil, err
		}
		tunable, ok := r.Controller().(control.Configurable)
		if !ok {
			return nil, fmt.Errorf("controller %s has no tunable parameters", r.Controller().Name())
		}
		for name, v := range params {
			if err := tunable.SetParam(name, v); err != nil {
				return nil, err
			}
		}
		return r, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info().
		Str("mission", m.Name).
		Str("objective", tuneObjective).
		Int("points", len(grid.Points())).
		Msg("tuning gains")
	start := time.Now()
	best, all, err := grid.Search(ctx, build, f.SimConfig(), objective)
	if err != nil {
		return err
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("tuning complete")

	for _, c := range all {
		ev := log.Debug().Float64("score", c.Score)
		for _, name := range names {
			ev = ev.Float64(name, c.Params[name])
		}
		if c.Err != nil {
			ev = ev.AnErr("run_error", c.Err)
		}
		ev.Msg("candidate")
	}

	sort.Strings(names)
	fmt.Printf("best %s score %.4f\n", tuneObjective, best.Score)
	for _, name := range names {
		fmt.Printf("  %-10s %g\n", name, best.Params[name])
	}
	fmt.Println()
	fmt.Println(viz.PerformanceTable(metrics.Summarize(best.Result)))
	return nil
}
