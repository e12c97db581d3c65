package main

import (
	"fmt"
	"math"

	"github.com/san-kum/rocketsim/internal/orbital"
	"github.com/san-kum/rocketsim/internal/physics"
	"github.com/san-kum/rocketsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	orbitAlt   float64
	orbitEcc   float64
	orbitInc   float64
	orbitRAAN  float64
	orbitArgP  float64
	orbitCount float64
	orbitDt    float64
	orbitJ2    bool
	orbitPlot  bool
	transferLo float64
	transferHi float64
)

const deg = math.Pi / 180

func orbitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orbit",
		Short: "propagate an Earth orbit and report element drift",
		RunE:  propagateOrbit,
	}
	cmd.Flags().Float64Var(&orbitAlt, "alt", 400, "periapsis altitude (km)")
	cmd.Flags().Float64Var(&orbitEcc, "ecc", 0, "eccentricity")
	cmd.Flags().Float64Var(&orbitInc, "inc", 51.6, "inclination (deg)")
	cmd.Flags().Float64Var(&orbitRAAN, "raan", 0, "right ascension of the ascending node (deg)")
	cmd.Flags().Float64Var(&orbitArgP, "argp", 0, "argument of periapsis (deg)")
	cmd.Flags().Float64Var(&orbitCount, "orbits", 1, "number of orbits to propagate")
	cmd.Flags().Float64Var(&orbitDt, "dt", 10, "step (s)")
	cmd.Flags().BoolVar(&orbitJ2, "j2", false, "include the J2 oblateness term")
	cmd.Flags().BoolVar(&orbitPlot, "plot", false, "print an altitude chart")
	return cmd
}

func hohmannCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hohmann",
		Short: "compute a Hohmann transfer between circular orbits",
		RunE:  computeHohmann,
	}
	cmd.Flags().Float64Var(&transferLo, "from", 300, "initial circular altitude (km)")
	cmd.Flags().Float64Var(&transferHi, "to", 35786, "target circular altitude (km)")
	return cmd
}

func propagateOrbit(cmd *cobra.Command, args []string) error {
	if orbitEcc < 0 || orbitEcc >= 1 {
		return fmt.Errorf("%w: eccentricity must be in [0, 1), got %f", orbital.ErrInvalidOrbit, orbitEcc)
	}
	if orbitCount <= 0 {
		return fmt.Errorf("%w: orbits must be positive, got %f", orbital.ErrInvalidOrbit, orbitCount)
	}

	rp := physics.EarthRadiusECI + orbitAlt*1000
	initial := orbital.Elements{
		SMA:  rp / (1 - orbitEcc),
		Ecc:  orbitEcc,
		Inc:  orbitInc * deg,
		RAAN: orbitRAAN * deg,
		ArgP: orbitArgP * deg,
	}

	prop, err := orbital.NewPropagator(orbitDt, orbitJ2)
	if err != nil {
		return err
	}

	period := initial.Period(prop.Mu)
	duration := orbitCount * period
	log.Info().
		Float64("period_s", period).
		Float64("duration_s", duration).
		Int("steps", prop.Steps(duration)).
		Bool("j2", orbitJ2).
		Msg("propagating orbit")

	start := initial.State(prop.Mu)
	traj, err := prop.Trajectory(start, duration)
	if err != nil {
		return err
	}
	end := traj[len(traj)-1]
	final := end.Elements(prop.Mu)

	e0, e1 := start.Energy(prop.Mu), end.Energy(prop.Mu)
	fmt.Printf("initial: %s\n", initial)
	fmt.Printf("final:   %s\n", final)
	fmt.Printf("period:  %.1f s, propagated %.1f s in %d steps\n\n", period, end.Time, len(traj)-1)
	fmt.Printf("Δa     %+12.3f m\n", final.SMA-initial.SMA)
	fmt.Printf("Δe     %+12.3e\n", final.Ecc-initial.Ecc)
	fmt.Printf("Δi     %+12.6f°\n", (final.Inc-initial.Inc)/deg)
	fmt.Printf("ΔΩ     %+12.6f°\n", wrapAngle(final.RAAN-initial.RAAN)/deg)
	fmt.Printf("energy %+12.3e (relative)\n", (e1-e0)/math.Abs(e0))

	if orbitPlot {
		fmt.Println()
		fmt.Println(viz.OrbitChart(traj, chartWidth, chartHeight))
	}
	return nil
}

// wrapAngle maps a into (-π, π].
func wrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

func computeHohmann(cmd *cobra.Command, args []string) error {
	r1 := physics.EarthRadiusECI + transferLo*1000
	r2 := physics.EarthRadiusECI + transferHi*1000
	t, err := orbital.Hohmann(r1, r2, physics.MuEarth)
	if err != nil {
		return err
	}

	fmt.Printf("transfer %.0f km → %.0f km\n", transferLo, transferHi)
	fmt.Printf("  Δv1    %10.1f m/s\n", t.DV1)
	fmt.Printf("  Δv2    %10.1f m/s\n", t.DV2)
	fmt.Printf("  total  %10.1f m/s\n", t.Total)
	fmt.Printf("  time   %10.1f s (%.2f h)\n", t.TransferTime, t.TransferTime/3600)
	return nil
}
