package optim

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/rocketsim/internal/metrics"
	"github.com/san-kum/rocketsim/internal/sim"
)

// Objective scores a completed run; lower is better. Aborted runs never
// reach an objective.
type Objective func(r *sim.Result) float64

// MaxApogee prefers the highest apogee.
func MaxApogee(r *sim.Result) float64 {
	return -metrics.Summarize(r).ApogeeM
}

// MinEffort prefers the smallest mean gimbal deflection.
func MinEffort(r *sim.Result) float64 {
	v, ok := r.Metrics["control_effort"]
	if !ok {
		return math.Inf(1)
	}
	return v
}

// MinMaxQ prefers the lowest peak dynamic pressure.
func MinMaxQ(r *sim.Result) float64 {
	return metrics.Summarize(r).MaxQ
}

var objectives = map[string]Objective{
	"apogee": MaxApogee,
	"effort": MinEffort,
	"max-q":  MinMaxQ,
}

func ObjectiveByName(name string) (Objective, error) {
	o, ok := objectives[name]
	if !ok {
		return nil, fmt.Errorf("unknown objective: %s (available: %v)", name, ObjectiveNames())
	}
	return o, nil
}

func ObjectiveNames() []string {
	names := make([]string, 0, len(objectives))
	for name := range objectives {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
