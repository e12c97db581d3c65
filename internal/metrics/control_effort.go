package metrics

import (
	"math"

	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/vehicle"
)

// saturationTolerance absorbs rounding when a clamped command sits on the
// limit.
const saturationTolerance = 1e-12

// ControlEffort averages the gimbal deflection magnitude over every tick,
// in radians. With per-stage limits it also counts ticks where the
// deflection reaches the active stage's limit.
type ControlEffort struct {
	total     float64
	peak      float64
	ticks     int
	saturated int
	limits    []float64
}

func NewControlEffort() *ControlEffort { return &ControlEffort{} }

// NewControlEffortLimits counts saturation against limits[stage] radians.
// Stages without a positive limit never saturate.
func NewControlEffortLimits(limits []float64) *ControlEffort {
	return &ControlEffort{limits: limits}
}

func (c *ControlEffort) Name() string { return "control_effort" }

func (c *ControlEffort) Observe(_, cur dynamo.State, cmd dynamo.GncCommand) {
	mag := math.Hypot(cmd.GimbalY, cmd.GimbalZ)
	c.total += mag
	c.peak = max(c.peak, mag)
	if cur.Stage >= 0 && cur.Stage < len(c.limits) {
		if limit := c.limits[cur.Stage]; limit > 0 && mag >= limit-saturationTolerance {
			c.saturated++
		}
	}
	c.ticks++
}

func (c *ControlEffort) Value() float64 {
	if c.ticks == 0 {
		return 0
	}
	return c.total / float64(c.ticks)
}

// Peak is the largest deflection seen.
func (c *ControlEffort) Peak() float64 { return c.peak }

// Saturation is the fraction of ticks at the limit; zero without limits.
func (c *ControlEffort) Saturation() float64 {
	if c.ticks == 0 {
		return 0
	}
	return float64(c.saturated) / float64(c.ticks)
}

func (c *ControlEffort) Reset() {
	*c = ControlEffort{limits: c.limits}
}

// GimbalSaturation reports ControlEffort's saturated fraction as a metric
// of its own.
type GimbalSaturation struct {
	effort *ControlEffort
}

// NewGimbalSaturation measures against each stage's TVC limit.
func NewGimbalSaturation(m *vehicle.Mission) *GimbalSaturation {
	limits := make([]float64, len(m.Stages))
	for i, s := range m.Stages {
		limits[i] = s.TVCMax
	}
	return &GimbalSaturation{effort: NewControlEffortLimits(limits)}
}

func (g *GimbalSaturation) Name() string { return "gimbal_saturation" }

func (g *GimbalSaturation) Observe(prev, cur dynamo.State, cmd dynamo.GncCommand) {
	g.effort.Observe(prev, cur, cmd)
}

func (g *GimbalSaturation) Value() float64 { return g.effort.Saturation() }

func (g *GimbalSaturation) Reset() { g.effort.Reset() }
