package control

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/vehicle"
)

// Normalize maps a requested deflection to [-1, 1] of the gimbal limit.
func Normalize(out, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	return math.Max(-1, math.Min(1, out/limit))
}

// Actuate converts the pitch and yaw loop outputs into gimbal angles
// within the mechanical limit.
func Actuate(pitchOut, yawOut, limit float64) dynamo.GncCommand {
	return dynamo.GncCommand{
		GimbalY: Normalize(pitchOut, limit) * limit,
		GimbalZ: Normalize(yawOut, limit) * limit,
	}
}

// gimbalLimit returns the active stage's limit, or 0 with no active stage.
func gimbalLimit(x dynamo.State, m *vehicle.Mission) float64 {
	s, ok := m.Stage(x.Stage)
	if !ok {
		return 0
	}
	return s.TVCMax
}

// TVCController is the default GNC stack: pitch program guidance feeding
// two decoupled PID loops that drive the thrust vector.
type TVCController struct {
	guidance *Guidance
	pitch    *PID
	yaw      *PID
}

func NewTVCController(m *vehicle.Mission) *TVCController {
	return &TVCController{
		guidance: NewGuidance(m.Guidance),
		pitch:    NewPIDFromGains(m.PitchGains),
		yaw:      NewPIDFromGains(m.YawGains),
	}
}

func (c *TVCController) Name() string { return "TVCController" }

func (c *TVCController) Control(x dynamo.State, m *vehicle.Mission, dt float64) dynamo.GncCommand {
	pitchErr := c.guidance.Update(x) - x.Pitch()

	// Lateral lean of the body axis out of the Y-Z plane; a positive yaw
	// gimbal rotates it back.
	bz := x.BodyAxis()
	yawErr := math.Atan2(bz.X(), math.Hypot(bz.Y(), bz.Z()))

	return Actuate(c.pitch.Update(pitchErr, dt), c.yaw.Update(yawErr, dt), gimbalLimit(x, m))
}

func (c *TVCController) Phase() Phase { return c.guidance.Phase() }

func (c *TVCController) Reset() {
	c.guidance.Reset()
	c.pitch.Reset()
	c.yaw.Reset()
}

// GetParams exposes both loops with "pitch." and "yaw." prefixes.
func (c *TVCController) GetParams() map[string]float64 {
	out := make(map[string]float64)
	for k, v := range c.pitch.GetParams() {
		out["pitch."+k] = v
	}
	for k, v := range c.yaw.GetParams() {
		out["yaw."+k] = v
	}
	return out
}

func (c *TVCController) SetParam(name string, value float64) error {
	if rest, ok := strings.CutPrefix(name, "pitch."); ok {
		return c.pitch.SetParam(rest, value)
	}
	if rest, ok := strings.CutPrefix(name, "yaw."); ok {
		return c.yaw.SetParam(rest, value)
	}
	return fmt.Errorf("unknown parameter: %s", name)
}
