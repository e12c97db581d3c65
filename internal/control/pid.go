package control

import (
	"fmt"
	"math"

	"github.com/san-kum/rocketsim/internal/vehicle"
)

// PID is a single-axis controller with a clamped integrator and a
// low-pass filtered derivative.
type PID struct {
	Kp            float64
	Ki            float64
	Kd            float64
	IntegralLimit float64 // |integral| bound; 0 disables the integral term
	Filter        float64 // derivative smoothing in [0, 1); 0 is unfiltered

	integral float64
	prevErr  float64
	dFilt    float64
	first    bool
}

func NewPID(kp, ki, kd float64) *PID {
	return &PID{
		Kp:    kp,
		Ki:    ki,
		Kd:    kd,
		first: true,
	}
}

// NewPIDFromGains builds a PID from mission gains.
func NewPIDFromGains(g vehicle.Gains) *PID {
	p := NewPID(g.Kp, g.Ki, g.Kd)
	p.IntegralLimit = g.IntegralLimit
	p.Filter = g.Filter
	return p
}

// Update consumes one error sample taken dt after the previous one and
// returns the control output. The first sample has no derivative term.
func (p *PID) Update(err, dt float64) float64 {
	if dt <= 0 {
		return p.Kp * err
	}

	p.integral = math.Max(-p.IntegralLimit, math.Min(p.IntegralLimit, p.integral+err*dt))

	if p.first {
		p.first = false
	} else {
		raw := (err - p.prevErr) / dt
		p.dFilt = p.Filter*p.dFilt + (1-p.Filter)*raw
	}
	p.prevErr = err

	return p.Kp*err + p.Ki*p.integral + p.Kd*p.dFilt
}

// Integral returns the accumulated, clamped error integral.
func (p *PID) Integral() float64 {
	return p.integral
}

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.dFilt = 0
	p.first = true
}

// GetParams returns tunable parameters for live adjustment
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp":            p.Kp,
		"Ki":            p.Ki,
		"Kd":            p.Kd,
		"IntegralLimit": p.IntegralLimit,
		"Filter":        p.Filter,
	}
}

// SetParam adjusts a PID parameter
func (p *PID) SetParam(name string, value float64) error {
	switch name {
	case "Kp":
		p.Kp = value
	case "Ki":
		p.Ki = value
	case "Kd":
		p.Kd = value
	case "IntegralLimit":
		if value < 0 {
			return fmt.Errorf("integral limit must be non-negative, got %f", value)
		}
		p.IntegralLimit = value
	case "Filter":
		if value < 0 || value >= 1 {
			return fmt.Errorf("filter must lie in [0, 1), got %f", value)
		}
		p.Filter = value
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}
