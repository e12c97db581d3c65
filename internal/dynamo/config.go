package dynamo

import (
	"fmt"
	"math"
)

const (
	DefaultDt      = 0.005
	DefaultMaxTime = 600.0
)

// Config controls a flight simulation run.
type Config struct {
	Dt              float64
	MaxTime         float64
	InitialAltitude float64
	// UseJ2 enables the J2 term for any orbital propagation embedded in a
	// run. The local flight frame always uses inverse-square gravity.
	UseJ2 bool
}

func DefaultConfig() Config {
	return Config{
		Dt:      DefaultDt,
		MaxTime: DefaultMaxTime,
	}
}

// Validate checks the config before a run starts.
func (c Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, c.Dt)
	}
	if c.MaxTime <= 0 {
		return fmt.Errorf("%w: max time must be positive, got %f", ErrInvalidConfig, c.MaxTime)
	}
	if c.InitialAltitude < 0 {
		return fmt.Errorf("%w: initial altitude must be non-negative, got %f", ErrInvalidConfig, c.InitialAltitude)
	}
	return nil
}

// stepTolerance keeps MaxTime/Dt from losing the last tick to rounding.
const stepTolerance = 1e-9

// Steps is the maximum number of ticks a run can take.
func (c Config) Steps() int {
	return int(math.Floor(c.MaxTime/c.Dt + stepTolerance))
}

// Metric accumulates a scalar over the ticks of a run.
type Metric interface {
	Name() string
	Observe(prev, cur State, cmd GncCommand)
	Value() float64
	Reset()
}
