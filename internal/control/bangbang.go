package control

import (
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/vehicle"
)

// DefaultDeadband is the pitch error, radians, inside which BangBang holds
// the gimbal centred.
const DefaultDeadband = 0.02

// BangBang follows the same pitch program as TVCController but commands
// only full deflection or none.
type BangBang struct {
	guidance *Guidance
	Deadband float64
}

func NewBangBang(m *vehicle.Mission, deadband float64) *BangBang {
	return &BangBang{guidance: NewGuidance(m.Guidance), Deadband: deadband}
}

func (b *BangBang) Name() string { return "BangBang" }

func (b *BangBang) Control(x dynamo.State, m *vehicle.Mission, dt float64) dynamo.GncCommand {
	limit := gimbalLimit(x, m)
	err := b.guidance.Update(x) - x.Pitch()

	switch {
	case err > b.Deadband:
		return dynamo.GncCommand{GimbalY: limit}
	case err < -b.Deadband:
		return dynamo.GncCommand{GimbalY: -limit}
	default:
		return dynamo.GncCommand{}
	}
}

func (b *BangBang) Reset() { b.guidance.Reset() }
