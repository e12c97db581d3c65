package control

import (
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/vehicle"
)

// Zero holds the gimbal centred, which flies an unguided ascent.
type Zero struct{}

func NewZero() *Zero {
	return &Zero{}
}

func (z *Zero) Name() string { return "Zero" }

func (z *Zero) Control(x dynamo.State, m *vehicle.Mission, dt float64) dynamo.GncCommand {
	return dynamo.GncCommand{}
}
