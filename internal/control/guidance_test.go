package control

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/gomega"
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/vehicle"
)

func deg(rad float64) float64 { return rad * 180 / math.Pi }

func at(t float64) dynamo.State {
	x := dynamo.NewState(10, 0)
	x.Time = t
	return x
}

func TestGuidancePitchProgram(t *testing.T) {
	g := NewWithT(t)
	gd := NewGuidance(vehicle.DefaultGuidance())

	g.Expect(deg(gd.Update(at(0)))).To(BeNumerically("~", 90, 1e-9))
	g.Expect(gd.Phase()).To(Equal(PhaseVertical))

	g.Expect(deg(gd.Update(at(2)))).To(BeNumerically("~", 90, 1e-9))
	g.Expect(gd.Phase()).To(Equal(PhasePitchover))

	g.Expect(deg(gd.Update(at(8.5)))).To(BeNumerically("~", 67.5, 1e-9))
	g.Expect(gd.Phase()).To(Equal(PhasePitchover))

	x := at(15)
	x.Vel = mgl64.Vec3{0, 50, 50}
	g.Expect(deg(gd.Update(x))).To(BeNumerically("~", 45, 1e-9))
	g.Expect(gd.Phase()).To(Equal(PhaseGravityTurn))
}

func TestGuidanceNeverReverts(t *testing.T) {
	g := NewWithT(t)
	gd := NewGuidance(vehicle.DefaultGuidance())

	for _, tm := range []float64{0, 3, 20} {
		gd.Update(at(tm))
	}
	g.Expect(gd.Phase()).To(Equal(PhaseGravityTurn))

	gd.Update(at(0))
	g.Expect(gd.Phase()).To(Equal(PhaseGravityTurn))

	gd.Reset()
	g.Expect(gd.Phase()).To(Equal(PhaseVertical))
}

func TestGuidanceAltitudeThreshold(t *testing.T) {
	g := NewWithT(t)
	params := vehicle.DefaultGuidance()
	params.VerticalAltitude = 500
	gd := NewGuidance(params)

	x := at(10)
	x.Pos = mgl64.Vec3{0, 0, 100}
	gd.Update(x)
	g.Expect(gd.Phase()).To(Equal(PhaseVertical))

	x.Pos = mgl64.Vec3{0, 0, 600}
	gd.Update(x)
	g.Expect(gd.Phase()).To(Equal(PhasePitchover))
}

func TestGravityTurnClamps(t *testing.T) {
	g := NewWithT(t)
	params := vehicle.DefaultGuidance()
	params.MinPitch = 10
	gd := NewGuidance(params)
	gd.Update(at(3))

	slow := at(20)
	slow.Vel = mgl64.Vec3{0, 1, 1}
	g.Expect(deg(gd.Update(slow))).To(BeNumerically("~", params.PitchoverAngle, 1e-9))

	falling := at(21)
	falling.Vel = mgl64.Vec3{0, 50, -100}
	g.Expect(deg(gd.Update(falling))).To(BeNumerically("~", 10, 1e-9))
}

func TestPhaseString(t *testing.T) {
	g := NewWithT(t)
	g.Expect(PhaseVertical.String()).To(Equal("vertical"))
	g.Expect(PhaseGravityTurn.String()).To(Equal("gravity-turn"))
	g.Expect(Phase(9).String()).To(Equal("unknown"))
}
