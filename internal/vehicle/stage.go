package vehicle

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rocketsim/internal/physics"
)

// Stage is one propulsive element of a Mission. It is immutable after
// assembly; remaining propellant is tracked from vehicle mass at run time.
type Stage struct {
	Name           string     `yaml:"name" json:"name"`
	DryMass        float64    `yaml:"dry_mass" json:"dry_mass"`
	PropellantMass float64    `yaml:"propellant_mass" json:"propellant_mass"`
	Thrust         float64    `yaml:"thrust" json:"thrust"`
	Isp            float64    `yaml:"isp" json:"isp"`
	Cd             float64    `yaml:"cd" json:"cd"`
	Area           float64    `yaml:"area" json:"area"`
	Inertia        mgl64.Vec3 `yaml:"inertia" json:"inertia"`
	NozzleOffset   float64    `yaml:"nozzle_offset" json:"nozzle_offset"`
	CPOffset       float64    `yaml:"cp_offset" json:"cp_offset"`
	TVCMax         float64    `yaml:"tvc_max" json:"tvc_max"`
}

// TotalMass is dry plus propellant mass.
func (s Stage) TotalMass() float64 {
	return s.DryMass + s.PropellantMass
}

// MassFlow is the propellant consumption rate at full thrust, kg/s.
func (s Stage) MassFlow() float64 {
	if s.Isp <= 0 {
		return 0
	}
	return s.Thrust / (s.Isp * physics.G0)
}

// BurnTime is the time to exhaust the propellant at full thrust.
func (s Stage) BurnTime() float64 {
	mdot := s.MassFlow()
	if mdot <= 0 {
		return 0
	}
	return s.PropellantMass / mdot
}

// ExhaustVelocity is Isp * g0.
func (s Stage) ExhaustVelocity() float64 {
	return s.Isp * physics.G0
}

// DeltaV is the ideal velocity change of this stage carrying payload
// (everything stacked above it).
func (s Stage) DeltaV(payload float64) float64 {
	m0 := s.TotalMass() + payload
	mf := s.DryMass + payload
	if mf <= 0 || m0 <= mf {
		return 0
	}
	return s.ExhaustVelocity() * math.Log(m0/mf)
}

// Airframe returns the aerodynamic properties used while this stage is
// active.
func (s Stage) Airframe() physics.Airframe {
	return physics.Airframe{Cd: s.Cd, Area: s.Area, CPOffset: s.CPOffset}
}

// StageBuilder sets Stage fields; validation happens in Build.
type StageBuilder struct {
	stage Stage
}

// NewStage starts a stage with small sounding-rocket defaults.
func NewStage(name string) *StageBuilder {
	return &StageBuilder{stage: Stage{
		Name:           name,
		DryMass:        10,
		PropellantMass: 5,
		Thrust:         1000,
		Isp:            220,
		Cd:             0.3,
		Area:           0.01,
		Inertia:        mgl64.Vec3{5, 5, 0.5},
		NozzleOffset:   1.0,
		CPOffset:       0.3,
		TVCMax:         0.1,
	}}
}

func (b *StageBuilder) DryMass(kg float64) *StageBuilder     { b.stage.DryMass = kg; return b }
func (b *StageBuilder) Propellant(kg float64) *StageBuilder  { b.stage.PropellantMass = kg; return b }
func (b *StageBuilder) Thrust(n float64) *StageBuilder       { b.stage.Thrust = n; return b }
func (b *StageBuilder) Isp(s float64) *StageBuilder          { b.stage.Isp = s; return b }
func (b *StageBuilder) Cd(cd float64) *StageBuilder          { b.stage.Cd = cd; return b }
func (b *StageBuilder) Area(m2 float64) *StageBuilder        { b.stage.Area = m2; return b }
func (b *StageBuilder) NozzleOffset(m float64) *StageBuilder { b.stage.NozzleOffset = m; return b }
func (b *StageBuilder) CPOffset(m float64) *StageBuilder     { b.stage.CPOffset = m; return b }
func (b *StageBuilder) TVCMax(rad float64) *StageBuilder     { b.stage.TVCMax = rad; return b }
func (b *StageBuilder) Inertia(ixx, iyy, izz float64) *StageBuilder {
	b.stage.Inertia = mgl64.Vec3{ixx, iyy, izz}
	return b
}

// Build validates the stage on its own.
func (b *StageBuilder) Build() (Stage, error) {
	v := &ValidationError{}
	validateStage(v, 0, b.stage)
	if len(v.Problems) > 0 {
		return Stage{}, v
	}
	return b.stage, nil
}
