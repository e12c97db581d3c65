package vehicle

import "github.com/san-kum/rocketsim/internal/physics"

// Guidance configures the open-loop pitch program.
type Guidance struct {
	VerticalTime      float64 `yaml:"vertical_time" json:"vertical_time"`           // s
	VerticalAltitude  float64 `yaml:"vertical_altitude" json:"vertical_altitude"`   // m, 0 disables
	PitchoverDuration float64 `yaml:"pitchover_duration" json:"pitchover_duration"` // s
	PitchoverAngle    float64 `yaml:"pitchover_angle" json:"pitchover_angle"`       // deg at end of pitchover
	MinPitch          float64 `yaml:"min_pitch" json:"min_pitch"`                   // deg
}

// Gains configures one PID axis.
type Gains struct {
	Kp            float64 `yaml:"kp" json:"kp"`
	Ki            float64 `yaml:"ki" json:"ki"`
	Kd            float64 `yaml:"kd" json:"kd"`
	IntegralLimit float64 `yaml:"integral_limit" json:"integral_limit"`
	Filter        float64 `yaml:"filter" json:"filter"` // derivative low-pass coefficient in [0, 1)
}

func DefaultGuidance() Guidance {
	return Guidance{
		VerticalTime:      2,
		PitchoverDuration: 13,
		PitchoverAngle:    45,
	}
}

func DefaultGains() Gains {
	return Gains{Kp: 2.0, Ki: 0.1, Kd: 0.5, IntegralLimit: 1.0, Filter: 0.5}
}

// Mission is an ordered stack of stages plus shared flight parameters.
// Stage 0 burns first.
type Mission struct {
	Name         string   `yaml:"name" json:"name"`
	Stages       []Stage  `yaml:"stages" json:"stages"`
	Payload      float64  `yaml:"payload" json:"payload"`
	TargetApogee float64  `yaml:"target_apogee" json:"target_apogee,omitempty"`
	Guidance     Guidance `yaml:"guidance" json:"guidance"`
	PitchGains   Gains    `yaml:"pitch_gains" json:"pitch_gains"`
	YawGains     Gains    `yaml:"yaw_gains" json:"yaw_gains"`
}

// TotalMass is the liftoff mass.
func (m *Mission) TotalMass() float64 {
	return m.Payload + m.MassAbove(-1)
}

// MassAbove is the total mass of every stage after idx, payload excluded.
// MassAbove(-1) is the mass of all stages.
func (m *Mission) MassAbove(idx int) float64 {
	total := 0.0
	for i := idx + 1; i < len(m.Stages); i++ {
		total += m.Stages[i].TotalMass()
	}
	return total
}

// Stage returns the stage at idx, or false past the end of the stack.
func (m *Mission) Stage(idx int) (Stage, bool) {
	if idx < 0 || idx >= len(m.Stages) {
		return Stage{}, false
	}
	return m.Stages[idx], true
}

// IsLastStage reports whether idx is the final stage.
func (m *Mission) IsLastStage(idx int) bool {
	return idx == len(m.Stages)-1
}

// RemainingPropellant derives the unburnt propellant of stage idx from the
// current vehicle mass.
func (m *Mission) RemainingPropellant(idx int, mass float64) float64 {
	s, ok := m.Stage(idx)
	if !ok {
		return 0
	}
	return mass - m.Payload - s.DryMass - m.MassAbove(idx)
}

// DeltaV is the ideal total velocity change of the full stack.
func (m *Mission) DeltaV() float64 {
	total := 0.0
	for i, s := range m.Stages {
		total += s.DeltaV(m.MassAbove(i) + m.Payload)
	}
	return total
}

// LiftoffTWR is the thrust-to-weight ratio of the first stage at liftoff.
func (m *Mission) LiftoffTWR() float64 {
	if len(m.Stages) == 0 {
		return 0
	}
	return m.Stages[0].Thrust / (m.TotalMass() * physics.G0)
}

// Validate checks every field and returns a *ValidationError listing all
// problems, or nil.
func (m *Mission) Validate() error {
	v := &ValidationError{Mission: m.Name}
	if len(m.Stages) == 0 {
		v.add("stages", "mission has no stages")
	}
	if m.Payload < 0 {
		v.add("payload", "must be non-negative")
	}
	for i, s := range m.Stages {
		validateStage(v, i, s)
	}
	g := m.Guidance
	if g.VerticalTime < 0 || g.PitchoverDuration < 0 || g.VerticalAltitude < 0 {
		v.add("guidance", "times and altitudes must be non-negative")
	}
	if g.PitchoverAngle < g.MinPitch || g.PitchoverAngle > 90 {
		v.add("guidance.pitchover_angle", "must lie in [min_pitch, 90]")
	}
	for name, gains := range map[string]Gains{"pitch_gains": m.PitchGains, "yaw_gains": m.YawGains} {
		if gains.IntegralLimit < 0 {
			v.add(name+".integral_limit", "must be non-negative")
		}
		if gains.Filter < 0 || gains.Filter >= 1 {
			v.add(name+".filter", "must lie in [0, 1)")
		}
	}
	if len(v.Problems) > 0 {
		v.sort()
		return v
	}
	return nil
}

// MissionBuilder assembles a Mission; Build is the single validation point.
type MissionBuilder struct {
	mission Mission
}

func NewMission(name string) *MissionBuilder {
	return &MissionBuilder{mission: Mission{
		Name:       name,
		Guidance:   DefaultGuidance(),
		PitchGains: DefaultGains(),
		YawGains:   DefaultGains(),
	}}
}

// Stage appends a stage. Stages burn in the order they are added.
func (b *MissionBuilder) Stage(s *StageBuilder) *MissionBuilder {
	b.mission.Stages = append(b.mission.Stages, s.stage)
	return b
}

func (b *MissionBuilder) Payload(kg float64) *MissionBuilder { b.mission.Payload = kg; return b }

func (b *MissionBuilder) TargetApogee(m float64) *MissionBuilder {
	b.mission.TargetApogee = m
	return b
}

func (b *MissionBuilder) Guidance(g Guidance) *MissionBuilder { b.mission.Guidance = g; return b }

func (b *MissionBuilder) Gains(pitch, yaw Gains) *MissionBuilder {
	b.mission.PitchGains = pitch
	b.mission.YawGains = yaw
	return b
}

// Build validates and returns an independent Mission.
func (b *MissionBuilder) Build() (*Mission, error) {
	m := b.mission
	m.Stages = append([]Stage(nil), b.mission.Stages...)
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
