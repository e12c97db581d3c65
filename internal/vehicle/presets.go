package vehicle

import (
	"fmt"
	"sort"
)

// Presets maps a preset name to a builder for a reference mission.
var Presets = map[string]func() *MissionBuilder{
	"pathfinder": Pathfinder,
	"sounding":   Sounding,
	"heavy":      Heavy,
}

// Pathfinder is a two-stage research vehicle.
func Pathfinder() *MissionBuilder {
	return NewMission("Pathfinder").
		Stage(NewStage("S1-Booster").
			DryMass(40).Propellant(25).Thrust(5000).Isp(220).
			Cd(0.35).Area(0.02).Inertia(20, 20, 2).
			NozzleOffset(1.5).CPOffset(0.4).TVCMax(0.1)).
		Stage(NewStage("S2-Sustainer").
			DryMass(8).Propellant(6).Thrust(1200).Isp(250).
			Cd(0.28).Area(0.008).Inertia(4, 4, 0.4).
			NozzleOffset(0.6).CPOffset(0.25).TVCMax(0.08))
}

// Sounding is a single-stage sounding rocket with a small payload.
func Sounding() *MissionBuilder {
	return NewMission("Sounding").
		Stage(NewStage("Motor")).
		Payload(2)
}

// Heavy is a three-stage stack built on top of a large booster.
func Heavy() *MissionBuilder {
	return NewMission("Heavy").
		Stage(NewStage("H1-Core").
			DryMass(120).Propellant(90).Thrust(14000).Isp(230).
			Cd(0.4).Area(0.05).Inertia(80, 80, 6).
			NozzleOffset(2.5).CPOffset(0.6).TVCMax(0.1)).
		Stage(NewStage("H2-Booster").
			DryMass(40).Propellant(25).Thrust(5000).Isp(240).
			Cd(0.35).Area(0.02).Inertia(20, 20, 2).
			NozzleOffset(1.5).CPOffset(0.4).TVCMax(0.1)).
		Stage(NewStage("H3-Kick").
			DryMass(10).Propellant(5).Thrust(1200).Isp(250).
			Cd(0.28).Area(0.008).Inertia(8, 8, 0.8).
			NozzleOffset(0.6).CPOffset(0.25).TVCMax(0.08)).
		Payload(5)
}

// Preset builds the named reference mission.
func Preset(name string) (*Mission, error) {
	fn, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, PresetNames())
	}
	return fn().Build()
}

// PresetNames lists the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
