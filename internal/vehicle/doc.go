// Package vehicle describes what flies: stages, the mission that stacks
// them, and the guidance and gain settings the default controller reads.
//
// Missions are assembled with [MissionBuilder]. Setters only record
// values; [MissionBuilder.Build] validates everything at once and returns
// either an immutable [Mission] or a [*ValidationError] that matches
// [ErrInvalidMission]:
//
//	m, err := vehicle.NewMission("demo").
//	    Stage(vehicle.NewStage("booster").DryMass(40).Propellant(25)).
//	    Build()
package vehicle
