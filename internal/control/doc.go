// Package control provides the guidance, navigation and control pipeline.
//
// Controllers implement [Controller] to produce a gimbal command from the
// vehicle state once per tick:
//
//   - [TVCController]: pitch program + two PID loops + TVC actuator
//   - [BangBang]: pitch program with full-deflection switching
//   - [Zero]: centred gimbal (unguided flight)
//
// The default stack is built from three parts that can be used alone:
// [Guidance] (vertical, pitchover, gravity turn), [PID] (clamped integrator,
// filtered derivative) and [Actuate] (normalize and clamp to the gimbal
// limit).
//
// # Usage
//
//	ctrl := control.NewTVCController(mission)
//	cmd := ctrl.Control(state, mission, dt)
//
// Controllers implementing [Configurable] support live tuning.
package control
