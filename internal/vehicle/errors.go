package vehicle

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidMission is matched by every mission or stage validation failure.
var ErrInvalidMission = errors.New("vehicle: invalid mission")

// Problem is a single rejected field.
type Problem struct {
	Field  string
	Reason string
}

// ValidationError lists every problem found by Build or Validate.
type ValidationError struct {
	Mission  string
	Problems []Problem
}

func (e *ValidationError) add(field, reason string) {
	e.Problems = append(e.Problems, Problem{Field: field, Reason: reason})
}

func (e *ValidationError) sort() {
	sort.SliceStable(e.Problems, func(i, j int) bool {
		return e.Problems[i].Field < e.Problems[j].Field
	})
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = fmt.Sprintf("%s: %s", p.Field, p.Reason)
	}
	name := e.Mission
	if name == "" {
		name = "unnamed"
	}
	return fmt.Sprintf("%v %q: %s", ErrInvalidMission, name, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidMission
}

func validateStage(v *ValidationError, idx int, s Stage) {
	field := func(name string) string {
		return fmt.Sprintf("stages[%d].%s", idx, name)
	}
	if s.DryMass <= 0 {
		v.add(field("dry_mass"), "must be positive")
	}
	if s.PropellantMass < 0 {
		v.add(field("propellant_mass"), "must be non-negative")
	}
	if s.Thrust < 0 {
		v.add(field("thrust"), "must be non-negative")
	}
	if s.Isp <= 0 && s.Thrust > 0 {
		v.add(field("isp"), "must be positive for a thrusting stage")
	}
	if s.Cd < 0 || s.Area < 0 {
		v.add(field("aero"), "cd and area must be non-negative")
	}
	if s.Inertia.X() <= 0 || s.Inertia.Y() <= 0 || s.Inertia.Z() <= 0 {
		v.add(field("inertia"), "principal moments must be positive")
	}
	if s.TVCMax <= 0 {
		v.add(field("tvc_max"), "gimbal limit must be positive")
	}
}
