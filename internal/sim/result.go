package sim

import (
	"fmt"

	"github.com/san-kum/rocketsim/internal/dynamo"
)

// Outcome is how a run ended.
type Outcome int

const (
	OutcomeLanded Outcome = iota
	OutcomeTimeLimit
	OutcomeAborted
	OutcomeCanceled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLanded:
		return "landed"
	case OutcomeTimeLimit:
		return "time-limit"
	case OutcomeAborted:
		return "aborted"
	case OutcomeCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	for _, c := range []Outcome{OutcomeLanded, OutcomeTimeLimit, OutcomeAborted, OutcomeCanceled} {
		if c.String() == string(text) {
			*o = c
			return nil
		}
	}
	return fmt.Errorf("unknown outcome: %q", text)
}

// Result is the recorded history of one run. States and Commands are
// parallel: Commands[i] was applied over the tick that ended at States[i],
// and Commands[0] is the zero command paired with the initial state.
type Result struct {
	Mission    string
	Controller string
	Dt         float64

	States   []dynamo.State
	Commands []dynamo.GncCommand
	Events   []Event

	Outcome    Outcome
	Err        error
	Metrics    map[string]float64
	StepsTaken int
}

// Final returns the last recorded state.
func (r *Result) Final() dynamo.State {
	if len(r.States) == 0 {
		return dynamo.State{}
	}
	return r.States[len(r.States)-1]
}

// Complete reports whether the flight ran to landing.
func (r *Result) Complete() bool {
	return r.Outcome == OutcomeLanded
}

// EventsOf returns the events of one kind in the order they fired.
func (r *Result) EventsOf(kind EventKind) []Event {
	var out []Event
	for _, e := range r.Events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// FirstEvent returns the earliest event of kind.
func (r *Result) FirstEvent(kind EventKind) (Event, bool) {
	for _, e := range r.Events {
		if e.Kind == kind {
			return e, true
		}
	}
	return Event{}, false
}

// Times returns the time of every recorded state.
func (r *Result) Times() []float64 {
	out := make([]float64, len(r.States))
	for i, x := range r.States {
		out[i] = x.Time
	}
	return out
}
