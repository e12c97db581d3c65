package sim

import (
	"fmt"
	"strings"

	"github.com/san-kum/rocketsim/internal/dynamo"
)

// EventKind classifies a discrete flight event.
type EventKind int

const (
	EventLiftoff EventKind = iota
	EventBurnout
	EventStaging
	EventApogee
	EventLanding
	EventAltitude
)

var eventNames = map[EventKind]string{
	EventLiftoff:  "LIFTOFF",
	EventBurnout:  "BURNOUT",
	EventStaging:  "STAGING",
	EventApogee:   "APOGEE",
	EventLanding:  "LANDING",
	EventAltitude: "ALTITUDE",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *EventKind) UnmarshalText(text []byte) error {
	kind, err := ParseEventKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ParseEventKind is the inverse of EventKind.String, case-insensitive.
func ParseEventKind(s string) (EventKind, error) {
	for k, name := range eventNames {
		if strings.EqualFold(name, s) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown event kind: %q", s)
}

// Event is a discrete occurrence recorded during a run. Stage is the
// active stage when the event fired; ToStage is set only for STAGING.
type Event struct {
	Kind          EventKind `json:"kind"`
	Time          float64   `json:"time"`
	Altitude      float64   `json:"altitude"`
	Speed         float64   `json:"speed"`
	VerticalSpeed float64   `json:"vertical_speed"`
	Mass          float64   `json:"mass"`
	Stage         int       `json:"stage"`
	ToStage       int       `json:"to_stage,omitempty"`
	Label         string    `json:"label,omitempty"`
}

func (e Event) String() string {
	switch e.Kind {
	case EventStaging:
		return fmt.Sprintf("T+%.2fs %s %d->%d at %.1f m", e.Time, e.Kind, e.Stage, e.ToStage, e.Altitude)
	case EventAltitude:
		return fmt.Sprintf("T+%.2fs %s %s at %.1f m", e.Time, e.Kind, e.Label, e.Altitude)
	default:
		return fmt.Sprintf("T+%.2fs %s at %.1f m", e.Time, e.Kind, e.Altitude)
	}
}

func newEvent(kind EventKind, x dynamo.State) Event {
	return Event{
		Kind:          kind,
		Time:          x.Time,
		Altitude:      x.Altitude(),
		Speed:         x.Speed(),
		VerticalSpeed: x.VerticalSpeed(),
		Mass:          x.Mass,
		Stage:         x.Stage,
	}
}

// Detector watches consecutive states for a user-defined condition.
// Detectors run after the built-in events of each tick.
type Detector interface {
	Detect(prev, cur dynamo.State) (Event, bool)
	Reset()
}

// AltitudeDetector fires once, the first time the vehicle crosses a fixed
// altitude in either direction.
type AltitudeDetector struct {
	Altitude float64
	Label    string

	fired bool
}

func NewAltitudeDetector(altitude float64) *AltitudeDetector {
	return &AltitudeDetector{
		Altitude: altitude,
		Label:    fmt.Sprintf("%.0fm", altitude),
	}
}

func (d *AltitudeDetector) Detect(prev, cur dynamo.State) (Event, bool) {
	if d.fired {
		return Event{}, false
	}
	below := prev.Altitude() < d.Altitude
	if below == (cur.Altitude() < d.Altitude) {
		return Event{}, false
	}
	d.fired = true
	e := newEvent(EventAltitude, cur)
	e.Label = d.Label
	return e, true
}

func (d *AltitudeDetector) Reset() { d.fired = false }
