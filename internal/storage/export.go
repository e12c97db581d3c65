package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/metrics"
	"github.com/san-kum/rocketsim/internal/sim"
	"github.com/san-kum/rocketsim/internal/vehicle"
)

const (
	TrajectoryFile = "trajectory.csv"
	SummaryFile    = "summary.json"
	EventsFile     = "events.csv"
)

var trajectoryHeader = []string{
	"time",
	"pos_x", "pos_y", "pos_z",
	"vel_x", "vel_y", "vel_z",
	"quat_w", "quat_x", "quat_y", "quat_z",
	"omega_x", "omega_y", "omega_z",
	"mass", "stage_idx", "pitch_deg", "alpha_deg",
	"altitude", "speed", "mach", "q_dyn", "accel",
	"gimbal_y", "gimbal_z",
}

var eventsHeader = []string{"kind", "time", "altitude", "speed", "vertical_speed", "mass", "stage", "to_stage", "label"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// WriteTrajectoryCSV writes one row per recorded state with its derived
// telemetry and the command applied over the tick that produced it.
func WriteTrajectoryCSV(w io.Writer, r *sim.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(trajectoryHeader); err != nil {
		return err
	}

	samples := metrics.Telemetry(r.States)
	for i, x := range r.States {
		var cmd dynamo.GncCommand
		if i < len(r.Commands) {
			cmd = r.Commands[i]
		}
		s := samples[i]
		row := []string{formatFloat(x.Time)}
		for _, v := range []float64{
			x.Pos.X(), x.Pos.Y(), x.Pos.Z(),
			x.Vel.X(), x.Vel.Y(), x.Vel.Z(),
			x.Att.W, x.Att.V.X(), x.Att.V.Y(), x.Att.V.Z(),
			x.Omega.X(), x.Omega.Y(), x.Omega.Z(),
			x.Mass,
		} {
			row = append(row, formatFloat(v))
		}
		row = append(row, strconv.Itoa(x.Stage))
		for _, v := range []float64{
			s.Pitch, s.AoA,
			s.Altitude, s.Speed, s.Mach, s.DynamicPressure, s.Accel,
			cmd.GimbalY, cmd.GimbalZ,
		} {
			row = append(row, formatFloat(v))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadTrajectoryCSV parses a file written by WriteTrajectoryCSV back into
// states and commands. Derived columns are ignored.
func ReadTrajectoryCSV(rd io.Reader) ([]dynamo.State, []dynamo.GncCommand, error) {
	cr := csv.NewReader(rd)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("trajectory: missing header")
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[name] = i
	}
	for _, name := range trajectoryHeader {
		if _, ok := col[name]; !ok {
			return nil, nil, fmt.Errorf("trajectory: missing column %q", name)
		}
	}

	states := make([]dynamo.State, 0, len(records)-1)
	cmds := make([]dynamo.GncCommand, 0, len(records)-1)
	for line, rec := range records[1:] {
		var perr error
		f := func(name string) float64 {
			v, err := strconv.ParseFloat(rec[col[name]], 64)
			if err != nil && perr == nil {
				perr = fmt.Errorf("trajectory line %d, column %s: %w", line+2, name, err)
			}
			return v
		}
		x := dynamo.State{
			Time:  f("time"),
			Pos:   mgl64.Vec3{f("pos_x"), f("pos_y"), f("pos_z")},
			Vel:   mgl64.Vec3{f("vel_x"), f("vel_y"), f("vel_z")},
			Att:   mgl64.Quat{W: f("quat_w"), V: mgl64.Vec3{f("quat_x"), f("quat_y"), f("quat_z")}},
			Omega: mgl64.Vec3{f("omega_x"), f("omega_y"), f("omega_z")},
			Mass:  f("mass"),
			Stage: int(math.Round(f("stage_idx"))),
		}
		cmd := dynamo.GncCommand{GimbalY: f("gimbal_y"), GimbalZ: f("gimbal_z")}
		if perr != nil {
			return nil, nil, perr
		}
		states = append(states, x)
		cmds = append(cmds, cmd)
	}
	return states, cmds, nil
}

func WriteEventsCSV(w io.Writer, events []sim.Event) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(eventsHeader); err != nil {
		return err
	}
	for _, e := range events {
		row := []string{
			e.Kind.String(),
			formatFloat(e.Time),
			formatFloat(e.Altitude),
			formatFloat(e.Speed),
			formatFloat(e.VerticalSpeed),
			formatFloat(e.Mass),
			strconv.Itoa(e.Stage),
			strconv.Itoa(e.ToStage),
			e.Label,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ReadEventsCSV(rd io.Reader) ([]sim.Event, error) {
	records, err := csv.NewReader(rd).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("events: missing header")
	}

	events := make([]sim.Event, 0, len(records)-1)
	for line, rec := range records[1:] {
		if len(rec) != len(eventsHeader) {
			return nil, fmt.Errorf("events line %d: expected %d fields, got %d", line+2, len(eventsHeader), len(rec))
		}
		kind, err := sim.ParseEventKind(rec[0])
		if err != nil {
			return nil, fmt.Errorf("events line %d: %w", line+2, err)
		}
		var nums [5]float64
		for i := range nums {
			if nums[i], err = strconv.ParseFloat(rec[i+1], 64); err != nil {
				return nil, fmt.Errorf("events line %d: %w", line+2, err)
			}
		}
		stage, err := strconv.Atoi(rec[6])
		if err != nil {
			return nil, fmt.Errorf("events line %d: %w", line+2, err)
		}
		to, err := strconv.Atoi(rec[7])
		if err != nil {
			return nil, fmt.Errorf("events line %d: %w", line+2, err)
		}
		events = append(events, sim.Event{
			Kind:          kind,
			Time:          nums[0],
			Altitude:      nums[1],
			Speed:         nums[2],
			VerticalSpeed: nums[3],
			Mass:          nums[4],
			Stage:         stage,
			ToStage:       to,
			Label:         rec[8],
		})
	}
	return events, nil
}

// MissionInfo is the vehicle section of a summary.
type MissionInfo struct {
	Name         string          `json:"name"`
	Stages       []vehicle.Stage `json:"stages"`
	Payload      float64         `json:"payload"`
	DeltaV       float64         `json:"delta_v"`
	TargetApogee float64         `json:"target_apogee,omitempty"`
}

// Summary is the JSON flight report.
type Summary struct {
	Mission     MissionInfo           `json:"mission"`
	Controller  string                `json:"controller"`
	Performance metrics.FlightSummary `json:"performance"`
	Events      []sim.Event           `json:"events"`
	Outcome     sim.Outcome           `json:"outcome"`
	Error       string                `json:"error,omitempty"`
}

func NewSummary(m *vehicle.Mission, r *sim.Result) Summary {
	s := Summary{
		Mission: MissionInfo{
			Name:         m.Name,
			Stages:       m.Stages,
			Payload:      m.Payload,
			DeltaV:       m.DeltaV(),
			TargetApogee: m.TargetApogee,
		},
		Controller:  r.Controller,
		Performance: metrics.Summarize(r),
		Events:      r.Events,
		Outcome:     r.Outcome,
	}
	if s.Events == nil {
		s.Events = []sim.Event{}
	}
	if r.Err != nil {
		s.Error = r.Err.Error()
	}
	return s
}

func WriteSummaryJSON(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// Export writes trajectory.csv and summary.json into dir, creating it if
// needed, and returns the paths written.
func Export(dir string, r *sim.Result, m *vehicle.Mission) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	trajPath := filepath.Join(dir, TrajectoryFile)
	if err := writeFile(trajPath, func(w io.Writer) error { return WriteTrajectoryCSV(w, r) }); err != nil {
		return nil, err
	}

	summaryPath := filepath.Join(dir, SummaryFile)
	if err := writeFile(summaryPath, func(w io.Writer) error { return WriteSummaryJSON(w, NewSummary(m, r)) }); err != nil {
		return nil, err
	}

	return []string{trajPath, summaryPath}, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
