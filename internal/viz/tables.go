package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/san-kum/rocketsim/internal/metrics"
	"github.com/san-kum/rocketsim/internal/physics"
	"github.com/san-kum/rocketsim/internal/sim"
	"github.com/san-kum/rocketsim/internal/vehicle"
)

func newTable(headers ...string) *table.Table {
	header := lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Primary).Padding(0, 1)
	cell := lipgloss.NewStyle().Foreground(CurrentTheme.Text).Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(CurrentTheme.Muted)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
}

// VehicleTable lists each stage with its burn time and ideal Δv.
func VehicleTable(m *vehicle.Mission) string {
	t := newTable("#", "STAGE", "DRY kg", "PROP kg", "THRUST kN", "ISP s", "BURN s", "Δv m/s")
	for i, s := range m.Stages {
		t.Row(
			fmt.Sprintf("%d", i),
			s.Name,
			fmt.Sprintf("%.1f", s.DryMass),
			fmt.Sprintf("%.1f", s.PropellantMass),
			fmt.Sprintf("%.2f", s.Thrust/1000),
			fmt.Sprintf("%.0f", s.Isp),
			fmt.Sprintf("%.1f", s.BurnTime()),
			fmt.Sprintf("%.0f", s.DeltaV(m.MassAbove(i)+m.Payload)),
		)
	}
	return t.Render()
}

func EventsTable(events []sim.Event) string {
	t := newTable("T+ s", "EVENT", "ALT m", "SPEED m/s", "MASS kg", "NOTE")
	for _, e := range events {
		note := e.Label
		if e.Kind == sim.EventStaging {
			note = fmt.Sprintf("stage %d → %d", e.Stage, e.ToStage)
		} else if e.Kind == sim.EventBurnout {
			note = fmt.Sprintf("stage %d", e.Stage)
		}
		t.Row(
			fmt.Sprintf("%.2f", e.Time),
			e.Kind.String(),
			fmt.Sprintf("%.1f", e.Altitude),
			fmt.Sprintf("%.1f", e.Speed),
			fmt.Sprintf("%.1f", e.Mass),
			note,
		)
	}
	return t.Render()
}

func PerformanceTable(s metrics.FlightSummary) string {
	t := newTable("METRIC", "VALUE")
	rows := [][]string{
		{"apogee", fmt.Sprintf("%.1f m at T+%.2f s", s.ApogeeM, s.ApogeeTime)},
		{"max speed", fmt.Sprintf("%.1f m/s", s.MaxSpeed)},
		{"max mach", fmt.Sprintf("%.2f", s.MaxMach)},
		{"max q", fmt.Sprintf("%.0f Pa at T+%.2f s", s.MaxQ, s.MaxQTime)},
		{"max accel", fmt.Sprintf("%.1f m/s² (%.1f g)", s.MaxAccel, s.MaxAccelG)},
		{"burnout", fmt.Sprintf("T+%.2f s", s.BurnoutTime)},
		{"flight time", fmt.Sprintf("%.2f s", s.FlightTime)},
		{"impact speed", fmt.Sprintf("%.1f m/s", s.ImpactSpeed)},
		{"gimbal sat.", fmt.Sprintf("%.1f %%", 100*s.GimbalSaturation)},
	}
	t.Rows(rows...)
	return t.Render()
}

// PresetsTable summarises named missions with their liftoff numbers.
func PresetsTable(missions []*vehicle.Mission) string {
	t := newTable("PRESET", "STAGES", "MASS kg", "Δv m/s", "TWR")
	for _, m := range missions {
		twr := fmt.Sprintf("%.2f", m.LiftoffTWR())
		if m.LiftoffTWR() <= 1 {
			twr = lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render(twr)
		}
		t.Row(
			m.Name,
			fmt.Sprintf("%d", len(m.Stages)),
			fmt.Sprintf("%.1f", m.TotalMass()),
			fmt.Sprintf("%.0f", m.DeltaV()),
			twr,
		)
	}
	return t.Render()
}

// ComparisonTable lines up the headline numbers of several runs of the
// same mission. Nil results are skipped.
func ComparisonTable(results []*sim.Result) string {
	t := newTable("CONTROLLER", "OUTCOME", "APOGEE m", "MAX Q Pa", "MAX MACH", "FLIGHT s", "IMPACT m/s")
	for _, r := range results {
		if r == nil {
			continue
		}
		s := metrics.Summarize(r)
		t.Row(
			r.Controller,
			OutcomeBadge(r.Outcome),
			fmt.Sprintf("%.1f", s.ApogeeM),
			fmt.Sprintf("%.0f", s.MaxQ),
			fmt.Sprintf("%.2f", s.MaxMach),
			fmt.Sprintf("%.2f", s.FlightTime),
			fmt.Sprintf("%.1f", s.ImpactSpeed),
		)
	}
	return t.Render()
}

// FlightReport is the post-run summary: vehicle, events and performance.
func FlightReport(m *vehicle.Mission, r *sim.Result) string {
	var b strings.Builder
	b.WriteString(titleStyle().Render(strings.ToUpper(m.Name)))
	b.WriteString(subtleStyle().Render(fmt.Sprintf("  controller %s · dt %.4f s · liftoff mass %.1f kg · %.2f g₀ TWR",
		r.Controller, r.Dt, m.TotalMass(), m.LiftoffTWR())))
	b.WriteString("\n")
	b.WriteString(VehicleTable(m))
	b.WriteString("\n\n")
	b.WriteString(titleStyle().Render("FLIGHT EVENTS"))
	b.WriteString("\n")
	if len(r.Events) == 0 {
		b.WriteString(subtleStyle().Render("  no events"))
	} else {
		b.WriteString(EventsTable(r.Events))
	}
	b.WriteString("\n\n")
	b.WriteString(titleStyle().Render("PERFORMANCE"))
	b.WriteString("\n")
	b.WriteString(PerformanceTable(metrics.Summarize(r)))
	b.WriteString("\n\n")
	b.WriteString(labelStyle().Render("outcome") + OutcomeBadge(r.Outcome))
	if r.Err != nil {
		b.WriteString("  " + lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render(r.Err.Error()))
	}
	b.WriteString("\n")
	return b.String()
}

// gees converts an acceleration to multiples of standard gravity.
func gees(a float64) float64 {
	return a / physics.G0
}
