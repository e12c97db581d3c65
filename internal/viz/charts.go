package viz

import (
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/rocketsim/internal/metrics"
	"github.com/san-kum/rocketsim/internal/orbital"
	"github.com/san-kum/rocketsim/internal/sim"
)

const maxChartPoints = 2000

// Downsample keeps at most n evenly spaced values, always including the
// last one.
func Downsample(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	out := make([]float64, 0, n)
	step := float64(len(values)-1) / float64(n-1)
	for i := 0; i < n; i++ {
		out = append(out, values[int(float64(i)*step+0.5)])
	}
	return out
}

// Chart renders a single asciigraph line chart. An empty series renders
// nothing.
func Chart(values []float64, caption string, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	return asciigraph.Plot(Downsample(values, maxChartPoints),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// FlightCharts stacks altitude, speed and Mach charts for a run.
func FlightCharts(r *sim.Result, width, height int) string {
	samples := metrics.Telemetry(r.States)
	if len(samples) == 0 {
		return ""
	}

	series := []struct {
		caption string
		field   func(metrics.Sample) float64
	}{
		{"altitude (m) vs time", func(s metrics.Sample) float64 { return s.Altitude }},
		{"speed (m/s) vs time", func(s metrics.Sample) float64 { return s.Speed }},
		{"mach vs time", func(s metrics.Sample) float64 { return s.Mach }},
	}

	charts := make([]string, 0, len(series))
	for _, s := range series {
		charts = append(charts, Chart(metrics.Column(samples, s.field), s.caption, width, height))
	}
	return strings.Join(charts, "\n\n")
}

// OrbitChart plots altitude above the reference sphere in km.
func OrbitChart(states []orbital.State, width, height int) string {
	alt := make([]float64, len(states))
	for i, s := range states {
		alt[i] = s.Altitude() / 1000
	}
	return Chart(alt, "altitude (km) vs time", width, height)
}
