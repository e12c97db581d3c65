package viz

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/san-kum/rocketsim/internal/metrics"
	"github.com/san-kum/rocketsim/internal/sim"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	pngWidthIn  = 8.0
	pngHeightIn = 5.0
	pngDPI      = 150
)

func limitedTicker(maxLabels int, labelFmt string) plot.Ticker {
	maxLabels = max(maxLabels, 2)
	return plot.TickerFunc(func(lo, hi float64) []plot.Tick {
		if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
			return nil
		}
		if lo == hi {
			return []plot.Tick{{Value: lo, Label: fmt.Sprintf(labelFmt, lo)}}
		}
		step := (hi - lo) / float64(maxLabels-1)
		ticks := make([]plot.Tick, 0, maxLabels)
		for i := 0; i < maxLabels; i++ {
			v := lo + float64(i)*step
			ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf(labelFmt, v)})
		}
		return ticks
	})
}

func stylePlot(p *plot.Plot) {
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Title.Padding = vg.Points(8)
	p.X.Label.TextStyle.Font.Size = vg.Points(12)
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)
	p.X.Tick.Label.Font.Size = vg.Points(10)
	p.Y.Tick.Label.Font.Size = vg.Points(10)
	p.X.Tick.Marker = limitedTicker(8, "%.0f")
	p.Y.Tick.Marker = limitedTicker(8, "%.1f")
	p.Add(plotter.NewGrid())
}

func savePlotPNG(p *plot.Plot, filename string) error {
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(pngWidthIn)*vg.Inch, vg.Length(pngHeightIn)*vg.Inch),
		vgimg.UseDPI(pngDPI),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return bw.Flush()
}

func saveLinePlot(filename, title, ylabel string, xs, ys []float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = ylabel
	stylePlot(p)

	xs, ys = Downsample(xs, maxChartPoints), Downsample(ys, maxChartPoints)
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X, pts[i].Y = xs[i], ys[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line)

	return savePlotPNG(p, filename)
}

// SavePNG writes altitude, speed and Mach charts of r into dir and returns
// the files written.
func SavePNG(dir string, r *sim.Result) ([]string, error) {
	samples := metrics.Telemetry(r.States)
	if len(samples) == 0 {
		return nil, fmt.Errorf("no data to plot")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("cannot create directory: %w", err)
	}

	t := metrics.Column(samples, func(s metrics.Sample) float64 { return s.Time })
	charts := []struct {
		file, title, ylabel string
		field               func(metrics.Sample) float64
	}{
		{"altitude.png", "Altitude", "altitude (m)", func(s metrics.Sample) float64 { return s.Altitude }},
		{"speed.png", "Speed", "speed (m/s)", func(s metrics.Sample) float64 { return s.Speed }},
		{"mach.png", "Mach number", "mach", func(s metrics.Sample) float64 { return s.Mach }},
	}

	paths := make([]string, 0, len(charts))
	for _, c := range charts {
		path := filepath.Join(dir, c.file)
		title := fmt.Sprintf("%s: %s", r.Mission, c.title)
		if err := saveLinePlot(path, title, c.ylabel, t, metrics.Column(samples, c.field)); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
