package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/rocketsim/internal/metrics"
	"github.com/san-kum/rocketsim/internal/sim"
)

const (
	replayFPS     = 30
	profileWidth  = 48
	profileHeight = 12
	eventLines    = 6
	maxSpeed      = 64.0
	minSpeed      = 0.25
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/replayFPS, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Replay is a Bubble Tea model that plays back a completed run.
type Replay struct {
	result    *sim.Result
	samples   []metrics.Sample
	downrange []float64
	altitude  []float64
	bounds    Bounds
	frame     int
	speed     float64
	playing   bool
	showHelp  bool
	width     int
}

func NewReplay(r *sim.Result) Replay {
	samples := metrics.Telemetry(r.States)
	downrange := make([]float64, len(r.States))
	altitude := make([]float64, len(r.States))
	for i, x := range r.States {
		downrange[i] = math.Hypot(x.Pos.X(), x.Pos.Y())
		altitude[i] = x.Altitude()
	}
	return Replay{
		result:    r,
		samples:   samples,
		downrange: downrange,
		altitude:  altitude,
		bounds:    BoundsOf(downrange, altitude),
		speed:     1,
		playing:   true,
		width:     100,
	}
}

func (m Replay) Frame() int     { return m.frame }
func (m Replay) Playing() bool  { return m.playing }
func (m Replay) Speed() float64 { return m.speed }

// stride is the number of recorded states advanced per tick at the
// current playback speed.
func (m Replay) stride() int {
	if m.result.Dt <= 0 {
		return 1
	}
	return max(1, int(math.Round(m.speed/(replayFPS*m.result.Dt))))
}

func (m Replay) last() int {
	return max(len(m.samples)-1, 0)
}

func (m Replay) Init() tea.Cmd {
	return tick()
}

func (m Replay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			if m.frame >= m.last() {
				m.frame = 0
			}
			m.playing = !m.playing
		case "right", "l":
			m.playing = false
			m.frame = min(m.frame+1, m.last())
		case "left", "h":
			m.playing = false
			m.frame = max(m.frame-1, 0)
		case "]":
			m.speed = min(m.speed*2, maxSpeed)
		case "[":
			m.speed = max(m.speed/2, minSpeed)
		case "home", "r":
			m.frame = 0
		case "end":
			m.frame = m.last()
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case TickMsg:
		if m.playing {
			m.frame = min(m.frame+m.stride(), m.last())
			if m.frame == m.last() {
				m.playing = false
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m Replay) View() string {
	if len(m.samples) == 0 {
		return subtleStyle().Render("empty trajectory") + "\n"
	}

	s := m.samples[m.frame]
	var b strings.Builder

	b.WriteString(titleStyle().Render(strings.ToUpper(m.result.Mission)))
	b.WriteString(subtleStyle().Render(fmt.Sprintf("  %s · %s", m.result.Controller, m.result.Outcome)))
	b.WriteString("\n\n")

	status := lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Success).Render("PLAYING")
	if !m.playing {
		status = lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Warning).Render("PAUSED")
	}
	progress := 0.0
	if m.last() > 0 {
		progress = float64(m.frame) / float64(m.last())
	}
	b.WriteString(fmt.Sprintf("%s  T+%7.2f s  %s  x%g\n\n", status, s.Time, ProgressBar(progress, 30), m.speed))

	panel := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().PaddingRight(3).Render(m.telemetry(s)),
		m.profile(),
	)
	b.WriteString(panel)
	b.WriteString("\n")

	b.WriteString(labelStyle().Render("altitude"))
	b.WriteString(Sparkline(m.altitude[:m.frame+1], 60))
	b.WriteString("\n\n")

	b.WriteString(m.recentEvents(s.Time))
	b.WriteString("\n")
	b.WriteString(m.help())
	return b.String()
}

func (m Replay) telemetry(s metrics.Sample) string {
	var cmdY, cmdZ float64
	if m.frame < len(m.result.Commands) {
		c := m.result.Commands[m.frame]
		cmdY, cmdZ = c.GimbalY*180/math.Pi, c.GimbalZ*180/math.Pi
	}
	rows := [][2]string{
		{"altitude", fmt.Sprintf("%10.1f m", s.Altitude)},
		{"downrange", fmt.Sprintf("%10.1f m", m.downrange[m.frame])},
		{"speed", fmt.Sprintf("%10.1f m/s", s.Speed)},
		{"vertical", fmt.Sprintf("%10.1f m/s", s.VerticalSpeed)},
		{"mach", fmt.Sprintf("%10.2f", s.Mach)},
		{"q", fmt.Sprintf("%10.0f Pa", s.DynamicPressure)},
		{"accel", fmt.Sprintf("%10.2f g", gees(s.Accel))},
		{"pitch", fmt.Sprintf("%10.1f°", s.Pitch)},
		{"aoa", fmt.Sprintf("%10.1f°", s.AoA)},
		{"gimbal", fmt.Sprintf("%+5.2f° %+5.2f°", cmdY, cmdZ)},
		{"mass", fmt.Sprintf("%10.1f kg", s.Mass)},
		{"stage", fmt.Sprintf("%10d", s.Stage)},
	}
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(labelStyle().Render(r[0]) + valueStyle().Render(r[1]) + "\n")
	}
	return b.String()
}

// profile draws altitude against downrange up to the current frame.
func (m Replay) profile() string {
	c := NewCanvas(profileWidth, profileHeight)
	c.Plot(m.bounds, m.downrange[:m.frame+1], m.altitude[:m.frame+1])
	c.Mark(m.bounds, m.downrange[m.frame], m.altitude[m.frame])
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(CurrentTheme.Muted).
		Foreground(CurrentTheme.Secondary)
	return box.Render(strings.TrimSuffix(c.String(), "\n"))
}

func (m Replay) recentEvents(now float64) string {
	var seen []sim.Event
	for _, e := range m.result.Events {
		if e.Time > now {
			break
		}
		seen = append(seen, e)
	}
	if len(seen) > eventLines {
		seen = seen[len(seen)-eventLines:]
	}

	var b strings.Builder
	b.WriteString(titleStyle().Render("events") + "\n")
	if len(seen) == 0 {
		b.WriteString(subtleStyle().Render("  none yet") + "\n")
	}
	for _, e := range seen {
		b.WriteString("  " + valueStyle().Render(e.String()) + "\n")
	}
	return b.String()
}

func (m Replay) help() string {
	if !m.showHelp {
		return keyStyle().Render("?") + subtleStyle().Render(" help  ") + keyStyle().Render("q") + subtleStyle().Render(" quit") + "\n"
	}
	keys := [][2]string{
		{"space", "play/pause"},
		{"←/→", "step"},
		{"[/]", "speed"},
		{"home/end", "jump"},
		{"t", "theme"},
		{"q", "quit"},
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = keyStyle().Render(k[0]) + subtleStyle().Render(" "+k[1])
	}
	return strings.Join(parts, "  ") + "\n"
}

// RunReplay opens the replay viewer on the alternate screen.
func RunReplay(r *sim.Result) error {
	_, err := tea.NewProgram(NewReplay(r), tea.WithAltScreen()).Run()
	return err
}
