package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/orbitprop/internal/orbit"
	"github.com/soypat/geometry/md3"
)

const (
	frameInterval = time.Second / 30
	panelWidth    = 34
	maxSpeed      = 512
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Replay plays back a finished trajectory.
type Replay struct {
	title      string
	samples    []orbit.Sample
	radii      []float64
	mu         float64
	bodyRadius float64
	e0         float64

	idx     int
	speed   int
	playing bool

	camera Camera
	theme  Theme
	styles Styles

	width, height int
}

// NewReplay builds a replay of h under gravitational parameter mu. The
// playback speed is chosen so a full run lasts about ten seconds.
func NewReplay(title string, h *orbit.History, mu float64) Replay {
	samples := h.Samples()
	radii := make([]float64, len(samples))
	for i, s := range samples {
		radii[i] = md3.Norm(s.Position)
	}
	var e0 float64
	if len(samples) > 0 {
		e0 = orbit.SpecificEnergy(samples[0].Position, samples[0].Velocity, mu)
	}
	return Replay{
		title:   title,
		samples: samples,
		radii:   radii,
		mu:      mu,
		e0:      e0,
		speed:   max(1, len(samples)/300),
		playing: true,
		camera:  NewCamera(),
		theme:   ThemeMission,
		styles:  NewStyles(ThemeMission),
		width:   100,
		height:  30,
	}
}

// WithTheme returns r using the named theme.
func (r Replay) WithTheme(name string) Replay {
	r.theme = GetTheme(name)
	r.styles = NewStyles(r.theme)
	return r
}

// WithBody outlines a central body of the given radius.
func (r Replay) WithBody(radius float64) Replay {
	r.bodyRadius = radius
	return r
}

func (r Replay) Index() int     { return r.idx }
func (r Replay) Playing() bool  { return r.playing }
func (r Replay) Speed() int     { return r.speed }
func (r Replay) Theme() Theme   { return r.theme }
func (r Replay) Camera() Camera { return r.camera }
func (r Replay) Init() tea.Cmd  { return tick() }

func (r Replay) last() int      { return max(0, len(r.samples)-1) }
func (r Replay) finished() bool { return r.idx >= r.last() }

func (r Replay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if r.playing {
			r.idx = min(r.last(), r.idx+r.speed)
			if r.finished() {
				r.playing = false
			}
		}
		return r, tick()
	case tea.WindowSizeMsg:
		r.width, r.height = msg.Width, msg.Height
		return r, nil
	case tea.KeyMsg:
		return r.handleKey(msg)
	}
	return r, nil
}

func (r Replay) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return r, tea.Quit
	case " ":
		if r.finished() {
			r.idx = 0
		}
		r.playing = !r.playing
	case "right", "l":
		r.playing = false
		r.idx = min(r.last(), r.idx+1)
	case "left", "h":
		r.playing = false
		r.idx = max(0, r.idx-1)
	case "home":
		r.idx = 0
	case "end":
		r.idx = r.last()
	case "+", "=":
		r.speed = min(maxSpeed, r.speed*2)
	case "-", "_":
		r.speed = max(1, r.speed/2)
	case "w":
		r.camera.Rotate(0, 0.1)
	case "s":
		r.camera.Rotate(0, -0.1)
	case "a":
		r.camera.Rotate(-0.1, 0)
	case "d":
		r.camera.Rotate(0.1, 0)
	case "z":
		r.camera.ZoomIn()
	case "x":
		r.camera.ZoomOut()
	case "t":
		r.theme = nextTheme(r.theme.Name)
		r.styles = NewStyles(r.theme)
	}
	return r, nil
}

func (r Replay) View() string {
	if len(r.samples) == 0 {
		return r.styles.Muted.Render("empty trajectory") + "\n"
	}
	plot := r.renderPlot()
	panel := r.renderPanel()
	body := lipgloss.JoinHorizontal(lipgloss.Top, plot, " ", panel)
	hints := r.styles.KeyHint.Render("space play/pause · ←/→ step · +/- speed · wasd rotate · z/x zoom · t theme · q quit")
	return r.styles.Title.Render(r.title) + "\n" + body + "\n" + hints + "\n"
}

func (r Replay) renderPlot() string {
	cols := max(20, r.width-panelWidth-4)
	rows := max(8, r.height-5)
	canvas := NewCanvas(cols, rows)

	extent := Extent(r.samples)
	if r.bodyRadius > extent {
		extent = r.bodyRadius
	}
	proj := r.camera.NewProjector(canvas, extent*1.05)
	if r.bodyRadius > 0 {
		DrawBody(canvas, proj, r.bodyRadius)
	}
	DrawPath(canvas, proj, r.samples[:r.idx+1])
	DrawMarker(canvas, proj, r.samples[r.idx].Position)
	return r.styles.Panel.Render(r.styles.Plot.Render(canvas.String()))
}

func (r Replay) renderPanel() string {
	s := r.samples[r.idx]
	st := s.State(r.mu)
	energy := st.SpecificEnergy()
	drift := 0.0
	if r.e0 != 0 {
		drift = math.Abs(energy-r.e0) / math.Abs(r.e0)
	}

	status := r.styles.Good.Render("▶ playing")
	if !r.playing {
		status = r.styles.Warn.Render("⏸ paused")
	}

	progress := 0.0
	if r.last() > 0 {
		progress = float64(r.idx) / float64(r.last())
	}

	lines := []string{
		status + r.styles.Muted.Render(fmt.Sprintf("  x%d", r.speed)),
		"",
		r.styles.Row("time", fmt.Sprintf("%.1f s", s.Time)),
		r.styles.Row("sample", fmt.Sprintf("%d/%d", r.idx, r.last())),
		r.styles.Row("radius", fmt.Sprintf("%.1f km", st.Radius()/1e3)),
		r.styles.Row("speed", fmt.Sprintf("%.3f km/s", st.Speed()/1e3)),
		r.styles.Row("energy", fmt.Sprintf("%.4e", energy)),
		r.styles.Label.Render(fmt.Sprintf("%-10s", "drift")) + " " + r.styles.Drift(drift),
		"",
		r.styles.Label.Render("radius"),
		r.styles.Plot.Render(Sparkline(r.radii[:r.idx+1], panelWidth-4)),
		"",
		r.styles.Plot.Render(ProgressBar(progress, panelWidth-4)),
		r.styles.Muted.Render(fmt.Sprintf("view yaw %.0f° pitch %.0f°", r.camera.Yaw*180/math.Pi, r.camera.Pitch*180/math.Pi)),
	}
	return r.styles.Panel.Width(panelWidth).Render(strings.Join(lines, "\n"))
}
