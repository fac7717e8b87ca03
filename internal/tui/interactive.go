package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/rbsolve/internal/config"
	"github.com/san-kum/rbsolve/internal/constraint"
	"github.com/san-kum/rbsolve/internal/linalg"
	"github.com/san-kum/rbsolve/internal/pool"
	"github.com/san-kum/rbsolve/internal/rigid"
	"github.com/san-kum/rbsolve/internal/step"
	"github.com/san-kum/rbsolve/internal/viz"
)

var (
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

var modelInfo = map[string]string{
	"hinge":          "two-body hinge, angular limit",
	"point_on_plane": "anchor confined to a plane band",
	"chain":          "chain preset, shown as a single hinge",
}

type uiState int

const (
	stateMenu uiState = iota
	stateConfig
	stateSim
)

type model struct {
	uiState uiState
	cursor  int
	models  []string
	variant string

	variants     []string
	variantIndex int
	dt           float64
	steps        int
	editingField int // 0 = dt, 1 = steps
	editing      bool
	editBuf      string

	running   bool
	paused    bool
	world     *step.World
	tracked   rigid.Handle
	residual  float64
	simTime   float64
	speed     float64
	trail     []trailPoint
	history   []float64
	lastFrame time.Time
	fps       float64

	width  int
	height int
}

type trailPoint struct {
	x, y int
}

func NewInteractiveApp() *model {
	return &model{
		uiState: stateMenu,
		models:  []string{"hinge", "point_on_plane", "chain"},
		dt:      config.DefaultDt,
		steps:   config.DefaultSteps,
		speed:   1.0,
		trail:   make([]trailPoint, 0, 100),
		history: make([]float64, 0, 60),
		width:   80,
		height:  24,
	}
}

func (m model) Init() tea.Cmd { return nil }

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.uiState != stateSim {
			return m, nil
		}
		if m.running && !m.paused && m.world != nil {
			now := time.Now()
			if !m.lastFrame.IsZero() {
				dt := now.Sub(m.lastFrame).Seconds()
				if dt > 0 {
					m.fps = 1.0 / dt
				}
			}
			m.lastFrame = now
			ticks := int(m.speed)
			if ticks < 1 {
				ticks = 1
			}
			for i := 0; i < ticks; i++ {
				m.step()
			}
		}
		if m.running && m.uiState == stateSim {
			return m, tick()
		}
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.uiState {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		return m.simKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.models)-1 {
			m.cursor++
		}
	case "enter", " ":
		selected := m.models[m.cursor]
		m.variants = config.ListPresets(selected)
		m.variantIndex = 0
		m.uiState = stateConfig
		m.variant = selected
	case "t":
		names := viz.ThemeNames()
		for i, n := range names {
			if n == viz.CurrentTheme.Name {
				viz.SetTheme(names[(i+1)%len(names)])
				break
			}
		}
	}
	return m, nil
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			fmt.Sscanf(m.editBuf, "%f", &val)
			if m.editingField == 0 && val > 0 {
				m.dt = val
			} else if m.editingField == 1 && val >= 1 {
				m.steps = int(val)
			}
			m.editing = false
			m.editBuf = ""
		case "escape":
			m.editing = false
			m.editBuf = ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "escape":
		m.uiState = stateMenu
	case "up", "k":
		if len(m.variants) > 0 {
			m.variantIndex = (m.variantIndex - 1 + len(m.variants)) % len(m.variants)
		}
	case "down", "j":
		if len(m.variants) > 0 {
			m.variantIndex = (m.variantIndex + 1) % len(m.variants)
		}
	case "d":
		m.editing = true
		m.editingField = 0
		m.editBuf = fmt.Sprintf("%.4f", m.dt)
	case "n":
		m.editing = true
		m.editingField = 1
		m.editBuf = fmt.Sprintf("%d", m.steps)
	case "s":
		m.start()
		m.uiState = stateSim
		return m, tea.Batch(tea.ClearScreen, tick())
	}
	return m, nil
}

func (m model) simKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "escape":
		m.running = false
		m.uiState = stateMenu
		m.reset()
		return m, tea.ClearScreen
	case " ", "p":
		m.paused = !m.paused
	case "r":
		m.start()
		return m, tea.ClearScreen
	case "c":
		m.running = false
		m.uiState = stateConfig
		m.reset()
		return m, tea.ClearScreen
	case "+", "=":
		m.speed = math.Min(m.speed*2, 16)
	case "-", "_":
		m.speed = math.Max(m.speed/2, 0.25)
	case "0":
		m.speed = 1.0
	}
	return m, nil
}

// start builds a fresh world from the selected model/variant preset and
// arms the simulation loop.
func (m *model) start() {
	variant := "free"
	if len(m.variants) > 0 {
		variant = m.variants[m.variantIndex]
	}
	sc := config.GetPreset(m.variant, variant)
	if sc == nil {
		sc = config.DefaultScenario()
	}
	sc.Dt = m.dt
	sc.Steps = m.steps

	m.trail = make([]trailPoint, 0, 100)
	m.history = make([]float64, 0, 60)
	m.simTime = 0
	m.speed = 1.0
	m.lastFrame = time.Time{}

	w := step.NewWorld(sc.World, linalg.Vec3{sc.Gravity[0], sc.Gravity[1], sc.Gravity[2]}, pool.Regular, 1)
	m.tracked = buildScenario(w, m.variant)
	m.world = w
	m.running = true
	m.paused = false
}

func (m *model) reset() {
	if m.world != nil {
		m.world.Close()
	}
	m.world = nil
	m.running = false
	m.paused = false
}

// step advances the world by one configured dt and records a sample for
// the trail/sparkline.
func (m *model) step() {
	if m.world == nil {
		return
	}
	cfg := config.DefaultStepConfig()
	cfg.SolverIterations = config.IterationCounts{Solver: config.DefaultSolverPasses, Relax: config.DefaultRelaxPasses}

	if err := m.world.Step(m.dt, false, cfg); err != nil {
		m.running = false
		return
	}
	m.simTime += m.dt

	m.residual = trackedResidual(m.world)
	m.history = append(m.history, m.residual)
	if len(m.history) > 60 {
		m.history = m.history[1:]
	}

	b, err := m.world.Bodies.Get(m.tracked)
	if err != nil {
		return
	}
	const scale = 16.0
	px := simCanvasW*2/2 + int(b.Position.X()*scale)
	py := simCanvasH*4/3 + int(-b.Position.Y()*scale)
	m.trail = append(m.trail, trailPoint{px, py})
	if len(m.trail) > 80 {
		m.trail = m.trail[1:]
	}
}

// trackedResidual sums |accumulated_impulse| magnitude across active
// large-constraint rows, a coarse view of how far the solver still has
// to go this step.
func trackedResidual(w *step.World) float64 {
	total := 0.0
	for _, row := range w.Constraints.IterActive() {
		if h, ok := row.(*constraint.Hinge); ok {
			total += h.AccumulatedImpulse.Len()
		}
		if p, ok := row.(*constraint.PointOnPlane); ok {
			total += math.Abs(p.AccumulatedImpulse)
		}
	}
	return total
}

// buildScenario wires up bodies/rows for the given model into w and
// returns a handle to the body worth tracking on screen. Every model gets
// one static anchor and one dynamic body; "chain" builds the same single
// two-body hinge as "hinge" (the multi-link chain is built only by the
// CLI).
func buildScenario(w *step.World, model string) rigid.Handle {
	anchor, err := w.AddBody()
	if err != nil {
		return rigid.Handle{}
	}
	ab, _ := w.Bodies.Get(anchor)
	ab.InverseMass = 0
	ab.RecomputeWorldInertia()

	bob, err := w.AddBody()
	if err != nil {
		return anchor
	}
	bb, _ := w.Bodies.Get(bob)
	bb.Position = linalg.Vec3{0, 2, 0}
	bb.InverseInertiaLocal = linalg.Identity3()
	bb.RecomputeWorldInertia()
	bb.AngularVelocity = linalg.Vec3{0.5, 0, 0}

	switch model {
	case "point_on_plane":
		row, err := constraint.NewPointOnPlane(anchor, bob, w.Bodies, linalg.Vec3{0, 1, 0}, linalg.Vec3{0, 0, 0}, linalg.Vec3{0, 2, 0}, 0, 0.5, 0, 0.2)
		if err == nil {
			w.AddConstraint(row)
		}
	default: // "hinge", "chain"
		row, err := constraint.NewHinge(anchor, bob, w.Bodies, linalg.Vec3{0, 1, 0}, -math.Pi/4, math.Pi/4, 0, 0, 0.2, 0.2)
		if err == nil {
			w.AddConstraint(row)
		}
	}
	return bob
}

func (m model) View() string {
	switch m.uiState {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.viewSim()
	}
	return ""
}

func (m model) viewMenu() string {
	var b strings.Builder
	title := lipgloss.NewStyle().Bold(true).Foreground(viz.CurrentTheme.Primary)
	b.WriteString(title.Render(fmt.Sprintf("  rbsolve — rigid-body scenarios [%s]", viz.CurrentTheme.Name)) + "\n\n")
	for i, name := range m.models {
		prefix := "  "
		style := white
		if i == m.cursor {
			prefix = "> "
			style = green
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%-16s", prefix, name)))
		b.WriteString(viz.MetricLabel.Render(modelInfo[name]) + "\n")
	}
	b.WriteString("\n" + viz.Separator(width) + "\n")
	b.WriteString(viz.KeyHint.Render("  ↑/↓ select · enter choose · t theme · q quit") + "\n")
	return b.String()
}

func (m model) viewConfig() string {
	var b strings.Builder
	b.WriteString(viz.GradientTitle.Render(fmt.Sprintf("  %s — configure", m.variant)) + "\n\n")

	for i, v := range m.variants {
		style := white
		prefix := "  "
		if i == m.variantIndex {
			prefix = "> "
			style = green
		}
		b.WriteString(style.Render(prefix+v) + "\n")
	}

	b.WriteString("\n")
	dtStr := fmt.Sprintf("%.4f", m.dt)
	stepsStr := fmt.Sprintf("%d", m.steps)
	if m.editing && m.editingField == 0 {
		dtStr = m.editBuf + "_"
	}
	if m.editing && m.editingField == 1 {
		stepsStr = m.editBuf + "_"
	}
	b.WriteString(viz.MetricLabel.Render("  dt:    ") + yellow.Render(dtStr) + "\n")
	b.WriteString(viz.MetricLabel.Render("  steps: ") + yellow.Render(stepsStr) + "\n")

	b.WriteString("\n" + viz.KeyHint.Render("  ↑/↓ variant · d edit dt · n edit steps · s start · q back") + "\n")
	return b.String()
}

const (
	simCanvasW = 40
	simCanvasH = 12
)

// viewSim draws the tracked body's recent trail on a braille sub-pixel
// canvas (viz.Canvas gives 2x4 the resolution of a plain character grid),
// with the anchor point at the horizontal centre, a third of the way down,
// and a line from it to the newest trail point.
func (m model) viewSim() string {
	canvas := viz.NewCanvas(simCanvasW, simCanvasH)

	anchorX, anchorY := simCanvasW, simCanvasH*4/3
	canvas.Set(anchorX, anchorY)
	if len(m.trail) > 0 {
		last := m.trail[len(m.trail)-1]
		canvas.DrawLine(anchorX, anchorY, last.x, last.y)
	}
	for _, pt := range m.trail {
		canvas.Set(pt.x, pt.y)
	}

	var b strings.Builder
	status := viz.StatusRunning.Render("running")
	if m.paused {
		status = viz.StatusPaused.Render("paused")
	}
	b.WriteString(fmt.Sprintf("  %s  %s  t=%.2fs  speed=%.2fx  fps=%.0f\n", m.variant, status, m.simTime, m.speed, m.fps))
	b.WriteString("  " + strings.Repeat("-", simCanvasW) + "\n")
	b.WriteString(canvas.String())
	b.WriteString("  " + strings.Repeat("-", simCanvasW) + "\n")
	b.WriteString("  residual " + viz.SparklineChart(m.history, 40) + fmt.Sprintf(" %.4f\n", m.residual))
	b.WriteString("\n" + viz.KeyHint.Render("  space pause · r restart · c config · +/- speed · q quit") + "\n")
	return b.String()
}

// RunInteractive starts the bubbletea menu application.
func RunInteractive() error {
	p := tea.NewProgram(NewInteractiveApp())
	_, err := p.Run()
	return err
}
