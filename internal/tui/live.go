package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/san-kum/rbsolve/internal/linalg"
)

const (
	width       = 70
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer draws a tracked body's position and orientation axis to a
// fixed-size character grid, refreshed at most frameRate times a second,
// via an orthographic projection of position plus a short spoke for
// orientation, with a fading trail of recent positions.
type LiveRenderer struct {
	model     string
	frameRate int
	lastFrame time.Time
	canvas    [][]rune
	trail     []struct{ x, y int }
}

func NewLiveRenderer(model string, frameRate int) *LiveRenderer {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	return &LiveRenderer{
		model:     model,
		frameRate: frameRate,
		canvas:    canvas,
		trail:     make([]struct{ x, y int }, 0, 50),
	}
}

// OnStep draws one frame for a body at position/orientation at time t and
// the step's constraint residual. Frames faster than 1/frameRate apart
// are dropped to bound terminal output rate.
func (r *LiveRenderer) OnStep(position linalg.Vec3, orientation linalg.Quat, residual, t float64) {
	elapsed := time.Since(r.lastFrame)
	if elapsed < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()

	r.clear()
	r.drawBody(position, orientation)
	r.render(position, residual, t)
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

func (r *LiveRenderer) line(x1, y1, x2, y2 int, c rune) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		r.set(x1, y1, c)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawBody projects position onto the canvas (x-right, y-up, orthographic,
// z dropped) anchored at a fixed pivot, draws a trail of its recent
// positions, and marks the orientation's local x-axis as a short spoke so
// spin is visible even when position barely moves.
func (r *LiveRenderer) drawBody(position linalg.Vec3, orientation linalg.Quat) {
	const scale = 8.0
	px, py := width/2, 3

	bx := px + int(position.X()*scale)
	by := py + int(-position.Y()*scale) + height/2

	r.trail = append(r.trail, struct{ x, y int }{bx, by})
	if len(r.trail) > 40 {
		r.trail = r.trail[1:]
	}
	for i, pt := range r.trail {
		if i < len(r.trail)/2 {
			r.set(pt.x, pt.y, '.')
		} else {
			r.set(pt.x, pt.y, 'o')
		}
	}

	r.set(px, py, '+')
	r.line(px, py, bx, by, '|')

	spokeLen := 3.0
	localX := linalg.Vec3{1, 0, 0}
	spoke := orientation.Rotate(localX)
	sx := bx + int(spoke.X()*spokeLen)
	sy := by + int(-spoke.Y()*spokeLen)
	r.line(bx, by, sx, sy, '-')
	r.set(bx, by, 'O')
}

func (r *LiveRenderer) render(position linalg.Vec3, residual, t float64) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  t=%.2fs  residual=%.4f\n", r.model, t, residual))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")
	b.WriteString(fmt.Sprintf("  x=%.3f y=%.3f z=%.3f\n", position.X(), position.Y(), position.Z()))

	fmt.Print(b.String())
}

func (r *LiveRenderer) Start() { fmt.Print(hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Print(showCursor) }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
