// Package tui renders the particle world in the terminal: a plain ANSI
// live renderer for run loops and a bubbletea app for interactive
// viewing.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/san-kum/hyperstellar/internal/world"
)

const (
	width       = 70
	height      = 22
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer draws committed particle state onto a character canvas,
// throttled to a frame rate. The view window auto-fits the particle
// cloud with a small margin.
type LiveRenderer struct {
	frameRate int
	lastFrame time.Time
	canvas    [][]rune
	trail     []struct{ x, y int }
}

func NewLiveRenderer(frameRate int) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 30
	}
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	return &LiveRenderer{
		frameRate: frameRate,
		canvas:    canvas,
		trail:     make([]struct{ x, y int }, 0, 120),
	}
}

// Begin hides the cursor; call once before the run loop.
func (r *LiveRenderer) Begin() { fmt.Print(hideCursor) }

// End restores the cursor; call once after the run loop.
func (r *LiveRenderer) End() { fmt.Print(showCursor) }

// OnFrame draws the records if enough time has passed since the last
// draw; otherwise it returns immediately so the simulation is never
// throttled by the terminal.
func (r *LiveRenderer) OnFrame(recs []world.ParticleRecord, t float64) {
	elapsed := time.Since(r.lastFrame)
	if elapsed < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()

	r.clear()
	minX, maxX, minY, maxY := bounds(recs)

	for i := range recs {
		p := &recs[i]
		cx, cy := r.project(p.X, p.Y, minX, maxX, minY, maxY)
		glyph := 'o'
		if p.Mass >= 10 {
			glyph = 'O'
		}
		if i == len(recs)-1 {
			r.trail = append(r.trail, struct{ x, y int }{cx, cy})
			if len(r.trail) > 100 {
				r.trail = r.trail[1:]
			}
		}
		r.set(cx, cy, glyph)
	}
	for _, pt := range r.trail {
		if r.at(pt.x, pt.y) == ' ' {
			r.set(pt.x, pt.y, '.')
		}
	}

	r.render(recs, t)
}

func bounds(recs []world.ParticleRecord) (minX, maxX, minY, maxY float64) {
	minX, maxX, minY, maxY = -5, 5, -5, 5
	for i := range recs {
		p := &recs[i]
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			continue
		}
		minX = math.Min(minX, p.X-1)
		maxX = math.Max(maxX, p.X+1)
		minY = math.Min(minY, p.Y-1)
		maxY = math.Max(maxY, p.Y+1)
	}
	return
}

func (r *LiveRenderer) project(x, y, minX, maxX, minY, maxY float64) (int, int) {
	cx := int((x - minX) / (maxX - minX) * float64(width-1))
	cy := int((maxY - y) / (maxY - minY) * float64(height-1))
	return cx, cy
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

func (r *LiveRenderer) at(x, y int) rune {
	if x >= 0 && x < width && y >= 0 && y < height {
		return r.canvas[y][x]
	}
	return ' '
}

func (r *LiveRenderer) render(recs []world.ParticleRecord, t float64) {
	var b strings.Builder
	b.WriteString(clearScreen)

	b.WriteString("┌")
	b.WriteString(strings.Repeat("─", width))
	b.WriteString("┐\n")
	for _, row := range r.canvas {
		b.WriteString("│")
		b.WriteString(string(row))
		b.WriteString("│\n")
	}
	b.WriteString("└")
	b.WriteString(strings.Repeat("─", width))
	b.WriteString("┘\n")

	fmt.Fprintf(&b, "  t=%8.3f   objects=%d\n", t, len(recs))
	fmt.Print(b.String())
}
