package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/forage/genetic"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title            string
	Generation       int
	Age              int
	GenerationLength int
	Animals          int
	Foods            int
	StepsPerUpdate   int
	FPS              int32
	Paused           bool
	Last             *genetic.Statistics // nil until the first generation ends
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Generation: %d | Age: %d/%d", data.Generation, data.Age, data.GenerationLength),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Animals: %d | Foods: %d | Speed: %dx | FPS: %d", data.Animals, data.Foods, data.StepsPerUpdate, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	if data.Last != nil {
		rl.DrawText(
			fmt.Sprintf("Last: min %.0f  avg %.2f  max %.0f", data.Last.Min, data.Last.Avg, data.Last.Max),
			10, 75, 16, rl.SkyBlue,
		)
	}

	if data.Paused {
		rl.DrawText("PAUSED", 10, 95, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanelData holds performance metrics for display.
type PerfPanelData struct {
	PhaseAvg       map[string]time.Duration
	Total          time.Duration
	TicksPerSecond float64
}

// PerfPanel renders the step phase timings.
type PerfPanel struct {
	x, y int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel with phases in the given order.
func (p *PerfPanel) Draw(data PerfPanelData, phases []string) {
	x := p.x
	y := p.y

	rl.DrawText("Step Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s | %.0f ticks/s", data.Total.Round(time.Microsecond), data.TicksPerSecond), x, y, 14, rl.Yellow)
	y += 16

	for _, name := range phases {
		avg := data.PhaseAvg[name]
		pct := float64(0)
		if data.Total > 0 {
			pct = float64(avg) / float64(data.Total) * 100
		}

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-12s %8s %5.1f%%", name, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}

// HistoryPanel charts the satiation statistics of past generations.
type HistoryPanel struct {
	renderer      *Renderer
	x, y          int32
	width, height int32
}

// NewHistoryPanel creates a new history chart.
func NewHistoryPanel(x, y, width, height int32) *HistoryPanel {
	return &HistoryPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		height:   height,
	}
}

// SetPosition updates the panel position.
func (hp *HistoryPanel) SetPosition(x, y int32) {
	hp.x = x
	hp.y = y
}

// Draw renders max, average and min lines for the most recent generations
// that fit the panel width.
func (hp *HistoryPanel) Draw(history []genetic.Statistics) {
	r := hp.renderer
	padding := r.Theme.Padding
	r.DrawPanel(hp.x, hp.y, hp.width, hp.height)
	rl.DrawText("Satiation per generation", hp.x+padding, hp.y+padding/2, 12, rl.White)

	chartX := float32(hp.x + padding)
	chartY := float32(hp.y + padding + 14)
	chartW := float32(hp.width - 2*padding)
	chartH := float32(hp.height - 2*padding - 14)

	window := history
	maxPoints := int(chartW / 2)
	if len(window) > maxPoints {
		window = window[len(window)-maxPoints:]
	}
	if len(window) < 2 {
		return
	}

	var top float64
	for _, s := range window {
		if s.Max > top {
			top = s.Max
		}
	}
	if top <= 0 {
		top = 1
	}

	point := func(i int, v float64) rl.Vector2 {
		return rl.Vector2{
			X: chartX + chartW*float32(i)/float32(len(window)-1),
			Y: chartY + chartH - chartH*float32(v/top),
		}
	}

	series := []struct {
		value func(genetic.Statistics) float64
		color rl.Color
	}{
		{func(s genetic.Statistics) float64 { return s.Max }, rl.Color{R: 100, G: 200, B: 100, A: 255}},
		{func(s genetic.Statistics) float64 { return s.Avg }, rl.Color{R: 100, G: 150, B: 255, A: 255}},
		{func(s genetic.Statistics) float64 { return s.Min }, rl.Color{R: 200, G: 100, B: 100, A: 255}},
	}
	for _, line := range series {
		for i := 1; i < len(window); i++ {
			rl.DrawLineV(point(i-1, line.value(window[i-1])), point(i, line.value(window[i])), line.color)
		}
	}

	rl.DrawText(fmt.Sprintf("%.0f", top), hp.x+hp.width-padding-24, hp.y+padding/2, 12, rl.Gray)
}
