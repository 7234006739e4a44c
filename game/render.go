package game

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/forage/genetic"
	"github.com/pthm-cable/forage/sim"
	"github.com/pthm-cable/forage/telemetry"
	"github.com/pthm-cable/forage/ui"
)

var (
	foodColor       = rl.Color{R: 120, G: 220, B: 90, A: 255}
	animalColor     = rl.Color{R: 240, G: 200, B: 80, A: 255}
	selectedColor   = rl.Color{R: 255, G: 90, B: 200, A: 255}
	coneColor       = rl.Color{R: 200, G: 200, B: 200, A: 60}
	eatRadiusColor  = rl.Color{R: 120, G: 220, B: 90, A: 90}
	backgroundColor = rl.Color{R: 15, G: 20, B: 28, A: 255}
)

const controlsLegend = "[Space] pause  [T] train  [+/-] speed  [Tab] controls and overlays"

// Update handles input and advances the simulation. Simulation errors are
// logged and pause the run.
func (g *Game) Update() {
	g.handleInput()
	g.applyCommands()
	g.perf.RecordFrame()

	if g.paused && !g.pendingTrain {
		return
	}
	if err := g.advance(); err != nil {
		slogError("simulation step failed", err)
		g.paused = true
	}
}

// Draw renders the world, overlays and UI.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(backgroundColor)

	snap := g.sim.Snapshot()
	scale := g.camera.Scale()

	if g.overlays.IsEnabled(ui.OverlayEatRadius) {
		r := float32(g.cfg.World.FoodSize) * scale
		for _, f := range snap.Foods {
			g.drawWrapped(f.X, f.Y, float32(g.cfg.World.FoodSize), func(x, y float32) {
				rl.DrawCircleLines(int32(x), int32(y), r, eatRadiusColor)
			})
		}
	}

	foodRadius := max(2, float32(g.cfg.World.FoodSize)*scale*0.5)
	for _, f := range snap.Foods {
		g.drawWrapped(f.X, f.Y, float32(g.cfg.World.FoodSize), func(x, y float32) {
			rl.DrawCircleV(rl.Vector2{X: x, Y: y}, foodRadius, foodColor)
		})
	}

	if g.overlays.IsEnabled(ui.OverlayAllCones) {
		for _, a := range snap.Animals {
			g.drawConeOutline(a)
		}
	}
	if g.overlays.IsEnabled(ui.OverlayVisionCone) {
		g.drawVisionCone()
	}

	maxSatiation := 0
	for _, a := range snap.Animals {
		maxSatiation = max(maxSatiation, a.Satiation)
	}
	animalRadius := max(4, 0.008*scale)
	for i, a := range snap.Animals {
		color := animalColor
		if g.overlays.IsEnabled(ui.OverlaySatiationColors) {
			color = satiationColor(a.Satiation, maxSatiation)
		}
		if i == g.selected {
			color = selectedColor
		}
		heading := a.Heading
		g.drawWrapped(a.X, a.Y, 0.01, func(x, y float32) {
			drawOrientedTriangle(x, y, heading, animalRadius, color)
		})
	}

	g.drawUI(snap)

	rl.EndDrawing()
}

// drawWrapped draws at the primary screen position of a world point and at
// its ghost positions across the wrap.
func (g *Game) drawWrapped(wx, wy, radius float32, draw func(x, y float32)) {
	if !g.camera.IsVisible(wx, wy, radius) {
		return
	}
	draw(g.camera.WorldToScreen(wx, wy))
	for _, p := range g.camera.GhostPositions(wx, wy, radius) {
		draw(p.X, p.Y)
	}
}

// drawVisionCone shades each eye sector of the selected animal by its
// current activation.
func (g *Game) drawVisionCone() {
	a, ok := g.selectedAnimal()
	if !ok {
		return
	}

	cx, cy := g.camera.WorldToScreen(a.Position.X, a.Position.Y)
	radius := float32(g.cfg.Eye.FOVRange) * g.camera.Scale()
	fov := float32(g.cfg.Eye.FOVAngle)
	sector := fov / float32(len(a.Vision))
	start := a.Heading - fov/2

	const segments = 6
	for i, v := range a.Vision {
		alpha := uint8(30 + 180*min(v, 1))
		color := rl.Color{R: 100, G: 200, B: 100, A: alpha}
		for j := 0; j < segments; j++ {
			a1 := start + float32(i)*sector + float32(j)*sector/segments
			a2 := a1 + sector/segments
			p1 := rl.Vector2{X: cx + radius*cosf(a1), Y: cy + radius*sinf(a1)}
			p2 := rl.Vector2{X: cx + radius*cosf(a2), Y: cy + radius*sinf(a2)}
			// DrawTriangle requires counter-clockwise winding
			rl.DrawTriangle(rl.Vector2{X: cx, Y: cy}, p2, p1, color)
		}
	}
	g.drawConeEdges(cx, cy, radius, start, start+fov, rl.Color{R: 200, G: 200, B: 200, A: 140})
}

// drawConeOutline draws the field-of-view edges of one animal.
func (g *Game) drawConeOutline(a sim.AnimalView) {
	if !g.camera.IsVisible(a.X, a.Y, float32(g.cfg.Eye.FOVRange)) {
		return
	}
	cx, cy := g.camera.WorldToScreen(a.X, a.Y)
	radius := float32(g.cfg.Eye.FOVRange) * g.camera.Scale()
	fov := float32(g.cfg.Eye.FOVAngle)
	g.drawConeEdges(cx, cy, radius, a.Heading-fov/2, a.Heading+fov/2, coneColor)
}

func (g *Game) drawConeEdges(cx, cy, radius, from, to float32, color rl.Color) {
	center := rl.Vector2{X: cx, Y: cy}
	rl.DrawLineV(center, rl.Vector2{X: cx + radius*cosf(from), Y: cy + radius*sinf(from)}, color)
	rl.DrawLineV(center, rl.Vector2{X: cx + radius*cosf(to), Y: cy + radius*sinf(to)}, color)
	rl.DrawCircleSectorLines(center, radius, from*rl.Rad2deg, to*rl.Rad2deg, 24, color)
}

// drawUI renders the HUD, panels and raygui controls.
func (g *Game) drawUI(snap sim.Snapshot) {
	last := g.lastStats()
	g.hud.Draw(ui.HUDData{
		Title:            "Forage",
		Generation:       snap.Generation,
		Age:              snap.Age,
		GenerationLength: g.cfg.Sim.GenerationLength,
		Animals:          len(snap.Animals),
		Foods:            len(snap.Foods),
		StepsPerUpdate:   g.stepsPerUpdate,
		FPS:              rl.GetFPS(),
		Paused:           g.paused,
		Last:             last,
	})

	y := g.controls.Draw(g.overlays)

	if g.overlays.IsEnabled(ui.OverlayPerf) {
		ps := g.perf.Stats()
		g.perfPanel.SetPosition(10, max(y+10, 120))
		g.perfPanel.Draw(ui.PerfPanelData{
			PhaseAvg:       ps.PhaseAvg,
			Total:          ps.AvgTickDuration,
			TicksPerSecond: ps.TicksPerSecond,
		}, telemetry.Phases())
	}

	if g.overlays.IsEnabled(ui.OverlayFitnessHistory) {
		g.historyPanel.Draw(g.history)
	}

	if a, ok := g.selectedAnimal(); ok {
		g.inspector.Draw(ui.InspectorData{
			Index:     g.selected,
			Satiation: a.Satiation,
			Speed:     a.Speed,
			SpeedMin:  float32(g.cfg.Sim.SpeedMin),
			SpeedMax:  float32(g.cfg.Sim.SpeedMax),
			Heading:   a.Heading,
			Vision:    a.Vision,
			Network:   a.Brain.Network(),
		})
	}

	bar := g.buttonBar()
	if gui.Button(rl.Rectangle{X: bar.X, Y: bar.Y, Width: 90, Height: bar.Height}, "Train") {
		g.pendingTrain = true
	}
	if gui.Button(rl.Rectangle{X: bar.X + 100, Y: bar.Y, Width: 90, Height: bar.Height}, toggleText(g.paused, "Resume", "Pause")) {
		g.paused = !g.paused
	}
	steps := gui.SliderBar(
		rl.Rectangle{X: bar.X + 240, Y: bar.Y + 5, Width: 150, Height: bar.Height - 10},
		"1x", fmt.Sprintf("%dx", maxStepsPerUpdate),
		float32(g.stepsPerUpdate), 1, maxStepsPerUpdate,
	)
	g.stepsPerUpdate = max(1, int(steps))

	g.hud.DrawControls(int32(rl.GetScreenHeight()), controlsLegend)
}

// buttonBar is the screen area holding the raygui controls.
func (g *Game) buttonBar() rl.Rectangle {
	return rl.Rectangle{X: 10, Y: float32(rl.GetScreenHeight()) - 70, Width: 420, Height: 30}
}

// lastStats returns the satiation statistics of the latest finished
// generation, or nil before the first boundary.
func (g *Game) lastStats() *genetic.Statistics {
	if len(g.history) == 0 {
		return nil
	}
	return &g.history[len(g.history)-1]
}

// satiationColor fades from dim to bright as an animal approaches the
// best satiation of its generation.
func satiationColor(satiation, best int) rl.Color {
	t := float32(0)
	if best > 0 {
		t = float32(satiation) / float32(best)
	}
	return rl.Color{
		R: uint8(80 + 175*t),
		G: uint8(80 + 120*t),
		B: uint8(160 - 120*t),
		A: 255,
	}
}

// drawOrientedTriangle draws a triangle pointing in the heading direction.
func drawOrientedTriangle(x, y, heading, radius float32, color rl.Color) {
	front := rl.Vector2{X: x + cosf(heading)*radius*1.5, Y: y + sinf(heading)*radius*1.5}

	backAngle := heading + math.Pi*0.8
	backLeft := rl.Vector2{X: x + cosf(backAngle)*radius, Y: y + sinf(backAngle)*radius}

	backAngle = heading - math.Pi*0.8
	backRight := rl.Vector2{X: x + cosf(backAngle)*radius, Y: y + sinf(backAngle)*radius}

	// DrawTriangle requires counter-clockwise winding (v1, v3, v2)
	rl.DrawTriangle(front, backRight, backLeft, color)
	rl.DrawTriangleLines(front, backLeft, backRight, rl.White)
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

func cosf(a float32) float32 { return float32(math.Cos(float64(a))) }
func sinf(a float32) float32 { return float32(math.Sin(float64(a))) }
