package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/forage/components"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyT) {
		g.pendingTrain = true
	}

	// Steps-per-update doubles or halves with +/-
	if (rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd)) && g.stepsPerUpdate < maxStepsPerUpdate {
		g.stepsPerUpdate *= 2
	}
	if (rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract)) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate /= 2
	}

	if rl.IsKeyPressed(rl.KeyTab) {
		g.controls.Toggle()
	}
	for _, desc := range g.overlays.All() {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			g.overlays.Toggle(desc.ID)
		}
	}

	g.handleCameraInput()

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && !g.overPanel(rl.GetMousePosition()) {
		mouse := rl.GetMousePosition()
		wx, wy := g.camera.ScreenToWorld(mouse.X, mouse.Y)
		if i, ok := nearestAnimal(g.sim.World().Animals(), components.Position{X: wx, Y: wy}, selectRadius); ok {
			g.selected = i
		} else {
			g.selected = -1
		}
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
	g.camera.Resize(float32(w), float32(h))
	g.historyPanel.SetPosition(int32(w)-330, int32(h)-170)
	g.inspector.SetPosition(int32(w)-250, 10)
}

// handleCameraInput pans with the right mouse button and zooms with the wheel.
func (g *Game) handleCameraInput() {
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		delta := rl.GetMouseDelta()
		g.camera.Pan(-delta.X, -delta.Y)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}

// overPanel reports whether p is over the raygui buttons.
func (g *Game) overPanel(p rl.Vector2) bool {
	return rl.CheckCollisionPointRec(p, g.buttonBar())
}
