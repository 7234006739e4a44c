package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// KeyBinding describes a non-overlay control shown in the panel.
type KeyBinding struct {
	Key    string
	Action string
}

// SimulationBindings are the run-loop controls.
var SimulationBindings = []KeyBinding{
	{"Space", "Pause / resume"},
	{"T", "Train one generation"},
	{"+ / -", "Double / halve speed"},
	{"LMB", "Select animal"},
	{"RMB", "Pan"},
	{"Wheel", "Zoom"},
	{"Home", "Reset view"},
}

var (
	toggleOff = rl.Color{R: 80, G: 80, B: 80, A: 255}
	toggleOn  = rl.Color{R: 100, G: 200, B: 100, A: 255}
	keyColor  = rl.Color{R: 150, G: 150, B: 150, A: 255}
)

// ControlsPanel lists key bindings and overlay toggles. It starts hidden.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a hidden controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Height returns the panel height for the given overlays.
func (c *ControlsPanel) Height(overlays *OverlayRegistry) int32 {
	t := c.renderer.Theme
	rows := int32(len(SimulationBindings)) + 1 // +1 for the section header
	for _, cat := range overlays.Categories() {
		rows += int32(len(overlays.ByCategory(cat))) + 1
	}
	return rows*t.LineHeight + t.Padding*2 + int32(len(overlays.Categories())+1)*4
}

// Draw renders the panel and returns the y coordinate below it. A hidden
// panel takes no space.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	t := r.Theme
	inner := c.width - t.Padding*2
	x := c.x + t.Padding

	r.DrawPanel(c.x, c.y, c.width, c.Height(overlays))
	y := c.y + t.Padding

	y = r.DrawSectionHeader(x, y, "Simulation")
	for _, b := range SimulationBindings {
		c.drawRow(x, y, inner, b.Action, b.Key, rl.LightGray, nil)
		y += t.LineHeight
	}
	y += 4

	for _, category := range overlays.Categories() {
		y = r.DrawSectionHeader(x, y, categoryLabel(category))
		for _, desc := range overlays.ByCategory(category) {
			indicator := toggleOff
			label := t.LabelColor
			if overlays.IsEnabled(desc.ID) {
				indicator, label = toggleOn, rl.White
			}
			c.drawRow(x, y, inner, desc.Name, desc.KeyLabel, label, &indicator)
			y += t.LineHeight
		}
		y += 4
	}

	return y + t.Padding
}

// drawRow draws a label with an optional status square and a right-aligned
// key hint.
func (c *ControlsPanel) drawRow(x, y, width int32, label, key string, color rl.Color, indicator *rl.Color) {
	fontSize := c.renderer.Theme.FontSize
	if indicator != nil {
		rl.DrawRectangle(x, y+2, 8, 8, *indicator)
		x += 14
		width -= 14
	}
	rl.DrawText(label, x, y, fontSize, color)

	if key != "" {
		keyText := fmt.Sprintf("[%s]", key)
		rl.DrawText(keyText, x+width-rl.MeasureText(keyText, fontSize), y, fontSize, keyColor)
	}
}

// categoryLabel returns a display label for an overlay category.
func categoryLabel(cat string) string {
	switch cat {
	case "visual":
		return "Visual"
	case "perception":
		return "Perception"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}
