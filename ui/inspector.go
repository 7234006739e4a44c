package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/forage/neural"
)

// InspectorData holds all the data needed to render the inspector panel.
type InspectorData struct {
	Index     int
	Satiation int
	Speed     float32
	SpeedMin  float32
	SpeedMax  float32
	Heading   float32
	Vision    []float32
	Network   *neural.Network
}

// Inspector renders the selected-animal panel.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// statsSection describes the scalar fields of an animal.
var statsSection = SectionDescriptor{
	ID:    "stats",
	Title: "Stats",
	Fields: []FieldDescriptor{
		{
			ID: "satiation", Label: "Satiation", Widget: WidgetText, Format: "%.0f",
			Getter: func(d any) float32 { return float32(d.(InspectorData).Satiation) },
		},
		{
			ID: "heading", Label: "Heading", Widget: WidgetCenteredBar, Range: FieldRange{Min: -math.Pi, Max: math.Pi},
			Getter: func(d any) float32 { return d.(InspectorData).Heading },
		},
	},
}

// Draw renders the inspector panel for the given data and returns the
// bottom edge.
func (ins *Inspector) Draw(data InspectorData) int32 {
	r := ins.renderer
	padding := r.Theme.Padding
	contentWidth := ins.width - padding*2

	graphHeight := int32(120)
	panelHeight := padding*2 + r.Theme.LineHeight*int32(6+len(data.Vision)) + graphHeight + 40
	r.DrawPanel(ins.x, ins.y, ins.width, panelHeight)

	x := ins.x + padding
	y := ins.y + padding

	rl.DrawText(fmt.Sprintf("Animal #%d", data.Index), x, y, 18, rl.White)
	y += r.Theme.LineHeight + 6

	y = r.DrawSection(x, y, statsSection, data, contentWidth)
	y = r.DrawBar(x, y, "Speed", data.Speed, FieldRange{Min: data.SpeedMin, Max: data.SpeedMax}, contentWidth)
	y += 4

	y = r.DrawSectionHeader(x, y, "Vision")
	for i, v := range data.Vision {
		y = r.DrawBar(x, y, fmt.Sprintf("cell %d", i), v, DefaultRange(), contentWidth)
	}
	y += 4

	if data.Network != nil {
		y = r.DrawSectionHeader(x, y, "Network")
		y += 2
		ins.drawBrainGraph(x, y, contentWidth, graphHeight, data.Network)
		y += graphHeight + 6
	}

	return y
}

// drawBrainGraph draws every layer as a column of nodes, with connections
// colored by weight sign.
func (ins *Inspector) drawBrainGraph(x, y, width, height int32, nn *neural.Network) {
	rl.DrawRectangle(x, y, width, height, rl.Color{R: 30, G: 35, B: 40, A: 255})

	columns := NetworkLayout(nn.Topology(), float32(x), float32(y), float32(width), float32(height), 15)

	for l, layer := range nn.Layers {
		in, out := columns[l], columns[l+1]
		for i := 0; i < layer.Weights.Rows; i++ {
			for j := 0; j < layer.Weights.Cols; j++ {
				weight := layer.Weights.Data[i*layer.Weights.Stride+j]
				alpha := uint8(min(255, int(math.Abs(float64(weight))*100)+30))
				lineColor := rl.Color{R: 100, G: 200, B: 100, A: alpha}
				if weight < 0 {
					lineColor = rl.Color{R: 200, G: 100, B: 100, A: alpha}
				}
				rl.DrawLineV(in[j], out[i], lineColor)
			}
		}
	}

	nodeRadius := float32(4)
	for c, column := range columns {
		color := rl.Color{R: 180, G: 180, B: 180, A: 255}
		switch c {
		case 0:
			color = rl.Color{R: 100, G: 150, B: 255, A: 255}
		case len(columns) - 1:
			color = rl.Color{R: 255, G: 180, B: 100, A: 255}
		}
		for _, pos := range column {
			rl.DrawCircleV(pos, nodeRadius, color)
		}
	}
}

// NetworkLayout places the nodes of each layer in evenly spaced columns
// inside the given box, inputs on the left.
func NetworkLayout(topology []int, x, y, width, height, padding float32) [][]rl.Vector2 {
	columns := make([][]rl.Vector2, len(topology))
	colSpacing := (width - 2*padding) / float32(max(len(topology)-1, 1))
	for c, n := range topology {
		spacing := (height - 2*padding) / float32(max(n, 1))
		column := make([]rl.Vector2, n)
		for i := range column {
			column[i] = rl.Vector2{
				X: x + padding + float32(c)*colSpacing,
				Y: y + padding + float32(i)*spacing + spacing/2,
			}
		}
		columns[c] = column
	}
	return columns
}
