package ui

import "testing"

func TestOverlayToggleExclusive(t *testing.T) {
	reg := NewOverlayRegistry()

	if !reg.Toggle(OverlayVisionCone) {
		t.Fatal("vision cone should be enabled after first toggle")
	}
	if !reg.Toggle(OverlayAllCones) {
		t.Fatal("all cones should be enabled after first toggle")
	}
	if reg.IsEnabled(OverlayVisionCone) {
		t.Error("enabling all cones should disable the single vision cone")
	}

	got := reg.EnabledOverlays()
	if len(got) != 1 || got[0] != OverlayAllCones {
		t.Errorf("enabled overlays = %v, want [%s]", got, OverlayAllCones)
	}
}

func TestOverlayUnknownID(t *testing.T) {
	reg := NewOverlayRegistry()
	if reg.Toggle("nope") {
		t.Error("toggling an unknown overlay should report false")
	}
	reg.SetEnabled("nope", true)
	if reg.IsEnabled("nope") {
		t.Error("unknown overlay became enabled")
	}
}

func TestOverlayCategoriesInOrder(t *testing.T) {
	reg := NewOverlayRegistry()
	cats := reg.Categories()
	want := []string{"visual", "perception", "debug"}
	if len(cats) != len(want) {
		t.Fatalf("categories = %v, want %v", cats, want)
	}
	for i := range want {
		if cats[i] != want[i] {
			t.Errorf("categories[%d] = %q, want %q", i, cats[i], want[i])
		}
	}
	if n := len(reg.ByCategory("perception")); n != 2 {
		t.Errorf("perception overlays = %d, want 2", n)
	}
}

func TestNetworkLayout(t *testing.T) {
	columns := NetworkLayout([]int{9, 9, 2}, 0, 0, 200, 100, 10)
	if len(columns) != 3 {
		t.Fatalf("got %d columns, want 3", len(columns))
	}
	if len(columns[0]) != 9 || len(columns[2]) != 2 {
		t.Errorf("column sizes = %d, %d, %d", len(columns[0]), len(columns[1]), len(columns[2]))
	}
	if columns[0][0].X != 10 || columns[2][0].X != 190 {
		t.Errorf("column x = %v .. %v, want 10 .. 190", columns[0][0].X, columns[2][0].X)
	}
	for _, column := range columns {
		for i := 1; i < len(column); i++ {
			if column[i].Y <= column[i-1].Y {
				t.Errorf("nodes not ordered top to bottom: %v", column)
			}
		}
		for _, p := range column {
			if p.Y < 10 || p.Y > 90 {
				t.Errorf("node %v outside padded box", p)
			}
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		v    float32
		rng  FieldRange
		want float32
	}{
		{0.5, DefaultRange(), 0.5},
		{-1, DefaultRange(), 0},
		{2, DefaultRange(), 1},
		{0, CenteredRange(), 0.5},
		{0.003, FieldRange{Min: 0.001, Max: 0.005}, 0.5},
		{1, FieldRange{Min: 1, Max: 1}, 0},
	}
	for _, tt := range tests {
		got := normalize(tt.v, tt.rng)
		if d := got - tt.want; d > 1e-5 || d < -1e-5 {
			t.Errorf("normalize(%v, %+v) = %v, want %v", tt.v, tt.rng, got, tt.want)
		}
	}
}

func TestControlsPanelHiddenTakesNoSpace(t *testing.T) {
	c := NewControlsPanel(10, 120, 220)
	if c.IsVisible() {
		t.Fatal("controls panel should start hidden")
	}
	if y := c.Draw(NewOverlayRegistry()); y != 120 {
		t.Errorf("hidden panel returned y = %d, want 120", y)
	}
	if !c.Toggle() {
		t.Error("Toggle should show the panel")
	}
}

func TestControlsPanelHeightCountsRows(t *testing.T) {
	c := NewControlsPanel(0, 0, 200)
	reg := NewOverlayRegistry()
	theme := DefaultTheme()

	// one header per section, one row per binding or overlay
	rows := int32(len(SimulationBindings) + 1 + len(reg.All()) + len(reg.Categories()))
	sections := int32(len(reg.Categories()) + 1)
	want := rows*theme.LineHeight + theme.Padding*2 + sections*4
	if got := c.Height(reg); got != want {
		t.Errorf("Height = %d, want %d", got, want)
	}
}
