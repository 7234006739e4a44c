// Package camera maps the unit torus the animals live on to screen pixels,
// with pan and zoom.
package camera

import "math"

// Point is a screen position.
type Point struct {
	X, Y float32
}

// Camera controls the viewport into the [0,1)x[0,1) world.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level; at 1 the world spans the longer viewport side
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	MaxZoom float32
}

// New creates a camera centered on the world with the whole world in view.
func New(viewportW, viewportH float32) *Camera {
	return &Camera{
		X:         0.5,
		Y:         0.5,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		MaxZoom:   8.0,
	}
}

// Scale returns screen pixels per world unit at the current zoom.
func (c *Camera) Scale() float32 {
	base := c.ViewportW
	if c.ViewportH > base {
		base = c.ViewportH
	}
	return base * c.Zoom
}

// WorldToScreen converts world coordinates to screen coordinates using the
// shortest toroidal offset from the camera center.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	s := c.Scale()
	sx = c.ViewportW/2 + toroidalDelta(wx, c.X)*s
	sy = c.ViewportH/2 + toroidalDelta(wy, c.Y)*s
	return sx, sy
}

// ScreenToWorld converts screen coordinates to wrapped world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	s := c.Scale()
	wx = wrap(c.X + (sx-c.ViewportW/2)/s)
	wy = wrap(c.Y + (sy-c.ViewportH/2)/s)
	return wx, wy
}

// IsVisible reports whether a circle at (wx, wy) with a world-space radius
// could be on screen.
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	s := c.Scale()
	halfW := c.ViewportW/(2*s) + radius
	halfH := c.ViewportH/(2*s) + radius
	return absf(toroidalDelta(wx, c.X)) <= halfW && absf(toroidalDelta(wy, c.Y)) <= halfH
}

// GhostPositions returns extra screen positions for a circle straddling
// a view edge, so it is drawn on both sides of the wrap. Up to three
// ghosts are returned.
func (c *Camera) GhostPositions(wx, wy, radius float32) []Point {
	s := c.Scale()
	halfW := c.ViewportW / (2 * s)
	halfH := c.ViewportH / (2 * s)
	dx := toroidalDelta(wx, c.X)
	dy := toroidalDelta(wy, c.Y)

	sx := c.ViewportW/2 + dx*s
	sy := c.ViewportH/2 + dy*s

	var ghosts []Point
	hx, hOK := ghostOffset(dx, halfW, radius)
	vy, vOK := ghostOffset(dy, halfH, radius)
	if hOK {
		ghosts = append(ghosts, Point{c.ViewportW/2 + hx*s, sy})
	}
	if vOK {
		ghosts = append(ghosts, Point{sx, c.ViewportH/2 + vy*s})
	}
	if hOK && vOK {
		ghosts = append(ghosts, Point{c.ViewportW/2 + hx*s, c.ViewportH/2 + vy*s})
	}
	return ghosts
}

// ghostOffset returns the wrapped offset of d when it sits within radius
// of the view half-extent on either side.
func ghostOffset(d, half, radius float32) (float32, bool) {
	switch {
	case d > half-radius && d < half+radius:
		return d - 1, true
	case d < -half+radius && d > -half-radius:
		return d + 1, true
	}
	return 0, false
}

// Resize updates the viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the camera by a delta in screen pixels, wrapping around the
// world.
func (c *Camera) Pan(dx, dy float32) {
	s := c.Scale()
	c.X = wrap(c.X + dx/s)
	c.Y = wrap(c.Y + dy/s)
}

// SetZoom sets the zoom level, clamped to [1, MaxZoom].
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, 1, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X = 0.5
	c.Y = 0.5
	c.Zoom = 1.0
}

// toroidalDelta computes the shortest signed distance from 'from' to 'to'
// on the unit circle.
func toroidalDelta(to, from float32) float32 {
	d := to - from
	if d > 0.5 {
		d -= 1
	} else if d < -0.5 {
		d += 1
	}
	return d
}

// wrap maps x into [0, 1).
func wrap(x float32) float32 {
	r := x - float32(math.Floor(float64(x)))
	if r >= 1 {
		r = 0
	}
	return r
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
