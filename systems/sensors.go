package systems

import (
	"math"

	"github.com/pthm-cable/forage/components"
	"github.com/pthm-cable/forage/config"
)

// Eye is a fan of equal angular sectors centered on the observer's heading.
// It holds no per-tick state.
type Eye struct {
	FOVRange float32
	FOVAngle float32
	Cells    int
}

// NewEye builds an eye from the eye section of the config.
func NewEye(cfg *config.Config) Eye {
	return Eye{
		FOVRange: float32(cfg.Eye.FOVRange),
		FOVAngle: float32(cfg.Eye.FOVAngle),
		Cells:    cfg.Eye.Cells,
	}
}

// ProcessVision returns a fresh vision vector of length e.Cells.
func (e Eye) ProcessVision(pos components.Position, heading float32, foods []components.Food) []float32 {
	vision := make([]float32, e.Cells)
	e.ProcessVisionInto(vision, pos, heading, foods)
	return vision
}

// ProcessVisionInto fills vision (length e.Cells) with per-sector food energy.
// A food at the observer contributes 1 and one at the range boundary 0;
// contributions in a sector are summed without saturation.
func (e Eye) ProcessVisionInto(vision []float32, pos components.Position, heading float32, foods []components.Food) {
	for i := range vision {
		vision[i] = 0
	}

	halfFOV := e.FOVAngle / 2
	sectorWidth := e.FOVAngle / float32(e.Cells)

	for i := range foods {
		fp := foods[i].Position
		dist := pos.Distance(fp)
		if dist > e.FOVRange {
			continue
		}

		// Angle is undefined at zero distance: count it straight ahead.
		if dist == 0 {
			vision[e.Cells/2] += 1
			continue
		}

		dx := fp.X - pos.X
		dy := fp.Y - pos.Y
		angle := NormalizeAngle(float32(math.Atan2(float64(dy), float64(dx))) - heading)
		if angle < -halfFOV || angle > halfFOV {
			continue
		}

		cell := int(math.Floor(float64((angle + halfFOV) / sectorWidth)))
		if cell == e.Cells {
			// angle == +halfFOV lands exactly on the outer edge
			cell = e.Cells - 1
		}
		if cell < 0 || cell >= e.Cells {
			continue
		}

		vision[cell] += (e.FOVRange - dist) / e.FOVRange
	}
}
