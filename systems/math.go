package systems

import "math"

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// ClampFloat is the exported form of clampFloat for other packages.
func ClampFloat(v, minVal, maxVal float32) float32 {
	return clampFloat(v, minVal, maxVal)
}

// NormalizeAngle wraps an angle to (-Pi, Pi].
func NormalizeAngle(angle float32) float32 {
	const twoPi = 2 * math.Pi
	for angle > math.Pi {
		angle -= twoPi
	}
	for angle <= -math.Pi {
		angle += twoPi
	}
	return angle
}
