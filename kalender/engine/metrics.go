package engine

import "math"

// Default curve parameters for the dashboard progression metrics.
const (
	sigmoidSteepness = 0.4
	sigmoidMidpoint  = 12.0
)

// System status classifications derived from metric ratios.
const (
	StatusCritical = "critical"
	StatusWarning  = "warning"
	StatusNormal   = "normal"
)

// SigmoidValue produces a smooth S-curve between min and max over the
// 24-day calendar, centered on the season's midpoint. Deterministic for
// the same inputs.
func SigmoidValue(min, max float64, day int) int {
	return SigmoidValueWith(min, max, day, sigmoidSteepness, sigmoidMidpoint)
}

// SigmoidValueWith is SigmoidValue with explicit curve parameters.
func SigmoidValueWith(min, max float64, day int, k, midpoint float64) int {
	v := min + (max-min)/(1+math.Exp(-k*(float64(day)-midpoint)))
	return int(math.Round(v))
}

// StatusFromRatio classifies a metric value against its maximum.
func StatusFromRatio(value, max float64) string {
	if max <= 0 {
		return StatusCritical
	}
	ratio := value / max
	switch {
	case ratio < 0.5:
		return StatusCritical
	case ratio < 0.75:
		return StatusWarning
	default:
		return StatusNormal
	}
}
