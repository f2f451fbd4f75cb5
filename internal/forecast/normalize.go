// Package forecast provides pure normalization helpers for raw forecast
// variables: compass bearings, wind severity buckets, and the angular
// arithmetic shared with the beach scorer.
package forecast

import "math"

var cardDirections = []string{"N", "NNE", "NE", "ENE",
	"E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW",
	"W", "WNW", "NW", "NNW"}

// CardinalDirection converts a bearing in degrees to one of the 16
// compass labels. Buckets are 22.5 degrees wide, centered on each label,
// so 348.75-11.25 maps to N. Any real input is accepted; negative and
// oversized bearings are normalized first.
func CardinalDirection(degrees float64) string {
	d := NormalizeDegrees(degrees)
	cardIndex := int((d + 11.25) / 22.5)
	return cardDirections[cardIndex%16]
}

// Severity is a coarse wind-speed bucket used for display only; it plays
// no part in scoring.
type Severity string

const (
	SeverityLight      Severity = "light"
	SeverityModerate   Severity = "moderate"
	SeverityStrong     Severity = "strong"
	SeverityVeryStrong Severity = "very_strong"
)

// Wind severity cutoffs in m/s.
const (
	windModerateCutoff   = 5.0
	windStrongCutoff     = 12.0
	windVeryStrongCutoff = 20.0
)

// WindSeverity buckets a wind speed in m/s. Negative speeds are treated
// as their magnitude.
func WindSeverity(speedMs float64) Severity {
	speed := math.Abs(speedMs)
	switch {
	case speed < windModerateCutoff:
		return SeverityLight
	case speed < windStrongCutoff:
		return SeverityModerate
	case speed < windVeryStrongCutoff:
		return SeverityStrong
	default:
		return SeverityVeryStrong
	}
}

// NormalizeDegrees maps any bearing onto [0, 360)
func NormalizeDegrees(degrees float64) float64 {
	d := math.Mod(degrees, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// AngularDistance returns the shortest angular separation between two
// bearings, in [0, 180]
func AngularDistance(a, b float64) float64 {
	diff := math.Abs(NormalizeDegrees(a) - NormalizeDegrees(b))
	if diff > 180 {
		diff = 360 - diff
	}
	return diff
}

// InArc reports whether a bearing falls inside the arc from min to max,
// sweeping clockwise. Arcs may wrap through north (min > max).
func InArc(degrees, min, max float64) bool {
	d := NormalizeDegrees(degrees)
	lo := NormalizeDegrees(min)
	hi := NormalizeDegrees(max)
	if lo <= hi {
		return d >= lo && d <= hi
	}
	return d >= lo || d <= hi
}

// DistanceFromArc returns 0 when the bearing lies inside the arc,
// otherwise the angular distance to the nearest arc edge.
func DistanceFromArc(degrees, min, max float64) float64 {
	if InArc(degrees, min, max) {
		return 0
	}
	return math.Min(AngularDistance(degrees, min), AngularDistance(degrees, max))
}
