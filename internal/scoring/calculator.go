// Package scoring computes daily per-beach surf quality scores from
// forecast conditions and beach profiles, and persists them with
// compute-once-per-day semantics.
package scoring

import (
	"math"

	"github.com/crestwatch/surfcast/internal/database"
	"github.com/crestwatch/surfcast/internal/forecast"
)

// Profile is the subset of a beach's reference data that scoring reads.
// Nil or empty optional fields make the corresponding component neutral
// rather than penalizing.
type Profile struct {
	Difficulty     Difficulty
	SwellDirMin    *float64
	SwellDirMax    *float64
	WindDirs       []float64
	MinSwellHeight *float64
	MaxSwellHeight *float64
}

// Conditions are the forecast variables scoring consumes
type Conditions struct {
	WindSpeed      float64
	WindDirection  float64
	SwellHeight    float64
	SwellPeriod    float64
	SwellDirection float64
}

// Result is a computed score on the 0-10 scale with its derived star
// rating. Stars is always StarsForScore(Score).
type Result struct {
	Score float64
	Stars int
}

// ProfileFromBeach extracts the scoring profile from a beach record
func ProfileFromBeach(b *database.Beach) Profile {
	return Profile{
		Difficulty:     ParseDifficulty(b.Difficulty),
		SwellDirMin:    b.SwellDirMin,
		SwellDirMax:    b.SwellDirMax,
		WindDirs:       b.OptimalWindDirs,
		MinSwellHeight: b.MinSwellHeight,
		MaxSwellHeight: b.MaxSwellHeight,
	}
}

// ConditionsFromForecast extracts scoring inputs from a forecast row
func ConditionsFromForecast(fc *database.Forecast) Conditions {
	return Conditions{
		WindSpeed:      fc.WindSpeed,
		WindDirection:  fc.WindDirection,
		SwellHeight:    fc.SwellHeight,
		SwellPeriod:    fc.SwellPeriod,
		SwellDirection: fc.SwellDirection,
	}
}

// Score computes the suitability of one beach under one set of forecast
// conditions. It is pure, never errors, and normalizes out-of-range
// inputs (negative magnitudes, bearings outside 0-359) instead of
// rejecting them.
//
// The score is a weighted sum of four component fits, each in [0,1]:
// swell direction (0.35), wind direction (0.25), wind speed (0.20), and
// swell size (0.20), scaled onto 0-10.
func Score(p Profile, c Conditions) Result {
	score := 10 * (weightSwellDirection*swellDirectionFit(p, c) +
		weightWindDirection*windDirectionFit(p, c) +
		weightWindSpeed*windSpeedFit(p, c) +
		weightSwellSize*swellSizeFit(p, c))

	return Result{
		Score: score,
		Stars: StarsForScore(score),
	}
}

// swellDirectionFit is 1.0 inside the optimal arc and decays linearly to
// 0 over swellDirTolerance degrees beyond the nearest arc edge. Beaches
// without an arc are neutral.
func swellDirectionFit(p Profile, c Conditions) float64 {
	if p.SwellDirMin == nil || p.SwellDirMax == nil {
		return 1.0
	}
	dist := forecast.DistanceFromArc(c.SwellDirection, *p.SwellDirMin, *p.SwellDirMax)
	return clampUnit(1 - dist/swellDirTolerance)
}

// windDirectionFit takes the best fit over the profile's optimal wind
// bearings: full fit within the grace band, then linear decay over the
// looser wind tolerance. Beaches without wind preferences are neutral.
func windDirectionFit(p Profile, c Conditions) float64 {
	if len(p.WindDirs) == 0 {
		return 1.0
	}
	best := 0.0
	for _, dir := range p.WindDirs {
		dist := forecast.AngularDistance(c.WindDirection, dir)
		fit := clampUnit(1 - math.Max(0, dist-windDirGrace)/windDirTolerance)
		if fit > best {
			best = fit
		}
	}
	return best
}

// windSpeedFit is 1.0 up to the difficulty's soft ceiling and decays
// linearly to 0 at the hard ceiling (soft + windSpeedDecayRange)
func windSpeedFit(p Profile, c Conditions) float64 {
	limits := limitsByDifficulty[p.Difficulty]
	speed := math.Abs(c.WindSpeed)
	if speed <= limits.windSoftCeiling {
		return 1.0
	}
	return clampUnit(1 - (speed-limits.windSoftCeiling)/windSpeedDecayRange)
}

// swellSizeFit is 0 outside the acceptable height band and ramps to 1
// over swellSizeTaper meters inside each edge. Profile overrides take
// precedence over the difficulty band.
func swellSizeFit(p Profile, c Conditions) float64 {
	limits := limitsByDifficulty[p.Difficulty]
	min := limits.minSwellHeight
	max := limits.maxSwellHeight
	if p.MinSwellHeight != nil {
		min = *p.MinSwellHeight
	}
	if p.MaxSwellHeight != nil {
		max = *p.MaxSwellHeight
	}

	height := math.Abs(c.SwellHeight)
	if height <= min || height >= max {
		return 0
	}
	fit := math.Min((height-min)/swellSizeTaper, (max-height)/swellSizeTaper)
	return clampUnit(fit)
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
