package scoring

// This file is the single authoritative source for every weight and
// threshold used in beach scoring. Display code and stored scores must
// both derive from these values; do not duplicate them elsewhere.

// Difficulty is the skill level a beach is rated for
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	DifficultyExpert       Difficulty = "expert"
)

// ParseDifficulty maps a stored difficulty string onto the enum,
// defaulting to intermediate for unknown or empty values
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced, DifficultyExpert:
		return Difficulty(s)
	default:
		return DifficultyIntermediate
	}
}

// Component weights. They sum to 1; the weighted sum is scaled onto the
// 0-10 raw score range.
const (
	weightSwellDirection = 0.35
	weightWindDirection  = 0.25
	weightWindSpeed      = 0.20
	weightSwellSize      = 0.20
)

// Direction tolerances in degrees. Swell direction decays linearly to
// zero over swellDirTolerance beyond the optimal arc. Wind direction has
// a grace band around each optimal bearing and a looser decay, since
// wind tolerance is wider than swell tolerance.
const (
	swellDirTolerance = 45.0
	windDirGrace      = 22.5
	windDirTolerance  = 90.0
)

// Wind speed decays linearly from the difficulty's soft ceiling down to
// zero at soft ceiling + windSpeedDecayRange (m/s).
const windSpeedDecayRange = 10.0

// Swell height fit ramps from 0 to 1 over swellSizeTaper meters inside
// each edge of the difficulty's acceptable band.
const swellSizeTaper = 0.3

// difficultyLimits holds the per-difficulty wind ceiling and swell band
type difficultyLimits struct {
	windSoftCeiling float64 // m/s
	minSwellHeight  float64 // meters
	maxSwellHeight  float64 // meters
}

var limitsByDifficulty = map[Difficulty]difficultyLimits{
	DifficultyBeginner:     {windSoftCeiling: 8, minSwellHeight: 0.4, maxSwellHeight: 2.0},
	DifficultyIntermediate: {windSoftCeiling: 10, minSwellHeight: 0.6, maxSwellHeight: 3.0},
	DifficultyAdvanced:     {windSoftCeiling: 12, minSwellHeight: 0.8, maxSwellHeight: 4.5},
	DifficultyExpert:       {windSoftCeiling: 14, minSwellHeight: 1.0, maxSwellHeight: 6.0},
}

// StarsForScore derives the star rating from a raw 0-10 score. Buckets
// are fixed: (0,4)->1, [4,6)->2, [6,8)->3, [8,10)->4, 10->5, with a
// floor of one star for any positive score. Zero stars mean a genuinely
// flat or unsurfable forecast (score exactly 0).
func StarsForScore(score float64) int {
	if score <= 0 {
		return 0
	}
	stars := int(score / 2)
	if stars < 1 {
		stars = 1
	}
	if stars > 5 {
		stars = 5
	}
	return stars
}
