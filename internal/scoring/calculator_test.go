package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

// idealProfile and idealConditions line up on every component so the
// weighted sum reaches the top of the scale.
func idealProfile() Profile {
	return Profile{
		Difficulty:  DifficultyIntermediate,
		SwellDirMin: ptr(200.0),
		SwellDirMax: ptr(260.0),
		WindDirs:    []float64{45},
	}
}

func idealConditions() Conditions {
	return Conditions{
		WindSpeed:      4,
		WindDirection:  45,
		SwellHeight:    1.8,
		SwellPeriod:    12,
		SwellDirection: 230,
	}
}

func TestScorePerfectConditions(t *testing.T) {
	result := Score(idealProfile(), idealConditions())
	assert.InDelta(t, 10.0, result.Score, 1e-9)
	assert.Equal(t, 5, result.Stars)
}

func TestScoreFlatUnsurfableForecast(t *testing.T) {
	p := Profile{
		Difficulty:  DifficultyBeginner,
		SwellDirMin: ptr(200.0),
		SwellDirMax: ptr(260.0),
		WindDirs:    []float64{45},
	}
	c := Conditions{
		WindSpeed:      30,  // far past the beginner hard ceiling
		WindDirection:  225, // 180 off the optimal wind
		SwellHeight:    0,   // flat
		SwellDirection: 50,  // >45 degrees outside the arc
	}
	result := Score(p, c)
	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, 0, result.Stars)
}

func TestScoreMissingProfileFieldsAreNeutral(t *testing.T) {
	// A profile without direction preferences must not be penalized on
	// those components.
	result := Score(Profile{}, idealConditions())
	assert.InDelta(t, 10.0, result.Score, 1e-9)
}

func TestScoreRangeInvariant(t *testing.T) {
	profiles := []Profile{
		{},
		idealProfile(),
		{Difficulty: DifficultyExpert, SwellDirMin: ptr(350.0), SwellDirMax: ptr(30.0)},
		{Difficulty: DifficultyBeginner, WindDirs: []float64{0, 90, 180, 270}},
		{MinSwellHeight: ptr(1.0), MaxSwellHeight: ptr(1.2)},
	}
	for _, p := range profiles {
		for dir := -360.0; dir <= 720; dir += 37 {
			for h := -1.0; h <= 8; h += 0.7 {
				for wind := 0.0; wind <= 30; wind += 6 {
					c := Conditions{
						WindSpeed:      wind,
						WindDirection:  dir + 13,
						SwellHeight:    h,
						SwellPeriod:    10,
						SwellDirection: dir,
					}
					result := Score(p, c)
					require.GreaterOrEqual(t, result.Score, 0.0)
					require.LessOrEqual(t, result.Score, 10.0)
					require.Equal(t, StarsForScore(result.Score), result.Stars,
						"stars must be a deterministic function of score")
				}
			}
		}
	}
}

func TestScoreWrappedSwellArc(t *testing.T) {
	p := Profile{
		Difficulty:  DifficultyIntermediate,
		SwellDirMin: ptr(350.0),
		SwellDirMax: ptr(30.0),
	}
	c := idealConditions()

	c.SwellDirection = 10 // inside the wrapped arc
	inside := Score(p, c)

	c.SwellDirection = 60 // 30 degrees past the 30-degree edge
	outside := Score(p, c)

	assert.Greater(t, inside.Score, outside.Score)
	assert.InDelta(t, 10.0, inside.Score, 1e-9)
}

func TestScoreNormalizesOutOfRangeInputs(t *testing.T) {
	p := idealProfile()
	c := idealConditions()

	base := Score(p, c)

	c.SwellDirection += 360
	c.WindDirection -= 720
	c.SwellHeight = -c.SwellHeight
	c.WindSpeed = -c.WindSpeed

	assert.Equal(t, base, Score(p, c))
}

func TestScoreWindSpeedPenaltyByDifficulty(t *testing.T) {
	c := idealConditions()
	c.WindSpeed = 12

	beginner := idealProfile()
	beginner.Difficulty = DifficultyBeginner
	expert := idealProfile()
	expert.Difficulty = DifficultyExpert
	// Keep swell height inside both difficulty bands with full taper margin.
	c.SwellHeight = 1.5

	assert.Greater(t, Score(expert, c).Score, Score(beginner, c).Score,
		"beginner beaches must be penalized for wind earlier than expert beaches")
}

func TestStarsForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  int
	}{
		{0, 0},
		{0.1, 1}, // floor of one star for any positive score
		{1.9, 1},
		{2, 1},
		{3.9, 1},
		{4, 2},
		{5.9, 2},
		{6, 3},
		{7.9, 3},
		{8, 4},
		{9.99, 4},
		{10, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StarsForScore(tt.score), "score %v", tt.score)
	}
}

func TestStarsForScoreMonotonic(t *testing.T) {
	prev := 0
	for score := 0.0; score <= 10.0; score += 0.05 {
		stars := StarsForScore(score)
		require.GreaterOrEqual(t, stars, prev, "stars must be non-decreasing in score")
		prev = stars
	}
}
