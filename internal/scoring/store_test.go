package scoring

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/crestwatch/surfcast/internal/cache"
	"github.com/crestwatch/surfcast/internal/database"
)

type fakeBackend struct {
	regions   []database.Region
	beaches   map[uint]*database.Beach
	forecasts map[string]*database.Forecast
	scores    map[string]*database.BeachScore

	scoreReads  int
	scoreWrites int

	// When set, the next CreateBeachScore stores this record instead and
	// fails with a duplicate-key error, simulating a lost insert race.
	raceWinner *database.BeachScore
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		beaches:   make(map[uint]*database.Beach),
		forecasts: make(map[string]*database.Forecast),
		scores:    make(map[string]*database.BeachScore),
	}
}

func forecastKey(regionID uint, date time.Time) string {
	return fmt.Sprintf("%d:%s", regionID, database.DateString(date))
}

func scoreKey(beachID uint, date time.Time) string {
	return fmt.Sprintf("%d:%s", beachID, database.DateString(date))
}

func (f *fakeBackend) Regions(context.Context) ([]database.Region, error) {
	return f.regions, nil
}

func (f *fakeBackend) GetBeach(_ context.Context, beachID uint) (*database.Beach, error) {
	return f.beaches[beachID], nil
}

func (f *fakeBackend) BeachesByRegion(_ context.Context, regionID uint) ([]database.Beach, error) {
	var beaches []database.Beach
	for _, b := range f.beaches {
		if b.RegionID == regionID {
			beaches = append(beaches, *b)
		}
	}
	return beaches, nil
}

func (f *fakeBackend) GetForecast(_ context.Context, regionID uint, date time.Time) (*database.Forecast, error) {
	return f.forecasts[forecastKey(regionID, date)], nil
}

func (f *fakeBackend) GetBeachScore(_ context.Context, beachID uint, date time.Time) (*database.BeachScore, error) {
	f.scoreReads++
	return f.scores[scoreKey(beachID, date)], nil
}

func (f *fakeBackend) CreateBeachScore(_ context.Context, score *database.BeachScore) error {
	if f.raceWinner != nil {
		winner := f.raceWinner
		f.raceWinner = nil
		f.scores[scoreKey(winner.BeachID, winner.Date)] = winner
		return gorm.ErrDuplicatedKey
	}
	key := scoreKey(score.BeachID, score.Date)
	if _, exists := f.scores[key]; exists {
		return gorm.ErrDuplicatedKey
	}
	f.scoreWrites++
	copied := *score
	f.scores[key] = &copied
	return nil
}

func (f *fakeBackend) BeachScoresByRegion(_ context.Context, regionID uint, date time.Time) ([]database.BeachScore, error) {
	var scores []database.BeachScore
	for _, b := range f.beaches {
		if b.RegionID != regionID {
			continue
		}
		if s, ok := f.scores[scoreKey(b.ID, date)]; ok {
			scores = append(scores, *s)
		}
	}
	return scores, nil
}

var testDay = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

func seedBeachWithForecast(f *fakeBackend, beachID, regionID uint) {
	f.beaches[beachID] = &database.Beach{
		ID:         beachID,
		Name:       fmt.Sprintf("beach-%d", beachID),
		RegionID:   regionID,
		Difficulty: string(DifficultyIntermediate),
	}
	f.forecasts[forecastKey(regionID, testDay)] = &database.Forecast{
		RegionID:       regionID,
		Date:           testDay,
		WindSpeed:      4,
		WindDirection:  45,
		SwellHeight:    1.8,
		SwellPeriod:    12,
		SwellDirection: 230,
	}
}

func newTestStore(f *fakeBackend) *Store {
	return NewStore(f, cache.NewMemory(), nil, zap.NewNop().Sugar())
}

func TestGetOrComputeIdempotent(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	seedBeachWithForecast(backend, 1, 1)
	store := NewStore(backend, nil, nil, zap.NewNop().Sugar())

	first, err := store.GetOrCompute(ctx, 1, testDay)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := store.GetOrCompute(ctx, 1, testDay)
	require.NoError(t, err)
	require.NotNil(t, second)

	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Stars, second.Stars)
	assert.Equal(t, 1, backend.scoreWrites, "repeated calls must write at most one record")
	assert.Equal(t, StarsForScore(first.Score), first.Stars)
}

func TestGetOrComputeDuplicateInsertRereads(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	seedBeachWithForecast(backend, 1, 1)
	store := NewStore(backend, nil, nil, zap.NewNop().Sugar())

	// A concurrent caller wins the insert race between our read and our
	// write; the conflict must resolve to their record.
	backend.raceWinner = &database.BeachScore{BeachID: 1, Date: testDay, Score: 7.5, Stars: 3}

	score, err := store.GetOrCompute(ctx, 1, testDay)
	require.NoError(t, err)
	require.NotNil(t, score)
	assert.Equal(t, 7.5, score.Score)
}

func TestGetOrComputeNoForecast(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	backend.beaches[1] = &database.Beach{ID: 1, RegionID: 1}
	store := newTestStore(backend)

	score, err := store.GetOrCompute(ctx, 1, testDay)
	require.NoError(t, err)
	assert.Nil(t, score, "missing forecast is no-data, not an error")
}

func TestGetOrComputeUnknownBeach(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(newFakeBackend())

	score, err := store.GetOrCompute(ctx, 99, testDay)
	require.NoError(t, err)
	assert.Nil(t, score)
}

func TestGetOrComputeServesFromCache(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	seedBeachWithForecast(backend, 1, 1)
	store := newTestStore(backend)

	_, err := store.GetOrCompute(ctx, 1, testDay)
	require.NoError(t, err)
	readsAfterCompute := backend.scoreReads

	cached, err := store.GetOrCompute(ctx, 1, testDay)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, readsAfterCompute, backend.scoreReads,
		"second read should be served by the cache, not the backend")
}

func TestRegionCounts(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	backend.regions = []database.Region{{ID: 1, Name: "north"}}

	// Ten beaches, three with stored ratings of four stars or better.
	for i := uint(1); i <= 10; i++ {
		backend.beaches[i] = &database.Beach{ID: i, RegionID: 1}
		stars := 2
		if i <= 3 {
			stars = 4
		}
		backend.scores[scoreKey(i, testDay)] = &database.BeachScore{
			BeachID: i,
			Date:    testDay,
			Score:   float64(stars * 2),
			Stars:   stars,
		}
	}
	store := newTestStore(backend)

	counts, err := store.RegionCounts(ctx, testDay, 4)
	require.NoError(t, err)
	assert.Equal(t, map[uint]int64{1: 3}, counts)
}

func TestRegionCountsComputesOnDemand(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	backend.regions = []database.Region{{ID: 1, Name: "north"}}
	seedBeachWithForecast(backend, 1, 1)
	seedBeachWithForecast(backend, 2, 1)
	store := newTestStore(backend)

	counts, err := store.RegionCounts(ctx, testDay, 1)
	require.NoError(t, err)
	assert.Equal(t, map[uint]int64{1: 2}, counts)
	assert.Equal(t, 2, backend.scoreWrites, "counts must trigger computation when no scores exist")
}

func TestRegionCountsNoForecastCollapsesToZero(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	backend.regions = []database.Region{{ID: 7, Name: "empty"}}
	backend.beaches[1] = &database.Beach{ID: 1, RegionID: 7}
	store := newTestStore(backend)

	counts, err := store.RegionCounts(ctx, testDay, 4)
	require.NoError(t, err)
	assert.Equal(t, map[uint]int64{7: 0}, counts)
}

func TestBestStars(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	backend.beaches[1] = &database.Beach{ID: 1, RegionID: 1}
	backend.beaches[2] = &database.Beach{ID: 2, RegionID: 1}
	backend.scores[scoreKey(1, testDay)] = &database.BeachScore{BeachID: 1, Date: testDay, Score: 4, Stars: 2}
	backend.scores[scoreKey(2, testDay)] = &database.BeachScore{BeachID: 2, Date: testDay, Score: 8.4, Stars: 4}
	store := newTestStore(backend)

	best, err := store.BestStars(ctx, 1, testDay)
	require.NoError(t, err)
	assert.Equal(t, 4, best)
}

func TestRegionStats(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	backend.beaches[1] = &database.Beach{ID: 1, RegionID: 1}
	backend.beaches[2] = &database.Beach{ID: 2, RegionID: 1}
	backend.scores[scoreKey(1, testDay)] = &database.BeachScore{BeachID: 1, Date: testDay, Score: 4, Stars: 2}
	backend.scores[scoreKey(2, testDay)] = &database.BeachScore{BeachID: 2, Date: testDay, Score: 8, Stars: 4}
	store := newTestStore(backend)

	stats, err := store.RegionStats(ctx, 1, testDay)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Beaches)
	assert.InDelta(t, 6.0, stats.Mean, 1e-9)
	assert.InDelta(t, 4.0, stats.Min, 1e-9)
	assert.InDelta(t, 8.0, stats.Max, 1e-9)
	assert.Equal(t, 4, stats.BestStars)
}

func TestRegionStatsEmpty(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	backend.regions = []database.Region{{ID: 1}}
	store := newTestStore(backend)

	stats, err := store.RegionStats(ctx, 1, testDay)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Beaches)
	assert.Equal(t, 0.0, stats.Mean)
}
