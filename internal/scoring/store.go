package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/crestwatch/surfcast/internal/cache"
	"github.com/crestwatch/surfcast/internal/database"
	"github.com/crestwatch/surfcast/internal/metrics"
)

// Scores are immutable once written for a day, so the cache TTL only
// bounds memory, not staleness.
const scoreCacheTTL = time.Hour

// Backend is the persistence surface the score store needs. It is
// implemented by database.Client.
type Backend interface {
	Regions(ctx context.Context) ([]database.Region, error)
	GetBeach(ctx context.Context, beachID uint) (*database.Beach, error)
	BeachesByRegion(ctx context.Context, regionID uint) ([]database.Beach, error)
	GetForecast(ctx context.Context, regionID uint, date time.Time) (*database.Forecast, error)
	GetBeachScore(ctx context.Context, beachID uint, date time.Time) (*database.BeachScore, error)
	CreateBeachScore(ctx context.Context, score *database.BeachScore) error
	BeachScoresByRegion(ctx context.Context, regionID uint, date time.Time) ([]database.BeachScore, error)
}

// Store persists and serves daily beach scores with compute-once-per-day
// semantics. Concurrent computations for the same (beach, day) are
// resolved by the unique constraint on beach_scores, not by locking.
type Store struct {
	backend Backend
	cache   cache.Cache
	metrics *metrics.Metrics
	logger  *zap.SugaredLogger
}

// NewStore creates a score store. cache and m may be nil.
func NewStore(backend Backend, c cache.Cache, m *metrics.Metrics, logger *zap.SugaredLogger) *Store {
	return &Store{
		backend: backend,
		cache:   c,
		metrics: m,
		logger:  logger,
	}
}

func scoreCacheKey(beachID uint, date time.Time) string {
	return fmt.Sprintf("score:%d:%s", beachID, database.DateString(date))
}

// GetOrCompute returns the stored score for (beachID, date), computing
// and persisting it first if necessary. It returns (nil, nil) when the
// beach is unknown or no forecast exists for its region on that day;
// missing data is never an error.
func (s *Store) GetOrCompute(ctx context.Context, beachID uint, date time.Time) (*database.BeachScore, error) {
	date = database.DateOf(date)

	if cached := s.cacheGet(ctx, beachID, date); cached != nil {
		return cached, nil
	}

	stored, err := s.backend.GetBeachScore(ctx, beachID, date)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		s.cacheSet(ctx, stored)
		return stored, nil
	}

	beach, err := s.backend.GetBeach(ctx, beachID)
	if err != nil {
		return nil, err
	}
	if beach == nil {
		return nil, nil
	}

	fc, err := s.backend.GetForecast(ctx, beach.RegionID, date)
	if err != nil {
		return nil, err
	}
	if fc == nil {
		// No forecast ingested yet; the next call will compute once one
		// arrives.
		return nil, nil
	}

	result := Score(ProfileFromBeach(beach), ConditionsFromForecast(fc))
	record := &database.BeachScore{
		BeachID:        beachID,
		Date:           date,
		Score:          result.Score,
		Stars:          result.Stars,
		WindSpeed:      fc.WindSpeed,
		WindDirection:  fc.WindDirection,
		SwellHeight:    fc.SwellHeight,
		SwellPeriod:    fc.SwellPeriod,
		SwellDirection: fc.SwellDirection,
		ComputedAt:     time.Now().UTC(),
	}

	if err := s.backend.CreateBeachScore(ctx, record); err != nil {
		if database.IsUniqueViolation(err) {
			// Lost the insert race: another caller computed the same day.
			return s.backend.GetBeachScore(ctx, beachID, date)
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ScoresComputed.Inc()
	}
	s.cacheSet(ctx, record)
	return record, nil
}

// RegionScores returns all scores for a region on a day, computing them
// from the day's forecast on first access. An empty slice means no
// forecast has been ingested for the region yet.
func (s *Store) RegionScores(ctx context.Context, regionID uint, date time.Time) ([]database.BeachScore, error) {
	date = database.DateOf(date)

	scores, err := s.backend.BeachScoresByRegion(ctx, regionID, date)
	if err != nil {
		return nil, err
	}
	if len(scores) > 0 {
		return scores, nil
	}

	beaches, err := s.backend.BeachesByRegion(ctx, regionID)
	if err != nil {
		return nil, err
	}
	computed := make([]database.BeachScore, 0, len(beaches))
	for _, beach := range beaches {
		score, err := s.GetOrCompute(ctx, beach.ID, date)
		if err != nil {
			return nil, err
		}
		if score != nil {
			computed = append(computed, *score)
		}
	}
	return computed, nil
}

// RegionCounts returns, per region, how many beaches meet or exceed
// minStars on the given day. Regions with no forecast yet report zero;
// callers cannot distinguish "no qualifying beaches" from "no data",
// which is a documented limitation of this adapter.
func (s *Store) RegionCounts(ctx context.Context, date time.Time, minStars int) (map[uint]int64, error) {
	regions, err := s.backend.Regions(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(regions))
	for _, region := range regions {
		scores, err := s.RegionScores(ctx, region.ID, date)
		if err != nil {
			return nil, err
		}
		var n int64
		for _, score := range scores {
			if score.Stars >= minStars {
				n++
			}
		}
		counts[region.ID] = n
	}
	return counts, nil
}

// BestStars returns the highest star rating among a region's beaches on
// a day, or 0 when no scores exist
func (s *Store) BestStars(ctx context.Context, regionID uint, date time.Time) (int, error) {
	scores, err := s.RegionScores(ctx, regionID, date)
	if err != nil {
		return 0, err
	}
	best := 0
	for _, score := range scores {
		if score.Stars > best {
			best = score.Stars
		}
	}
	return best, nil
}

func (s *Store) cacheGet(ctx context.Context, beachID uint, date time.Time) *database.BeachScore {
	if s.cache == nil {
		return nil
	}
	raw, ok, err := s.cache.Get(ctx, scoreCacheKey(beachID, date))
	if err != nil {
		s.logger.Warnf("score cache read failed for beach %d: %v", beachID, err)
		return nil
	}
	if !ok {
		if s.metrics != nil {
			s.metrics.ScoreCache.WithLabelValues("miss").Inc()
		}
		return nil
	}
	var score database.BeachScore
	if err := msgpack.Unmarshal(raw, &score); err != nil {
		s.logger.Warnf("score cache entry for beach %d is corrupt: %v", beachID, err)
		return nil
	}
	if s.metrics != nil {
		s.metrics.ScoreCache.WithLabelValues("hit").Inc()
	}
	return &score
}

func (s *Store) cacheSet(ctx context.Context, score *database.BeachScore) {
	if s.cache == nil {
		return
	}
	raw, err := msgpack.Marshal(score)
	if err != nil {
		s.logger.Warnf("failed to encode score for cache: %v", err)
		return
	}
	if err := s.cache.Set(ctx, scoreCacheKey(score.BeachID, score.Date), raw, scoreCacheTTL); err != nil {
		s.logger.Warnf("score cache write failed for beach %d: %v", score.BeachID, err)
	}
}
