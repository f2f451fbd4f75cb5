package scoring

import (
	"context"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// RegionStats summarizes a region's scores for one day
type RegionStats struct {
	Beaches   int     `json:"beaches"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"std_dev"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	BestStars int     `json:"best_stars"`
}

// RegionStats computes summary statistics over a region's scores on a
// day. A region with no scores yields the zero value.
func (s *Store) RegionStats(ctx context.Context, regionID uint, date time.Time) (*RegionStats, error) {
	scores, err := s.RegionScores(ctx, regionID, date)
	if err != nil {
		return nil, err
	}
	stats := &RegionStats{Beaches: len(scores)}
	if len(scores) == 0 {
		return stats, nil
	}

	values := make([]float64, len(scores))
	for i, score := range scores {
		values[i] = score.Score
		if score.Stars > stats.BestStars {
			stats.BestStars = score.Stars
		}
	}

	stats.Mean = stat.Mean(values, nil)
	if len(values) > 1 {
		stats.StdDev = stat.StdDev(values, nil)
	}
	stats.Min = floats.Min(values)
	stats.Max = floats.Max(values)
	return stats, nil
}
