package restserver

import (
	"github.com/crestwatch/surfcast/internal/database"
	"github.com/crestwatch/surfcast/internal/forecast"
)

// ScoreResponse is a beach score enriched with human-readable forecast
// condition labels
type ScoreResponse struct {
	BeachID uint    `json:"beach_id"`
	Date    string  `json:"date"`
	Score   float64 `json:"score"`
	Stars   int     `json:"stars"`

	WindSpeed      float64 `json:"wind_speed"`
	WindSeverity   string  `json:"wind_severity"`
	WindDirection  float64 `json:"wind_direction"`
	WindCardinal   string  `json:"wind_cardinal"`
	SwellHeight    float64 `json:"swell_height"`
	SwellPeriod    float64 `json:"swell_period"`
	SwellDirection float64 `json:"swell_direction"`
	SwellCardinal  string  `json:"swell_cardinal"`
}

func toScoreResponse(s *database.BeachScore) ScoreResponse {
	return ScoreResponse{
		BeachID:        s.BeachID,
		Date:           database.DateString(s.Date),
		Score:          s.Score,
		Stars:          s.Stars,
		WindSpeed:      s.WindSpeed,
		WindSeverity:   string(forecast.WindSeverity(s.WindSpeed)),
		WindDirection:  s.WindDirection,
		WindCardinal:   forecast.CardinalDirection(s.WindDirection),
		SwellHeight:    s.SwellHeight,
		SwellPeriod:    s.SwellPeriod,
		SwellDirection: s.SwellDirection,
		SwellCardinal:  forecast.CardinalDirection(s.SwellDirection),
	}
}

// RegionScoresResponse holds all beach scores for a region on one day
type RegionScoresResponse struct {
	RegionID uint            `json:"region_id"`
	Date     string          `json:"date"`
	Scores   []ScoreResponse `json:"scores"`
}

// RegionCountsResponse maps region IDs to the number of beaches at or
// above the star threshold
type RegionCountsResponse struct {
	Date     string         `json:"date"`
	MinStars int            `json:"min_stars"`
	Counts   map[uint]int64 `json:"counts"`
}

// CreateAlertRequest is the body accepted by POST /api/v1/alerts
type CreateAlertRequest struct {
	UserID             string                   `json:"user_id"`
	RegionID           uint                     `json:"region_id"`
	ForecastDate       string                   `json:"forecast_date,omitempty"`
	AlertType          string                   `json:"alert_type"`
	Properties         database.AlertProperties `json:"properties,omitempty"`
	StarRating         string                   `json:"star_rating,omitempty"`
	NotificationMethod string                   `json:"notification_method"`
	ContactInfo        string                   `json:"contact_info,omitempty"`
}

// RunCycleRequest is the optional body for POST /api/v1/alerts/run
type RunCycleRequest struct {
	UserID string `json:"user_id,omitempty"`
	Date   string `json:"date,omitempty"`
}
