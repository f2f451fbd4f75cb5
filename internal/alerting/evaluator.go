// Package alerting evaluates user alert rules against forecasts and runs
// the daily processing cycle that records checks and sends notifications.
package alerting

import (
	"fmt"
	"strings"

	"github.com/crestwatch/surfcast/internal/database"
)

// ForecastProperty names one numeric forecast field usable in a
// variables alert. The set is closed: evaluation never looks up fields
// dynamically, so an unknown property can only come from unvalidated
// storage and simply fails its condition.
type ForecastProperty string

const (
	PropertyWindSpeed      ForecastProperty = "windSpeed"
	PropertyWindDirection  ForecastProperty = "windDirection"
	PropertySwellHeight    ForecastProperty = "swellHeight"
	PropertySwellPeriod    ForecastProperty = "swellPeriod"
	PropertySwellDirection ForecastProperty = "swellDirection"
)

// Value returns the forecast field this property refers to. ok is false
// for properties outside the closed set.
func (p ForecastProperty) Value(fc *database.Forecast) (value float64, ok bool) {
	switch p {
	case PropertyWindSpeed:
		return fc.WindSpeed, true
	case PropertyWindDirection:
		return fc.WindDirection, true
	case PropertySwellHeight:
		return fc.SwellHeight, true
	case PropertySwellPeriod:
		return fc.SwellPeriod, true
	case PropertySwellDirection:
		return fc.SwellDirection, true
	default:
		return 0, false
	}
}

// KnownProperty reports whether name is in the closed property set
func KnownProperty(name string) bool {
	_, ok := ForecastProperty(name).Value(&database.Forecast{})
	return ok
}

// Outcome is the result of evaluating one alert: whether it matched and
// a human-readable explanation suitable for the audit trail.
type Outcome struct {
	Matched bool
	Details string
}

// Evaluate checks one well-formed alert against the forecast for its
// target day. bestStars is the best star rating among the alert's
// region's beaches that day; it is only consulted for rating alerts.
// A nil forecast yields Matched=false with details naming the missing
// data. Evaluate is pure and never fails.
func Evaluate(alert database.Alert, fc *database.Forecast, bestStars int) Outcome {
	if fc == nil {
		return Outcome{
			Matched: false,
			Details: fmt.Sprintf("no forecast available for region %d", alert.RegionID),
		}
	}

	switch alert.AlertType {
	case database.AlertTypeRating:
		return evaluateRating(alert, bestStars)
	default:
		return evaluateVariables(alert, fc)
	}
}

// evaluateVariables requires every {property >= threshold} pair to hold
func evaluateVariables(alert database.Alert, fc *database.Forecast) Outcome {
	var passed, failed []string

	for _, prop := range alert.Properties {
		value, ok := ForecastProperty(prop.Property).Value(fc)
		if !ok {
			failed = append(failed, fmt.Sprintf("%s is not a forecast property", prop.Property))
			continue
		}
		if value >= prop.Value {
			passed = append(passed, fmt.Sprintf("%s %.1f >= %.1f", prop.Property, value, prop.Value))
		} else {
			failed = append(failed, fmt.Sprintf("%s %.1f < %.1f", prop.Property, value, prop.Value))
		}
	}

	if len(failed) > 0 {
		return Outcome{
			Matched: false,
			Details: "conditions not met: " + strings.Join(failed, "; "),
		}
	}
	return Outcome{
		Matched: true,
		Details: "all conditions met: " + strings.Join(passed, "; "),
	}
}

// evaluateRating compares the region's best star rating of the day with
// the alert's floor
func evaluateRating(alert database.Alert, bestStars int) Outcome {
	floor := ratingFloor(alert.StarRating)
	if bestStars >= floor {
		return Outcome{
			Matched: true,
			Details: fmt.Sprintf("best rating %d stars meets the %s threshold", bestStars, alert.StarRating),
		}
	}
	return Outcome{
		Matched: false,
		Details: fmt.Sprintf("best rating %d stars is below the %s threshold", bestStars, alert.StarRating),
	}
}

// ratingFloor maps the rating enum to its numeric floor
func ratingFloor(rating string) int {
	if rating == database.StarRating5 {
		return 5
	}
	return 4
}
