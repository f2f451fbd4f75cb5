package alerting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crestwatch/surfcast/internal/database"
)

func variablesAlert(props ...database.AlertProperty) database.Alert {
	return database.Alert{
		ID:         "a1",
		UserID:     "u1",
		RegionID:   1,
		AlertType:  database.AlertTypeVariables,
		Properties: props,
	}
}

func ratingAlert(rating string) database.Alert {
	return database.Alert{
		ID:         "a2",
		UserID:     "u1",
		RegionID:   1,
		AlertType:  database.AlertTypeRating,
		StarRating: rating,
	}
}

func TestEvaluateVariablesAllConditionsMet(t *testing.T) {
	alert := variablesAlert(
		database.AlertProperty{Property: "windSpeed", Value: 10},
		database.AlertProperty{Property: "swellHeight", Value: 1.5},
	)
	fc := &database.Forecast{WindSpeed: 12, SwellHeight: 1.8}

	out := Evaluate(alert, fc, 0)
	assert.True(t, out.Matched)
	assert.Contains(t, out.Details, "all conditions met")
	assert.Contains(t, out.Details, "windSpeed 12.0 >= 10.0")
	assert.Contains(t, out.Details, "swellHeight 1.8 >= 1.5")
}

func TestEvaluateVariablesOneConditionFails(t *testing.T) {
	alert := variablesAlert(
		database.AlertProperty{Property: "windSpeed", Value: 10},
		database.AlertProperty{Property: "swellHeight", Value: 1.5},
	)
	fc := &database.Forecast{WindSpeed: 8, SwellHeight: 1.8}

	out := Evaluate(alert, fc, 0)
	assert.False(t, out.Matched)
	assert.Contains(t, out.Details, "windSpeed 8.0 < 10.0",
		"details must name the failing condition")
	assert.NotContains(t, out.Details, "swellHeight 1.8 <")
}

func TestEvaluateVariablesThresholdIsInclusive(t *testing.T) {
	alert := variablesAlert(database.AlertProperty{Property: "swellPeriod", Value: 12})
	fc := &database.Forecast{SwellPeriod: 12}

	out := Evaluate(alert, fc, 0)
	assert.True(t, out.Matched)
}

func TestEvaluateVariablesUnknownPropertyFailsPair(t *testing.T) {
	alert := variablesAlert(database.AlertProperty{Property: "waterTemp", Value: 18})
	fc := &database.Forecast{WindSpeed: 12}

	out := Evaluate(alert, fc, 0)
	assert.False(t, out.Matched)
	assert.Contains(t, out.Details, "waterTemp")
}

func TestEvaluateRating(t *testing.T) {
	tests := []struct {
		rating    string
		bestStars int
		want      bool
	}{
		{"4+", 4, true},
		{"4+", 5, true},
		{"4+", 3, false},
		{"5", 5, true},
		{"5", 4, false},
	}
	for _, tt := range tests {
		out := Evaluate(ratingAlert(tt.rating), &database.Forecast{}, tt.bestStars)
		assert.Equal(t, tt.want, out.Matched, "rating %s with best %d", tt.rating, tt.bestStars)
	}
}

func TestEvaluateNilForecast(t *testing.T) {
	out := Evaluate(variablesAlert(database.AlertProperty{Property: "windSpeed", Value: 1}), nil, 0)
	assert.False(t, out.Matched)
	assert.Contains(t, out.Details, "no forecast available")

	out = Evaluate(ratingAlert("4+"), nil, 5)
	assert.False(t, out.Matched)
	assert.Contains(t, out.Details, "no forecast available")
}

func TestValidateAlert(t *testing.T) {
	valid := variablesAlert(database.AlertProperty{Property: "windSpeed", Value: 10})
	valid.NotificationMethod = database.NotifyEmail
	assert.NoError(t, ValidateAlert(&valid))

	tests := []struct {
		name   string
		mutate func(*database.Alert)
	}{
		{"missing user", func(a *database.Alert) { a.UserID = "" }},
		{"missing region", func(a *database.Alert) { a.RegionID = 0 }},
		{"bad method", func(a *database.Alert) { a.NotificationMethod = "fax" }},
		{"bad type", func(a *database.Alert) { a.AlertType = "psychic" }},
		{"variables without properties", func(a *database.Alert) { a.Properties = nil }},
		{"variables with rating", func(a *database.Alert) { a.StarRating = "4+" }},
		{"unknown property", func(a *database.Alert) {
			a.Properties = database.AlertProperties{{Property: "moonPhase", Value: 1}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := valid
			a.Properties = append(database.AlertProperties{}, valid.Properties...)
			tt.mutate(&a)
			assert.Error(t, ValidateAlert(&a))
		})
	}

	rating := ratingAlert("4+")
	rating.NotificationMethod = database.NotifyApp
	assert.NoError(t, ValidateAlert(&rating))

	rating.StarRating = "3+"
	assert.Error(t, ValidateAlert(&rating))

	rating.StarRating = "5"
	rating.Properties = database.AlertProperties{{Property: "windSpeed", Value: 1}}
	assert.Error(t, ValidateAlert(&rating))
}
