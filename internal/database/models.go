package database

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// DateOf truncates a timestamp to its UTC calendar day. All forecast,
// score, and notification records are keyed by this midnight-aligned date.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateString renders a calendar day in the wire format used by the REST API.
func DateString(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ParseDate parses a YYYY-MM-DD calendar day.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.UTC)
}

// Region represents a surf region containing one or more beaches
type Region struct {
	ID       uint   `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name     string `gorm:"column:name;not null;unique" json:"name"`
	Timezone string `gorm:"column:timezone" json:"timezone,omitempty"`
}

// TableName specifies the table name for Region
func (Region) TableName() string {
	return "regions"
}

// Beach represents a beach and its optimal-condition profile. The profile
// fields are reference data, read by the scorer and never mutated here.
type Beach struct {
	ID       uint   `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name     string `gorm:"column:name;not null" json:"name"`
	RegionID uint   `gorm:"column:region_id;not null;index" json:"region_id"`

	Difficulty  string `gorm:"column:difficulty" json:"difficulty,omitempty"`
	WaveType    string `gorm:"column:wave_type" json:"wave_type,omitempty"`
	OptimalTide string `gorm:"column:optimal_tide" json:"optimal_tide,omitempty"`

	// Optimal swell arc in degrees, wrap-aware (min may exceed max when the
	// arc crosses north). Nil means no swell-direction preference.
	SwellDirMin *float64 `gorm:"column:swell_dir_min" json:"swell_dir_min,omitempty"`
	SwellDirMax *float64 `gorm:"column:swell_dir_max" json:"swell_dir_max,omitempty"`

	// Optimal wind bearings in degrees; empty means no preference.
	OptimalWindDirs pq.Float64Array `gorm:"column:optimal_wind_dirs;type:float8[]" json:"optimal_wind_dirs,omitempty"`

	// Optional overrides of the difficulty-derived swell height band.
	MinSwellHeight *float64 `gorm:"column:min_swell_height" json:"min_swell_height,omitempty"`
	MaxSwellHeight *float64 `gorm:"column:max_swell_height" json:"max_swell_height,omitempty"`
}

// TableName specifies the table name for Beach
func (Beach) TableName() string {
	return "beaches"
}

// Forecast is the daily per-region snapshot of wind and swell conditions.
// Rows are written by the external ingestion process; this service only
// reads them.
type Forecast struct {
	ID       uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	RegionID uint      `gorm:"column:region_id;not null;uniqueIndex:idx_forecasts_region_date" json:"region_id"`
	Date     time.Time `gorm:"column:date;type:date;not null;uniqueIndex:idx_forecasts_region_date" json:"date"`

	WindSpeed      float64 `gorm:"column:wind_speed" json:"wind_speed"`           // m/s
	WindDirection  float64 `gorm:"column:wind_direction" json:"wind_direction"`   // degrees
	SwellHeight    float64 `gorm:"column:swell_height" json:"swell_height"`       // meters
	SwellPeriod    float64 `gorm:"column:swell_period" json:"swell_period"`       // seconds
	SwellDirection float64 `gorm:"column:swell_direction" json:"swell_direction"` // degrees

	CreatedAt time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName specifies the table name for Forecast
func (Forecast) TableName() string {
	return "forecasts"
}

// BeachScore is the derived daily suitability record for one beach.
// Stars is always a deterministic function of Score; the snapshot fields
// record the forecast values the score was computed from.
type BeachScore struct {
	ID      uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	BeachID uint      `gorm:"column:beach_id;not null;uniqueIndex:idx_beach_scores_beach_date" json:"beach_id"`
	Date    time.Time `gorm:"column:date;type:date;not null;uniqueIndex:idx_beach_scores_beach_date" json:"date"`

	Score float64 `gorm:"column:score;not null" json:"score"` // 0-10 scale
	Stars int     `gorm:"column:stars;not null" json:"stars"` // 0-5

	WindSpeed      float64 `gorm:"column:wind_speed" json:"wind_speed"`
	WindDirection  float64 `gorm:"column:wind_direction" json:"wind_direction"`
	SwellHeight    float64 `gorm:"column:swell_height" json:"swell_height"`
	SwellPeriod    float64 `gorm:"column:swell_period" json:"swell_period"`
	SwellDirection float64 `gorm:"column:swell_direction" json:"swell_direction"`

	ComputedAt time.Time `gorm:"column:computed_at;default:CURRENT_TIMESTAMP" json:"computed_at"`
}

// TableName specifies the table name for BeachScore
func (BeachScore) TableName() string {
	return "beach_scores"
}

// Alert type and notification method values accepted at the creation
// boundary. The evaluator assumes alerts are well-formed.
const (
	AlertTypeVariables = "variables"
	AlertTypeRating    = "rating"

	StarRating4Plus = "4+"
	StarRating5     = "5"

	NotifyEmail    = "email"
	NotifyWhatsApp = "whatsapp"
	NotifyApp      = "app"
)

// AlertProperty is one {property, minimum} condition of a variables alert
type AlertProperty struct {
	Property string  `json:"property"`
	Value    float64 `json:"value"`
}

// AlertProperties is the JSONB-backed list of conditions on an alert
type AlertProperties []AlertProperty

// Value implements driver.Valuer for JSONB storage
func (p AlertProperties) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for JSONB storage
func (p *AlertProperties) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*p = nil
		return nil
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("cannot scan %T into AlertProperties", src)
	}
}

// Alert is a user-owned notification rule bound to a region and an
// optional target date. Exactly one of Properties/StarRating is populated,
// matching AlertType.
type Alert struct {
	ID       string `gorm:"primaryKey;column:id;type:uuid" json:"id"`
	UserID   string `gorm:"column:user_id;not null;index" json:"user_id"`
	RegionID uint   `gorm:"column:region_id;not null" json:"region_id"`

	// Nil means "evaluate against the day of the processing cycle".
	ForecastDate *time.Time `gorm:"column:forecast_date;type:date" json:"forecast_date,omitempty"`

	AlertType  string          `gorm:"column:alert_type;not null" json:"alert_type"`
	Properties AlertProperties `gorm:"column:properties;type:jsonb" json:"properties,omitempty"`
	StarRating string          `gorm:"column:star_rating" json:"star_rating,omitempty"`

	NotificationMethod string `gorm:"column:notification_method;not null" json:"notification_method"`
	ContactInfo        string `gorm:"column:contact_info" json:"contact_info,omitempty"`
	Active             bool   `gorm:"column:active;default:true" json:"active"`

	CreatedAt time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName specifies the table name for Alert
func (Alert) TableName() string {
	return "alerts"
}

// AlertCheck is the append-only audit record of one evaluation attempt
type AlertCheck struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	AlertID   string    `gorm:"column:alert_id;type:uuid;not null;index" json:"alert_id"`
	CheckedAt time.Time `gorm:"column:checked_at;not null" json:"checked_at"`
	Success   bool      `gorm:"column:success;not null" json:"success"`
	Details   string    `gorm:"column:details" json:"details"`
}

// TableName specifies the table name for AlertCheck
func (AlertCheck) TableName() string {
	return "alert_checks"
}

// Notification is created when an alert check succeeds. The unique
// (alert_id, date) index enforces the at-most-once-per-day guarantee.
type Notification struct {
	ID      string    `gorm:"primaryKey;column:id;type:uuid" json:"id"`
	UserID  string    `gorm:"column:user_id;not null;index" json:"user_id"`
	AlertID string    `gorm:"column:alert_id;type:uuid;not null;uniqueIndex:idx_notifications_alert_date" json:"alert_id"`
	Date    time.Time `gorm:"column:date;type:date;not null;uniqueIndex:idx_notifications_alert_date" json:"date"`

	Message   string    `gorm:"column:message" json:"message"`
	Read      bool      `gorm:"column:read;default:false" json:"read"`
	CreatedAt time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
