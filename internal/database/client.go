package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/crestwatch/surfcast/internal/log"
	"github.com/crestwatch/surfcast/pkg/config"
)

// Client holds the connection to the PostgreSQL database
type Client struct {
	config *config.DatabaseData
	DB     *gorm.DB // Exported so it can be accessed from other packages
	logger *zap.SugaredLogger
}

// NewClient creates a new database client
func NewClient(c *config.DatabaseData, logger *zap.SugaredLogger) *Client {
	return &Client{
		config: c,
		logger: logger,
	}
}

// Connect connects to the PostgreSQL database
func (c *Client) Connect() error {
	var err error

	// Create a logger for gorm
	dbLogger := logger.New(
		zap.NewStdLog(log.GetZapLogger()),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	gormConfig := &gorm.Config{
		Logger: dbLogger,
	}

	log.Info("connecting to PostgreSQL...")
	c.DB, err = gorm.Open(postgres.Open(c.config.ConnectionString), gormConfig)
	if err != nil {
		log.Warn("warning: unable to create a PostgreSQL connection:", err)
		return err
	}
	log.Info("PostgreSQL connection successful")

	return nil
}

// Migrate creates or updates the database schema for all models
func (c *Client) Migrate() error {
	return c.DB.AutoMigrate(
		&Region{},
		&Beach{},
		&Forecast{},
		&BeachScore{},
		&Alert{},
		&AlertCheck{},
		&Notification{},
	)
}

// Close closes the underlying connection pool
func (c *Client) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// IsUniqueViolation reports whether err is a duplicate-key insert conflict.
// Concurrent score and notification writers rely on this to treat a lost
// insert race as "already written, re-read."
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// Regions returns all configured regions
func (c *Client) Regions(ctx context.Context) ([]Region, error) {
	var regions []Region
	if err := c.DB.WithContext(ctx).Order("id").Find(&regions).Error; err != nil {
		return nil, fmt.Errorf("failed to load regions: %w", err)
	}
	return regions, nil
}

// GetBeach returns one beach profile by ID, or nil if it does not exist
func (c *Client) GetBeach(ctx context.Context, beachID uint) (*Beach, error) {
	var beach Beach
	err := c.DB.WithContext(ctx).First(&beach, beachID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load beach %d: %w", beachID, err)
	}
	return &beach, nil
}

// BeachesByRegion returns all beaches in a region
func (c *Client) BeachesByRegion(ctx context.Context, regionID uint) ([]Beach, error) {
	var beaches []Beach
	err := c.DB.WithContext(ctx).Where("region_id = ?", regionID).Order("id").Find(&beaches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load beaches for region %d: %w", regionID, err)
	}
	return beaches, nil
}

// GetForecast returns the forecast for a region and calendar day, or nil
// when no forecast has been ingested yet. Missing data is not an error.
func (c *Client) GetForecast(ctx context.Context, regionID uint, date time.Time) (*Forecast, error) {
	var fc Forecast
	err := c.DB.WithContext(ctx).
		Where("region_id = ? AND date = ?", regionID, DateOf(date)).
		First(&fc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load forecast for region %d on %s: %w",
			regionID, DateString(date), err)
	}
	return &fc, nil
}

// GetBeachScore returns the stored score for a beach and day, or nil if
// none has been computed yet
func (c *Client) GetBeachScore(ctx context.Context, beachID uint, date time.Time) (*BeachScore, error) {
	var score BeachScore
	err := c.DB.WithContext(ctx).
		Where("beach_id = ? AND date = ?", beachID, DateOf(date)).
		First(&score).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load score for beach %d on %s: %w",
			beachID, DateString(date), err)
	}
	return &score, nil
}

// CreateBeachScore inserts a computed score record. Callers must handle
// IsUniqueViolation and re-read on conflict.
func (c *Client) CreateBeachScore(ctx context.Context, score *BeachScore) error {
	score.Date = DateOf(score.Date)
	return c.DB.WithContext(ctx).Create(score).Error
}

// BeachScoresByRegion returns all stored scores for a region on a day
func (c *Client) BeachScoresByRegion(ctx context.Context, regionID uint, date time.Time) ([]BeachScore, error) {
	var scores []BeachScore
	err := c.DB.WithContext(ctx).
		Joins("JOIN beaches ON beaches.id = beach_scores.beach_id").
		Where("beaches.region_id = ? AND beach_scores.date = ?", regionID, DateOf(date)).
		Order("beach_scores.beach_id").
		Find(&scores).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load scores for region %d on %s: %w",
			regionID, DateString(date), err)
	}
	return scores, nil
}

// CreateAlert inserts a new alert
func (c *Client) CreateAlert(ctx context.Context, alert *Alert) error {
	if alert.ForecastDate != nil {
		d := DateOf(*alert.ForecastDate)
		alert.ForecastDate = &d
	}
	return c.DB.WithContext(ctx).Create(alert).Error
}

// AlertsByUser returns all alerts owned by a user, newest first
func (c *Client) AlertsByUser(ctx context.Context, userID string) ([]Alert, error) {
	var alerts []Alert
	err := c.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&alerts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load alerts for user %s: %w", userID, err)
	}
	return alerts, nil
}

// ActiveAlerts returns active alerts, optionally limited to one user.
// An empty userID returns the active alerts of all users.
func (c *Client) ActiveAlerts(ctx context.Context, userID string) ([]Alert, error) {
	q := c.DB.WithContext(ctx).Where("active = ?", true)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var alerts []Alert
	if err := q.Order("created_at").Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("failed to load active alerts: %w", err)
	}
	return alerts, nil
}

// DeactivateAlert sets an alert inactive
func (c *Client) DeactivateAlert(ctx context.Context, alertID string) error {
	return c.DB.WithContext(ctx).
		Model(&Alert{}).
		Where("id = ?", alertID).
		Update("active", false).Error
}

// CreateAlertCheck appends one evaluation audit record
func (c *Client) CreateAlertCheck(ctx context.Context, check *AlertCheck) error {
	return c.DB.WithContext(ctx).Create(check).Error
}

// NotificationExists reports whether a notification was already created
// for this alert on this day
func (c *Client) NotificationExists(ctx context.Context, alertID string, date time.Time) (bool, error) {
	var count int64
	err := c.DB.WithContext(ctx).
		Model(&Notification{}).
		Where("alert_id = ? AND date = ?", alertID, DateOf(date)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check notifications for alert %s: %w", alertID, err)
	}
	return count > 0, nil
}

// CreateNotification inserts a notification record. A unique-violation
// error means another cycle already notified today; callers treat it as
// already-notified rather than a failure.
func (c *Client) CreateNotification(ctx context.Context, n *Notification) error {
	n.Date = DateOf(n.Date)
	return c.DB.WithContext(ctx).Create(n).Error
}
