package alerting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/crestwatch/surfcast/internal/database"
	"github.com/crestwatch/surfcast/internal/metrics"
	"github.com/crestwatch/surfcast/internal/notify"
)

// Bound on each alert's store and dispatch work so one stuck dependency
// cannot hang a whole cycle.
const perAlertTimeout = 30 * time.Second

// Store is the persistence surface the orchestrator needs. It is
// implemented by database.Client.
type Store interface {
	ActiveAlerts(ctx context.Context, userID string) ([]database.Alert, error)
	GetForecast(ctx context.Context, regionID uint, date time.Time) (*database.Forecast, error)
	CreateAlertCheck(ctx context.Context, check *database.AlertCheck) error
	NotificationExists(ctx context.Context, alertID string, date time.Time) (bool, error)
	CreateNotification(ctx context.Context, n *database.Notification) error
	DeactivateAlert(ctx context.Context, alertID string) error
}

// Rater supplies the best star rating for a region on a day; it is
// implemented by scoring.Store.
type Rater interface {
	BestStars(ctx context.Context, regionID uint, date time.Time) (int, error)
}

// Counters aggregates one processing cycle. Per-alert failures are
// counted here instead of failing the batch.
type Counters struct {
	AlertsChecked     int `json:"alerts_checked"`
	NotificationsSent int `json:"notifications_sent"`
	Errors            int `json:"errors"`
	Expired           int `json:"expired"`
}

// Orchestrator runs alert processing cycles: evaluate each active alert,
// record a check, notify at most once per alert per day, and expire
// alerts whose target date has passed. Alerts are processed sequentially
// so one shared data store sees bounded load and one alert's failure
// cannot corrupt another's writes.
type Orchestrator struct {
	store    Store
	rater    Rater
	notifier notify.Notifier
	clock    clockwork.Clock
	metrics  *metrics.Metrics
	logger   *zap.SugaredLogger
}

// NewOrchestrator creates an orchestrator. m may be nil.
func NewOrchestrator(store Store, rater Rater, notifier notify.Notifier, clock clockwork.Clock, m *metrics.Metrics, logger *zap.SugaredLogger) *Orchestrator {
	return &Orchestrator{
		store:    store,
		rater:    rater,
		notifier: notifier,
		clock:    clock,
		metrics:  m,
		logger:   logger,
	}
}

// RunCycle processes the active alerts of one user, or of every user
// when userID is empty. asOf fixes "today" for the cycle; the zero value
// means now. The returned counters are valid even when err is non-nil.
func (o *Orchestrator) RunCycle(ctx context.Context, userID string, asOf time.Time) (Counters, error) {
	if asOf.IsZero() {
		asOf = o.clock.Now()
	}
	today := database.DateOf(asOf)
	started := o.clock.Now()

	var counters Counters

	alerts, err := o.store.ActiveAlerts(ctx, userID)
	if err != nil {
		return counters, fmt.Errorf("failed to load active alerts: %w", err)
	}

	for _, alert := range alerts {
		if ctx.Err() != nil {
			return counters, ctx.Err()
		}
		o.processAlert(ctx, alert, today, &counters)
	}

	o.expireAlerts(ctx, alerts, today, &counters)

	if o.metrics != nil {
		o.metrics.CycleDuration.Observe(o.clock.Since(started).Seconds())
	}
	o.logger.Infow("alert cycle complete",
		"user_id", userID,
		"date", database.DateString(today),
		"checked", counters.AlertsChecked,
		"sent", counters.NotificationsSent,
		"errors", counters.Errors,
		"expired", counters.Expired,
	)
	return counters, nil
}

// processAlert walks one alert through evaluation, audit, and (on match)
// at-most-once notification. Failures increment the error counter and
// leave the rest of the batch untouched.
func (o *Orchestrator) processAlert(ctx context.Context, alert database.Alert, today time.Time, counters *Counters) {
	ctx, cancel := context.WithTimeout(ctx, perAlertTimeout)
	defer cancel()

	target := today
	if alert.ForecastDate != nil {
		target = database.DateOf(*alert.ForecastDate)
	}

	fc, err := o.store.GetForecast(ctx, alert.RegionID, target)
	if err != nil {
		o.countError(counters, "forecast load failed", alert.ID, err)
		return
	}

	bestStars := 0
	if alert.AlertType == database.AlertTypeRating && fc != nil {
		bestStars, err = o.rater.BestStars(ctx, alert.RegionID, target)
		if err != nil {
			o.countError(counters, "rating lookup failed", alert.ID, err)
			return
		}
	}

	outcome := Evaluate(alert, fc, bestStars)
	counters.AlertsChecked++
	if o.metrics != nil {
		o.metrics.AlertsChecked.Inc()
	}

	check := &database.AlertCheck{
		AlertID:   alert.ID,
		CheckedAt: o.clock.Now().UTC(),
		Success:   outcome.Matched,
		Details:   outcome.Details,
	}
	if err := o.store.CreateAlertCheck(ctx, check); err != nil {
		o.countError(counters, "check record failed", alert.ID, err)
		return
	}

	if !outcome.Matched {
		return
	}
	o.sendNotification(ctx, alert, outcome, target, counters)
}

// sendNotification creates the notification record and dispatches it.
// Record creation enforces at-most-once per day; a delivery failure is
// counted but never rolls the record back.
func (o *Orchestrator) sendNotification(ctx context.Context, alert database.Alert, outcome Outcome, target time.Time, counters *Counters) {
	exists, err := o.store.NotificationExists(ctx, alert.ID, target)
	if err != nil {
		o.countError(counters, "notification lookup failed", alert.ID, err)
		return
	}
	if exists {
		return
	}

	message := fmt.Sprintf("Surf conditions matched your alert for %s: %s",
		database.DateString(target), outcome.Details)
	record := &database.Notification{
		ID:      uuid.NewString(),
		UserID:  alert.UserID,
		AlertID: alert.ID,
		Date:    target,
		Message: message,
	}
	if err := o.store.CreateNotification(ctx, record); err != nil {
		if database.IsUniqueViolation(err) {
			// A concurrent cycle already notified today.
			return
		}
		o.countError(counters, "notification record failed", alert.ID, err)
		return
	}

	counters.NotificationsSent++
	if o.metrics != nil {
		o.metrics.NotificationsSent.Inc()
	}

	err = o.notifier.Notify(ctx, notify.Message{
		UserID:      alert.UserID,
		AlertID:     alert.ID,
		Method:      alert.NotificationMethod,
		ContactInfo: alert.ContactInfo,
		Subject:     "Surf alert for " + database.DateString(target),
		Body:        message,
	})
	if err != nil {
		// The notification record stands; at-most-once wins over
		// guaranteed delivery.
		o.countError(counters, "notification dispatch failed", alert.ID, err)
	}
}

// expireAlerts deactivates alerts whose target date is strictly in the
// past, regardless of this cycle's match outcomes
func (o *Orchestrator) expireAlerts(ctx context.Context, alerts []database.Alert, today time.Time, counters *Counters) {
	for _, alert := range alerts {
		if alert.ForecastDate == nil || !database.DateOf(*alert.ForecastDate).Before(today) {
			continue
		}
		if err := o.store.DeactivateAlert(ctx, alert.ID); err != nil {
			o.countError(counters, "expiration failed", alert.ID, err)
			continue
		}
		counters.Expired++
		if o.metrics != nil {
			o.metrics.AlertsExpired.Inc()
		}
	}
}

func (o *Orchestrator) countError(counters *Counters, msg, alertID string, err error) {
	counters.Errors++
	if o.metrics != nil {
		o.metrics.AlertErrors.Inc()
	}
	o.logger.Warnw(msg, "alert_id", alertID, "error", err)
}
