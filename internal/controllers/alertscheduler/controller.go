// Package alertscheduler runs alert processing cycles on a fixed
// interval.
package alertscheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/crestwatch/surfcast/internal/alerting"
	"github.com/crestwatch/surfcast/internal/log"
	"github.com/crestwatch/surfcast/pkg/config"
)

const defaultInterval = time.Hour

// CycleRunner triggers alert processing; implemented by
// alerting.Orchestrator
type CycleRunner interface {
	RunCycle(ctx context.Context, userID string, asOf time.Time) (alerting.Counters, error)
}

// Controller represents the alert scheduler controller
type Controller struct {
	ctx      context.Context
	wg       *sync.WaitGroup
	config   config.SchedulerData
	runner   CycleRunner
	logger   *zap.SugaredLogger
	interval time.Duration
}

// NewController creates a new alert scheduler controller
func NewController(ctx context.Context, wg *sync.WaitGroup, sc config.SchedulerData,
	runner CycleRunner, logger *zap.SugaredLogger) (*Controller, error) {

	interval := sc.Interval
	if interval <= 0 {
		interval = defaultInterval
	}

	return &Controller{
		ctx:      ctx,
		wg:       wg,
		config:   sc,
		runner:   runner,
		logger:   logger,
		interval: interval,
	}, nil
}

// StartController starts the periodic alert processing loop
func (c *Controller) StartController() error {
	log.Info("Starting alert scheduler controller...")
	go c.runCycles()
	return nil
}

func (c *Controller) runCycles() {
	c.wg.Add(1)
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	// Run one cycle at startup so a restart does not delay
	// notifications by a full interval.
	c.runOnce()

	for {
		select {
		case <-ticker.C:
			c.runOnce()
		case <-c.ctx.Done():
			log.Info("Shutting down the alert scheduler...")
			return
		}
	}
}

func (c *Controller) runOnce() {
	log.Debug("Running scheduled alert cycle...")
	counters, err := c.runner.RunCycle(c.ctx, "", time.Time{})
	if err != nil {
		c.logger.Errorf("scheduled alert cycle failed: %v", err)
		return
	}
	c.logger.Infof("alert cycle complete: checked=%d sent=%d errors=%d expired=%d",
		counters.AlertsChecked, counters.NotificationsSent, counters.Errors, counters.Expired)
}
