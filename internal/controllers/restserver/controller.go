// Package restserver exposes scores, alerts, and processing cycles over
// HTTP.
package restserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/crestwatch/surfcast/internal/alerting"
	"github.com/crestwatch/surfcast/internal/database"
	"github.com/crestwatch/surfcast/internal/log"
	"github.com/crestwatch/surfcast/internal/scoring"
	"github.com/crestwatch/surfcast/pkg/config"
)

// ScoreProvider serves computed scores; implemented by scoring.Store
type ScoreProvider interface {
	GetOrCompute(ctx context.Context, beachID uint, date time.Time) (*database.BeachScore, error)
	RegionScores(ctx context.Context, regionID uint, date time.Time) ([]database.BeachScore, error)
	RegionCounts(ctx context.Context, date time.Time, minStars int) (map[uint]int64, error)
	RegionStats(ctx context.Context, regionID uint, date time.Time) (*scoring.RegionStats, error)
}

// AlertStore persists alerts; implemented by database.Client
type AlertStore interface {
	CreateAlert(ctx context.Context, alert *database.Alert) error
	AlertsByUser(ctx context.Context, userID string) ([]database.Alert, error)
}

// CycleRunner triggers alert processing; implemented by
// alerting.Orchestrator
type CycleRunner interface {
	RunCycle(ctx context.Context, userID string, asOf time.Time) (alerting.Counters, error)
}

// Controller represents the REST server controller
type Controller struct {
	ctx        context.Context
	wg         *sync.WaitGroup
	httpConfig config.HTTPData
	Server     http.Server
	logger     *zap.SugaredLogger
	handlers   *Handlers
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, hc config.HTTPData,
	scores ScoreProvider, alerts AlertStore, runner CycleRunner,
	registry *prometheus.Registry, logger *zap.SugaredLogger) (*Controller, error) {

	if hc.Port == 0 {
		return nil, fmt.Errorf("REST server requires a listen port")
	}

	ctrl := &Controller{
		ctx:        ctx,
		wg:         wg,
		httpConfig: hc,
		logger:     logger,
	}
	ctrl.handlers = NewHandlers(scores, alerts, runner, logger)

	router := ctrl.setupRouter(registry)
	ctrl.Server.Addr = fmt.Sprintf("%v:%v", hc.ListenAddr, hc.Port)
	ctrl.Server.Handler = router
	ctrl.Server.ReadHeaderTimeout = 10 * time.Second

	return ctrl, nil
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	log.Info("Starting REST server controller...")
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		if c.httpConfig.Cert != "" && c.httpConfig.Key != "" {
			if err := c.Server.ListenAndServeTLS(c.httpConfig.Cert, c.httpConfig.Key); err != http.ErrServerClosed {
				log.Errorf("REST server error: %v", err)
			}
		} else {
			if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
				log.Errorf("REST server error: %v", err)
			}
		}
	}()

	go func() {
		<-c.ctx.Done()
		log.Info("Shutting down the REST server...")
		c.Server.Shutdown(context.Background())
	}()

	return nil
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter(registry *prometheus.Registry) *mux.Router {
	router := mux.NewRouter()

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/beaches/{id:[0-9]+}/score", c.handlers.GetBeachScore).Methods(http.MethodGet)
	api.HandleFunc("/regions/{id:[0-9]+}/scores", c.handlers.GetRegionScores).Methods(http.MethodGet)
	api.HandleFunc("/regions/counts", c.handlers.GetRegionCounts).Methods(http.MethodGet)
	api.HandleFunc("/regions/{id:[0-9]+}/stats", c.handlers.GetRegionStats).Methods(http.MethodGet)
	api.HandleFunc("/alerts", c.handlers.CreateAlert).Methods(http.MethodPost)
	api.HandleFunc("/alerts", c.handlers.ListAlerts).Methods(http.MethodGet)
	api.HandleFunc("/alerts/run", c.handlers.RunAlertCycle).Methods(http.MethodPost)

	router.HandleFunc("/healthz", c.handlers.Health).Methods(http.MethodGet)
	if registry != nil {
		router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	return router
}
