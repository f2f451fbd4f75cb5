package restserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/crestwatch/surfcast/internal/alerting"
	"github.com/crestwatch/surfcast/internal/database"
)

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	scores ScoreProvider
	alerts AlertStore
	runner CycleRunner
	logger *zap.SugaredLogger
}

// NewHandlers creates a new handlers instance
func NewHandlers(scores ScoreProvider, alerts AlertStore, runner CycleRunner, logger *zap.SugaredLogger) *Handlers {
	return &Handlers{
		scores: scores,
		alerts: alerts,
		runner: runner,
		logger: logger,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// dateParam parses the optional ?date= query parameter, defaulting to
// the current UTC day
func dateParam(req *http.Request) (time.Time, error) {
	raw := req.URL.Query().Get("date")
	if raw == "" {
		return database.DateOf(time.Now()), nil
	}
	return database.ParseDate(raw)
}

func pathID(req *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 32)
	return uint(id), err
}

// GetBeachScore serves the score for one beach on one day
func (h *Handlers) GetBeachScore(w http.ResponseWriter, req *http.Request) {
	beachID, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid beach id")
		return
	}
	date, err := dateParam(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	score, err := h.scores.GetOrCompute(req.Context(), beachID, date)
	if err != nil {
		h.logger.Errorf("failed to get score for beach %d: %v", beachID, err)
		respondError(w, http.StatusInternalServerError, "failed to load score")
		return
	}
	if score == nil {
		respondError(w, http.StatusNotFound, "no forecast data for this beach and date")
		return
	}
	respondJSON(w, http.StatusOK, toScoreResponse(score))
}

// GetRegionScores serves all beach scores in a region for one day
func (h *Handlers) GetRegionScores(w http.ResponseWriter, req *http.Request) {
	regionID, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid region id")
		return
	}
	date, err := dateParam(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	scores, err := h.scores.RegionScores(req.Context(), regionID, date)
	if err != nil {
		h.logger.Errorf("failed to get scores for region %d: %v", regionID, err)
		respondError(w, http.StatusInternalServerError, "failed to load scores")
		return
	}

	response := RegionScoresResponse{
		RegionID: regionID,
		Date:     database.DateString(date),
		Scores:   make([]ScoreResponse, 0, len(scores)),
	}
	for i := range scores {
		response.Scores = append(response.Scores, toScoreResponse(&scores[i]))
	}
	respondJSON(w, http.StatusOK, response)
}

// GetRegionCounts serves, per region, the number of beaches at or above
// a star threshold for one day
func (h *Handlers) GetRegionCounts(w http.ResponseWriter, req *http.Request) {
	date, err := dateParam(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	minStars := 4
	if raw := req.URL.Query().Get("min_stars"); raw != "" {
		minStars, err = strconv.Atoi(raw)
		if err != nil || minStars < 1 || minStars > 5 {
			respondError(w, http.StatusBadRequest, "min_stars must be 1-5")
			return
		}
	}

	counts, err := h.scores.RegionCounts(req.Context(), date, minStars)
	if err != nil {
		h.logger.Errorf("failed to get region counts: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load counts")
		return
	}
	respondJSON(w, http.StatusOK, RegionCountsResponse{
		Date:     database.DateString(date),
		MinStars: minStars,
		Counts:   counts,
	})
}

// GetRegionStats serves score summary statistics for a region and day
func (h *Handlers) GetRegionStats(w http.ResponseWriter, req *http.Request) {
	regionID, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid region id")
		return
	}
	date, err := dateParam(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	stats, err := h.scores.RegionStats(req.Context(), regionID, date)
	if err != nil {
		h.logger.Errorf("failed to get stats for region %d: %v", regionID, err)
		respondError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// CreateAlert validates and stores a new alert
func (h *Handlers) CreateAlert(w http.ResponseWriter, req *http.Request) {
	var body CreateAlertRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	alert := &database.Alert{
		ID:                 uuid.NewString(),
		UserID:             body.UserID,
		RegionID:           body.RegionID,
		AlertType:          body.AlertType,
		Properties:         body.Properties,
		StarRating:         body.StarRating,
		NotificationMethod: body.NotificationMethod,
		ContactInfo:        body.ContactInfo,
		Active:             true,
	}
	if body.ForecastDate != "" {
		date, err := database.ParseDate(body.ForecastDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid forecast_date, expected YYYY-MM-DD")
			return
		}
		alert.ForecastDate = &date
	}

	if err := alerting.ValidateAlert(alert); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.alerts.CreateAlert(req.Context(), alert); err != nil {
		h.logger.Errorf("failed to create alert: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to create alert")
		return
	}
	respondJSON(w, http.StatusCreated, alert)
}

// ListAlerts serves all alerts belonging to a user
func (h *Handlers) ListAlerts(w http.ResponseWriter, req *http.Request) {
	userID := req.URL.Query().Get("user")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "user query parameter is required")
		return
	}

	alerts, err := h.alerts.AlertsByUser(req.Context(), userID)
	if err != nil {
		h.logger.Errorf("failed to list alerts for user %s: %v", userID, err)
		respondError(w, http.StatusInternalServerError, "failed to load alerts")
		return
	}
	respondJSON(w, http.StatusOK, alerts)
}

// RunAlertCycle triggers one alert processing cycle and returns the
// aggregate counters
func (h *Handlers) RunAlertCycle(w http.ResponseWriter, req *http.Request) {
	// An empty body means "all users, today".
	var body RunCycleRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	asOf := time.Time{}
	if body.Date != "" {
		date, err := database.ParseDate(body.Date)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		asOf = date
	}

	counters, err := h.runner.RunCycle(req.Context(), body.UserID, asOf)
	if err != nil {
		h.logger.Errorf("alert cycle failed: %v", err)
		respondError(w, http.StatusInternalServerError, "alert cycle failed")
		return
	}
	respondJSON(w, http.StatusOK, counters)
}

// Health serves the liveness endpoint
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
