package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"blitzweek/internal/delivery/http/helpers"
	"blitzweek/internal/domain"
)

type StatsController struct {
	Logger  *slog.Logger
	Service domain.StatsService
}

func NewStatsController(logger *slog.Logger, svc domain.StatsService) *StatsController {
	return &StatsController{
		Logger:  logger,
		Service: svc,
	}
}

// Overview godoc
// @Summary Aggregate statistics over confirmed registrations
// @Description Totals, per-event/branch/year distributions with percentages, 7-day daily trend, hour-of-day histogram, ten most recent, and the both-events share.
// @Tags stats
// @Produce json
// @Success 200 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/stats [get]
func (c *StatsController) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := c.Service.Overview(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, overview)
}

// LiveCount godoc
// @Summary Lightweight polling counter
// @Description Total confirmed registrations plus raw blitz/ignite/both counts.
// @Tags stats
// @Produce json
// @Success 200 {object} helpers.APIResponse
// @Router /api/stats/live-count [get]
func (c *StatsController) LiveCount(w http.ResponseWriter, r *http.Request) {
	lc, err := c.Service.LiveCount(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, lc)
}

// EventStats godoc
// @Summary Branch and year breakdowns for one event
// @Tags stats
// @Produce json
// @Param eventName path string true "Event name"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: invalid_event"
// @Router /api/stats/event/{eventName} [get]
func (c *StatsController) EventStats(w http.ResponseWriter, r *http.Request) {
	eventName := r.PathValue("eventName")
	if eventName == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventName")
		return
	}
	stats, err := c.Service.EventStats(r.Context(), eventName)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidEvent) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeInvalidEvent, "unknown event")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, stats)
}
