// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/medalboard/internal/adapters/render"
	service "github.com/okian/medalboard/internal/app"
	"github.com/okian/medalboard/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	LayoutDependencies
	ChartsDependencies
	UpdateDependencies
}

// Selection mirrors the value of the three input controls.
type Selection = service.Selection

// Update mirrors the response of POST /api/update.
type Update = service.Update

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	layoutHandler *LayoutHandler
	chartsHandler *ChartsHandler
	updateHandler *UpdateHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		layoutHandler: NewLayoutHandler(deps),
		chartsHandler: NewChartsHandler(deps),
		updateHandler: NewUpdateHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/layout", MetricsMiddleware(s.layoutHandler.HandleLayout, "layout"))
	mux.HandleFunc("/api/update", MetricsMiddleware(s.updateHandler.HandleUpdate, "update"))
	mux.HandleFunc("/api/medals/total", MetricsMiddleware(s.chartsHandler.HandleMedalTotal, "medal_total"))
	mux.HandleFunc("/api/charts/yearly", MetricsMiddleware(s.chartsHandler.HandleYearly, "yearly_chart"))
	mux.HandleFunc("/api/charts/top-athletes", MetricsMiddleware(s.chartsHandler.HandleTopAthletes, "top_athletes"))
	mux.HandleFunc("/api/charts/yearly.png", MetricsMiddleware(s.chartsHandler.pngHandler(service.ChartYearly), "yearly_png"))
	mux.HandleFunc("/api/charts/top-athletes.png", MetricsMiddleware(s.chartsHandler.pngHandler(service.ChartTopAthletes), "top_athletes_png"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps service errors to a status code and logs the ones
// the client cannot fix.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, service.ErrUnknownChart):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrNoDataset):
		writeError(w, http.StatusServiceUnavailable, "not_loaded", err)
	case errors.Is(err, service.ErrCallbackFailed):
		logger.Get().Error(ctx, "callback failed", logger.Error(err), logger.String("request_id", RequestIDFrom(ctx)))
		writeError(w, http.StatusInternalServerError, "callback_failed", err)
	case errors.Is(err, render.ErrRender):
		logger.Get().Error(ctx, "chart render failed", logger.Error(err), logger.String("request_id", RequestIDFrom(ctx)))
		writeError(w, http.StatusInternalServerError, "render_failed", err)
	default:
		logger.Get().Error(ctx, "request failed", logger.Error(err), logger.String("request_id", RequestIDFrom(ctx)))
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
