package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/okian/medalboard/internal/adapters/render"
	"github.com/okian/medalboard/internal/domain/chart"
)

// ChartsDependencies defines the single-output callbacks.
type ChartsDependencies interface {
	YearlyChart(ctx context.Context, sel Selection) (chart.Figure, error)
	MedalTotal(ctx context.Context, sel Selection) (int, error)
	TopAthletes(ctx context.Context, sel Selection) (chart.Figure, error)
	ChartPNG(ctx context.Context, name string, sel Selection, w io.Writer) error
}

// ChartsHandler serves one output per request.
type ChartsHandler struct {
	deps ChartsDependencies
}

// NewChartsHandler creates a new charts handler.
func NewChartsHandler(deps ChartsDependencies) *ChartsHandler {
	return &ChartsHandler{deps: deps}
}

// medalTotalResponse carries the readout both as a number and as displayed.
type medalTotalResponse struct {
	Total int    `json:"total"`
	Text  string `json:"text"`
}

// HandleYearly handles GET /api/charts/yearly requests.
func (h *ChartsHandler) HandleYearly(w http.ResponseWriter, r *http.Request) {
	const op = "api.yearly_chart"
	sel, ok := h.selection(w, r, op)
	if !ok {
		return
	}
	fig, err := h.deps.YearlyChart(r.Context(), sel)
	if err != nil {
		writeServiceError(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, fig)
}

// HandleTopAthletes handles GET /api/charts/top-athletes requests.
func (h *ChartsHandler) HandleTopAthletes(w http.ResponseWriter, r *http.Request) {
	const op = "api.top_athletes"
	sel, ok := h.selection(w, r, op)
	if !ok {
		return
	}
	fig, err := h.deps.TopAthletes(r.Context(), sel)
	if err != nil {
		writeServiceError(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, fig)
}

// HandleMedalTotal handles GET /api/medals/total requests.
func (h *ChartsHandler) HandleMedalTotal(w http.ResponseWriter, r *http.Request) {
	const op = "api.medal_total"
	sel, ok := h.selection(w, r, op)
	if !ok {
		return
	}
	total, err := h.deps.MedalTotal(r.Context(), sel)
	if err != nil {
		writeServiceError(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, medalTotalResponse{Total: total, Text: strconv.Itoa(total)})
}

// pngHandler serves GET /api/charts/<name>.png. An empty chart answers 204.
func (h *ChartsHandler) pngHandler(name string) http.HandlerFunc {
	op := "api.png." + name
	return func(w http.ResponseWriter, r *http.Request) {
		sel, ok := h.selection(w, r, op)
		if !ok {
			return
		}
		var buf bytes.Buffer
		err := h.deps.ChartPNG(r.Context(), name, sel, &buf)
		switch {
		case errors.Is(err, render.ErrNoData):
			w.WriteHeader(http.StatusNoContent)
			return
		case err != nil:
			writeServiceError(r.Context(), w, Wrap(op, err))
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}

func (h *ChartsHandler) selection(w http.ResponseWriter, r *http.Request, op string) (Selection, bool) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return Selection{}, false
	}
	sel, err := selectionFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return Selection{}, false
	}
	return sel, true
}
