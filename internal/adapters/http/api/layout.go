package api

import (
	"context"
	"net/http"

	"github.com/okian/medalboard/internal/domain/view"
)

// LayoutDependencies defines the interface for describing the page.
type LayoutDependencies interface {
	Layout(ctx context.Context) (view.Description, error)
}

// LayoutHandler handles layout requests.
type LayoutHandler struct {
	deps LayoutDependencies
}

// NewLayoutHandler creates a new layout handler.
func NewLayoutHandler(deps LayoutDependencies) *LayoutHandler {
	return &LayoutHandler{deps: deps}
}

// HandleLayout handles GET /api/layout requests.
// The page script builds every control and graph from this description.
func (h *LayoutHandler) HandleLayout(w http.ResponseWriter, r *http.Request) {
	const op = "api.layout"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	desc, err := h.deps.Layout(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, desc)
}
