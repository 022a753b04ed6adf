package api

import (
	"context"
	"encoding/json"
	"net/http"
)

// maxUpdateBody bounds the POST /api/update payload.
const maxUpdateBody = 1 << 20

// UpdateDependencies defines the interface for recomputing every output.
type UpdateDependencies interface {
	Update(ctx context.Context, sel Selection) Update
}

// UpdateHandler handles update requests.
type UpdateHandler struct {
	deps UpdateDependencies
}

// NewUpdateHandler creates a new update handler.
func NewUpdateHandler(deps UpdateDependencies) *UpdateHandler {
	return &UpdateHandler{deps: deps}
}

// HandleUpdate handles POST /api/update requests. A failing output is
// reported in the errors map; the response is still 200 so the other outputs
// render.
func (h *UpdateHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.update"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req updateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUpdateBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	sel, err := req.selection()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Update(r.Context(), sel))
}
