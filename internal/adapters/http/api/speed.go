package api

import (
	"context"
	"net/http"

	service "github.com/okian/spinematch/internal/app"
	"github.com/okian/spinematch/internal/domain/speed"
)

// SpeedDependencies defines the interface for speed estimates.
type SpeedDependencies interface {
	EstimateSpeed(ctx context.Context, req service.SpeedRequest) (speed.Estimate, error)
}

// SpeedHandler handles speed estimate requests.
type SpeedHandler struct {
	deps SpeedDependencies
}

// NewSpeedHandler creates a new speed handler.
func NewSpeedHandler(deps SpeedDependencies) *SpeedHandler {
	return &SpeedHandler{deps: deps}
}

// HandleEstimate handles POST /speed requests.
func (h *SpeedHandler) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	var req service.SpeedRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := normalizeBow(&req.Bow); err != nil {
		writeDomainError(w, err)
		return
	}
	est, err := h.deps.EstimateSpeed(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, est)
}
