package api

import (
	"context"
	"net/http"

	"github.com/okian/spinematch/internal/domain/spine"
)

// SpineDependencies defines the interface for spine calculations.
type SpineDependencies interface {
	Calculate(ctx context.Context, req spine.Request) (spine.Result, error)
}

// SpineHandler handles spine calculation requests.
type SpineHandler struct {
	deps SpineDependencies
}

// NewSpineHandler creates a new spine handler.
func NewSpineHandler(deps SpineDependencies) *SpineHandler {
	return &SpineHandler{deps: deps}
}

// HandleCalculate handles POST /spine requests.
func (h *SpineHandler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	var req spine.Request
	if !decodeBody(w, r, &req) {
		return
	}
	if err := normalizeBow(&req.Bow); err != nil {
		writeDomainError(w, err)
		return
	}
	res, err := h.deps.Calculate(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
