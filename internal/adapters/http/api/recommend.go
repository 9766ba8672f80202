package api

import (
	"context"
	"fmt"
	"net/http"

	service "github.com/okian/spinematch/internal/app"
)

const defaultMaxBatch = 100

// RecommendDependencies defines the interface for tuning sessions.
type RecommendDependencies interface {
	Recommend(ctx context.Context, req service.RecommendRequest) (*service.TuningSession, error)
	RecommendBatch(ctx context.Context, reqs []service.RecommendRequest) []service.BatchItem
}

// RecommendHandler handles recommendation requests.
type RecommendHandler struct {
	deps     RecommendDependencies
	maxBatch int
}

// NewRecommendHandler creates a new recommendation handler.
func NewRecommendHandler(deps RecommendDependencies, maxBatch int) *RecommendHandler {
	if maxBatch <= 0 {
		maxBatch = defaultMaxBatch
	}
	return &RecommendHandler{deps: deps, maxBatch: maxBatch}
}

type batchRequest struct {
	Requests []service.RecommendRequest `json:"requests"`
}

type batchResponse struct {
	Items []service.BatchItem `json:"items"`
}

// HandleRecommend handles POST /recommendations requests.
func (h *RecommendHandler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	var req service.RecommendRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := normalizeBow(&req.Profile.Bow); err != nil {
		writeDomainError(w, err)
		return
	}
	session, err := h.deps.Recommend(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// HandleBatch handles POST /recommendations/batch requests. Per-item
// failures are reported inside the items; the response itself is 200.
func (h *RecommendHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Requests) == 0 {
		writeDomainError(w, fmt.Errorf("%w: no requests", ErrBadRequest))
		return
	}
	if len(req.Requests) > h.maxBatch {
		writeDomainError(w, fmt.Errorf("%w: %d requests, limit %d", ErrBatchTooLarge, len(req.Requests), h.maxBatch))
		return
	}

	// Bow normalization failures are left for the service to report per item.
	for i := range req.Requests {
		_ = normalizeBow(&req.Requests[i].Profile.Bow)
	}
	writeJSON(w, http.StatusOK, batchResponse{Items: h.deps.RecommendBatch(r.Context(), req.Requests)})
}
