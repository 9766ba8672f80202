// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	service "github.com/okian/spinematch/internal/app"
	"github.com/okian/spinematch/internal/domain/model"
	"github.com/okian/spinematch/internal/domain/speed"
	"github.com/okian/spinematch/internal/domain/spine"
)

const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Calculate(ctx context.Context, req spine.Request) (spine.Result, error)
	Recommend(ctx context.Context, req service.RecommendRequest) (*service.TuningSession, error)
	RecommendBatch(ctx context.Context, reqs []service.RecommendRequest) []service.BatchItem
	EstimateSpeed(ctx context.Context, req service.SpeedRequest) (speed.Estimate, error)
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	spineHandler     *SpineHandler
	recommendHandler *RecommendHandler
	speedHandler     *SpeedHandler
}

// NewServer creates a new API server with all handlers. maxBatch caps the
// number of requests accepted by the batch endpoint.
func NewServer(deps Dependencies, maxBatch int) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(deps),
		spineHandler:     NewSpineHandler(deps),
		recommendHandler: NewRecommendHandler(deps, maxBatch),
		speedHandler:     NewSpeedHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/spine", MetricsMiddleware(s.spineHandler.HandleCalculate, "spine"))
	mux.HandleFunc("/recommendations", MetricsMiddleware(s.recommendHandler.HandleRecommend, "recommendations"))
	mux.HandleFunc("/recommendations/batch", MetricsMiddleware(s.recommendHandler.HandleBatch, "recommendations_batch"))
	mux.HandleFunc("/speed", MetricsMiddleware(s.speedHandler.HandleEstimate, "speed"))
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

// writeDomainError maps err onto its status and code.
func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), codeFor(err), err)
}

// decodeBody reads a bounded JSON body into v. Only POST is accepted.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return false
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return false
	}
	return true
}

// normalizeBow accepts the same spellings as the catalog loader, e.g.
// "Longbow" for traditional.
func normalizeBow(b *model.BowConfiguration) error {
	bt, err := model.ParseBowType(string(b.BowType))
	if err != nil {
		return err
	}
	sm, err := model.ParseStringMaterial(string(b.StringMaterial))
	if err != nil {
		return err
	}
	b.BowType = bt
	b.StringMaterial = sm
	return nil
}
