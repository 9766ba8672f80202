// Package service composes the spine calculator, the matching engine and
// the speed estimator into tuning sessions for the HTTP and CLI shells.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/spinematch/internal/adapters/repository"
	"github.com/okian/spinematch/internal/domain/matching"
	"github.com/okian/spinematch/internal/domain/model"
	"github.com/okian/spinematch/internal/domain/speed"
	"github.com/okian/spinematch/internal/domain/spine"
	"github.com/okian/spinematch/pkg/logger"
	"github.com/okian/spinematch/pkg/metrics"
)

const (
	defaultLimit    = 20
	defaultMaxLimit = 100
)

// sessionNamespace scopes the name-based session ids.
var sessionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/okian/spinematch/tuning-session"))

// RecommendRequest is the input of a tuning session.
type RecommendRequest struct {
	Profile            model.ArcherProfile `json:"profile"`
	Method             spine.Method        `json:"calculation_method,omitempty"`
	ChartSelection     string              `json:"chart_selection,omitempty"`
	MaterialPreference string              `json:"material_preference,omitempty"`
	Filters            model.Filters       `json:"filters"`
	Limit              int                 `json:"limit,omitempty"`
	// Chronograph holds caller-supplied measurements. A record applies only
	// to the exact (setup id, arrow id) pair and then takes precedence over
	// the stored record for it.
	Chronograph []model.ChronographRecord `json:"chronograph,omitempty"`
}

// Recommendation is a ranked arrow with its build weight and speed.
type Recommendation struct {
	matching.MatchResult
	ArrowWeight float64         `json:"arrow_weight_grains"`
	Speed       *speed.Estimate `json:"speed,omitempty"`
}

// TuningSession is the aggregate result of one recommendation request.
type TuningSession struct {
	ID              string              `json:"id"`
	Profile         model.ArcherProfile `json:"profile"`
	Spine           spine.Result        `json:"spine"`
	Recommendations []Recommendation    `json:"recommendations"`
	Notes           []string            `json:"notes,omitempty"`
}

// BatchItem is one entry of a batch response, in request order.
type BatchItem struct {
	Index   int            `json:"index"`
	Session *TuningSession `json:"session,omitempty"`
	Err     error          `json:"-"`
	Error   string         `json:"error,omitempty"`
	Code    string         `json:"code,omitempty"`
}

// SpeedRequest asks for the speed of one arrow from one bow. ArrowID is
// used for the chronograph lookup when the bow carries a setup id.
type SpeedRequest struct {
	Bow         model.BowConfiguration   `json:"bow"`
	ArrowWeight float64                  `json:"arrow_weight"`
	ArrowID     string                   `json:"arrow_id,omitempty"`
	Chronograph *model.ChronographRecord `json:"chronograph,omitempty"`
}

type statsProvider interface {
	Stats() repository.Stats
}

// Service implements the dependencies required by the HTTP API and CLI.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	catalog      model.CatalogQuery
	charts       model.ChartSource
	chronographs model.ChronographSource
	stats        statsProvider

	calculator *spine.Calculator
	engine     *matching.Engine
	estimator  *speed.Estimator

	defaultMethod    spine.Method
	defaultLimit     int
	maxLimit         int
	maxDeviation     int
	maxWoodDeviation int
	speedFloor       float64
	speedCeiling     float64
	batchWorkers     int

	logger logger.Logger
}

// New constructs a Service. Without a catalog option it serves an empty
// in-memory store.
func New(opts ...Option) *Service {
	s := &Service{
		defaultMethod: spine.MethodUniversal,
		defaultLimit:  defaultLimit,
		maxLimit:      defaultMaxLimit,
		batchWorkers:  runtime.NumCPU(),
		logger:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.catalog == nil && s.charts == nil && s.chronographs == nil {
		WithStore(repository.NewMemoryStore(repository.WithLogger(s.logger)))(s)
	}

	var engineOpts []matching.Option
	engineOpts = append(engineOpts, matching.WithDefaultLimit(s.defaultLimit))
	if s.maxDeviation > 0 {
		engineOpts = append(engineOpts, matching.WithMaxDeviation(model.UnitDeflection, s.maxDeviation))
	}
	if s.maxWoodDeviation > 0 {
		engineOpts = append(engineOpts, matching.WithMaxDeviation(model.UnitWoodPounds, s.maxWoodDeviation))
	}
	var speedOpts []speed.Option
	if s.speedFloor > 0 {
		speedOpts = append(speedOpts, speed.WithBounds(s.speedFloor, s.speedCeiling))
	}

	s.calculator = spine.NewCalculator(spine.WithChartSource(s.charts))
	if s.catalog != nil {
		s.engine = matching.NewEngine(s.catalog, engineOpts...)
	}
	s.estimator = speed.NewEstimator(speedOpts...)
	return s
}

// Calculate runs a spine calculation, applying the default method.
func (s *Service) Calculate(ctx context.Context, req spine.Request) (spine.Result, error) {
	if req.Method == "" {
		req.Method = s.defaultMethod
	}
	start := time.Now()
	res, err := s.calculator.Calculate(ctx, req)
	if err != nil {
		kind := ErrorKind(err)
		metrics.RecordCalculationError(methodLabel(req.Method), kind)
		metrics.RecordErrorLatency("calculator", kind, elapsedMs(start))
		s.logger.Debug(ctx, "spine calculation rejected",
			logger.String("method", string(req.Method)), logger.Error(err))
		return spine.Result{}, err
	}
	metrics.RecordCalculation(string(res.Method), string(req.Bow.BowType))
	metrics.RecordCalculationLatency(elapsedMs(start))
	return res, nil
}

// EstimateSpeed returns the arrow speed for req, preferring a verified
// chronograph record supplied by the caller or stored for the setup.
func (s *Service) EstimateSpeed(ctx context.Context, req SpeedRequest) (speed.Estimate, error) {
	rec := req.Chronograph
	if !rec.Usable() {
		var err error
		rec, err = s.lookupRecord(ctx, req.Bow.SetupID, req.ArrowID)
		if err != nil {
			return speed.Estimate{}, err
		}
	}
	est, err := s.estimator.Estimate(req.Bow, req.ArrowWeight, rec)
	if err != nil {
		metrics.RecordErrorByComponent("speed", ErrorKind(err))
		return speed.Estimate{}, err
	}
	metrics.RecordSpeedEstimate(string(est.Source))
	return est, nil
}

// Recommend builds a tuning session: the required spine, the ranked
// compatible arrows and a speed for each. Identical requests produce
// identical sessions.
func (s *Service) Recommend(ctx context.Context, req RecommendRequest) (*TuningSession, error) {
	start := time.Now()
	if err := req.Profile.Validate(); err != nil {
		return nil, err
	}
	if s.engine == nil {
		return nil, fmt.Errorf("%w: no catalog configured", model.ErrInvalidConfiguration)
	}
	req = s.normalize(req)

	p := req.Profile
	res, err := s.Calculate(ctx, spine.Request{
		Bow:                p.Bow,
		ArrowLength:        p.ArrowLength,
		PointWeight:        p.PointWeight,
		NockWeight:         p.NockWeight,
		FletchingWeight:    p.TotalFletchingWeight(),
		MaterialPreference: req.MaterialPreference,
		Method:             req.Method,
		ChartSelection:     req.ChartSelection,
	})
	if err != nil {
		return nil, err
	}

	matches, err := s.engine.FindCompatible(ctx, matching.Query{
		Target:  res.CalculatedSpine,
		Range:   res.Range,
		Filters: req.Filters,
		Limit:   req.Limit,
	})
	if err != nil {
		metrics.RecordErrorByComponent("matching", ErrorKind(err))
		return nil, err
	}
	metrics.RecordMatchesReturned(len(matches))

	session := &TuningSession{
		ID:              sessionID(req),
		Profile:         p,
		Spine:           res,
		Recommendations: make([]Recommendation, 0, len(matches)),
	}
	notes := newNoteSet()
	if len(matches) == 0 {
		notes.add(fmt.Sprintf("no catalog arrows within spine %d-%d %s", res.Range.Minimum, res.Range.Maximum, res.Range.Units))
	}
	for _, m := range matches {
		rec := Recommendation{MatchResult: m, ArrowWeight: arrowWeight(p, m.Spec)}
		est, err := s.speedFor(ctx, req, m.Product.ID, rec.ArrowWeight)
		if err != nil {
			notes.add(fmt.Sprintf("speed unavailable: %v", err))
		} else {
			rec.Speed = &est
		}
		session.Recommendations = append(session.Recommendations, rec)
	}
	session.Notes = notes.list()

	metrics.RecordSession(elapsedMs(start))
	s.logger.Debug(ctx, "tuning session built",
		logger.String("session_id", session.ID),
		logger.String("method", string(res.Method)),
		logger.Int("spine", res.CalculatedSpine),
		logger.Int("recommendations", len(session.Recommendations)),
	)
	return session, nil
}

// RecommendBatch builds independent sessions in parallel. Items keep the
// request order and a failing item does not affect the others.
func (s *Service) RecommendBatch(ctx context.Context, reqs []RecommendRequest) []BatchItem {
	metrics.RecordBatchSize(len(reqs))
	items := make([]BatchItem, len(reqs))

	var g errgroup.Group
	g.SetLimit(s.batchWorkers)
	for i := range reqs {
		g.Go(func() error {
			item := BatchItem{Index: i}
			if err := ctx.Err(); err != nil {
				item.Err = err
			} else {
				item.Session, item.Err = s.Recommend(ctx, reqs[i])
			}
			if item.Err != nil {
				item.Error = item.Err.Error()
				item.Code = ErrorKind(item.Err)
			}
			items[i] = item
			return nil
		})
	}
	_ = g.Wait()
	return items
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	stats := map[string]any{
		"defaultMethod": string(s.defaultMethod),
		"defaultLimit":  s.defaultLimit,
		"maxLimit":      s.maxLimit,
		"batchWorkers":  s.batchWorkers,
	}
	if s.stats != nil {
		st := s.stats.Stats()
		stats["products"] = st.Products
		stats["specifications"] = st.Specifications
		stats["charts"] = st.Charts
		stats["chronographRecords"] = st.ChronographRecords
	}
	return stats
}

func (s *Service) normalize(req RecommendRequest) RecommendRequest {
	if req.Method == "" {
		req.Method = s.defaultMethod
	}
	if req.Limit <= 0 {
		req.Limit = s.defaultLimit
	}
	if req.Limit > s.maxLimit {
		req.Limit = s.maxLimit
	}
	if req.Filters.Material == "" && req.MaterialPreference != "" {
		req.Filters.Material = req.MaterialPreference
	}
	return req
}

func (s *Service) speedFor(ctx context.Context, req RecommendRequest, arrowID string, weight float64) (speed.Estimate, error) {
	var rec *model.ChronographRecord
	for i := range req.Chronograph {
		c := &req.Chronograph[i]
		if c.ArrowID == arrowID && c.SetupID == req.Profile.Bow.SetupID && c.Usable() {
			rec = c
			break
		}
	}
	return s.EstimateSpeed(ctx, SpeedRequest{
		Bow:         req.Profile.Bow,
		ArrowWeight: weight,
		ArrowID:     arrowID,
		Chronograph: rec,
	})
}

func (s *Service) lookupRecord(ctx context.Context, setupID, arrowID string) (*model.ChronographRecord, error) {
	if s.chronographs == nil || setupID == "" || arrowID == "" {
		return nil, nil
	}
	rec, err := s.chronographs.GetVerifiedRecord(ctx, setupID, arrowID)
	if err != nil {
		return nil, fmt.Errorf("chronograph lookup %s/%s: %w", setupID, arrowID, err)
	}
	return rec, nil
}

// arrowWeight is the finished arrow weight in grains: the profile override
// when given, otherwise shaft plus components.
func arrowWeight(p model.ArcherProfile, spec model.SpineSpecification) float64 {
	if p.ArrowWeight > 0 {
		return p.ArrowWeight
	}
	length := p.ArrowLength
	if length == 0 {
		length = spine.DefaultArrowLength
	}
	point := p.PointWeight
	if point == 0 {
		point = spine.DefaultPointWeight
	}
	return spec.GPIWeight*length + point + p.NockWeight + p.TotalFletchingWeight()
}

// sessionID derives a UUIDv5 from the normalized request.
func sessionID(req RecommendRequest) string {
	b, err := json.Marshal(req)
	if err != nil {
		return uuid.NewSHA1(sessionNamespace, []byte(fmt.Sprintf("%#v", req))).String()
	}
	return uuid.NewSHA1(sessionNamespace, b).String()
}

type noteSet struct {
	seen  map[string]struct{}
	order []string
}

func newNoteSet() *noteSet {
	return &noteSet{seen: make(map[string]struct{})}
}

func (n *noteSet) add(note string) {
	if _, ok := n.seen[note]; ok {
		return
	}
	n.seen[note] = struct{}{}
	n.order = append(n.order, note)
}

func (n *noteSet) list() []string {
	return n.order
}

// methodLabel keeps caller input out of metric labels: unknown method
// names collapse into one series.
func methodLabel(m spine.Method) string {
	parsed, err := spine.ParseMethod(string(m))
	if err != nil {
		return "unknown"
	}
	return string(parsed)
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
