// Package repository holds the in-memory catalog, chart and chronograph
// store behind the domain's read-only ports.
package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/okian/spinematch/internal/domain/model"
	"github.com/okian/spinematch/pkg/logger"
	"github.com/okian/spinematch/pkg/metrics"
)

// Stats is a point-in-time size summary of the store.
type Stats struct {
	Products           int `json:"products"`
	Specifications     int `json:"specifications"`
	Charts             int `json:"charts"`
	ChronographRecords int `json:"chronograph_records"`
}

type recordKey struct {
	setupID string
	arrowID string
}

// MemoryStore implements model.CatalogQuery, model.ChartSource and
// model.ChronographSource. Writes happen at load time; queries only read
// under the read lock.
type MemoryStore struct {
	mu sync.RWMutex

	products     []model.ArrowProduct
	productIndex map[string]int

	charts     []model.SpineChart
	chartIndex map[string]int

	records map[recordKey]model.ChronographRecord

	logger logger.Logger
}

var (
	_ model.CatalogQuery      = (*MemoryStore)(nil)
	_ model.ChartSource       = (*MemoryStore)(nil)
	_ model.ChronographSource = (*MemoryStore)(nil)
)

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		productIndex: make(map[string]int),
		chartIndex:   make(map[string]int),
		records:      make(map[recordKey]model.ChronographRecord),
		logger:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddProduct inserts p or replaces the product with the same id. A missing
// id is derived from manufacturer and model name.
func (s *MemoryStore) AddProduct(ctx context.Context, p model.ArrowProduct) error {
	if strings.TrimSpace(p.Manufacturer) == "" || strings.TrimSpace(p.ModelName) == "" {
		return fmt.Errorf("%w: manufacturer and model name are required", ErrInvalidProduct)
	}
	if p.ID == "" {
		p.ID = slug(p.Manufacturer + " " + p.ModelName)
	}
	for i, spec := range p.Specs {
		if spec.Spine <= 0 {
			return fmt.Errorf("%w: %s spec %d has spine %d", ErrInvalidProduct, p.ID, i, spec.Spine)
		}
		if spec.Units != "" && !spec.Units.Valid() {
			return fmt.Errorf("%w: %s spec %d has unknown units %q", ErrInvalidProduct, p.ID, i, spec.Units)
		}
	}

	s.mu.Lock()
	if i, ok := s.productIndex[p.ID]; ok {
		s.products[i] = p
	} else {
		s.productIndex[p.ID] = len(s.products)
		s.products = append(s.products, p)
	}
	st := s.statsLocked()
	s.mu.Unlock()

	metrics.UpdateCatalogSize(st.Products, st.Specifications)
	s.logger.Debug(ctx, "product stored", logger.String("id", p.ID), logger.Int("specs", len(p.Specs)))
	return nil
}

// AddChart inserts c or replaces the chart with the same id.
func (s *MemoryStore) AddChart(ctx context.Context, c model.SpineChart) error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidChart)
	}
	if c.Units != "" && !c.Units.Valid() {
		return fmt.Errorf("%w: %s has unknown units %q", ErrInvalidChart, c.ID, c.Units)
	}
	if len(c.Rows) == 0 {
		return fmt.Errorf("%w: %s has no rows", ErrInvalidChart, c.ID)
	}
	rows := make([]model.ChartRow, len(c.Rows))
	for i, r := range c.Rows {
		bt, err := model.ParseBowType(string(r.BowType))
		if err != nil {
			return fmt.Errorf("%w: %s row %d: %w", ErrInvalidChart, c.ID, i, err)
		}
		if r.Spine <= 0 || r.DrawWeightMax < r.DrawWeightMin {
			return fmt.Errorf("%w: %s row %d is malformed", ErrInvalidChart, c.ID, i)
		}
		r.BowType = bt
		rows[i] = r
	}
	c.Rows = rows

	key := strings.ToLower(c.ID)
	s.mu.Lock()
	if i, ok := s.chartIndex[key]; ok {
		s.charts[i] = c
	} else {
		s.chartIndex[key] = len(s.charts)
		s.charts = append(s.charts, c)
	}
	n := len(s.charts)
	s.mu.Unlock()

	metrics.UpdateChartsLoaded(n)
	s.logger.Debug(ctx, "chart stored", logger.String("id", c.ID), logger.Int("rows", len(c.Rows)))
	return nil
}

// AddChronograph stores rec. For each setup and arrow the most recent
// measurement wins.
func (s *MemoryStore) AddChronograph(ctx context.Context, rec model.ChronographRecord) error {
	if rec.SetupID == "" || rec.ArrowID == "" {
		return fmt.Errorf("%w: setup id and arrow id are required", ErrInvalidRecord)
	}
	if rec.MeasuredSpeedFPS <= 0 {
		return fmt.Errorf("%w: measured speed must be positive", ErrInvalidRecord)
	}

	key := recordKey{setupID: rec.SetupID, arrowID: rec.ArrowID}
	s.mu.Lock()
	if cur, ok := s.records[key]; !ok || !rec.MeasuredAt.Before(cur.MeasuredAt) {
		s.records[key] = rec
	}
	n := len(s.records)
	s.mu.Unlock()

	metrics.UpdateChronographRecords(n)
	s.logger.Debug(ctx, "chronograph record stored",
		logger.String("setup_id", rec.SetupID), logger.String("arrow_id", rec.ArrowID))
	return nil
}

// QuerySpecifications returns the (product, spec) pairs in [q.SpineMin,
// q.SpineMax] that share q.Units and pass q.Filters, in catalog order.
func (s *MemoryStore) QuerySpecifications(_ context.Context, q model.SpecQuery) ([]model.CatalogEntry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency("query_specifications", float64(time.Since(start).Microseconds())/1000)
	}()

	units := q.Units.OrDefault()
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.CatalogEntry
	for _, p := range s.products {
		for _, spec := range p.Specs {
			if p.UnitsFor(spec) != units {
				continue
			}
			if spec.Spine < q.SpineMin || spec.Spine > q.SpineMax {
				continue
			}
			if !q.Filters.Accepts(p, spec) {
				continue
			}
			out = append(out, model.CatalogEntry{Product: p, Spec: spec})
		}
	}
	return out, nil
}

// GetChart resolves a chart by id, falling back to the first chart whose
// manufacturer matches. Both comparisons ignore case.
func (s *MemoryStore) GetChart(_ context.Context, idOrManufacturer string) (model.SpineChart, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency("get_chart", float64(time.Since(start).Microseconds())/1000)
	}()

	key := strings.ToLower(strings.TrimSpace(idOrManufacturer))
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i, ok := s.chartIndex[key]; ok {
		return s.charts[i], nil
	}
	for _, c := range s.charts {
		if key != "" && strings.ToLower(c.Manufacturer) == key {
			return c, nil
		}
	}
	return model.SpineChart{}, fmt.Errorf("%w: %q", model.ErrChartNotFound, idOrManufacturer)
}

// GetVerifiedRecord returns the latest record for the pair when it is
// verified, or nil.
func (s *MemoryStore) GetVerifiedRecord(_ context.Context, setupID, arrowID string) (*model.ChronographRecord, error) {
	s.mu.RLock()
	rec, ok := s.records[recordKey{setupID: setupID, arrowID: arrowID}]
	s.mu.RUnlock()
	if !ok || !rec.Verified {
		return nil, nil
	}
	return &rec, nil
}

// Stats returns the current store sizes.
func (s *MemoryStore) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statsLocked()
}

func (s *MemoryStore) statsLocked() Stats {
	st := Stats{
		Products:           len(s.products),
		Charts:             len(s.charts),
		ChronographRecords: len(s.records),
	}
	for _, p := range s.products {
		st.Specifications += len(p.Specs)
	}
	return st
}

func slug(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	return strings.Join(fields, "-")
}
