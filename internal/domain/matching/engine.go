// Package matching ranks catalog arrows against a required spine.
package matching

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/okian/spinematch/internal/domain/model"
)

// Default matching configuration constants.
const (
	defaultLimit             = 20
	defaultMaxDeviation      = 100
	defaultMaxWoodDeviation  = 15
	maxCompatibilityScore    = 1.0
	percentageScale          = 100
	percentageRoundingFactor = 10
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithMaxDeviation sets the deviation at which the score reaches zero for unit.
func WithMaxDeviation(unit model.SpineUnit, deviation int) Option {
	return func(e *Engine) {
		if deviation > 0 && unit.Valid() {
			e.maxDeviation[unit] = deviation
		}
	}
}

// WithDefaultLimit sets the result limit used when a query asks for none.
func WithDefaultLimit(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.defaultLimit = limit
		}
	}
}

// Query is the input of FindCompatible.
type Query struct {
	Target  int              `json:"target_spine"`
	Range   model.SpineRange `json:"spine_range"`
	Filters model.Filters    `json:"filters"`
	Limit   int              `json:"limit,omitempty"`
}

// MatchResult is one ranked candidate.
type MatchResult struct {
	Product            model.ArrowProduct       `json:"product"`
	Spec               model.SpineSpecification `json:"spec"`
	Units              model.SpineUnit          `json:"spine_units"`
	CompatibilityScore float64                  `json:"compatibility_score"`
	SpineDeviation     int                      `json:"spine_deviation"`
	MatchPercentage    float64                  `json:"match_percentage"`
}

// Engine finds and ranks compatible arrows. It only reads the catalog and
// is safe for concurrent use.
type Engine struct {
	catalog      model.CatalogQuery
	maxDeviation map[model.SpineUnit]int
	defaultLimit int
}

// NewEngine creates an Engine over catalog.
func NewEngine(catalog model.CatalogQuery, opts ...Option) *Engine {
	e := &Engine{
		catalog: catalog,
		maxDeviation: map[model.SpineUnit]int{
			model.UnitDeflection: defaultMaxDeviation,
			model.UnitWoodPounds: defaultMaxWoodDeviation,
		},
		defaultLimit: defaultLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FindCompatible returns the best specification of every eligible product,
// ranked by compatibility. An empty slice is a valid outcome.
func (e *Engine) FindCompatible(ctx context.Context, q Query) ([]MatchResult, error) {
	if q.Target <= 0 {
		return nil, fmt.Errorf("%w: target spine must be positive, got %d", model.ErrInvalidTarget, q.Target)
	}
	if err := q.Range.Validate(); err != nil {
		return nil, err
	}
	units := q.Range.Units.OrDefault()

	entries, err := e.catalog.QuerySpecifications(ctx, model.SpecQuery{
		SpineMin: q.Range.Minimum,
		SpineMax: q.Range.Maximum,
		Units:    units,
		Filters:  q.Filters,
	})
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}

	best := make(map[string]MatchResult)
	order := make([]string, 0)
	for _, entry := range entries {
		if !e.eligible(entry, q, units) {
			continue
		}
		candidate := e.score(entry, q.Target, units)
		key := productKey(entry.Product)
		current, seen := best[key]
		if !seen {
			order = append(order, key)
			best[key] = candidate
			continue
		}
		if preferSpec(candidate, current) {
			best[key] = candidate
		}
	}

	results := make([]MatchResult, 0, len(order))
	for _, key := range order {
		results = append(results, best[key])
	}
	sort.SliceStable(results, func(i, j int) bool {
		return ranksBefore(results[i], results[j])
	})

	limit := q.Limit
	if limit <= 0 {
		limit = e.defaultLimit
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// eligible re-applies the query constraints: the catalog is an external
// collaborator and may return rows outside the requested bounds.
func (e *Engine) eligible(entry model.CatalogEntry, q Query, units model.SpineUnit) bool {
	if entry.Spec.Spine <= 0 {
		return false
	}
	if entry.Product.UnitsFor(entry.Spec) != units {
		return false
	}
	if !q.Range.Contains(entry.Spec.Spine) {
		return false
	}
	return q.Filters.Accepts(entry.Product, entry.Spec)
}

func (e *Engine) score(entry model.CatalogEntry, target int, units model.SpineUnit) MatchResult {
	deviation := entry.Spec.Spine - target
	if deviation < 0 {
		deviation = -deviation
	}
	s := Score(deviation, e.maxDeviation[units])
	return MatchResult{
		Product:            entry.Product,
		Spec:               entry.Spec,
		Units:              units,
		CompatibilityScore: s,
		SpineDeviation:     deviation,
		MatchPercentage:    Percentage(s),
	}
}

// Score maps a spine deviation onto [0, 1]: 1 for a perfect match, falling
// linearly to 0 at maxDeviation and staying there beyond it.
func Score(deviation, maxDeviation int) float64 {
	if deviation < 0 {
		deviation = -deviation
	}
	if maxDeviation <= 0 {
		if deviation == 0 {
			return maxCompatibilityScore
		}
		return 0
	}
	if deviation >= maxDeviation {
		return 0
	}
	return maxCompatibilityScore * (1 - float64(deviation)/float64(maxDeviation))
}

// Percentage converts a score to a 0-100 display value with one decimal.
func Percentage(score float64) float64 {
	p := score / maxCompatibilityScore * percentageScale
	return math.Round(p*percentageRoundingFactor) / percentageRoundingFactor
}

// preferSpec reports whether a should replace b as a product's chosen row:
// smaller deviation, then lighter shaft, then stiffer spine.
func preferSpec(a, b MatchResult) bool {
	if a.SpineDeviation != b.SpineDeviation {
		return a.SpineDeviation < b.SpineDeviation
	}
	if a.Spec.GPIWeight != b.Spec.GPIWeight {
		return a.Spec.GPIWeight < b.Spec.GPIWeight
	}
	return a.Units.Stiffer(a.Spec.Spine, b.Spec.Spine)
}

func ranksBefore(a, b MatchResult) bool {
	if a.CompatibilityScore != b.CompatibilityScore {
		return a.CompatibilityScore > b.CompatibilityScore
	}
	am, bm := strings.ToLower(a.Product.Manufacturer), strings.ToLower(b.Product.Manufacturer)
	if am != bm {
		return am < bm
	}
	if a.Product.ModelName != b.Product.ModelName {
		return a.Product.ModelName < b.Product.ModelName
	}
	return a.Spec.Spine < b.Spec.Spine
}

func productKey(p model.ArrowProduct) string {
	if p.ID != "" {
		return p.ID
	}
	return strings.ToLower(p.Manufacturer) + "\x00" + strings.ToLower(p.ModelName)
}
