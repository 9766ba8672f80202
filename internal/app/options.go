package service

import (
	"github.com/okian/spinematch/internal/adapters/repository"
	"github.com/okian/spinematch/internal/domain/model"
	"github.com/okian/spinematch/internal/domain/spine"
	"github.com/okian/spinematch/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore uses st for the catalog, charts and chronograph records.
func WithStore(st *repository.MemoryStore) Option {
	return func(s *Service) {
		if st != nil {
			s.catalog = st
			s.charts = st
			s.chronographs = st
			s.stats = st
		}
	}
}

// WithCatalog sets the product catalog.
func WithCatalog(c model.CatalogQuery) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithCharts sets the spine chart source.
func WithCharts(c model.ChartSource) Option {
	return func(s *Service) {
		if c != nil {
			s.charts = c
		}
	}
}

// WithChronographs sets the chronograph record source.
func WithChronographs(c model.ChronographSource) Option {
	return func(s *Service) {
		if c != nil {
			s.chronographs = c
		}
	}
}

// WithDefaultMethod sets the method used when a request names none.
// Unknown names are ignored.
func WithDefaultMethod(name string) Option {
	return func(s *Service) {
		if m, err := spine.ParseMethod(name); err == nil {
			s.defaultMethod = m
		}
	}
}

// WithLimits sets the default and maximum number of recommendations.
func WithLimits(defaultLimit, maxLimit int) Option {
	return func(s *Service) {
		if defaultLimit > 0 {
			s.defaultLimit = defaultLimit
		}
		if maxLimit >= s.defaultLimit {
			s.maxLimit = maxLimit
		}
	}
}

// WithMaxDeviation sets the deviations at which compatibility reaches zero.
func WithMaxDeviation(deflection, woodPounds int) Option {
	return func(s *Service) {
		if deflection > 0 {
			s.maxDeviation = deflection
		}
		if woodPounds > 0 {
			s.maxWoodDeviation = woodPounds
		}
	}
}

// WithSpeedBounds sets the band estimated speeds are clamped into.
func WithSpeedBounds(floor, ceiling float64) Option {
	return func(s *Service) {
		if floor > 0 && ceiling > floor {
			s.speedFloor = floor
			s.speedCeiling = ceiling
		}
	}
}

// WithBatchWorkers bounds the number of sessions built in parallel.
func WithBatchWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchWorkers = n
		}
	}
}
