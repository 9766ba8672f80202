package model

import "context"

// CatalogQuery is the read-only product catalog.
type CatalogQuery interface {
	// QuerySpecifications returns every (product, spec) pair whose spine lies
	// in [q.SpineMin, q.SpineMax] and which passes q.Filters.
	QuerySpecifications(ctx context.Context, q SpecQuery) ([]CatalogEntry, error)
}

// ChartSource resolves spine charts by id or manufacturer name.
type ChartSource interface {
	// GetChart returns ErrChartNotFound when nothing matches.
	GetChart(ctx context.Context, idOrManufacturer string) (SpineChart, error)
}

// ChronographSource looks up verified speed measurements.
type ChronographSource interface {
	// GetVerifiedRecord returns nil, nil when no verified record exists.
	GetVerifiedRecord(ctx context.Context, setupID, arrowID string) (*ChronographRecord, error)
}
