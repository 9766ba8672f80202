package model

import "errors"

// Sentinel error kinds shared by the calculation, lookup and matching
// packages. Callers test them with errors.Is.
var (
	ErrInvalidConfiguration  = errors.New("invalid configuration")
	ErrUnsupportedBowType    = errors.New("unsupported bow type")
	ErrInvalidMethod         = errors.New("invalid calculation method")
	ErrMissingChartSelection = errors.New("missing chart selection")
	ErrChartNotFound         = errors.New("chart not found")
	ErrNoMatchingRow         = errors.New("no matching chart row")
	ErrInvalidTarget         = errors.New("invalid spine target")
)
