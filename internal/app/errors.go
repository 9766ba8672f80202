package service

import (
	"context"
	"errors"

	"github.com/okian/spinematch/internal/domain/model"
)

// ErrorKind returns a stable snake_case name for err, used as a metrics
// label and as the API error code.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, model.ErrInvalidConfiguration):
		return "invalid_configuration"
	case errors.Is(err, model.ErrUnsupportedBowType):
		return "unsupported_bow_type"
	case errors.Is(err, model.ErrInvalidMethod):
		return "invalid_method"
	case errors.Is(err, model.ErrMissingChartSelection):
		return "missing_chart_selection"
	case errors.Is(err, model.ErrChartNotFound):
		return "chart_not_found"
	case errors.Is(err, model.ErrNoMatchingRow):
		return "no_matching_row"
	case errors.Is(err, model.ErrInvalidTarget):
		return "invalid_target"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}
