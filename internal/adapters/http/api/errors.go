package api

import (
	"errors"
	"net/http"

	service "github.com/okian/spinematch/internal/app"
	"github.com/okian/spinematch/internal/domain/model"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrBatchTooLarge = errors.New("batch too large")
)

// statusFor maps domain failures to HTTP status codes: malformed input is
// 400, an unknown chart 404, and a well-formed request the chosen method
// cannot serve 422.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, ErrBatchTooLarge),
		errors.Is(err, model.ErrInvalidConfiguration),
		errors.Is(err, model.ErrInvalidMethod),
		errors.Is(err, model.ErrMissingChartSelection),
		errors.Is(err, model.ErrInvalidTarget):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrChartNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrUnsupportedBowType),
		errors.Is(err, model.ErrNoMatchingRow):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func codeFor(err error) string {
	switch {
	case errors.Is(err, ErrBadRequest):
		return "bad_request"
	case errors.Is(err, ErrBatchTooLarge):
		return "batch_too_large"
	}
	return service.ErrorKind(err)
}
