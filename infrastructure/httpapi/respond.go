package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/ahrav/go-medals/internal/domain"
	"github.com/ahrav/go-medals/internal/ports"
)

// Error is the body of every error response.
type Error struct {
	Message string `json:"message"`
}

// ResponseJSON writes data as a 200 JSON response.
func ResponseJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// RespondWithError writes a JSON error body with status.
func RespondWithError(w http.ResponseWriter, status int, e Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(e); err != nil {
		logrus.WithError(err).Warn("failed to encode error response")
	}
}

// statusFor maps an error onto an HTTP status code. A dataset that could
// not be read is 503 since a later reload may succeed; a malformed one is 500.
func statusFor(err error) int {
	var (
		verrs validator.ValidationErrors
		dsErr *ports.DatasetError
	)
	switch {
	case errors.As(err, &verrs),
		errors.Is(err, domain.ErrInvalidCriterion),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrTooManyCountries),
		errors.Is(err, domain.ErrEmptyValue),
		errors.Is(err, errBadQuery):
		return http.StatusBadRequest
	case errors.Is(err, errUnknownCountry):
		return http.StatusNotFound
	case errors.As(err, &dsErr) && dsErr.IsRetryable(),
		errors.Is(err, ports.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondErr logs server errors and writes the mapped status.
func (s *Server) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.WithFields(logrus.Fields{
			"path":   r.URL.Path,
			"status": status,
		}).WithError(err).Error("request failed")
	}
	RespondWithError(w, status, Error{Message: err.Error()})
}
