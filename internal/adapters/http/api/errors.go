package api

import (
	"errors"
	"net/http"

	"github.com/okian/crewcast/internal/adapters/csvio"
	"github.com/okian/crewcast/internal/domain/feature"
	"github.com/okian/crewcast/internal/domain/predict"
	"github.com/okian/crewcast/internal/domain/runtime"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrTooLarge   = errors.New("upload too large")
	ErrForbidden  = errors.New("model source not allowed")
)

// Error codes returned in error bodies.
const (
	codeBadRequest    = "bad_request"
	codeTooLarge      = "too_large"
	codeForbidden     = "forbidden"
	codeInputError    = "input_error"
	codeFileError     = "file_error"
	codeModelError    = "model_error"
	codeInternalError = "internal_error"
)

// writeDomainError maps a service error to its status and code. The message
// is the original error text.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, feature.ErrInput):
		writeError(w, http.StatusBadRequest, codeInputError, err)
	case errors.Is(err, csvio.ErrFile):
		writeError(w, http.StatusBadRequest, codeFileError, err)
	case errors.Is(err, runtime.ErrUnloaded):
		writeError(w, http.StatusServiceUnavailable, codeModelError, err)
	case errors.Is(err, predict.ErrModel), errors.Is(err, runtime.ErrLoad):
		writeError(w, http.StatusUnprocessableEntity, codeModelError, err)
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, err)
	}
}
