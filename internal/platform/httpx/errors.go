package httpx

import (
	"errors"
	"net/http"

	"github.com/trusthub/trusthub/internal/shared"
)

// Sentinel errors owned by the transport layer.
var (
	ErrValidation = errors.New("validation failed")
	ErrDuplicate  = errors.New("duplicate entry")
)

// RespondError maps domain errors to HTTP responses using RFC7807.
// Anything outside the known taxonomy is reported as a generic internal
// error with no detail leakage.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidCredentials):
		Problem(w, http.StatusUnauthorized, "Invalid Credentials", shared.ErrInvalidCredentials.Error())
	case errors.Is(err, shared.ErrUnauthorized):
		Problem(w, http.StatusUnauthorized, "Unauthorized", shared.ErrUnauthorized.Error())
	case errors.Is(err, shared.ErrNoAccess):
		Problem(w, http.StatusForbidden, "No Access", shared.ErrNoAccess.Error())
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", shared.ErrNotFound.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", ErrDuplicate.Error())
	case errors.Is(err, shared.ErrStoreUnavailable):
		Problem(w, http.StatusServiceUnavailable, "Store Unavailable", "temporary failure, retry later")
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
