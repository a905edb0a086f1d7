package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/smarttask/internal/common"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps a service error to a status code. Internal failures are
// logged and reported without detail.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "error", err, "request_id", requestIDFrom(r.Context()))
		msg = common.ErrorInternal.Error()
	}
	writeJSON(w, status, errorBody{Error: msg})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, common.ErrorNotFound), errors.Is(err, common.ErrOwnerNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, common.ErrInvalidEmail),
		errors.Is(err, common.ErrWeakPassword),
		errors.Is(err, common.ErrInvalidName),
		errors.Is(err, common.ErrEmptyTitle),
		errors.Is(err, common.ErrEmptyOwner),
		errors.Is(err, common.ErrMissingDueDate),
		errors.Is(err, common.ErrInvalidDueDate),
		errors.Is(err, common.ErrInvalidFilter),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrInactive):
		return http.StatusForbidden
	case errors.Is(err, common.ErrWrongPassword),
		errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

var errBadRequest = errors.New("invalid request payload")

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
