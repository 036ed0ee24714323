package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"cleanlyBack/internal/models"
)

// statusFor maps operation errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, models.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrJobNotFound),
		errors.Is(err, models.ErrProNotFound),
		errors.Is(err, models.ErrLeadNotFound),
		errors.Is(err, models.ErrDisputeNotFound),
		errors.Is(err, models.ErrPaymentNotFound),
		errors.Is(err, models.ErrChatNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrAlreadyExists),
		errors.Is(err, models.ErrAlreadyReviewed):
		return http.StatusConflict
	case errors.Is(err, models.ErrFailedPrecondition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrDeadlineExceeded):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	http.Error(w, msg, status)
}

// userIDFrom reads the authenticated user set by the JWT middleware.
func userIDFrom(r *http.Request) (int, bool) {
	id, ok := r.Context().Value("user_id").(int)
	return id, ok
}
