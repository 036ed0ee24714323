package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"cleanlyBack/internal/models"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{models.ErrUnauthenticated, http.StatusUnauthorized},
		{models.ErrPermissionDenied, http.StatusForbidden},
		{models.ErrInvalidArgument, http.StatusBadRequest},
		{models.ErrNotFound, http.StatusNotFound},
		{models.ErrJobNotFound, http.StatusNotFound},
		{models.ErrDisputeNotFound, http.StatusNotFound},
		{models.ErrAlreadyExists, http.StatusConflict},
		{models.ErrAlreadyReviewed, http.StatusConflict},
		{models.ErrFailedPrecondition, http.StatusUnprocessableEntity},
		{models.ErrDeadlineExceeded, http.StatusGone},
		{models.ErrInternal, http.StatusInternalServerError},
		{errors.New("driver: bad connection"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		if got := statusFor(c.err); got != c.want {
			t.Errorf("statusFor(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestStatusForWrappedError(t *testing.T) {
	err := fmt.Errorf("%w: refund not issued", models.ErrInternal)
	if got := statusFor(err); got != http.StatusInternalServerError {
		t.Errorf("statusFor(wrapped internal) = %d, want %d", got, http.StatusInternalServerError)
	}

	err = fmt.Errorf("open dispute: %w", models.ErrDeadlineExceeded)
	if got := statusFor(err); got != http.StatusGone {
		t.Errorf("statusFor(wrapped deadline) = %d, want %d", got, http.StatusGone)
	}
}
