package models

import (
	"errors"
)

// Operation errors map one-to-one onto API status codes in the handlers.
var (
	ErrUnauthenticated    = errors.New("models: unauthenticated")
	ErrPermissionDenied   = errors.New("models: permission denied")
	ErrInvalidArgument    = errors.New("models: invalid argument")
	ErrNotFound           = errors.New("models: not found")
	ErrAlreadyExists      = errors.New("models: already exists")
	ErrFailedPrecondition = errors.New("models: failed precondition")
	ErrDeadlineExceeded   = errors.New("models: deadline exceeded")
	ErrInternal           = errors.New("models: internal failure")
)

var (
	ErrJobNotFound     = errors.New("models: job not found")
	ErrProNotFound     = errors.New("models: pro not found")
	ErrLeadNotFound    = errors.New("models: lead not found")
	ErrDisputeNotFound = errors.New("models: dispute not found")
	ErrPaymentNotFound = errors.New("models: payment not found")
	ErrChatNotFound    = errors.New("models: chat not found")
	ErrAlreadyReviewed = errors.New("models: job already reviewed")
)
