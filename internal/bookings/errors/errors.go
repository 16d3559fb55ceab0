package errors

import "errors"

var (
	ErrInvalidTransition = errors.New("invalid booking status transition")

	ErrInvalidInitialStatus = errors.New("booking cannot be created in this status")
)
