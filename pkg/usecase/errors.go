package usecase

import "errors"

// Sentinel errors for use case layer
var (
	ErrInvalidInput = errors.New("invalid input")
)
