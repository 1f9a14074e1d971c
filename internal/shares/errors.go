package shares

import "errors"

var (
	ErrAuthRequired = errors.New("authentication required")
	ErrNotFound     = errors.New("share not found")
	ErrInvalidInput = errors.New("invalid input")
)
