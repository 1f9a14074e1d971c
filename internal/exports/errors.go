package exports

import "errors"

// ErrInvalidInput is returned for request bodies that name no usable document.
var ErrInvalidInput = errors.New("invalid export request")
