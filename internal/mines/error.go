package mines

import "errors"

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrOutOfBounds          = errors.New("cell out of bounds")
)
