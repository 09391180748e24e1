package hashmap

import "github.com/pkg/errors"

var (
	ErrInvalidRectangle = errors.New("invalid rectangle")
	ErrOutOfBounds      = errors.New("rectangle out of bounds")
	ErrInvalidConfig    = errors.New("invalid spatial hashmap config")
)
