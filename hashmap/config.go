package hashmap

import (
	"github.com/pkg/errors"
	"math"
)

// Config describes the world covered by the hashmap. CellSize is the number of cells per axis, so the world is always
// divided into CellSize*CellSize cells regardless of its aspect ratio.
type Config struct {
	Width    float64
	Height   float64
	CellSize int
}

func (c Config) Validate() error {
	if !isPositiveFinite(c.Width) {
		return errors.Wrapf(ErrInvalidConfig, "Width must be a positive finite number but was %v", c.Width)
	}
	if !isPositiveFinite(c.Height) {
		return errors.Wrapf(ErrInvalidConfig, "Height must be a positive finite number but was %v", c.Height)
	}
	if c.CellSize <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "Cell size must be positive but was %d", c.CellSize)
	}
	return nil
}

// CellWidth returns the physical width of one cell.
func (c Config) CellWidth() float64 {
	return c.Width / float64(c.CellSize)
}

// CellHeight returns the physical height of one cell.
func (c Config) CellHeight() float64 {
	return c.Height / float64(c.CellSize)
}

func isPositiveFinite(f float64) bool {
	return f > 0 && !math.IsInf(f, 1)
}
