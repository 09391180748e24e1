package common

import (
	"fmt"
	"github.com/paulmach/orb"
	"math"
)

type Point struct {
	X float64
	Y float64
}

// Rectangle is an axis-aligned box in world coordinates. X and Y denote the corner with the smallest coordinates.
type Rectangle struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func RectangleFromBound(bound orb.Bound, origin orb.Point) Rectangle {
	return Rectangle{
		X:      bound.Min.X() - origin.X(),
		Y:      bound.Min.Y() - origin.Y(),
		Width:  bound.Max.X() - bound.Min.X(),
		Height: bound.Max.Y() - bound.Min.Y(),
	}
}

func (r Rectangle) String() string {
	return fmt.Sprintf("[x=%v, y=%v, width=%v, height=%v]", r.X, r.Y, r.Width, r.Height)
}

// Corners returns the top-left and bottom-right corner. Width and height are not checked, so a rectangle with
// negative extent has its corners swapped.
func (r Rectangle) Corners() (Point, Point) {
	return Point{r.X, r.Y}, Point{r.X + r.Width, r.Y + r.Height}
}

// IsOutOfBounds is only true when the rectangle misses the world on the x-axis AND on the y-axis. A rectangle
// overlapping the world on one axis counts as in bounds.
func (r Rectangle) IsOutOfBounds(worldWidth float64, worldHeight float64) bool {
	isWidthOutOfBounds := r.X > worldWidth || r.X+r.Width < 0
	isHeightOutOfBounds := r.Y > worldHeight || r.Y+r.Height < 0
	return isWidthOutOfBounds && isHeightOutOfBounds
}

func (r Rectangle) ToBound(origin orb.Point) orb.Bound {
	return orb.Bound{
		Min: orb.Point{r.X + origin.X(), r.Y + origin.Y()},
		Max: orb.Point{r.X + r.Width + origin.X(), r.Y + r.Height + origin.Y()},
	}
}

// IsValidRectangle returns true when the rectangle exists and all of its fields are finite numbers.
func IsValidRectangle(r *Rectangle) bool {
	return r != nil &&
		isFinite(r.X) &&
		isFinite(r.Y) &&
		isFinite(r.Width) &&
		isFinite(r.Height)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
