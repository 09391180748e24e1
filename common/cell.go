package common

import "math"

type CellIndex [2]int

// GetCellIndexForPoint maps the point onto a grid of cellsX*cellsY cells covering a world of the given size. Points
// outside the world are clamped into the nearest edge cell.
func GetCellIndexForPoint(p Point, worldWidth float64, worldHeight float64, cellsX int, cellsY int) CellIndex {
	percentageThroughWidth := p.X / worldWidth
	percentageThroughHeight := p.Y / worldHeight
	return CellIndex{
		clamp(math.Floor(percentageThroughWidth*float64(cellsX)), 0, cellsX-1),
		clamp(math.Floor(percentageThroughHeight*float64(cellsY)), 0, cellsY-1),
	}
}

// clamp works on floats so that huge coordinates never overflow the int conversion.
func clamp(value float64, lower int, upper int) int {
	if value > float64(upper) {
		return upper
	}
	if value < float64(lower) || math.IsNaN(value) {
		return lower
	}
	return int(value)
}

func (c CellIndex) X() int { return c[0] }

func (c CellIndex) Y() int { return c[1] }

func (c CellIndex) isBelowOrLeftOf(other CellIndex) bool {
	return c.X() < other.X() || c.Y() < other.Y()
}

func (c CellIndex) isAboveOrRightOf(other CellIndex) bool {
	return c.X() > other.X() || c.Y() > other.Y()
}

// CellExtent is an inclusive range of cells from the lower-left to the upper-right cell.
type CellExtent [2]CellIndex

func (c CellExtent) LowerLeftCell() CellIndex { return c[0] }

func (c CellExtent) UpperRightCell() CellIndex { return c[1] }

func (c CellExtent) Expand(cell CellIndex) CellExtent {
	if c.Contains(cell) {
		return c
	}

	minX := c.LowerLeftCell().X()
	minY := c.LowerLeftCell().Y()

	maxX := c.UpperRightCell().X()
	maxY := c.UpperRightCell().Y()

	if cell.X() < minX {
		minX = cell.X()
	}
	if cell.Y() < minY {
		minY = cell.Y()
	}

	if cell.X() > maxX {
		maxX = cell.X()
	}
	if cell.Y() > maxY {
		maxY = cell.Y()
	}

	return CellExtent{
		CellIndex{minX, minY},
		CellIndex{maxX, maxY},
	}
}

func (c CellExtent) Contains(cell CellIndex) bool {
	return !cell.isAboveOrRightOf(c.UpperRightCell()) && !cell.isBelowOrLeftOf(c.LowerLeftCell())
}

// GetCellIndices enumerates the cells column by column, so all cells of the left-most column come first.
func (c CellExtent) GetCellIndices() []CellIndex {
	var indices []CellIndex

	for x := c.LowerLeftCell().X(); x <= c.UpperRightCell().X(); x++ {
		for y := c.LowerLeftCell().Y(); y <= c.UpperRightCell().Y(); y++ {
			indices = append(indices, CellIndex{x, y})
		}
	}

	return indices
}
