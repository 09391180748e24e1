package hashmap

import (
	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"
	"shm/common"
	"shm/util"
)

// SpatialHashmap is a uniform grid used to find objects that are potentially colliding. It's typically used as a
// preliminary check before doing more precise collision detection. Objects are stored by identity, so later changes
// of their geometry are not reflected until they are added again.
//
// The hashmap is not safe for concurrent use.
type SpatialHashmap[T comparable] struct {
	config          Config
	grid            [][]*ObjectSet[T] // Indexed by [column][row]
	numberOfColumns int
	numberOfRows    int
}

func NewSpatialHashmap[T comparable](config Config) (*SpatialHashmap[T], error) {
	err := config.Validate()
	if err != nil {
		return nil, err
	}

	// A 2D grid instead of a flat one for easier debuggability
	grid := make([][]*ObjectSet[T], config.CellSize)
	for x := range grid {
		grid[x] = make([]*ObjectSet[T], config.CellSize)
		for y := range grid[x] {
			grid[x][y] = newObjectSet[T]()
		}
	}

	sigolo.Debugf("Created spatial hashmap of size %vx%v with %dx%d cells", config.Width, config.Height, config.CellSize, config.CellSize)

	return &SpatialHashmap[T]{
		config:          config,
		grid:            grid,
		numberOfColumns: config.CellSize,
		numberOfRows:    config.CellSize,
	}, nil
}

// Create is equivalent to NewSpatialHashmap.
func Create[T comparable](config Config) (*SpatialHashmap[T], error) {
	return NewSpatialHashmap[T](config)
}

func (h *SpatialHashmap[T]) Config() Config { return h.config }

func (h *SpatialHashmap[T]) NumberOfColumns() int { return h.numberOfColumns }

func (h *SpatialHashmap[T]) NumberOfRows() int { return h.numberOfRows }

func (h *SpatialHashmap[T]) NumberOfCells() int { return h.numberOfColumns * h.numberOfRows }

// Add registers the object in all cells overlapping the given range. Ranges partially or completely outside the world
// are clamped into the nearest edge cells. The hashmap itself is returned to allow chaining.
func (h *SpatialHashmap[T]) Add(object T, rect *common.Rectangle) (*SpatialHashmap[T], error) {
	if !common.IsValidRectangle(rect) {
		return h, errors.Wrapf(ErrInvalidRectangle, "Attempting to add an object with an invalid range %s", describe(rect))
	}

	extent := h.GetCellExtent(*rect)
	for _, cell := range extent.GetCellIndices() {
		h.cell(cell).add(object)
	}

	if sigolo.ShouldLogTrace() {
		sigolo.Tracef("Added object %v with range %s to cells %v", object, rect, extent)
	}

	return h, nil
}

// GetNearby returns every object sharing at least one cell with the given range. Each object appears exactly once,
// ordered by the first cell it was found in.
func (h *SpatialHashmap[T]) GetNearby(rect *common.Rectangle) ([]T, error) {
	if !common.IsValidRectangle(rect) {
		return nil, errors.Wrapf(ErrInvalidRectangle, "Attempting to query nearby objects with invalid range %s", describe(rect))
	}
	if rect.IsOutOfBounds(h.config.Width, h.config.Height) {
		return nil, errors.Wrapf(ErrOutOfBounds, "Attempting to query nearby objects with an out of bounds range %s", rect)
	}

	seenObjects := map[T]struct{}{}
	nearbyObjects := []T{}
	for _, cell := range h.GetCellExtent(*rect).GetCellIndices() {
		for _, object := range h.cell(cell).items {
			if _, seen := seenObjects[object]; seen {
				continue
			}

			nearbyObjects = append(nearbyObjects, object)
			seenObjects[object] = struct{}{}
		}
	}

	sigolo.Tracef("Found %d objects near %s", len(nearbyObjects), rect)

	return nearbyObjects, nil
}

// GetPossiblyCollidingGroups returns the object set of every cell containing more than one object. Two objects sharing
// several cells therefore occur together in several groups.
func (h *SpatialHashmap[T]) GetPossiblyCollidingGroups() []*ObjectSet[T] {
	var possiblyCollidingGroups []*ObjectSet[T]
	for _, cell := range h.GetPossiblyCollidingCells() {
		possiblyCollidingGroups = append(possiblyCollidingGroups, h.cell(cell))
	}
	return possiblyCollidingGroups
}

// GetPossiblyCollidingCells returns the cells of the groups from GetPossiblyCollidingGroups in the same order.
func (h *SpatialHashmap[T]) GetPossiblyCollidingCells() []common.CellIndex {
	var cells []common.CellIndex
	for _, cell := range h.gridExtent().GetCellIndices() {
		if h.cell(cell).Len() > 1 {
			cells = append(cells, cell)
		}
	}
	return cells
}

// GetCellExtent returns the cells touched by the given range after clamping it to the grid. The range is not
// validated. Ranges with negative width or height cover the cells between their two corners.
func (h *SpatialHashmap[T]) GetCellExtent(rect common.Rectangle) common.CellExtent {
	topLeft, bottomRight := rect.Corners()
	minCell := h.getCellIndex(topLeft)
	maxCell := h.getCellIndex(bottomRight)
	return common.CellExtent{minCell, minCell}.Expand(maxCell)
}

// GetCellRectangle returns the area in world coordinates covered by the given cell.
func (h *SpatialHashmap[T]) GetCellRectangle(cell common.CellIndex) common.Rectangle {
	cellWidth := h.config.CellWidth()
	cellHeight := h.config.CellHeight()
	return common.Rectangle{
		X:      float64(cell.X()) * cellWidth,
		Y:      float64(cell.Y()) * cellHeight,
		Width:  cellWidth,
		Height: cellHeight,
	}
}

// GetObjectsInCell returns the objects of the given cell or nil when the cell is not part of the grid.
func (h *SpatialHashmap[T]) GetObjectsInCell(cell common.CellIndex) []T {
	if !h.isWithinGrid(cell) {
		return nil
	}
	return h.grid[cell.X()][cell.Y()].Items()
}

func (h *SpatialHashmap[T]) getCellIndex(p common.Point) common.CellIndex {
	return common.GetCellIndexForPoint(p, h.config.Width, h.config.Height, h.numberOfColumns, h.numberOfRows)
}

func (h *SpatialHashmap[T]) gridExtent() common.CellExtent {
	return common.CellExtent{
		common.CellIndex{0, 0},
		common.CellIndex{h.numberOfColumns - 1, h.numberOfRows - 1},
	}
}

func (h *SpatialHashmap[T]) isWithinGrid(cell common.CellIndex) bool {
	return h.gridExtent().Contains(cell)
}

func (h *SpatialHashmap[T]) cell(cell common.CellIndex) *ObjectSet[T] {
	if !h.isWithinGrid(cell) {
		util.LogFatalBug("Cell %v is outside of the %dx%d grid", cell, h.numberOfColumns, h.numberOfRows)
	}
	return h.grid[cell.X()][cell.Y()]
}

func describe(rect *common.Rectangle) string {
	if rect == nil {
		return "<nil>"
	}
	return rect.String()
}
