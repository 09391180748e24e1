package importing

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"shm/common"
	"shm/hashmap"
)

const (
	WorldWidth  = 360.0
	WorldHeight = 180.0
)

// WorldOrigin is the lon/lat coordinate of the world's (0,0) position.
var WorldOrigin = orb.Point{-180, -90}

// NodeObjectID returns the version-free ID under which a node is stored in a Layer.
func NodeObjectID(id osm.NodeID) osm.ObjectID {
	return id.ObjectID(0)
}

// WayObjectID returns the version-free ID under which a way is stored in a Layer.
func WayObjectID(id osm.WayID) osm.ObjectID {
	return id.ObjectID(0)
}

// Group is a set of possibly colliding objects together with the lon/lat bound of the cell they share.
type Group struct {
	Cell orb.Bound
	IDs  []osm.ObjectID
}

// Layer contains the imported OSM objects registered in a spatial hashmap together with their geometries.
type Layer struct {
	Hashmap    *hashmap.SpatialHashmap[osm.ObjectID]
	Geometries map[osm.ObjectID]orb.Geometry
}

func NewLayer(cellSize int) (*Layer, error) {
	h, err := hashmap.NewSpatialHashmap[osm.ObjectID](hashmap.Config{
		Width:    WorldWidth,
		Height:   WorldHeight,
		CellSize: cellSize,
	})
	if err != nil {
		return nil, err
	}

	return &Layer{
		Hashmap:    h,
		Geometries: map[osm.ObjectID]orb.Geometry{},
	}, nil
}

func (l *Layer) Add(id osm.ObjectID, geometry orb.Geometry) error {
	rect := common.RectangleFromBound(geometry.Bound(), WorldOrigin)
	_, err := l.Hashmap.Add(id, &rect)
	if err != nil {
		return err
	}
	l.Geometries[id] = geometry
	return nil
}

// Nearby returns the IDs of all objects possibly intersecting the given lon/lat bound.
func (l *Layer) Nearby(bound orb.Bound) ([]osm.ObjectID, error) {
	rect := common.RectangleFromBound(bound, WorldOrigin)
	return l.Hashmap.GetNearby(&rect)
}

// NearbyRectangle is like Nearby but takes a rectangle in lon/lat whose X and Y are the minimum lon and lat.
func (l *Layer) NearbyRectangle(lonLatRect *common.Rectangle) ([]osm.ObjectID, error) {
	if lonLatRect == nil {
		return l.Hashmap.GetNearby(nil)
	}

	rect := *lonLatRect
	rect.X -= WorldOrigin.X()
	rect.Y -= WorldOrigin.Y()
	return l.Hashmap.GetNearby(&rect)
}

// Groups returns each candidate group with the bound of its cell.
func (l *Layer) Groups() []Group {
	var result []Group
	for _, cell := range l.Hashmap.GetPossiblyCollidingCells() {
		cellRect := l.Hashmap.GetCellRectangle(cell)
		result = append(result, Group{
			Cell: cellRect.ToBound(WorldOrigin),
			IDs:  l.Hashmap.GetObjectsInCell(cell),
		})
	}
	return result
}
