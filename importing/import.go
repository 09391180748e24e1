package importing

import (
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"io"
	ownOsm "shm/osm"
	"time"
)

// HashmapImporter is an OsmDataHandler registering nodes and ways in a Layer. Nodes become degenerated rectangles,
// ways are added with the bound of their nodes. Relations are ignored.
type HashmapImporter struct {
	Layer           *Layer
	nodeToPosition  map[osm.NodeID]orb.Point
	amountOfNodes   int
	amountOfWays    int
	amountOfSkipped int
}

func NewHashmapImporter(layer *Layer) *HashmapImporter {
	return &HashmapImporter{
		Layer: layer,
	}
}

func (i *HashmapImporter) Name() string {
	return "HashmapImporter"
}

func (i *HashmapImporter) Init() error {
	i.nodeToPosition = map[osm.NodeID]orb.Point{}
	return nil
}

func (i *HashmapImporter) HandleNode(node *osm.Node) error {
	point := node.Point()
	i.nodeToPosition[node.ID] = point

	err := i.Layer.Add(NodeObjectID(node.ID), point)
	if err != nil {
		return err
	}

	i.amountOfNodes++
	return nil
}

func (i *HashmapImporter) HandleWay(way *osm.Way) error {
	var lineString orb.LineString
	for _, wayNode := range way.Nodes {
		point, ok := i.nodeToPosition[wayNode.ID]
		if !ok {
			continue
		}
		lineString = append(lineString, point)
	}

	if len(lineString) == 0 {
		sigolo.Debugf("Skip way %d without any known node", way.ID)
		i.amountOfSkipped++
		return nil
	}

	err := i.Layer.Add(WayObjectID(way.ID), lineString)
	if err != nil {
		return err
	}

	i.amountOfWays++
	return nil
}

func (i *HashmapImporter) HandleRelation(relation *osm.Relation) error {
	return nil
}

func (i *HashmapImporter) Done() error {
	sigolo.Debugf("Imported %d nodes and %d ways, skipped %d ways", i.amountOfNodes, i.amountOfWays, i.amountOfSkipped)
	i.nodeToPosition = nil
	return nil
}

// Import reads the given .osm or .pbf file into a new layer with cellSize*cellSize cells.
func Import(inputFile string, cellSize int) (*Layer, error) {
	layer, err := NewLayer(cellSize)
	if err != nil {
		return nil, err
	}

	sigolo.Infof("Start import of file %s", inputFile)
	importStartTime := time.Now()

	err = ownOsm.NewOsmReader().Read(inputFile, NewHashmapImporter(layer))
	if err != nil {
		return nil, err
	}

	sigolo.Infof("Finished import of %d objects in %s", len(layer.Geometries), time.Since(importStartTime))
	return layer, nil
}

func ImportFrom(reader io.Reader, isPbf bool, cellSize int) (*Layer, error) {
	layer, err := NewLayer(cellSize)
	if err != nil {
		return nil, err
	}

	err = ownOsm.NewOsmReader().ReadStream(reader, isPbf, NewHashmapImporter(layer))
	if err != nil {
		return nil, err
	}

	return layer, nil
}
