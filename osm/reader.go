package osm

import (
	"context"
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
	"io"
	"os"
	"strings"
	"time"
)

type OsmDataHandler interface {
	Name() string
	Init() error
	HandleNode(node *osm.Node) error
	HandleWay(way *osm.Way) error
	HandleRelation(relation *osm.Relation) error
	Done() error
}

type OsmReader struct {
	firstWayHasBeenProcessed      bool
	firstRelationHasBeenProcessed bool
}

func NewOsmReader() *OsmReader {
	return &OsmReader{
		firstWayHasBeenProcessed:      false,
		firstRelationHasBeenProcessed: false,
	}
}

// IsSupportedFile returns true for .osm (XML) and .pbf files.
func IsSupportedFile(filename string) bool {
	return strings.HasSuffix(filename, ".osm") || strings.HasSuffix(filename, ".pbf")
}

func (r *OsmReader) Read(filename string, handlers ...OsmDataHandler) error {
	if !IsSupportedFile(filename) {
		return errors.Errorf("Input file %s must be an .osm or .pbf file", filename)
	}

	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "Unable to open OSM input file %s", filename)
	}
	defer file.Close()

	sigolo.Infof("Start processing OSM data file %s", filename)
	importStartTime := time.Now()

	err = r.ReadStream(file, strings.HasSuffix(filename, ".pbf"), handlers...)
	if err != nil {
		return err
	}

	sigolo.Infof("Done processing OSM data in %s", time.Since(importStartTime))
	return nil
}

// ReadStream passes all objects of the reader to the handlers. The data must be OSM-XML unless isPbf is set.
func (r *OsmReader) ReadStream(reader io.Reader, isPbf bool, handlers ...OsmDataHandler) error {
	var scanner osm.Scanner
	if isPbf {
		scanner = osmpbf.New(context.Background(), reader, 1)
	} else {
		scanner = osmxml.New(context.Background(), reader)
	}
	return r.readScanner(scanner, handlers...)
}

// readScanner always closes the scanner. Errors of the handlers take precedence over the error of closing.
func (r *OsmReader) readScanner(scanner osm.Scanner, handlers ...OsmDataHandler) error {
	err := r.processObjects(scanner, handlers...)
	closeErr := scanner.Close()
	if err != nil {
		return err
	}
	if closeErr != nil {
		return errors.Wrapf(closeErr, "Unable to close OSM scanner")
	}
	return nil
}

func (r *OsmReader) processObjects(scanner osm.Scanner, handlers ...OsmDataHandler) error {
	for _, handler := range handlers {
		err := handler.Init()
		if err != nil {
			return errors.Wrapf(err, "Initializing OSM data handler '%s' failed", handler.Name())
		}
	}

	sigolo.Debug("Start processing nodes (1/3)")
	for scanner.Scan() {
		switch osmObj := scanner.Object().(type) {
		case *osm.Node:
			for _, handler := range handlers {
				err := handler.HandleNode(osmObj)
				if err != nil {
					return errors.Wrapf(err, "Handling node %d using handler '%s' failed", osmObj.ID, handler.Name())
				}
			}
		case *osm.Way:
			if !r.firstWayHasBeenProcessed {
				sigolo.Debug("Start processing ways (2/3)")
				r.firstWayHasBeenProcessed = true
			}

			for _, handler := range handlers {
				err := handler.HandleWay(osmObj)
				if err != nil {
					return errors.Wrapf(err, "Handling way %d using handler '%s' failed", osmObj.ID, handler.Name())
				}
			}
		case *osm.Relation:
			if !r.firstRelationHasBeenProcessed {
				sigolo.Debug("Start processing relations (3/3)")
				r.firstRelationHasBeenProcessed = true
			}

			for _, handler := range handlers {
				err := handler.HandleRelation(osmObj)
				if err != nil {
					return errors.Wrapf(err, "Handling relation %d using handler '%s' failed", osmObj.ID, handler.Name())
				}
			}
		}
	}

	err := scanner.Err()
	if err != nil {
		return errors.Wrap(err, "Unable to scan OSM data")
	}

	for _, handler := range handlers {
		err = handler.Done()
		if err != nil {
			return errors.Wrapf(err, "Calling done function on handler '%s' failed", handler.Name())
		}
	}

	return nil
}
