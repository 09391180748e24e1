package io

import (
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
	"io"
	"os"
	"shm/importing"
	"time"
)

// WriteGeoJsonFile creates the given file and passes it to the write function.
func WriteGeoJsonFile(filename string, write func(writer io.Writer) error) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "Unable to create GeoJSON file %s", filename)
	}

	defer func() {
		closeErr := file.Close()
		if err == nil && closeErr != nil {
			err = errors.Wrapf(closeErr, "Unable to close file handle for GeoJSON file %s", filename)
		}
	}()

	return write(file)
}

func WriteNearbyAsGeoJson(ids []osm.ObjectID, geometries map[osm.ObjectID]orb.Geometry, writer io.Writer) error {
	sigolo.Debugf("Write %d nearby objects to GeoJSON", len(ids))

	featureCollection := geojson.NewFeatureCollection()
	for _, id := range ids {
		geoJsonFeature := toGeoJsonFeature(id, geometries)
		if geoJsonFeature == nil {
			continue
		}
		featureCollection.Append(geoJsonFeature)
	}

	return writeFeatureCollection(featureCollection, writer)
}

// WriteGroupsAsGeoJson writes the polygon of each group's cell followed by one feature per object of the group. The
// "@group" property contains the index of the group, so an object being part of several groups occurs several times.
// Cell features carry the "@cell" property instead of OSM properties.
func WriteGroupsAsGeoJson(groups []importing.Group, geometries map[osm.ObjectID]orb.Geometry, writer io.Writer) error {
	sigolo.Infof("Write %d groups to GeoJSON", len(groups))
	writeStartTime := time.Now()

	featureCollection := geojson.NewFeatureCollection()
	for groupIndex, group := range groups {
		cellFeature := geojson.NewFeature(group.Cell.ToPolygon())
		cellFeature.Properties["@group"] = groupIndex
		cellFeature.Properties["@cell"] = true
		featureCollection.Append(cellFeature)

		for _, id := range group.IDs {
			geoJsonFeature := toGeoJsonFeature(id, geometries)
			if geoJsonFeature == nil {
				continue
			}
			geoJsonFeature.Properties["@group"] = groupIndex
			featureCollection.Append(geoJsonFeature)
		}
	}

	err := writeFeatureCollection(featureCollection, writer)
	if err != nil {
		return err
	}

	sigolo.Infof("Finished writing in %s", time.Since(writeStartTime))
	return nil
}

func toGeoJsonFeature(id osm.ObjectID, geometries map[osm.ObjectID]orb.Geometry) *geojson.Feature {
	geometry, ok := geometries[id]
	if !ok {
		sigolo.Debugf("Skip object %s without geometry", id.String())
		return nil
	}

	geoJsonFeature := geojson.NewFeature(geometry)
	geoJsonFeature.Properties["@osm_id"] = id.Ref()
	geoJsonFeature.Properties["@osm_type"] = string(id.Type())
	return geoJsonFeature
}

func writeFeatureCollection(featureCollection *geojson.FeatureCollection, writer io.Writer) error {
	geojsonBytes, err := featureCollection.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "Unable to marshal GeoJSON feature collection")
	}

	_, err = writer.Write(geojsonBytes)
	if err != nil {
		return errors.Wrap(err, "Unable to write GeoJSON")
	}

	return nil
}
