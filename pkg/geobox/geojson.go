package geobox

import (
	"github.com/1F47E/geobox/pkg/models"
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection renders boxes as GeoJSON polygons tagged with their
// identifier and scope, for eyeballing a storage set on a map
func (c Config) FeatureCollection(boxes []models.BoundingBox) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, box := range boxes {
		f := geojson.NewFeature(box.Bound().ToPolygon())
		f.Properties["geobox"] = c.Identifier(box)
		f.Properties["scope"] = box.Size().String()
		fc.Append(f)
	}
	return fc
}
