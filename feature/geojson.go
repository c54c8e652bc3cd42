package feature

import (
	"math"

	"github.com/paulmach/orb/geojson"
)

// GeoJSON converts the collection to a GeoJSON feature collection. Attribute
// columns become feature properties; numeric missing values (NaN) are emitted
// as null since JSON has no NaN.
func (c *Collection) GeoJSON() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	geoms := c.Geometry()
	for i := 0; i < c.Len(); i++ {
		var f *geojson.Feature
		if geoms != nil && geoms[i] != nil {
			f = geojson.NewFeature(geoms[i])
		} else {
			f = &geojson.Feature{Type: "Feature", Properties: make(geojson.Properties)}
		}
		for _, col := range c.cols {
			if col.Type == TypeGeometry {
				continue
			}
			switch col.Type {
			case TypeString:
				f.Properties[col.Name] = col.Str[i]
			case TypeNumeric:
				if math.IsNaN(col.Num[i]) {
					f.Properties[col.Name] = nil
				} else {
					f.Properties[col.Name] = col.Num[i]
				}
			}
		}
		fc.Append(f)
	}
	return fc
}
