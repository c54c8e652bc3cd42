package loader

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"golang.org/x/text/encoding"

	"github.com/strevens/shapejoin/feature"
)

// ShapefileBackend reads ESRI shapefiles. Attribute values come from the
// .dbf companion; 'N' and 'F' fields become numeric columns and everything
// else becomes string columns decoded with the detected encoding.
type ShapefileBackend struct{}

// Read implements [Backend].
func (ShapefileBackend) Read(path string, enc encoding.Encoding) (*feature.Collection, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening shapefile: %w", err)
	}
	defer r.Close()

	fields := r.Fields()
	decoder := enc.NewDecoder()

	kinds := make([]feature.ColType, len(fields))
	strVals := make([][]string, len(fields))
	numVals := make([][]float64, len(fields))
	for i, f := range fields {
		switch f.Fieldtype {
		case 'N', 'F':
			kinds[i] = feature.TypeNumeric
		default:
			kinds[i] = feature.TypeString
		}
	}

	var geoms []orb.Geometry
	for r.Next() {
		n, shape := r.Shape()
		geom, err := shapeToOrb(shape)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", n, err)
		}
		geoms = append(geoms, geom)

		for i := range fields {
			raw := strings.TrimSpace(r.ReadAttribute(n, i))
			switch kinds[i] {
			case feature.TypeNumeric:
				numVals[i] = append(numVals[i], parseNumeric(raw))
			default:
				strVals[i] = append(strVals[i], decodeString(decoder, raw))
			}
		}
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("reading shapefile records: %w", err)
	}

	coll := feature.NewCollection(feature.KindSimpleFeature)
	coll.Source = path
	if err := coll.AddColumn(&feature.Column{
		Name: feature.GeometryColumn,
		Type: feature.TypeGeometry,
		Geom: geoms,
	}); err != nil {
		return nil, err
	}
	for i, f := range fields {
		col := &feature.Column{Name: f.String(), Type: kinds[i]}
		if kinds[i] == feature.TypeNumeric {
			col.Num = numVals[i]
		} else {
			col.Str = strVals[i]
		}
		if err := coll.AddColumn(col); err != nil {
			return nil, err
		}
	}
	return coll, nil
}

func parseNumeric(raw string) float64 {
	if raw == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func decodeString(decoder *encoding.Decoder, raw string) string {
	decoded, err := decoder.String(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// shapeToOrb converts a shapefile record to an orb geometry. Null shapes
// become nil geometry.
func shapeToOrb(s shp.Shape) (orb.Geometry, error) {
	switch v := s.(type) {
	case *shp.Null:
		return nil, nil
	case *shp.Point:
		return orb.Point{v.X, v.Y}, nil
	case *shp.PointZ:
		return orb.Point{v.X, v.Y}, nil
	case *shp.PointM:
		return orb.Point{v.X, v.Y}, nil
	case *shp.MultiPoint:
		mp := make(orb.MultiPoint, len(v.Points))
		for i, p := range v.Points {
			mp[i] = orb.Point{p.X, p.Y}
		}
		return mp, nil
	case *shp.PolyLine:
		return linesToOrb(partsToRings(v.Parts, v.Points)), nil
	case *shp.PolyLineZ:
		return linesToOrb(partsToRings(v.Parts, v.Points)), nil
	case *shp.PolyLineM:
		return linesToOrb(partsToRings(v.Parts, v.Points)), nil
	case *shp.Polygon:
		return ringsToPolygons(partsToRings(v.Parts, v.Points)), nil
	case *shp.PolygonZ:
		return ringsToPolygons(partsToRings(v.Parts, v.Points)), nil
	case *shp.PolygonM:
		return ringsToPolygons(partsToRings(v.Parts, v.Points)), nil
	default:
		return nil, fmt.Errorf("unsupported shape type %T", s)
	}
}

// partsToRings splits the flat point array into per-part point slices using
// the part start offsets.
func partsToRings(parts []int32, points []shp.Point) []orb.Ring {
	rings := make([]orb.Ring, 0, len(parts))
	for i, start := range parts {
		end := len(points)
		if i+1 < len(parts) {
			end = int(parts[i+1])
		}
		ring := make(orb.Ring, 0, end-int(start))
		for _, p := range points[start:end] {
			ring = append(ring, orb.Point{p.X, p.Y})
		}
		rings = append(rings, ring)
	}
	return rings
}

func linesToOrb(parts []orb.Ring) orb.Geometry {
	lines := make(orb.MultiLineString, len(parts))
	for i, p := range parts {
		lines[i] = orb.LineString(p)
	}
	if len(lines) == 1 {
		return lines[0]
	}
	return lines
}

// ringsToPolygons groups shapefile rings into polygons by winding order:
// clockwise rings open a new polygon, counter-clockwise rings are holes in
// the polygon opened most recently.
func ringsToPolygons(rings []orb.Ring) orb.Geometry {
	var polys orb.MultiPolygon
	for _, ring := range rings {
		if len(polys) == 0 || ring.Orientation() == orb.CW {
			polys = append(polys, orb.Polygon{ring})
			continue
		}
		polys[len(polys)-1] = append(polys[len(polys)-1], ring)
	}
	if len(polys) == 1 {
		return polys[0]
	}
	return polys
}
