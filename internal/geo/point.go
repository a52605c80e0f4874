// Package geo converts decoded Grid Point Code coordinates into geometry
// encodings: GeoJSON for API and batch output, EWKB for database storage.
package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"

	"github.com/sells-group/gridpoint/pkg/gpc"
)

// SRID is the spatial reference of every geometry produced here (WGS 84).
const SRID = 4326

// ToPoint returns c as an orb point in (lon, lat) order.
func ToPoint(c gpc.Coordinates) orb.Point {
	return orb.Point{c.Longitude, c.Latitude}
}

// FromPoint is the inverse of ToPoint.
func FromPoint(p orb.Point) gpc.Coordinates {
	return gpc.Coordinates{Latitude: p.Lat(), Longitude: p.Lon()}
}

// Feature builds a GeoJSON point feature. The code is stored under the
// "code" property and used as the feature ID; props are copied over it.
func Feature(code string, c gpc.Coordinates, props map[string]any) *geojson.Feature {
	f := geojson.NewFeature(ToPoint(c))
	f.ID = code
	f.Properties["code"] = code
	for k, v := range props {
		f.Properties[k] = v
	}
	return f
}

// FeatureCollection wraps features into a collection.
func FeatureCollection(features ...*geojson.Feature) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		fc.Append(f)
	}
	return fc
}

// EncodeWKB converts coordinates to little-endian EWKB with SRID 4326.
func EncodeWKB(c gpc.Coordinates) ([]byte, error) {
	p := geom.NewPointFlat(geom.XY, []float64{c.Longitude, c.Latitude}).SetSRID(SRID)
	data, err := ewkb.Marshal(p, ewkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "geo: encode WKB")
	}
	return data, nil
}

// DecodeWKB reads an EWKB point written by EncodeWKB.
func DecodeWKB(data []byte) (gpc.Coordinates, error) {
	g, err := ewkb.Unmarshal(data)
	if err != nil {
		return gpc.Coordinates{}, eris.Wrap(err, "geo: decode WKB")
	}
	p, ok := g.(*geom.Point)
	if !ok {
		return gpc.Coordinates{}, eris.Errorf("geo: expected point, got %T", g)
	}
	return gpc.Coordinates{Latitude: p.Y(), Longitude: p.X()}, nil
}
