package cdss

import (
	"encoding/json"
	"fmt"
	"math"
)

// AOI is the area of interest for location-based queries: a point with
// a search radius, or a polygon whose centroid seeds the search and
// whose boundary masks the results afterward. Line geometries reduce to
// their centroid.
type AOI interface {
	isAOI()
}

// Point is a lng/lat coordinate pair in EPSG:4326.
type Point struct {
	Lng, Lat float64
}

// LineString is an ordered sequence of points; its length-weighted
// centroid is used as the search location.
type LineString []Point

// Ring is a closed sequence of points (first and last may repeat).
type Ring []Point

// Polygon is an outer ring with optional interior holes.
type Polygon struct {
	Rings []Ring
}

func (Point) isAOI()      {}
func (LineString) isAOI() {}
func (Polygon) isAOI()    {}

// Int is a convenience for optional integer request fields such as the
// search radius.
func Int(v int) *int { return &v }

const (
	radiusMin     = 1
	radiusMax     = 150
	radiusDefault = 20
)

// geoPoint is the normalized search location: coordinates formatted to
// 5 decimal places plus a clamped radius, all empty when no AOI was
// given.
type geoPoint struct {
	lng, lat, radius string
}

// checkAOI extracts the representative point and clamps the radius per
// the API's 1–150 mile bounds. A nil AOI discards any caller-supplied
// radius. Coordinates outside the EPSG:4326 envelope fail with a
// CRSError rather than being silently reprojected.
func checkAOI(aoi AOI, radius *int) (geoPoint, error) {
	if aoi == nil {
		return geoPoint{}, nil
	}

	lng, lat, err := extractCoords(aoi)
	if err != nil {
		return geoPoint{}, err
	}

	r := radiusDefault
	if radius != nil {
		r = *radius
		if r > radiusMax {
			r = radiusMax
		}
		if r <= 0 {
			r = radiusMin
		}
	}

	return geoPoint{
		lng:    fmt.Sprintf("%.5f", lng),
		lat:    fmt.Sprintf("%.5f", lat),
		radius: itoa(r),
	}, nil
}

// extractCoords reduces an AOI to a single lng/lat pair and validates
// it against the EPSG:4326 envelope.
func extractCoords(aoi AOI) (lng, lat float64, err error) {
	switch g := aoi.(type) {
	case Point:
		lng, lat = g.Lng, g.Lat
	case LineString:
		if len(g) == 0 {
			return 0, 0, &AOIError{Reason: "empty LineString"}
		}
		lng, lat = lineCentroid(g)
	case Polygon:
		if len(g.Rings) == 0 || len(g.Rings[0]) < 3 {
			return 0, 0, &AOIError{Reason: "polygon outer ring needs at least 3 points"}
		}
		lng, lat = g.centroid()
	default:
		return 0, 0, &AOIError{Reason: fmt.Sprintf("unsupported AOI type %T", aoi)}
	}

	if lng < -180 || lng > 180 || lat < -90 || lat > 90 {
		return 0, 0, &CRSError{Lng: lng, Lat: lat}
	}
	return lng, lat, nil
}

// lineCentroid is the length-weighted centroid of the segments.
func lineCentroid(ls LineString) (float64, float64) {
	if len(ls) == 1 {
		return ls[0].Lng, ls[0].Lat
	}
	var totalLen, cx, cy float64
	for i := 1; i < len(ls); i++ {
		a, b := ls[i-1], ls[i]
		segLen := math.Hypot(b.Lng-a.Lng, b.Lat-a.Lat)
		cx += segLen * (a.Lng + b.Lng) / 2
		cy += segLen * (a.Lat + b.Lat) / 2
		totalLen += segLen
	}
	if totalLen == 0 {
		return ls[0].Lng, ls[0].Lat
	}
	return cx / totalLen, cy / totalLen
}

// centroid is the area centroid, with holes subtracting from the outer
// ring via signed areas.
func (p Polygon) centroid() (float64, float64) {
	var area, cx, cy float64
	for _, ring := range p.Rings {
		ra, rx, ry := ringCentroid(ring)
		area += ra
		cx += rx
		cy += ry
	}
	if area == 0 {
		// Degenerate ring; fall back to the vertex mean.
		var sx, sy float64
		n := 0
		for _, pt := range p.Rings[0] {
			sx += pt.Lng
			sy += pt.Lat
			n++
		}
		return sx / float64(n), sy / float64(n)
	}
	return cx / (3 * area), cy / (3 * area)
}

func ringCentroid(ring Ring) (area2, cx, cy float64) {
	n := len(ring)
	for i := 0; i < n; i++ {
		a := ring[i]
		b := ring[(i+1)%n]
		cross := a.Lng*b.Lat - b.Lng*a.Lat
		area2 += cross
		cx += (a.Lng + b.Lng) * cross
		cy += (a.Lat + b.Lat) * cross
	}
	return area2 / 2, cx / 2, cy / 2
}

// ParseGeoJSON builds an AOI from a GeoJSON geometry, Feature, or
// single-feature FeatureCollection. Collections with more than one
// feature are rejected: the search location would be ambiguous.
func ParseGeoJSON(data []byte) (AOI, error) {
	var head struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
		Geometry    json.RawMessage `json:"geometry"`
		Features    []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}

	switch head.Type {
	case "Point":
		var c []float64
		if err := json.Unmarshal(head.Coordinates, &c); err != nil || len(c) < 2 {
			return nil, &AOIError{Reason: "malformed Point coordinates"}
		}
		return Point{Lng: c[0], Lat: c[1]}, nil
	case "LineString":
		var c [][]float64
		if err := json.Unmarshal(head.Coordinates, &c); err != nil || len(c) == 0 {
			return nil, &AOIError{Reason: "malformed LineString coordinates"}
		}
		ls := make(LineString, 0, len(c))
		for _, xy := range c {
			if len(xy) < 2 {
				return nil, &AOIError{Reason: "coordinate must be [lng, lat]"}
			}
			ls = append(ls, Point{Lng: xy[0], Lat: xy[1]})
		}
		return ls, nil
	case "Polygon":
		var c [][][]float64
		if err := json.Unmarshal(head.Coordinates, &c); err != nil || len(c) == 0 {
			return nil, &AOIError{Reason: "malformed Polygon coordinates"}
		}
		poly := Polygon{}
		for _, ringCoords := range c {
			ring := make(Ring, 0, len(ringCoords))
			for _, xy := range ringCoords {
				if len(xy) < 2 {
					return nil, &AOIError{Reason: "coordinate must be [lng, lat]"}
				}
				ring = append(ring, Point{Lng: xy[0], Lat: xy[1]})
			}
			poly.Rings = append(poly.Rings, ring)
		}
		return poly, nil
	case "Feature":
		if len(head.Geometry) == 0 {
			return nil, &AOIError{Reason: "feature has no geometry"}
		}
		return ParseGeoJSON(head.Geometry)
	case "FeatureCollection":
		if len(head.Features) != 1 {
			return nil, &AOIError{Reason: fmt.Sprintf("feature collection must contain exactly one feature, got %d", len(head.Features))}
		}
		return ParseGeoJSON(head.Features[0])
	}
	return nil, &AOIError{Reason: fmt.Sprintf("unsupported geojson type %q", head.Type)}
}

// maskToAOI post-filters paged results to the polygon boundary. The
// point+radius query the API runs is circular, so polygon searches pull
// extra records near the edges; those are dropped here. Records carry
// projected utmX/utmY columns (EPSG:26913), which are inverse-projected
// to lng/lat before the containment test. Non-polygon AOIs pass
// through untouched.
func maskToAOI(aoi AOI, frame *Frame) *Frame {
	poly, ok := aoi.(Polygon)
	if !ok || frame == nil {
		return frame
	}

	masked := newFrame()
	var kept []Record
	for _, row := range frame.Rows {
		x, okX := row.Float("utmX")
		y, okY := row.Float("utmY")
		if !okX || !okY {
			continue
		}
		lng, lat := utm13ToLngLat(x, y)
		if poly.contains(Point{Lng: lng, Lat: lat}) {
			kept = append(kept, row)
		}
	}
	masked.appendRecords(kept)
	return masked
}

// contains tests point membership with the even-odd rule across all
// rings, so holes exclude.
func (p Polygon) contains(pt Point) bool {
	inside := false
	for _, ring := range p.Rings {
		n := len(ring)
		for i, j := 0, n-1; i < n; j, i = i, i+1 {
			a, b := ring[i], ring[j]
			if (a.Lat > pt.Lat) != (b.Lat > pt.Lat) &&
				pt.Lng < (b.Lng-a.Lng)*(pt.Lat-a.Lat)/(b.Lat-a.Lat)+a.Lng {
				inside = !inside
			}
		}
	}
	return inside
}

// UTM zone 13N (EPSG:26913) inverse projection, GRS80 ellipsoid.
// Standard Snyder series, accurate to well under a meter, which is far
// tighter than the station coordinates it filters.
const (
	utmA  = 6378137.0
	utmF  = 1 / 298.257222101
	utmK0 = 0.9996
	utmE0 = 500000.0
	// central meridian of zone 13
	utmLng0 = -105.0
)

func utm13ToLngLat(easting, northing float64) (lng, lat float64) {
	e2 := utmF * (2 - utmF)
	ep2 := e2 / (1 - e2)
	e1 := (1 - math.Sqrt(1-e2)) / (1 + math.Sqrt(1-e2))

	m := northing / utmK0
	mu := m / (utmA * (1 - e2/4 - 3*e2*e2/64 - 5*e2*e2*e2/256))

	phi1 := mu +
		(3*e1/2-27*math.Pow(e1, 3)/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*math.Pow(e1, 4)/32)*math.Sin(4*mu) +
		(151*math.Pow(e1, 3)/96)*math.Sin(6*mu) +
		(1097*math.Pow(e1, 4)/512)*math.Sin(8*mu)

	sinPhi1, cosPhi1 := math.Sin(phi1), math.Cos(phi1)
	tanPhi1 := sinPhi1 / cosPhi1

	c1 := ep2 * cosPhi1 * cosPhi1
	t1 := tanPhi1 * tanPhi1
	n1 := utmA / math.Sqrt(1-e2*sinPhi1*sinPhi1)
	r1 := utmA * (1 - e2) / math.Pow(1-e2*sinPhi1*sinPhi1, 1.5)
	d := (easting - utmE0) / (n1 * utmK0)

	latRad := phi1 - (n1*tanPhi1/r1)*(d*d/2-
		(5+3*t1+10*c1-4*c1*c1-9*ep2)*math.Pow(d, 4)/24+
		(61+90*t1+298*c1+45*t1*t1-252*ep2-3*c1*c1)*math.Pow(d, 6)/720)
	lngRad := (d -
		(1+2*t1+c1)*math.Pow(d, 3)/6 +
		(5-2*c1+28*t1-3*c1*c1+8*ep2+24*t1*t1)*math.Pow(d, 5)/120) / cosPhi1

	lat = latRad * 180 / math.Pi
	lng = utmLng0 + lngRad*180/math.Pi
	return lng, lat
}
