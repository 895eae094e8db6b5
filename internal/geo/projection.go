package geo

import "math"

// earthRadiusMeters is the mean spherical radius. Spherical accuracy is
// plenty for containment tests at regional scale.
const earthRadiusMeters = 6371000.0

// XY is a projected planar coordinate in meters.
type XY struct {
	X float64
	Y float64
}

// Projection is a spherical transverse-Mercator projection about a local
// origin. Projecting into a local plane makes Euclidean signed-area,
// centroid and ray-casting math valid for New Zealand-scale extents.
type Projection struct {
	originLonRad float64
	originLatRad float64
}

// NewProjection creates a projection centered on origin.
func NewProjection(origin Point) Projection {
	return Projection{
		originLonRad: origin.Lon * math.Pi / 180,
		originLatRad: origin.Lat * math.Pi / 180,
	}
}

// Project maps a WGS84 point into the local plane.
func (p Projection) Project(pt Point) XY {
	lon := pt.Lon*math.Pi/180 - p.originLonRad
	lat := pt.Lat * math.Pi / 180

	b := math.Cos(lat) * math.Sin(lon)
	// Clamp to keep atanh finite when a point sits 90 degrees from the
	// central meridian, which real input never should.
	if b >= 1 {
		b = math.Nextafter(1, 0)
	} else if b <= -1 {
		b = math.Nextafter(-1, 0)
	}

	x := earthRadiusMeters / 2 * math.Log((1+b)/(1-b))
	y := earthRadiusMeters * (math.Atan2(math.Tan(lat), math.Cos(lon)) - p.originLatRad)

	return XY{X: x, Y: y}
}

// ProjectRing projects every point of a ring.
func (p Projection) ProjectRing(ring Ring) []XY {
	out := make([]XY, len(ring))
	for i, pt := range ring {
		out[i] = p.Project(pt)
	}
	return out
}
