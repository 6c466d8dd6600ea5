package consolidation

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"order-consolidation/internal/domain"
)

const (
	earthRadiusM = 6371008.8
	degToRad     = math.Pi / 180
)

// haversineM is the great-circle distance between a and b in meters.
func haversineM(a, b domain.Coordinate) float64 {
	lat1, lat2 := a.Lat*degToRad, b.Lat*degToRad
	dLat := lat2 - lat1
	dLng := wrapDegrees(b.Lng-a.Lng) * degToRad

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusM * math.Asin(math.Min(1, math.Sqrt(h)))
}

// distanceToRouteM returns the shortest distance in meters from p to any vertex or segment of route.
// An empty route is infinitely far away.
func distanceToRouteM(p domain.Coordinate, route domain.Route) float64 {
	switch len(route) {
	case 0:
		return math.Inf(1)
	case 1:
		return haversineM(p, route[0])
	}
	best := math.Inf(1)
	for i := 1; i < len(route); i++ {
		if d := distanceToSegmentM(p, route[i-1], route[i]); d < best {
			best = d
		}
	}
	return best
}

// distanceToSegmentM projects the segment onto a local plane centered at p
// and measures the distance to its closest point.
func distanceToSegmentM(p, a, b domain.Coordinate) float64 {
	va := project(p, a)
	vb := project(p, b)
	ab := r2.Sub(vb, va)

	l2 := r2.Norm2(ab)
	if l2 == 0 {
		return haversineM(p, a)
	}
	t := -r2.Dot(va, ab) / l2
	switch {
	case t <= 0:
		return haversineM(p, a)
	case t >= 1:
		return haversineM(p, b)
	}
	return r2.Norm(r2.Add(va, r2.Scale(t, ab)))
}

// project maps c to meters on an equirectangular plane with origin at o.
func project(o, c domain.Coordinate) r2.Vec {
	return r2.Vec{
		X: wrapDegrees(c.Lng-o.Lng) * degToRad * earthRadiusM * math.Cos(o.Lat*degToRad),
		Y: (c.Lat - o.Lat) * degToRad * earthRadiusM,
	}
}

// wrapDegrees normalizes a longitude delta into [-180, 180).
func wrapDegrees(d float64) float64 {
	d = math.Mod(d+180, 360)
	if d < 0 {
		d += 360
	}
	return d - 180
}
