package geometry

import "math"

// PointInPolygon tests if a point is inside a polygon using ray casting.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}

// PolygonArea returns the absolute area of a polygon via the shoelace formula.
func PolygonArea(polygon []Point2D) float64 {
	if len(polygon) < 3 {
		return 0
	}
	var sum float64
	n := len(polygon)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += polygon[i].X*polygon[j].Y - polygon[j].X*polygon[i].Y
	}
	return math.Abs(sum) / 2
}

// IsSimplePolygon reports whether the polygon's edges form a simple
// (non-self-intersecting) closed loop. Adjacent edges sharing a vertex do
// not count as intersections.
func IsSimplePolygon(polygon []Point2D) bool {
	n := len(polygon)
	if n < 3 {
		return false
	}

	for i := 0; i < n; i++ {
		a1 := polygon[i]
		a2 := polygon[(i+1)%n]
		for j := i + 1; j < n; j++ {
			// Skip adjacent edges (they share an endpoint)
			if j == i || (j+1)%n == i || (i+1)%n == j {
				continue
			}
			b1 := polygon[j]
			b2 := polygon[(j+1)%n]
			if SegmentsIntersect(a1, a2, b1, b2) {
				return false
			}
		}
	}
	return true
}

// SegmentsIntersect reports whether segments a1-a2 and b1-b2 properly
// intersect (crossing interiors, not merely touching at endpoints).
func SegmentsIntersect(a1, a2, b1, b2 Point2D) bool {
	d1 := crossProduct(b1, b2, a1)
	d2 := crossProduct(b1, b2, a2)
	d3 := crossProduct(a1, a2, b1)
	d4 := crossProduct(a1, a2, b2)

	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

// SegmentDistance returns the shortest distance from point p to the line
// segment a-b.
func SegmentDistance(p, a, b Point2D) float64 {
	abx := b.X - a.X
	aby := b.Y - a.Y
	lenSq := abx*abx + aby*aby
	if lenSq == 0 {
		return p.Distance(a)
	}

	// Project p onto the segment, clamped to [0,1]
	t := ((p.X-a.X)*abx + (p.Y-a.Y)*aby) / lenSq
	t = math.Max(0, math.Min(1, t))

	closest := Point2D{X: a.X + t*abx, Y: a.Y + t*aby}
	return p.Distance(closest)
}

// crossProduct computes the cross product of vectors OA and OB.
func crossProduct(o, a, b Point2D) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}
