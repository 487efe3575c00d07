package mapengine

import "math"

const (
	maxLift      = 160.0
	liftFraction = 0.5
	baseLift     = 0.4
)

// ControlPoint returns the shared control point for the trajectory between
// p1 and p2. The midpoint is pushed along the segment normal by
// min(160, d/2) * (0.4 + bias). Coincident endpoints get no lift.
func ControlPoint(p1, p2 Point, bias float64) Point {
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	dist := math.Hypot(dx, dy)
	mid := Point{X: (p1.X + p2.X) / 2, Y: (p1.Y + p2.Y) / 2}
	if dist == 0 {
		return mid
	}
	nx, ny := -dy/dist, dx/dist
	lift := math.Min(maxLift, dist*liftFraction) * (baseLift + bias)
	return Point{X: mid.X + nx*lift, Y: mid.Y + ny*lift}
}

// PointAt evaluates the cubic Bezier p0, c, c, p1 at t, with t clamped to
// [0, 1]. The endpoints are returned exactly.
func PointAt(p0, c, p1 Point, t float64) Point {
	switch {
	case t <= 0 || math.IsNaN(t):
		return p0
	case t >= 1:
		return p1
	}
	mt := 1 - t
	a := mt * mt * mt
	b := 3*mt*mt*t + 3*mt*t*t
	d := t * t * t
	return Point{
		X: a*p0.X + b*c.X + d*p1.X,
		Y: a*p0.Y + b*c.Y + d*p1.Y,
	}
}

// Sample returns n+1 evenly spaced points along the curve, endpoints
// included.
func Sample(p0, c, p1 Point, n int) []Point {
	if n < 1 {
		n = 1
	}
	pts := make([]Point, n+1)
	for i := 0; i <= n; i++ {
		pts[i] = PointAt(p0, c, p1, float64(i)/float64(n))
	}
	return pts
}
