package geometry

import "math"

// circleEpsilon absorbs floating-point error when testing containment.
const circleEpsilon = 1e-7

// Circle is a center and radius in pixel coordinates.
type Circle struct {
	Center Point2D `json:"center"`
	Radius float64 `json:"radius"`
}

// Contains reports whether p lies inside or on the circle.
func (c Circle) Contains(p Point2D) bool {
	return distSq(c.Center, p) <= c.Radius*c.Radius+circleEpsilon
}

// Area returns the area of the circle.
func (c Circle) Area() float64 {
	return math.Pi * c.Radius * c.Radius
}

// MinEnclosingCircle returns the smallest circle containing every point.
// The search runs the incremental Welzl construction over the convex hull of
// the input, in hull order, so the result is deterministic for a given input.
// An empty input yields the zero Circle.
func MinEnclosingCircle(points []Point2D) Circle {
	if len(points) == 0 {
		return Circle{}
	}

	hull := ConvexHull(points)
	c := Circle{Center: hull[0]}
	for i := 1; i < len(hull); i++ {
		if c.Contains(hull[i]) {
			continue
		}
		c = Circle{Center: hull[i]}
		for j := 0; j < i; j++ {
			if c.Contains(hull[j]) {
				continue
			}
			c = circleFromDiameter(hull[i], hull[j])
			for k := 0; k < j; k++ {
				if !c.Contains(hull[k]) {
					c = circleThrough(hull[i], hull[j], hull[k])
				}
			}
		}
	}
	return c
}

// circleFromDiameter returns the circle whose diameter is the segment ab.
func circleFromDiameter(a, b Point2D) Circle {
	center := Point2D{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	return Circle{Center: center, Radius: center.Distance(a)}
}

// circleThrough returns the circumcircle of a, b and c. Collinear points
// fall back to the circle spanning the farthest pair.
func circleThrough(a, b, c Point2D) Circle {
	bx, by := b.X-a.X, b.Y-a.Y
	cx, cy := c.X-a.X, c.Y-a.Y
	d := 2 * (bx*cy - by*cx)
	if math.Abs(d) < 1e-12 {
		best := circleFromDiameter(a, b)
		if alt := circleFromDiameter(a, c); alt.Radius > best.Radius {
			best = alt
		}
		if alt := circleFromDiameter(b, c); alt.Radius > best.Radius {
			best = alt
		}
		return best
	}

	b2 := bx*bx + by*by
	c2 := cx*cx + cy*cy
	ux := (cy*b2 - by*c2) / d
	uy := (bx*c2 - cx*b2) / d
	center := Point2D{X: a.X + ux, Y: a.Y + uy}
	return Circle{Center: center, Radius: center.Distance(a)}
}
