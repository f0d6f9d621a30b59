package geometry

import (
	"math"
	"sort"
)

// PolygonArea returns the area enclosed by the outline using the shoelace
// formula over the cyclic vertex sequence. Self-intersecting outlines yield
// the magnitude of the signed area. Outlines with fewer than three points
// have no area and return 0.
func PolygonArea(outline Outline) float64 {
	n := len(outline)
	if n < MinOutlinePoints {
		return 0
	}

	var sum int64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += int64(outline[i].X)*int64(outline[j].Y) - int64(outline[j].X)*int64(outline[i].Y)
	}
	return math.Abs(float64(sum)) / 2.0
}

// ConvexHull computes the convex hull of a set of points using Graham scan.
// Returns the points forming the convex hull in counter-clockwise order.
func ConvexHull(points []Point2D) []Point2D {
	if len(points) < 3 {
		return points
	}

	// Make a copy to avoid modifying the input
	pts := make([]Point2D, len(points))
	copy(pts, points)

	// Find the point with lowest y (and leftmost if tied)
	lowest := 0
	for i := 1; i < len(pts); i++ {
		if pts[i].Y < pts[lowest].Y ||
			(pts[i].Y == pts[lowest].Y && pts[i].X < pts[lowest].X) {
			lowest = i
		}
	}

	// Swap to front
	pts[0], pts[lowest] = pts[lowest], pts[0]
	pivot := pts[0]

	// Sort by polar angle with respect to pivot, nearest first on ties
	sorted := make([]Point2D, len(pts)-1)
	copy(sorted, pts[1:])

	sort.SliceStable(sorted, func(i, j int) bool {
		cross := crossProduct(pivot, sorted[i], sorted[j])
		if cross != 0 {
			return cross > 0
		}
		return distSq(pivot, sorted[i]) < distSq(pivot, sorted[j])
	})

	// Build hull
	hull := []Point2D{pivot}
	for _, p := range sorted {
		for len(hull) > 1 && crossProduct(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	return hull
}

// crossProduct computes the cross product of vectors OA and OB.
func crossProduct(o, a, b Point2D) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// distSq computes the squared distance between two points.
func distSq(a, b Point2D) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return dx*dx + dy*dy
}
