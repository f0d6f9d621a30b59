// Package geometry provides the basic geometric types and polygon helpers used
// to measure lesion outlines and calibration markers.
package geometry

import (
	"image"
	"math"
)

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// ToInt truncates the coordinates toward zero.
func (p Point2D) ToInt() PointInt {
	return PointInt{X: int(p.X), Y: int(p.Y)}
}

// PointInt represents a 2D point with integer pixel coordinates.
type PointInt struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ToFloat converts to Point2D.
func (p PointInt) ToFloat() Point2D {
	return Point2D{X: float64(p.X), Y: float64(p.Y)}
}

// RectInt represents a rectangle with integer coordinates.
type RectInt struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Outline is an ordered sequence of pixel points describing a closed polygon.
// Insertion order defines edge connectivity; the last point connects back to
// the first. The polygon may be self-intersecting or degenerate.
type Outline []PointInt

// MinOutlinePoints is the smallest number of points that can enclose an area.
const MinOutlinePoints = 3

// Valid reports whether the outline has enough points to describe an area.
func (o Outline) Valid() bool {
	return len(o) >= MinOutlinePoints
}

// Bounds returns the integer bounding box of the outline (max - min, not
// max - min + 1). Empty outlines yield the zero RectInt.
func (o Outline) Bounds() RectInt {
	if len(o) == 0 {
		return RectInt{}
	}
	minX, minY := o[0].X, o[0].Y
	maxX, maxY := minX, minY
	for _, p := range o[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return RectInt{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Centroid returns the mean of the outline's vertices, the zero point for an
// empty outline.
func (o Outline) Centroid() Point2D {
	if len(o) == 0 {
		return Point2D{}
	}
	var sumX, sumY float64
	for _, p := range o {
		sumX += float64(p.X)
		sumY += float64(p.Y)
	}
	n := float64(len(o))
	return Point2D{X: sumX / n, Y: sumY / n}
}

// Contains tests whether p lies inside the outline by even-odd ray casting.
// Invalid outlines contain nothing.
func (o Outline) Contains(p Point2D) bool {
	if !o.Valid() {
		return false
	}
	inside := false
	for i := range o {
		a, b := o[i].ToFloat(), o[(i+1)%len(o)].ToFloat()
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// ImagePoints converts the outline to image.Point values for OpenCV calls.
func (o Outline) ImagePoints() []image.Point {
	pts := make([]image.Point, len(o))
	for i, p := range o {
		pts[i] = image.Point{X: p.X, Y: p.Y}
	}
	return pts
}

// Float converts the outline to floating-point vertices.
func (o Outline) Float() []Point2D {
	pts := make([]Point2D, len(o))
	for i, p := range o {
		pts[i] = p.ToFloat()
	}
	return pts
}

// OutlineFromImagePoints builds an outline from OpenCV contour points.
func OutlineFromImagePoints(pts []image.Point) Outline {
	o := make(Outline, len(pts))
	for i, p := range pts {
		o[i] = PointInt{X: p.X, Y: p.Y}
	}
	return o
}

// CircleOutline samples a circle every stepDegrees degrees, starting at 0°,
// and truncates the coordinates to pixels. A non-positive or oversized step
// falls back to 10°.
func CircleOutline(centerX, centerY, radius int, stepDegrees int) Outline {
	if stepDegrees <= 0 || stepDegrees > 120 {
		stepDegrees = 10
	}
	n := (360 + stepDegrees - 1) / stepDegrees
	outline := make(Outline, 0, n)
	for angle := 0; angle < 360; angle += stepDegrees {
		rad := float64(angle) * math.Pi / 180
		outline = append(outline, PointInt{
			X: int(float64(centerX) + float64(radius)*math.Cos(rad)),
			Y: int(float64(centerY) + float64(radius)*math.Sin(rad)),
		})
	}
	return outline
}
