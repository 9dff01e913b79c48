package diagram

import "math"

// Point is a position in diagram-local coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns the offset from q to p.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Scale multiplies both coordinates by f.
func (p Point) Scale(f float64) Point { return Point{X: p.X * f, Y: p.Y * f} }

// Length returns the distance of p from the origin.
func (p Point) Length() float64 { return math.Hypot(p.X, p.Y) }

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 { return p.Sub(q).Length() }

// Vector2D is a polar vector. Angle is in degrees, 0° = right, 90° = up.
type Vector2D struct {
	Magnitude float64 `json:"magnitude"`
	Angle     float64 `json:"angle"`
}

// Screen returns the vector as a layout-space offset (y grows downward).
func (v Vector2D) Screen() Point {
	return Direction(v.Angle).Scale(v.Magnitude)
}

// BoundingBox is an axis-aligned rectangle; (X, Y) is the top-left corner.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the X coordinate of the right edge.
func (b BoundingBox) Right() float64 { return b.X + b.Width }

// Bottom returns the Y coordinate of the bottom edge.
func (b BoundingBox) Bottom() float64 { return b.Y + b.Height }

// Center returns the center point of the box.
func (b BoundingBox) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Area returns Width × Height.
func (b BoundingBox) Area() float64 { return b.Width * b.Height }

// Translate returns the box moved by d.
func (b BoundingBox) Translate(d Point) BoundingBox {
	b.X += d.X
	b.Y += d.Y
	return b
}

// Contains reports whether p lies inside the box (edges included).
func (b BoundingBox) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.Right() && p.Y >= b.Y && p.Y <= b.Bottom()
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Direction returns the layout-space unit vector for an angle in degrees.
// The Y component is negated because layout space grows downward.
func Direction(deg float64) Point {
	r := Radians(deg)
	return Point{X: math.Cos(r), Y: -math.Sin(r)}
}

// NormalizeAngle maps an angle in degrees into [0, 360).
func NormalizeAngle(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a < 0 {
		a += 360
	}
	if a == 360 {
		a = 0
	}
	return a
}

// AngleDiff returns the smallest absolute difference between two angles,
// in [0, 180].
func AngleDiff(a, b float64) float64 {
	d := math.Abs(NormalizeAngle(a) - NormalizeAngle(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// Float returns a pointer to v, for optional numeric fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for optional integer fields.
func Int(v int) *int { return &v }
