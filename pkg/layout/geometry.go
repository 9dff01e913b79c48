package layout

import (
	"math"
	"unicode/utf8"

	"github.com/matzehuels/diagramkit/pkg/diagram"
)

// Layout constants, in layout units.
const (
	MinSpacing         = 8.0
	LabelOffset        = 18.0
	MaxIterations      = 50
	DefaultFontSize    = 14.0
	CharWidthRatio     = 0.6
	LabelPadding       = 4.0
	DefaultStrokeWidth = 3.0
	SpreadRadius       = 5.0
	DefaultAxisLength  = 40.0
	DefaultForceScale  = 1.5
	DefaultObjectSize  = 60.0
)

// =============================================================================
// Constructors
// =============================================================================

// CreateBoundingBox returns a width × height box centered on center.
func CreateBoundingBox(center diagram.Point, width, height float64) diagram.BoundingBox {
	return diagram.BoundingBox{
		X:      center.X - width/2,
		Y:      center.Y - height/2,
		Width:  width,
		Height: height,
	}
}

// CreateLabelBounds estimates the box of a text label centered on pos.
// Width is derived from the rune count, so it is an approximation. A
// non-positive fontSize uses [DefaultFontSize].
func CreateLabelBounds(pos diagram.Point, text string, fontSize float64) diagram.BoundingBox {
	if fontSize <= 0 {
		fontSize = DefaultFontSize
	}
	w := float64(utf8.RuneCountInString(text))*fontSize*CharWidthRatio + 2*LabelPadding
	h := fontSize + 2*LabelPadding
	return CreateBoundingBox(pos, w, h)
}

// CreateForceBounds returns the box covering an arrow of the given length
// drawn from origin at angle, padded by the stroke width for the head.
// A non-positive strokeWidth uses [DefaultStrokeWidth].
func CreateForceBounds(origin diagram.Point, angle, length, strokeWidth float64) diagram.BoundingBox {
	if strokeWidth <= 0 {
		strokeWidth = DefaultStrokeWidth
	}
	end := origin.Add(diagram.Direction(angle).Scale(length))
	minX, maxX := math.Min(origin.X, end.X), math.Max(origin.X, end.X)
	minY, maxY := math.Min(origin.Y, end.Y), math.Max(origin.Y, end.Y)
	return diagram.BoundingBox{
		X:      minX - strokeWidth,
		Y:      minY - strokeWidth,
		Width:  maxX - minX + 2*strokeWidth,
		Height: maxY - minY + 2*strokeWidth,
	}
}

// =============================================================================
// Rectangle primitives
// =============================================================================

// BoxesOverlap reports whether a and b share interior area. Touching edges
// do not count.
func BoxesOverlap(a, b diagram.BoundingBox) bool {
	return a.X < b.Right() && b.X < a.Right() && a.Y < b.Bottom() && b.Y < a.Bottom()
}

// OverlapBox returns the intersection of a and b.
func OverlapBox(a, b diagram.BoundingBox) (diagram.BoundingBox, bool) {
	if !BoxesOverlap(a, b) {
		return diagram.BoundingBox{}, false
	}
	x := math.Max(a.X, b.X)
	y := math.Max(a.Y, b.Y)
	return diagram.BoundingBox{
		X:      x,
		Y:      y,
		Width:  math.Min(a.Right(), b.Right()) - x,
		Height: math.Min(a.Bottom(), b.Bottom()) - y,
	}, true
}

// OverlapArea returns the area of the intersection of a and b.
func OverlapArea(a, b diagram.BoundingBox) float64 {
	o, ok := OverlapBox(a, b)
	if !ok {
		return 0
	}
	return o.Area()
}

// ExpandBox grows the box by padding on every side.
func ExpandBox(b diagram.BoundingBox, padding float64) diagram.BoundingBox {
	return diagram.BoundingBox{
		X:      b.X - padding,
		Y:      b.Y - padding,
		Width:  b.Width + 2*padding,
		Height: b.Height + 2*padding,
	}
}

// centerOn moves b so its center is at p.
func centerOn(b diagram.BoundingBox, p diagram.Point) diagram.BoundingBox {
	return b.Translate(p.Sub(b.Center()))
}

// rotate turns a layout-space offset counter-clockwise by deg.
func rotate(p diagram.Point, deg float64) diagram.Point {
	r := diagram.Radians(deg)
	sin, cos := math.Sincos(r)
	// convert to y-up, rotate, convert back
	mx, my := p.X, -p.Y
	return diagram.Point{X: mx*cos - my*sin, Y: -(mx*sin + my*cos)}
}
