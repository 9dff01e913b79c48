package layout

import (
	"github.com/matzehuels/diagramkit/pkg/diagram"
)

// AxesMargin is the gap between the axes indicator and the canvas edge.
const AxesMargin = 20.0

// AxesBounds returns the box covered by an axes indicator whose origin
// (the corner of the L) is at p.
func AxesBounds(p diagram.Point, axisLength float64) diagram.BoundingBox {
	return diagram.BoundingBox{X: p.X, Y: p.Y - axisLength, Width: axisLength, Height: axisLength}
}

// FindAxesPosition returns the origin of a small x/y axes indicator. The
// corners are tried in the order top-right, top-left, bottom-right,
// bottom-left; if every corner collides the top-right one is used.
func FindAxesPosition(canvas diagram.Size, existing []Element, axisLength float64) diagram.Point {
	if axisLength <= 0 {
		axisLength = DefaultAxisLength
	}
	left := AxesMargin
	right := canvas.Width - AxesMargin - axisLength
	top := AxesMargin + axisLength
	bottom := canvas.Height - AxesMargin

	corners := []diagram.Point{
		{X: right, Y: top},
		{X: left, Y: top},
		{X: right, Y: bottom},
		{X: left, Y: bottom},
	}
	for _, p := range corners {
		b := AxesBounds(p, axisLength)
		if !CheckCollision(b.Center(), b, existing) {
			return p
		}
	}
	return corners[0]
}
