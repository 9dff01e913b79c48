package layout

import (
	"github.com/matzehuels/diagramkit/pkg/diagram"
)

// compass lists the eight label directions tried after the preferred one:
// N, NE, E, SE, S, SW, W, NW.
var compass = [8]float64{90, 45, 0, -45, -90, -135, 180, 135}

// fallbackAngle is used when no preferred direction is given.
const fallbackAngle = 45.0

type labelConfig struct {
	preferred *float64
	fontSize  float64
	exclude   []string
}

// LabelOption configures [FindLabelPosition].
type LabelOption func(*labelConfig)

// WithPreferredAngle tries the given direction first.
func WithPreferredAngle(deg float64) LabelOption {
	return func(c *labelConfig) { c.preferred = &deg }
}

// WithFontSize sets the font size used to estimate label bounds.
func WithFontSize(size float64) LabelOption {
	return func(c *labelConfig) {
		if size > 0 {
			c.fontSize = size
		}
	}
}

// WithExclude ignores the listed elements when probing for collisions.
func WithExclude(ids ...string) LabelOption {
	return func(c *labelConfig) { c.exclude = append(c.exclude, ids...) }
}

// FindLabelPosition returns the center of a label for text near anchor.
//
// Candidates are tried in order: the preferred direction at
// [LabelOffset], the eight compass directions at the same offset, then at
// 1.5× the offset. If all collide, the label goes along the preferred
// direction (or 45°) at twice the offset. The search always terminates.
func FindLabelPosition(anchor diagram.Point, text string, existing []Element, opts ...LabelOption) diagram.Point {
	cfg := labelConfig{fontSize: DefaultFontSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	bounds := CreateLabelBounds(anchor, text, cfg.fontSize)

	free := func(angle, dist float64) (diagram.Point, bool) {
		p := anchor.Add(diagram.Direction(angle).Scale(dist))
		return p, !CheckCollision(p, bounds, existing, cfg.exclude...)
	}

	if cfg.preferred != nil {
		if p, ok := free(*cfg.preferred, LabelOffset); ok {
			return p
		}
	}
	for _, dist := range []float64{LabelOffset, LabelOffset * 1.5} {
		for _, angle := range compass {
			if p, ok := free(angle, dist); ok {
				return p
			}
		}
	}

	angle := fallbackAngle
	if cfg.preferred != nil {
		angle = *cfg.preferred
	}
	return anchor.Add(diagram.Direction(angle).Scale(LabelOffset * 2))
}

// PositionForceLabel places the label of a force arrow near its head,
// preferring the arrow's own direction. The arrow itself is ignored.
func PositionForceLabel(f diagram.Force, origin diagram.Point, length float64, existing []Element, fontSize float64) diagram.Point {
	angle := f.Vector().Angle
	end := origin.Add(diagram.Direction(angle).Scale(length))
	return FindLabelPosition(end, f.Label(), existing,
		WithPreferredAngle(angle),
		WithFontSize(fontSize),
		WithExclude(f.Key()),
	)
}
