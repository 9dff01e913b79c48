package layout

import (
	"math"

	"github.com/matzehuels/diagramkit/pkg/diagram"
)

// goldenAngle spreads push directions for elements with coincident centers.
const goldenAngle = 137.50776405003785

// Result is the outcome of [ResolveCollisions].
type Result struct {
	// Positions holds the final position of every element.
	Positions map[string]diagram.Point `json:"positions"`
	// Adjustments holds the total displacement of every moved element.
	Adjustments map[string]diagram.Point `json:"adjustments"`
	// Collisions lists the overlaps left after the last iteration.
	Collisions []Collision `json:"collisions"`
	Success    bool        `json:"success"`
	Iterations int         `json:"iterations"`
}

type resolveConfig struct {
	bounds *diagram.BoundingBox
}

// ResolveOption configures [ResolveCollisions].
type ResolveOption func(*resolveConfig)

// WithBounds keeps moved elements inside region. Elements larger than the
// region are aligned to its top-left corner.
func WithBounds(region diagram.BoundingBox) ResolveOption {
	return func(c *resolveConfig) { c.bounds = &region }
}

// ResolveCollisions pushes colliding elements apart by iterative
// relaxation, mutating positions and bounds in place.
//
// In each round, for every collision the lower-priority element (the
// later one on ties) moves away from the other along the line between
// their positions by MinSpacing plus half the overlap width. Collisions
// are recomputed after each round. After [MaxIterations] rounds the
// remaining collisions are reported with Success false.
func ResolveCollisions(elements []Element, opts ...ResolveOption) Result {
	var cfg resolveConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	adjustments := make(map[string]diagram.Point)
	collisions := detect(elements)
	iterations := 0
	for len(collisions) > 0 && iterations < MaxIterations {
		iterations++
		for _, c := range collisions {
			mover, anchor := c.j, c.i
			if elements[c.i].Priority < elements[c.j].Priority {
				mover, anchor = c.i, c.j
			}
			m := &elements[mover]
			dir := m.Position.Sub(elements[anchor].Position)
			if dir.Length() < 1e-9 {
				dir = diagram.Direction(float64(mover+1) * goldenAngle)
			}
			push := dir.Scale((MinSpacing + c.Overlap.Width/2) / dir.Length())
			before := m.Position
			m.move(push)
			if cfg.bounds != nil {
				m.move(clampShift(m.Bounds, *cfg.bounds))
			}
			adjustments[m.ID] = adjustments[m.ID].Add(m.Position.Sub(before))
		}
		collisions = detect(elements)
	}

	positions := make(map[string]diagram.Point, len(elements))
	for _, e := range elements {
		positions[e.ID] = e.Position
	}
	remaining := make([]Collision, len(collisions))
	for k, c := range collisions {
		remaining[k] = c.Collision
	}
	return Result{
		Positions:   positions,
		Adjustments: adjustments,
		Collisions:  remaining,
		Success:     len(remaining) == 0,
		Iterations:  iterations,
	}
}

// clampShift returns the offset that moves b inside region.
func clampShift(b, region diagram.BoundingBox) diagram.Point {
	return diagram.Point{
		X: clampAxis(b.X, b.Width, region.X, region.Width),
		Y: clampAxis(b.Y, b.Height, region.Y, region.Height),
	}
}

func clampAxis(pos, size, lo, span float64) float64 {
	if size >= span {
		return lo - pos
	}
	return math.Max(lo, math.Min(pos, lo+span-size)) - pos
}
