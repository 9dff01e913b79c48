package layout

import (
	"math"
	"slices"

	"github.com/matzehuels/diagramkit/pkg/diagram"
)

// ElementType classifies an element for priority and debugging.
type ElementType string

const (
	ElementObject     ElementType = "object"
	ElementAxis       ElementType = "axis"
	ElementForce      ElementType = "force"
	ElementLabel      ElementType = "label"
	ElementAnnotation ElementType = "annotation"
)

// Priority tiers. When two elements collide the lower tier moves.
const (
	PriorityObject     = 100
	PriorityAxis       = 80
	PriorityForce      = 60
	PriorityLabel      = 40
	PriorityAnnotation = 20
)

// DefaultPriority returns the tier for an element type.
func DefaultPriority(t ElementType) int {
	switch t {
	case ElementObject:
		return PriorityObject
	case ElementAxis:
		return PriorityAxis
	case ElementForce:
		return PriorityForce
	case ElementLabel:
		return PriorityLabel
	default:
		return PriorityAnnotation
	}
}

// Element is a positioned drawable. Elements are built fresh for each
// layout computation.
//
// Anchor names the element this one is drawn on (a force's object, a
// label's force). Attached elements never collide with each other.
type Element struct {
	ID       string              `json:"id"`
	Type     ElementType         `json:"type"`
	Position diagram.Point       `json:"position"`
	Bounds   diagram.BoundingBox `json:"bounds"`
	Priority int                 `json:"priority"`
	Anchor   string              `json:"anchor,omitempty"`
}

// attached reports whether a and b belong together. Empty ids and anchors
// never attach.
func attached(a, b *Element) bool {
	return (b.ID != "" && a.Anchor == b.ID) ||
		(a.ID != "" && b.Anchor == a.ID) ||
		(a.Anchor != "" && a.Anchor == b.Anchor)
}

// move translates the element's position and bounds together.
func (e *Element) move(d diagram.Point) {
	e.Position = e.Position.Add(d)
	e.Bounds = e.Bounds.Translate(d)
}

// Collision is an overlap between two elements. A sorts before B, so the
// same pair is reported identically whatever the input order. Severity is
// the overlap area divided by the larger (padded) element area.
type Collision struct {
	A        string              `json:"a"`
	B        string              `json:"b"`
	Severity float64             `json:"severity"`
	Overlap  diagram.BoundingBox `json:"overlap"`
}

// indexed is a collision with the element indexes it came from.
type indexed struct {
	Collision
	i, j int
}

// DetectCollisions compares every pair of elements. Each box is padded by
// half of [MinSpacing] first, so near-touching elements are reported.
func DetectCollisions(elements []Element) []Collision {
	found := detect(elements)
	out := make([]Collision, len(found))
	for k, c := range found {
		out[k] = c.Collision
	}
	return out
}

func detect(elements []Element) []indexed {
	var out []indexed
	pad := MinSpacing / 2
	for i := range elements {
		a := &elements[i]
		ea := ExpandBox(a.Bounds, pad)
		for j := i + 1; j < len(elements); j++ {
			b := &elements[j]
			if attached(a, b) {
				continue
			}
			eb := ExpandBox(b.Bounds, pad)
			o, ok := OverlapBox(ea, eb)
			if !ok {
				continue
			}
			larger := math.Max(ea.Area(), eb.Area())
			sev := 1.0
			if larger > 0 {
				sev = math.Min(1, o.Area()/larger)
			}
			c := Collision{A: a.ID, B: b.ID, Severity: sev, Overlap: o}
			if c.B < c.A {
				c.A, c.B = c.B, c.A
			}
			out = append(out, indexed{Collision: c, i: i, j: j})
		}
	}
	return out
}

// CheckCollision reports whether bounds, re-centered on position, would
// collide with any element not listed in excludeIDs. Padding matches
// [DetectCollisions].
func CheckCollision(position diagram.Point, bounds diagram.BoundingBox, existing []Element, excludeIDs ...string) bool {
	pad := MinSpacing / 2
	candidate := ExpandBox(centerOn(bounds, position), pad)
	for i := range existing {
		e := &existing[i]
		if slices.Contains(excludeIDs, e.ID) {
			continue
		}
		if BoxesOverlap(candidate, ExpandBox(e.Bounds, pad)) {
			return true
		}
	}
	return false
}
