package debug

import (
	"strings"
	"testing"

	"github.com/matzehuels/diagramkit/pkg/diagram"
	"github.com/matzehuels/diagramkit/pkg/layout"
)

func scene() ([]layout.Element, []layout.Collision) {
	obj := layout.Element{ID: "block", Type: layout.ElementObject, Priority: layout.PriorityObject,
		Bounds: layout.CreateBoundingBox(diagram.Point{X: 50, Y: 50}, 20, 20), Position: diagram.Point{X: 50, Y: 50}}
	w := layout.Element{ID: "W", Type: layout.ElementForce, Priority: layout.PriorityForce, Anchor: "block",
		Bounds: layout.CreateBoundingBox(diagram.Point{X: 50, Y: 70}, 6, 40), Position: diagram.Point{X: 50, Y: 70}}
	lbl := layout.Element{ID: "note", Type: layout.ElementAnnotation, Priority: layout.PriorityAnnotation,
		Bounds: layout.CreateBoundingBox(diagram.Point{X: 55, Y: 50}, 20, 10), Position: diagram.Point{X: 55, Y: 50}}
	elements := []layout.Element{obj, w, lbl}
	return elements, layout.DetectCollisions(elements)
}

func TestToDOT(t *testing.T) {
	elements, collisions := scene()
	if len(collisions) == 0 {
		t.Fatal("scene should collide")
	}
	dot := ToDOT(elements, collisions)

	for _, want := range []string{
		"graph collisions {",
		`"block" [label="block\nobject p100"`,
		`"W" -- "block" [style=dotted`,
		"color=red",
		`pos="50.0,-50.0!"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	elements, collisions := scene()
	svg, err := RenderSVG(t.Context(), ToDOT(elements, collisions))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("output is not SVG")
	}
}
