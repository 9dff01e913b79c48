// Package debug exports layout collision graphs for inspection.
//
// Each element becomes a node labeled with its id, type and priority;
// each collision becomes an undirected edge whose pen width grows with the
// severity. Attached elements are linked by dotted edges.
package debug

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/diagramkit/pkg/layout"
)

var fillColors = map[layout.ElementType]string{
	layout.ElementObject:     "lightblue",
	layout.ElementAxis:       "lightgrey",
	layout.ElementForce:      "lightgoldenrod",
	layout.ElementLabel:      "white",
	layout.ElementAnnotation: "lavender",
}

// ToDOT renders elements and their collisions as a Graphviz graph.
func ToDOT(elements []layout.Element, collisions []layout.Collision) string {
	var buf bytes.Buffer
	buf.WriteString("graph collisions {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=12];\n")
	buf.WriteString("\n")

	for _, e := range elements {
		label := fmt.Sprintf("%s\n%s p%d", e.ID, e.Type, e.Priority)
		fill := fillColors[e.Type]
		if fill == "" {
			fill = "white"
		}
		// neato uses points; flip y so the picture matches the canvas
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%s, pos=\"%.1f,%.1f!\"];\n",
			e.ID, label, fill, e.Position.X, -e.Position.Y)
	}

	buf.WriteString("\n")
	for _, e := range elements {
		if e.Anchor != "" {
			fmt.Fprintf(&buf, "  %q -- %q [style=dotted, color=grey];\n", e.ID, e.Anchor)
		}
	}
	for _, c := range collisions {
		fmt.Fprintf(&buf, "  %q -- %q [color=red, penwidth=%.2f, label=%q];\n",
			c.A, c.B, 1+4*c.Severity, fmt.Sprintf("%.2f", c.Severity))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using the embedded Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		return nil, fmt.Errorf("render: no svg output")
	}
	return buf.Bytes(), nil
}
