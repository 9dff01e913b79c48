package layout

import (
	"github.com/matzehuels/diagramkit/pkg/diagram"
)

// Range is a closed data interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Span returns Max - Min.
func (r Range) Span() float64 { return r.Max - r.Min }

// PlotPoint is a data point to place on a plot.
type PlotPoint struct {
	ID    string
	Label string
	X, Y  float64
}

// PlotOptions tunes [PlotLayout].
type PlotOptions struct {
	// Margin around the plot area. Zero uses 40.
	Margin     float64
	FontSize   float64
	ShowLabels bool
}

// PointMarkerSize is the side of the box reserved for a plotted point.
const PointMarkerSize = 8.0

const defaultPlotMargin = 40.0

// PlotResult maps data space to canvas space.
type PlotResult struct {
	Area           diagram.BoundingBox      `json:"area"`
	X              Range                    `json:"x"`
	Y              Range                    `json:"y"`
	Points         map[string]diagram.Point `json:"points"`
	LabelPositions map[string]diagram.Point `json:"label_positions,omitempty"`
	Elements       []Element                `json:"elements"`
}

// ToCanvas converts a data point to canvas coordinates. A degenerate Y
// range (a number line) maps every point to the vertical middle.
func (r PlotResult) ToCanvas(x, y float64) diagram.Point {
	p := diagram.Point{X: r.Area.X + r.Area.Width/2, Y: r.Area.Y + r.Area.Height/2}
	if s := r.X.Span(); s > 0 {
		p.X = r.Area.X + (x-r.X.Min)/s*r.Area.Width
	}
	if s := r.Y.Span(); s > 0 {
		p.Y = r.Area.Bottom() - (y-r.Y.Min)/s*r.Area.Height
	}
	return p
}

// PlotLayout maps coordinate-plane or number-line data onto the canvas and
// places point labels with [FindLabelPosition]. Labels prefer the
// north-east direction; points without a label use their id.
func PlotLayout(canvas diagram.Size, x, y Range, points []PlotPoint, opts PlotOptions) PlotResult {
	if opts.Margin <= 0 {
		opts.Margin = defaultPlotMargin
	}
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultFontSize
	}
	res := PlotResult{
		Area: diagram.BoundingBox{
			X:      opts.Margin,
			Y:      opts.Margin,
			Width:  max(canvas.Width-2*opts.Margin, 0),
			Height: max(canvas.Height-2*opts.Margin, 0),
		},
		X:      x,
		Y:      y,
		Points: make(map[string]diagram.Point, len(points)),
	}

	for _, pt := range points {
		p := res.ToCanvas(pt.X, pt.Y)
		res.Points[pt.ID] = p
		res.Elements = append(res.Elements, Element{
			ID:       pt.ID,
			Type:     ElementObject,
			Position: p,
			Bounds:   CreateBoundingBox(p, PointMarkerSize, PointMarkerSize),
			Priority: PriorityObject,
		})
	}
	if !opts.ShowLabels {
		return res
	}

	res.LabelPositions = make(map[string]diagram.Point, len(points))
	for _, pt := range points {
		text := pt.Label
		if text == "" {
			text = pt.ID
		}
		p := FindLabelPosition(res.Points[pt.ID], text, res.Elements,
			WithPreferredAngle(45),
			WithFontSize(opts.FontSize),
			WithExclude(pt.ID),
		)
		res.LabelPositions[pt.ID] = p
		res.Elements = append(res.Elements, Element{
			ID:       LabelID(pt.ID),
			Type:     ElementLabel,
			Position: p,
			Bounds:   CreateLabelBounds(p, text, opts.FontSize),
			Priority: PriorityLabel,
			Anchor:   pt.ID,
		})
	}
	return res
}
