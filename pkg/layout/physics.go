package layout

import (
	"github.com/matzehuels/diagramkit/pkg/diagram"
)

// PhysicsOptions tunes [PhysicsLayout].
type PhysicsOptions struct {
	// ForceScale converts magnitudes to arrow lengths. Zero uses
	// DefaultForceScale.
	ForceScale float64
	// ShowLabels places a label next to every arrow head.
	ShowLabels bool
	// FontSize for label estimates. Zero uses DefaultFontSize.
	FontSize float64
	// SurfaceAngle is the incline of the contact surface in degrees.
	SurfaceAngle float64
}

func (o *PhysicsOptions) setDefaults() {
	if o.ForceScale <= 0 {
		o.ForceScale = DefaultForceScale
	}
	if o.FontSize <= 0 {
		o.FontSize = DefaultFontSize
	}
}

// PhysicsResult holds final positions for a physics layout, after collision
// resolution. Force maps are keyed by [diagram.Force.Key].
type PhysicsResult struct {
	ObjectID       string                   `json:"object_id"`
	ObjectPosition diagram.Point            `json:"object_position"`
	ObjectBounds   diagram.BoundingBox      `json:"object_bounds"`
	ForceOrigins   map[string]diagram.Point `json:"force_origins"`
	ForceEnds      map[string]diagram.Point `json:"force_ends"`
	LabelPositions map[string]diagram.Point `json:"label_positions,omitempty"`
	Elements       []Element                `json:"elements"`
	Result         Result                   `json:"result"`
}

// LabelID returns the element id used for a force's label.
func LabelID(forceKey string) string { return forceKey + ".label" }

// PhysicsLayout lays out one object and its forces on a canvas. The object
// is centered on the canvas (explicit force origins move with it), arrows
// are magnitude × ForceScale long, labels are placed when requested, and
// one collision-resolution pass settles the rest. Forces without a
// magnitude or angle are skipped.
func PhysicsLayout(object diagram.PhysicsObject, forces []diagram.Force, canvas diagram.Size, opts PhysicsOptions) PhysicsResult {
	opts.setDefaults()

	center := diagram.Point{X: canvas.Width / 2, Y: canvas.Height / 2}
	delta := center.Sub(object.Position)
	obj := object.Clone()
	obj.Position = center
	size := objectSize(obj)

	drawn := make([]diagram.Force, 0, len(forces))
	for _, f := range forces {
		if !f.HasVector() {
			continue
		}
		f = f.Clone()
		if f.Origin != nil {
			p := f.Origin.Add(delta)
			f.Origin = &p
		}
		drawn = append(drawn, f)
	}

	objID := obj.Key()
	elements := []Element{{
		ID:       objID,
		Type:     ElementObject,
		Position: center,
		Bounds:   CreateBoundingBox(center, size.Width, size.Height),
		Priority: PriorityObject,
	}}

	origins := ForceOrigins(drawn, obj, opts.SurfaceAngle)
	ends := make(map[string]diagram.Point, len(drawn))
	lengths := make(map[string]float64, len(drawn))
	placed := make(map[string]diagram.Point, len(drawn))
	for _, f := range drawn {
		key := f.Key()
		v := f.Vector()
		length := v.Magnitude * opts.ForceScale
		origin := origins[key]
		bounds := CreateForceBounds(origin, v.Angle, length, DefaultStrokeWidth)
		ends[key] = origin.Add(diagram.Direction(v.Angle).Scale(length))
		lengths[key] = length
		placed[key] = bounds.Center()
		elements = append(elements, Element{
			ID:       key,
			Type:     ElementForce,
			Position: bounds.Center(),
			Bounds:   bounds,
			Priority: PriorityForce,
			Anchor:   objID,
		})
	}

	if opts.ShowLabels {
		for _, f := range drawn {
			key := f.Key()
			p := PositionForceLabel(f, origins[key], lengths[key], elements, opts.FontSize)
			elements = append(elements, Element{
				ID:       LabelID(key),
				Type:     ElementLabel,
				Position: p,
				Bounds:   CreateLabelBounds(p, f.Label(), opts.FontSize),
				Priority: PriorityLabel,
				Anchor:   key,
			})
		}
	}

	res := ResolveCollisions(elements, WithBounds(diagram.BoundingBox{Width: canvas.Width, Height: canvas.Height}))

	// arrows moved by resolution carry their tail and head along
	for key, before := range placed {
		if d := res.Positions[key].Sub(before); d != (diagram.Point{}) {
			origins[key] = origins[key].Add(d)
			ends[key] = ends[key].Add(d)
		}
	}

	out := PhysicsResult{
		ObjectID:       objID,
		ObjectPosition: res.Positions[objID],
		ObjectBounds:   elements[0].Bounds,
		ForceOrigins:   origins,
		ForceEnds:      ends,
		Elements:       elements,
		Result:         res,
	}
	if opts.ShowLabels {
		out.LabelPositions = make(map[string]diagram.Point, len(drawn))
		for _, f := range drawn {
			out.LabelPositions[f.Key()] = res.Positions[LabelID(f.Key())]
		}
	}
	return out
}
