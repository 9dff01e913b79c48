package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/diagramkit/pkg/diagram"
	errs "github.com/matzehuels/diagramkit/pkg/errors"
	"github.com/matzehuels/diagramkit/pkg/layout"
)

// =============================================================================
// Layout - Serializable Result
// =============================================================================

// Layout is the serializable layout of one diagram. Exactly one of Physics
// and Plot is set, depending on the diagram type.
type Layout struct {
	DiagramType diagram.Type `json:"diagram_type"`
	Width       float64      `json:"width"`
	Height      float64      `json:"height"`

	// Physics diagrams.
	Physics *layout.PhysicsResult `json:"physics,omitempty"`
	Axes    *diagram.Point        `json:"axes,omitempty"`

	// Coordinate planes and number lines.
	Plot *layout.PlotResult `json:"plot,omitempty"`

	// Collisions left unresolved. Success is true when there are none.
	Collisions []layout.Collision `json:"collisions"`
	Success    bool               `json:"success"`
	Iterations int                `json:"iterations"`
}

// Elements returns the placed elements.
func (l *Layout) Elements() []layout.Element {
	switch {
	case l.Physics != nil:
		return l.Physics.Elements
	case l.Plot != nil:
		return l.Plot.Elements
	}
	return nil
}

// MarshalLayout encodes l as indented JSON.
func MarshalLayout(l *Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout decodes a layout and checks it carries a result.
func UnmarshalLayout(data []byte) (*Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.Physics == nil && l.Plot == nil {
		return nil, fmt.Errorf("layout for %q has neither physics nor plot data", l.DiagramType)
	}
	return &l, nil
}

// =============================================================================
// Layout Generation
// =============================================================================

// BuildLayout lays out d on the canvas described by opts. Physics types
// get an object-and-forces layout plus a free corner for the axes;
// coordinate planes and number lines get a plot layout. Other types are
// reported as unsupported.
func BuildLayout(d *diagram.StructuredDiagram, opts Options) (*Layout, error) {
	if d == nil || d.Data == nil {
		return nil, errs.New(errs.ErrCodeInvalidDiagram, "diagram has no data")
	}
	if d.Data.DiagramType() != d.Type {
		return nil, errs.New(errs.ErrCodeInvalidDiagram, "data does not match diagram type %q", d.Type)
	}
	opts.SetDefaults()

	if scene, ok := physicsScenes[d.Type]; ok {
		return buildPhysics(d.Type, scene(d.Data), opts)
	}
	if plot, ok := plotScenes[d.Type]; ok {
		return buildPlot(d.Type, plot(d.Data), opts), nil
	}
	return nil, errs.New(errs.ErrCodeUnsupported, "no layout for diagram type %q", d.Type)
}

// =============================================================================
// Physics
// =============================================================================

type physicsScene struct {
	object       *diagram.PhysicsObject
	forces       []diagram.Force
	surfaceAngle float64
}

var physicsScenes = map[diagram.Type]func(diagram.Data) physicsScene{
	diagram.TypeFreeBody: func(d diagram.Data) physicsScene {
		fb := d.(*diagram.FreeBodyData)
		s := physicsScene{object: fb.Object, forces: fb.Forces}
		if fb.Surface != nil && fb.Surface.Type == diagram.SurfaceInclined {
			s.surfaceAngle = fb.Surface.Angle
		}
		return s
	},
	diagram.TypeInclinedPlane: func(d diagram.Data) physicsScene {
		ip := d.(*diagram.InclinedPlaneData)
		s := physicsScene{object: ip.Object, forces: ip.Forces}
		if ip.Angle != nil {
			s.surfaceAngle = *ip.Angle
		}
		return s
	},
	diagram.TypeProjectile: func(d diagram.Data) physicsScene {
		p := d.(*diagram.ProjectileData)
		return physicsScene{object: p.Object, forces: p.Forces}
	},
	diagram.TypeCircularMotion: func(d diagram.Data) physicsScene {
		c := d.(*diagram.CircularMotionData)
		return physicsScene{object: c.Object, forces: c.Forces}
	},
}

func buildPhysics(t diagram.Type, s physicsScene, opts Options) (*Layout, error) {
	var obj diagram.PhysicsObject
	if s.object != nil {
		obj = *s.object
	}
	forces := uniqueForceIDs(s.forces)

	ids := []string{obj.Key()}
	for _, f := range forces {
		ids = append(ids, f.Key())
	}
	if err := errs.ValidateElementIDs(ids); err != nil {
		return nil, err
	}

	res := layout.PhysicsLayout(obj, forces, opts.Canvas(), layout.PhysicsOptions{
		ForceScale:   opts.ForceScale,
		ShowLabels:   opts.ShowLabels,
		FontSize:     opts.FontSize,
		SurfaceAngle: s.surfaceAngle,
	})
	axes := layout.FindAxesPosition(opts.Canvas(), res.Elements, layout.DefaultAxisLength)

	return &Layout{
		DiagramType: t,
		Width:       opts.Width,
		Height:      opts.Height,
		Physics:     &res,
		Axes:        &axes,
		Collisions:  res.Result.Collisions,
		Success:     res.Result.Success,
		Iterations:  res.Result.Iterations,
	}, nil
}

// uniqueForceIDs returns a copy of forces in which every key is distinct.
// Later duplicates get a numeric suffix: "applied", "applied-2".
func uniqueForceIDs(forces []diagram.Force) []diagram.Force {
	out := make([]diagram.Force, len(forces))
	seen := make(map[string]bool, len(forces))
	for i, f := range forces {
		f = f.Clone()
		key := f.Key()
		if seen[key] {
			for n := 2; ; n++ {
				candidate := fmt.Sprintf("%s-%d", key, n)
				if !seen[candidate] {
					f.ID = candidate
					key = candidate
					break
				}
			}
		}
		seen[key] = true
		out[i] = f
	}
	return out
}

// =============================================================================
// Plots
// =============================================================================

// defaultExtent is the data range used when a plot leaves bounds unset.
const defaultExtent = 10.0

type plotScene struct {
	x, y   layout.Range
	points []layout.PlotPoint
}

var plotScenes = map[diagram.Type]func(diagram.Data) plotScene{
	diagram.TypeCoordinatePlane: func(d diagram.Data) plotScene {
		cp := d.(*diagram.CoordinatePlaneData)
		s := plotScene{
			x: layout.Range{Min: orDefault(cp.XMin, -defaultExtent), Max: orDefault(cp.XMax, defaultExtent)},
			y: layout.Range{Min: orDefault(cp.YMin, -defaultExtent), Max: orDefault(cp.YMax, defaultExtent)},
		}
		for _, p := range cp.Points {
			s.points = append(s.points, layout.PlotPoint{ID: p.ID, Label: p.Label, X: p.X, Y: p.Y})
		}
		return s
	},
	diagram.TypeNumberLine: func(d diagram.Data) plotScene {
		nl := d.(*diagram.NumberLineData)
		s := plotScene{
			x: layout.Range{Min: orDefault(nl.Min, -defaultExtent), Max: orDefault(nl.Max, defaultExtent)},
		}
		for _, p := range nl.Points {
			s.points = append(s.points, layout.PlotPoint{ID: p.ID, Label: p.Label, X: p.Value})
		}
		return s
	},
}

func buildPlot(t diagram.Type, s plotScene, opts Options) *Layout {
	res := layout.PlotLayout(opts.Canvas(), s.x, s.y, s.points, layout.PlotOptions{
		FontSize:   opts.FontSize,
		ShowLabels: opts.ShowLabels,
	})
	collisions := layout.DetectCollisions(res.Elements)
	return &Layout{
		DiagramType: t,
		Width:       opts.Width,
		Height:      opts.Height,
		Plot:        &res,
		Collisions:  collisions,
		Success:     len(collisions) == 0,
	}
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
