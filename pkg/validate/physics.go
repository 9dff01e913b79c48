package validate

import (
	"math"

	"github.com/matzehuels/diagramkit/pkg/diagram"
)

// Physics confidence penalties and angle tolerances (degrees).
const (
	physicsErrorPenalty   = 0.25
	physicsWarningPenalty = 0.1

	strictTolerance  = 1.0
	relaxedTolerance = 5.0

	// decompositionTolerance is the allowed relative error between the
	// normal force and W·cos θ.
	decompositionTolerance = 0.05
)

// surface is the contact surface the physics rules are evaluated against.
type surface struct {
	kind  diagram.SurfaceType
	angle float64
}

// physicsScene extracts forces and surface from a physics payload.
type physicsScene struct {
	forces        []diagram.Force
	surface       surface
	decomposition bool
}

var physicsScenes = map[diagram.Type]func(diagram.Data) physicsScene{
	diagram.TypeFreeBody: func(d diagram.Data) physicsScene {
		fb := d.(*diagram.FreeBodyData)
		return physicsScene{forces: fb.Forces, surface: freeBodySurface(fb)}
	},
	diagram.TypeInclinedPlane: func(d diagram.Data) physicsScene {
		ip := d.(*diagram.InclinedPlaneData)
		return physicsScene{
			forces:        ip.Forces,
			surface:       surface{kind: diagram.SurfaceInclined, angle: planeAngle(ip)},
			decomposition: ip.ShowDecomposition,
		}
	},
	diagram.TypeProjectile: func(d diagram.Data) physicsScene {
		return physicsScene{forces: d.(*diagram.ProjectileData).Forces, surface: surface{kind: diagram.SurfaceNone}}
	},
	diagram.TypeCircularMotion: func(d diagram.Data) physicsScene {
		return physicsScene{forces: d.(*diagram.CircularMotionData).Forces, surface: surface{kind: diagram.SurfaceNone}}
	},
}

func freeBodySurface(fb *diagram.FreeBodyData) surface {
	if fb.Surface == nil || fb.Surface.Type == "" {
		return surface{kind: diagram.SurfaceHorizontal}
	}
	if fb.Surface.Type == diagram.SurfaceInclined {
		return surface{kind: diagram.SurfaceInclined, angle: fb.Surface.Angle}
	}
	return surface{kind: fb.Surface.Type}
}

func planeAngle(ip *diagram.InclinedPlaneData) float64 {
	if ip.Angle == nil {
		return 0
	}
	return *ip.Angle
}

// ValidatePhysics checks force direction conventions on physics diagrams.
// Other diagram types are always valid with full confidence. A payload
// that does not match the diagram type is reported on "data".
func ValidatePhysics(d *diagram.StructuredDiagram) Result {
	var r report
	if d == nil || d.Data == nil {
		return r.result(physicsErrorPenalty, physicsWarningPenalty)
	}
	scene, ok := physicsScenes[d.Type]
	if !ok {
		return r.result(physicsErrorPenalty, physicsWarningPenalty)
	}
	if d.Data.DiagramType() != d.Type {
		r.errorf("data", "payload of type %q does not match diagram type %q", d.Data.DiagramType(), d.Type)
		return r.result(physicsErrorPenalty, physicsWarningPenalty)
	}
	s := scene(d.Data)

	for _, f := range s.forces {
		if f.Magnitude != nil && *f.Magnitude < 0 {
			r.errorf("forces."+f.Key()+".magnitude", "force %q has negative magnitude %g", f.Key(), *f.Magnitude)
		}
		if f.Angle == nil {
			continue
		}
		checkForceAngle(&r, f.Type, *f.Angle, s.surface)
	}
	if s.decomposition && s.surface.kind == diagram.SurfaceInclined {
		checkDecomposition(&r, s.forces, s.surface.angle)
	}
	return r.result(physicsErrorPenalty, physicsWarningPenalty)
}

func checkForceAngle(r *report, t diagram.ForceType, angle float64, s surface) {
	switch t {
	case diagram.ForceWeight:
		if diagram.AngleDiff(angle, -90) > strictTolerance {
			r.errorf("forces.weight.angle", "weight must point straight down (-90°), got %g°", angle)
		}
	case diagram.ForceNormal:
		switch s.kind {
		case diagram.SurfaceHorizontal:
			if diagram.AngleDiff(angle, 90) > strictTolerance {
				r.errorf("forces.normal.angle", "normal force on a horizontal surface must point up (90°), got %g°", angle)
			}
		case diagram.SurfaceInclined:
			want := 90 - s.angle
			if diagram.AngleDiff(angle, want) > relaxedTolerance {
				r.warnf("forces.normal.angle", "normal force should be perpendicular to the surface (%g°), got %g°", want, angle)
			}
		}
	case diagram.ForceFriction:
		var a, b float64
		switch s.kind {
		case diagram.SurfaceHorizontal:
			a, b = 0, 180
		case diagram.SurfaceInclined:
			a, b = 180-s.angle, -s.angle
		default:
			return
		}
		if math.Min(diagram.AngleDiff(angle, a), diagram.AngleDiff(angle, b)) > relaxedTolerance {
			r.warnf("forces.friction.angle", "friction should be parallel to the surface (%g° or %g°), got %g°", a, b, angle)
		}
	}
}

// checkDecomposition compares the normal force with the perpendicular
// component of the weight. Friction balance is not checked.
func checkDecomposition(r *report, forces []diagram.Force, theta float64) {
	var weight, normal *diagram.Force
	for i := range forces {
		f := &forces[i]
		if f.Magnitude == nil {
			continue
		}
		switch {
		case f.Type == diagram.ForceWeight && weight == nil:
			weight = f
		case f.Type == diagram.ForceNormal && normal == nil:
			normal = f
		}
	}
	if weight == nil || normal == nil {
		return
	}
	expected := *weight.Magnitude * math.Cos(diagram.Radians(theta))
	if expected <= 0 {
		return
	}
	if rel := math.Abs(*normal.Magnitude-expected) / expected; rel > decompositionTolerance {
		r.warnf("forces.normal.magnitude", "normal force %g should equal W·cos θ = %.2f (off by %.0f%%)",
			*normal.Magnitude, expected, rel*100)
	}
}

// ValidateDiagram runs the schema pass and, if it succeeds, the physics
// pass. Issues are combined and confidences multiplied.
func ValidateDiagram(d *diagram.StructuredDiagram) Result {
	schema := ValidateSchema(d)
	if !schema.Valid {
		return schema
	}
	physics := ValidatePhysics(d)
	return Result{
		Valid:      physics.Valid,
		Errors:     append(schema.Errors, physics.Errors...),
		Warnings:   append(schema.Warnings, physics.Warnings...),
		Confidence: schema.Confidence * physics.Confidence,
	}
}
