package layout

import (
	"fmt"
	"math"

	"github.com/matzehuels/diagramkit/pkg/diagram"
)

// OriginRule is the placement policy for a force arrow's tail.
type OriginRule string

const (
	RuleCenter         OriginRule = "center"
	RuleSurfaceContact OriginRule = "surface_contact"
	RuleSurfaceFront   OriginRule = "surface_front"
	RuleAttachment     OriginRule = "attachment"
	RuleEdge           OriginRule = "edge"
)

var originRules = map[diagram.ForceType]OriginRule{
	diagram.ForceWeight:      RuleCenter,
	diagram.ForceDrag:        RuleCenter,
	diagram.ForceLift:        RuleCenter,
	diagram.ForceBuoyancy:    RuleCenter,
	diagram.ForceElectric:    RuleCenter,
	diagram.ForceMagnetic:    RuleCenter,
	diagram.ForceCentripetal: RuleCenter,
	diagram.ForceNet:         RuleCenter,
	diagram.ForceComponent:   RuleCenter,
	diagram.ForceCustom:      RuleCenter,
	diagram.ForceResistance:  RuleCenter,
	diagram.ForceNormal:      RuleSurfaceContact,
	diagram.ForceReaction:    RuleSurfaceContact,
	diagram.ForceFriction:    RuleSurfaceFront,
	diagram.ForceTension:     RuleAttachment,
	diagram.ForceSpring:      RuleAttachment,
	diagram.ForceApplied:     RuleEdge,
	diagram.ForceThrust:      RuleEdge,
	diagram.ForceDrive:       RuleEdge,
}

// RuleFor returns the origin rule of a force type. Unknown types start at
// the center.
func RuleFor(t diagram.ForceType) OriginRule {
	if r, ok := originRules[t]; ok {
		return r
	}
	return RuleCenter
}

// objectSize returns the object's extent, defaulting to a square of
// [DefaultObjectSize].
func objectSize(o diagram.PhysicsObject) diagram.Size {
	if o.Size.IsZero() {
		return diagram.Square(DefaultObjectSize)
	}
	return o.Size
}

// EdgePoint returns the point where a ray from the object's center in
// direction angle leaves the object. Round objects use their radius;
// rotated rectangles are intersected in their own frame.
func EdgePoint(o diagram.PhysicsObject, angle float64) diagram.Point {
	size := objectSize(o)
	if o.IsRound() {
		r := math.Min(size.Width, size.Height) / 2
		return o.Position.Add(diagram.Direction(angle).Scale(r))
	}

	rot := 0.0
	if o.Rotation != nil {
		rot = *o.Rotation
	}
	d := diagram.Direction(angle - rot)
	hw, hh := size.Width/2, size.Height/2
	t := math.Inf(1)
	if math.Abs(d.X) > 1e-12 {
		t = hw / math.Abs(d.X)
	}
	if math.Abs(d.Y) > 1e-12 {
		t = math.Min(t, hh/math.Abs(d.Y))
	}
	return o.Position.Add(rotate(d.Scale(t), rot))
}

// ForceOrigin returns the tail point of a force arrow on the object,
// chosen by the force's [OriginRule]. surfaceAngle is the incline of the
// contact surface in degrees (0 for a horizontal floor).
func ForceOrigin(f diagram.Force, o diagram.PhysicsObject, surfaceAngle float64) diagram.Point {
	angle := f.Vector().Angle
	switch RuleFor(f.Type) {
	case RuleSurfaceContact:
		return contactPoint(o, surfaceAngle)
	case RuleSurfaceFront:
		contact := contactPoint(o, surfaceAngle)
		along := diagram.Direction(surfaceAngle)
		dot := along.X*diagram.Direction(angle).X + along.Y*diagram.Direction(angle).Y
		if math.Abs(dot) < 1e-9 {
			return contact
		}
		shift := objectSize(o).Width / 4
		if dot > 0 {
			shift = -shift
		}
		return contact.Add(along.Scale(shift))
	case RuleAttachment:
		if f.Origin != nil {
			return *f.Origin
		}
		return EdgePoint(o, angle)
	case RuleEdge:
		return EdgePoint(o, angle)
	default:
		return o.Position
	}
}

// contactPoint is the middle of the face resting on the surface.
func contactPoint(o diagram.PhysicsObject, surfaceAngle float64) diagram.Point {
	return EdgePoint(o, surfaceAngle-90)
}

// ForceOrigins computes the origin of every force, keyed by
// [diagram.Force.Key]. Forces that would share a tail point are spread
// evenly on a circle of [SpreadRadius] around it.
func ForceOrigins(forces []diagram.Force, o diagram.PhysicsObject, surfaceAngle float64) map[string]diagram.Point {
	type group struct {
		base diagram.Point
		keys []string
	}
	var groups []*group
	byPoint := make(map[string]*group)
	for _, f := range forces {
		p := ForceOrigin(f, o, surfaceAngle)
		k := fmt.Sprintf("%.3f,%.3f", p.X, p.Y)
		g, ok := byPoint[k]
		if !ok {
			g = &group{base: p}
			byPoint[k] = g
			groups = append(groups, g)
		}
		g.keys = append(g.keys, f.Key())
	}

	out := make(map[string]diagram.Point, len(forces))
	for _, g := range groups {
		n := len(g.keys)
		for i, key := range g.keys {
			if n == 1 {
				out[key] = g.base
				continue
			}
			angle := float64(i) * 360 / float64(n)
			out[key] = g.base.Add(diagram.Direction(angle).Scale(SpreadRadius))
		}
	}
	return out
}
