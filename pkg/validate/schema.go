package validate

import (
	"fmt"

	"github.com/matzehuels/diagramkit/pkg/diagram"
)

// Schema confidence penalties.
const (
	schemaErrorPenalty   = 0.2
	schemaWarningPenalty = 0.05
)

// schemaRules dispatches type-specific schema checks. Every registered
// diagram type has an entry.
var schemaRules = map[diagram.Type]func(*report, diagram.Data){
	diagram.TypeFreeBody:        func(r *report, d diagram.Data) { checkFreeBody(r, d.(*diagram.FreeBodyData)) },
	diagram.TypeInclinedPlane:   func(r *report, d diagram.Data) { checkInclinedPlane(r, d.(*diagram.InclinedPlaneData)) },
	diagram.TypeProjectile:      func(r *report, d diagram.Data) { checkProjectile(r, d.(*diagram.ProjectileData)) },
	diagram.TypeCircularMotion:  func(r *report, d diagram.Data) { checkCircularMotion(r, d.(*diagram.CircularMotionData)) },
	diagram.TypeCoordinatePlane: func(r *report, d diagram.Data) { checkCoordinatePlane(r, d.(*diagram.CoordinatePlaneData)) },
	diagram.TypeNumberLine:      func(r *report, d diagram.Data) { checkNumberLine(r, d.(*diagram.NumberLineData)) },
	diagram.TypeLongDivision:    func(r *report, d diagram.Data) { checkLongDivision(r, d.(*diagram.LongDivisionData)) },
	diagram.TypeAtom:            func(r *report, d diagram.Data) { checkAtom(r, d.(*diagram.AtomData)) },
	diagram.TypeMolecule:        func(r *report, d diagram.Data) { checkMolecule(r, d.(*diagram.MoleculeData)) },
}

// ValidateSchema checks that the diagram carries every field its type
// requires. A diagram without a type or payload fails immediately with
// zero confidence.
func ValidateSchema(d *diagram.StructuredDiagram) Result {
	var r report
	switch {
	case d == nil || d.Type == "":
		r.errorf("type", "diagram type is missing")
		return zeroConfidence(r)
	case d.Data == nil:
		r.errorf("data", "diagram data is missing")
		return zeroConfidence(r)
	}

	check, ok := schemaRules[d.Type]
	if !ok {
		r.errorf("type", "unsupported diagram type %q", d.Type)
		return r.result(schemaErrorPenalty, schemaWarningPenalty)
	}
	if d.Data.DiagramType() != d.Type {
		r.errorf("data", "payload of type %q does not match diagram type %q", d.Data.DiagramType(), d.Type)
		return r.result(schemaErrorPenalty, schemaWarningPenalty)
	}
	check(&r, d.Data)
	checkSteps(&r, d.Steps)
	return r.result(schemaErrorPenalty, schemaWarningPenalty)
}

func zeroConfidence(r report) Result {
	res := r.result(schemaErrorPenalty, schemaWarningPenalty)
	res.Confidence = 0
	return res
}

// =============================================================================
// Physics types
// =============================================================================

func checkFreeBody(r *report, d *diagram.FreeBodyData) {
	checkObject(r, d.Object, true)
	checkForces(r, d.Forces, true)
	if s := d.Surface; s != nil {
		switch s.Type {
		case diagram.SurfaceHorizontal, diagram.SurfaceNone:
		case diagram.SurfaceInclined:
			if s.Angle < 0 || s.Angle > 90 {
				r.warnf("surface.angle", "surface angle %g° is outside 0-90°", s.Angle)
			}
		default:
			r.warnf("surface.type", "unknown surface type %q", s.Type)
		}
	}
}

func checkInclinedPlane(r *report, d *diagram.InclinedPlaneData) {
	if d.Angle == nil {
		r.errorf("angle", "plane angle is required")
	} else if *d.Angle < 0 || *d.Angle > 90 {
		r.warnf("angle", "plane angle %g° is outside 0-90°", *d.Angle)
	}
	checkObject(r, d.Object, true)
	checkForces(r, d.Forces, true)
	if d.FrictionCoefficient != nil && *d.FrictionCoefficient < 0 {
		r.warnf("frictionCoefficient", "friction coefficient %g is negative", *d.FrictionCoefficient)
	}
}

func checkProjectile(r *report, d *diagram.ProjectileData) {
	switch {
	case d.InitialVelocity == nil:
		r.errorf("initialVelocity", "initial velocity is required")
	case *d.InitialVelocity < 0:
		r.errorf("initialVelocity", "initial velocity %g is negative", *d.InitialVelocity)
	}
	if d.LaunchAngle == nil {
		r.errorf("launchAngle", "launch angle is required")
	} else if *d.LaunchAngle < -90 || *d.LaunchAngle > 90 {
		r.warnf("launchAngle", "launch angle %g° is outside -90-90°", *d.LaunchAngle)
	}
	if d.Gravity != nil && *d.Gravity <= 0 {
		r.warnf("gravity", "gravity %g should be positive", *d.Gravity)
	}
	checkObject(r, d.Object, false)
	checkForces(r, d.Forces, false)
}

func checkCircularMotion(r *report, d *diagram.CircularMotionData) {
	switch {
	case d.Radius == nil:
		r.errorf("radius", "radius is required")
	case *d.Radius <= 0:
		r.errorf("radius", "radius %g must be positive", *d.Radius)
	}
	if d.Speed == nil {
		r.errorf("speed", "speed is required")
	}
	checkObject(r, d.Object, false)
	checkForces(r, d.Forces, false)
}

func checkObject(r *report, o *diagram.PhysicsObject, required bool) {
	if o == nil || o.IsEmpty() {
		if required {
			r.errorf("object", "object is required")
		}
		return
	}
	if o.Size.Width < 0 || o.Size.Height < 0 {
		r.errorf("object.size", "object size must not be negative")
	}
}

func checkForces(r *report, forces []diagram.Force, required bool) {
	if forces == nil {
		if required {
			r.errorf("forces", "forces array is required")
		}
		return
	}
	if len(forces) == 0 && required {
		r.warnf("forces", "diagram has no forces")
	}
	for i, f := range forces {
		field := fmt.Sprintf("forces[%d]", i)
		if f.Magnitude == nil {
			r.errorf(field+".magnitude", "force %q has no magnitude", f.Key())
		}
		if f.Angle == nil {
			r.errorf(field+".angle", "force %q has no angle", f.Key())
		}
		if !f.Type.Valid() {
			r.errorf(field+".type", "unknown force type %q", f.Type)
		}
		if f.ID == "" && f.Name == "" {
			r.warnf(field+".id", "force has neither id nor name")
		}
	}
}

// =============================================================================
// Math types
// =============================================================================

func checkCoordinatePlane(r *report, d *diagram.CoordinatePlaneData) {
	bounds := []struct {
		field string
		v     *float64
	}{{"xMin", d.XMin}, {"xMax", d.XMax}, {"yMin", d.YMin}, {"yMax", d.YMax}}
	for _, b := range bounds {
		if b.v == nil {
			r.errorf(b.field, "%s is required", b.field)
		}
	}
	xOK := d.XMin != nil && d.XMax != nil
	yOK := d.YMin != nil && d.YMax != nil
	if xOK && *d.XMin >= *d.XMax {
		r.errorf("xMin", "xMin (%g) must be less than xMax (%g)", *d.XMin, *d.XMax)
		xOK = false
	}
	if yOK && *d.YMin >= *d.YMax {
		r.errorf("yMin", "yMin (%g) must be less than yMax (%g)", *d.YMin, *d.YMax)
		yOK = false
	}
	if d.GridSpacing != nil && *d.GridSpacing <= 0 {
		r.warnf("gridSpacing", "grid spacing %g should be positive", *d.GridSpacing)
	}
	if !xOK || !yOK {
		return
	}
	for i, p := range d.Points {
		if p.X < *d.XMin || p.X > *d.XMax || p.Y < *d.YMin || p.Y > *d.YMax {
			r.warnf(fmt.Sprintf("points[%d]", i), "point %q (%g, %g) lies outside the plane", p.ID, p.X, p.Y)
		}
	}
}

func checkNumberLine(r *report, d *diagram.NumberLineData) {
	if d.Min == nil {
		r.errorf("min", "min is required")
	}
	if d.Max == nil {
		r.errorf("max", "max is required")
	}
	if d.Step != nil && *d.Step <= 0 {
		r.warnf("step", "step %g should be positive", *d.Step)
	}
	if d.Min == nil || d.Max == nil {
		return
	}
	if *d.Min >= *d.Max {
		r.errorf("min", "min (%g) must be less than max (%g)", *d.Min, *d.Max)
		return
	}
	for i, p := range d.Points {
		if p.Value < *d.Min || p.Value > *d.Max {
			r.warnf(fmt.Sprintf("points[%d]", i), "point %q (%g) lies outside the line", p.ID, p.Value)
		}
	}
	for i, iv := range d.Intervals {
		if iv.Start > iv.End {
			r.warnf(fmt.Sprintf("intervals[%d]", i), "interval %q starts after it ends", iv.ID)
		}
	}
}

func checkLongDivision(r *report, d *diagram.LongDivisionData) {
	if d.Dividend == nil {
		r.errorf("dividend", "dividend is required")
	} else if *d.Dividend < 0 {
		r.warnf("dividend", "dividend %d is negative", *d.Dividend)
	}
	switch {
	case d.Divisor == nil:
		r.errorf("divisor", "divisor is required")
	case *d.Divisor == 0:
		r.errorf("divisor", "divisor must not be zero")
	case *d.Divisor < 0:
		r.warnf("divisor", "divisor %d is negative", *d.Divisor)
	}
}

// =============================================================================
// Chemistry types
// =============================================================================

func checkAtom(r *report, d *diagram.AtomData) {
	if d.Element == "" {
		r.errorf("element", "element symbol is required")
	}
	switch {
	case d.Protons == nil:
		r.errorf("protons", "proton count is required")
	case *d.Protons <= 0:
		r.errorf("protons", "proton count %d must be positive", *d.Protons)
	}
	if d.Neutrons < 0 {
		r.warnf("neutrons", "neutron count %d is negative", d.Neutrons)
	}
	if len(d.Shells) == 0 {
		return
	}
	sum := 0
	for _, n := range d.Shells {
		sum += n
	}
	electrons := 0
	switch {
	case d.Electrons != nil:
		electrons = *d.Electrons
	case d.Protons != nil:
		electrons = *d.Protons
	}
	if sum != electrons {
		r.warnf("shells", "shells hold %d electrons, expected %d", sum, electrons)
	}
}

func checkMolecule(r *report, d *diagram.MoleculeData) {
	if len(d.Atoms) == 0 {
		r.errorf("atoms", "molecule needs at least one atom")
		return
	}
	ids := make(map[string]bool, len(d.Atoms))
	for i, a := range d.Atoms {
		field := fmt.Sprintf("atoms[%d]", i)
		if a.ID == "" {
			r.errorf(field+".id", "atom id is required")
			continue
		}
		if ids[a.ID] {
			r.errorf(field+".id", "duplicate atom id %q", a.ID)
		}
		ids[a.ID] = true
		if a.Element == "" {
			r.errorf(field+".element", "atom %q has no element", a.ID)
		}
	}
	for i, b := range d.Bonds {
		field := fmt.Sprintf("bonds[%d]", i)
		if !ids[b.From] || !ids[b.To] {
			r.errorf(field, "bond %s-%s references an unknown atom", b.From, b.To)
		}
		if b.Order != 0 && (b.Order < 1 || b.Order > 3) {
			r.warnf(field+".order", "bond order %d is outside 1-3", b.Order)
		}
	}
}

// =============================================================================
// Steps
// =============================================================================

func checkSteps(r *report, steps []diagram.DiagramStep) {
	seen := make(map[string]bool, len(steps))
	for i, s := range steps {
		field := fmt.Sprintf("steps[%d].id", i)
		switch {
		case s.ID == "":
			r.warnf(field, "step has no id")
		case seen[s.ID]:
			r.warnf(field, "duplicate step id %q", s.ID)
		}
		seen[s.ID] = true
		if a := s.Animation; a != nil && a.Duration != nil && *a.Duration < 0 {
			r.warnf(fmt.Sprintf("steps[%d].animation.duration", i), "negative animation duration %d", *a.Duration)
		}
	}
}
