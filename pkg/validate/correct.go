package validate

import (
	"github.com/matzehuels/diagramkit/pkg/diagram"
)

// correctors apply type-specific repairs to a payload copy in place.
var correctors = map[diagram.Type]func(diagram.Data){
	diagram.TypeFreeBody: func(d diagram.Data) {
		fb := d.(*diagram.FreeBodyData)
		correctForces(fb.Forces, freeBodySurface(fb))
	},
	diagram.TypeInclinedPlane: func(d diagram.Data) {
		ip := d.(*diagram.InclinedPlaneData)
		if ip.Angle != nil {
			*ip.Angle = clamp(*ip.Angle, 0, 90)
		}
		correctForces(ip.Forces, surface{kind: diagram.SurfaceInclined, angle: planeAngle(ip)})
	},
	diagram.TypeProjectile: func(d diagram.Data) {
		correctForces(d.(*diagram.ProjectileData).Forces, surface{kind: diagram.SurfaceNone})
	},
	diagram.TypeCircularMotion: func(d diagram.Data) {
		correctForces(d.(*diagram.CircularMotionData).Forces, surface{kind: diagram.SurfaceNone})
	},
	diagram.TypeCoordinatePlane: func(d diagram.Data) {
		cp := d.(*diagram.CoordinatePlaneData)
		orderRange(cp.XMin, cp.XMax)
		orderRange(cp.YMin, cp.YMax)
	},
	diagram.TypeNumberLine: func(d diagram.Data) {
		nl := d.(*diagram.NumberLineData)
		orderRange(nl.Min, nl.Max)
	},
}

// AutoCorrect returns a repaired deep copy of d. The input is never
// modified and the function never fails; a second pass over its output
// changes nothing.
//
// Repairs: negative magnitudes are made positive with the angle turned
// 180°, missing force ids default to the name or type, inclined-plane
// angles are clamped to [0, 90], weight points to -90° and normal forces
// point away from the surface. Reversed coordinate-plane and number-line
// ranges are swapped.
func AutoCorrect(d *diagram.StructuredDiagram) *diagram.StructuredDiagram {
	c := d.Clone()
	if c == nil || c.Data == nil {
		return c
	}
	if fix, ok := correctors[c.Type]; ok && c.Data.DiagramType() == c.Type {
		fix(c.Data)
	}
	return c
}

func correctForces(forces []diagram.Force, s surface) {
	for i := range forces {
		f := &forces[i]
		if f.Magnitude != nil && *f.Magnitude < 0 {
			angle := 0.0
			if f.Angle != nil {
				angle = *f.Angle
			}
			*f.Magnitude = -*f.Magnitude
			f.Angle = diagram.Float(diagram.NormalizeAngle(angle + 180))
		}
		if f.ID == "" {
			if f.Name != "" {
				f.ID = f.Name
			} else {
				f.ID = string(f.Type)
			}
		}
		switch f.Type {
		case diagram.ForceWeight:
			f.Angle = diagram.Float(-90)
		case diagram.ForceNormal:
			switch s.kind {
			case diagram.SurfaceHorizontal:
				f.Angle = diagram.Float(90)
			case diagram.SurfaceInclined:
				f.Angle = diagram.Float(90 - s.angle)
			}
		}
	}
}

func orderRange(lo, hi *float64) {
	if lo != nil && hi != nil && *lo > *hi {
		*lo, *hi = *hi, *lo
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ValidateAndCorrect validates d and, when it is invalid or has warnings,
// validates an auto-corrected copy instead and attaches it as
// CorrectedData. A clean diagram is returned without a copy.
func ValidateAndCorrect(d *diagram.StructuredDiagram) Result {
	res := ValidateDiagram(d)
	if res.Valid && len(res.Warnings) == 0 {
		return res
	}
	corrected := AutoCorrect(d)
	res = ValidateDiagram(corrected)
	res.CorrectedData = corrected
	return res
}
