package validate

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/diagramkit/pkg/diagram"
)

func force(id string, t diagram.ForceType, mag, angle float64) diagram.Force {
	return diagram.Force{ID: id, Name: id, Type: t, Magnitude: diagram.Float(mag), Angle: diagram.Float(angle)}
}

func block() *diagram.PhysicsObject {
	return &diagram.PhysicsObject{ID: "block", Type: "box", Size: diagram.Square(60)}
}

func freeBody(forces ...diagram.Force) *diagram.StructuredDiagram {
	if forces == nil {
		forces = []diagram.Force{}
	}
	return &diagram.StructuredDiagram{
		Type: diagram.TypeFreeBody,
		Data: &diagram.FreeBodyData{
			Object:  block(),
			Forces:  forces,
			Surface: &diagram.Surface{Type: diagram.SurfaceHorizontal},
		},
	}
}

// completeDiagrams returns one valid diagram per registered type.
func completeDiagrams() map[diagram.Type]func() *diagram.StructuredDiagram {
	return map[diagram.Type]func() *diagram.StructuredDiagram{
		diagram.TypeFreeBody: func() *diagram.StructuredDiagram {
			return freeBody(force("W", diagram.ForceWeight, 50, -90))
		},
		diagram.TypeInclinedPlane: func() *diagram.StructuredDiagram {
			return &diagram.StructuredDiagram{Type: diagram.TypeInclinedPlane, Data: &diagram.InclinedPlaneData{
				Angle:  diagram.Float(30),
				Object: block(),
				Forces: []diagram.Force{force("W", diagram.ForceWeight, 50, -90)},
			}}
		},
		diagram.TypeProjectile: func() *diagram.StructuredDiagram {
			return &diagram.StructuredDiagram{Type: diagram.TypeProjectile, Data: &diagram.ProjectileData{
				InitialVelocity: diagram.Float(20),
				LaunchAngle:     diagram.Float(45),
			}}
		},
		diagram.TypeCircularMotion: func() *diagram.StructuredDiagram {
			return &diagram.StructuredDiagram{Type: diagram.TypeCircularMotion, Data: &diagram.CircularMotionData{
				Radius: diagram.Float(2),
				Speed:  diagram.Float(3),
			}}
		},
		diagram.TypeCoordinatePlane: func() *diagram.StructuredDiagram {
			return &diagram.StructuredDiagram{Type: diagram.TypeCoordinatePlane, Data: &diagram.CoordinatePlaneData{
				XMin: diagram.Float(-10), XMax: diagram.Float(10),
				YMin: diagram.Float(-5), YMax: diagram.Float(5),
			}}
		},
		diagram.TypeNumberLine: func() *diagram.StructuredDiagram {
			return &diagram.StructuredDiagram{Type: diagram.TypeNumberLine, Data: &diagram.NumberLineData{
				Min: diagram.Float(0), Max: diagram.Float(10),
			}}
		},
		diagram.TypeLongDivision: func() *diagram.StructuredDiagram {
			return &diagram.StructuredDiagram{Type: diagram.TypeLongDivision, Data: &diagram.LongDivisionData{
				Dividend: diagram.Int(84), Divisor: diagram.Int(4),
			}}
		},
		diagram.TypeAtom: func() *diagram.StructuredDiagram {
			return &diagram.StructuredDiagram{Type: diagram.TypeAtom, Data: &diagram.AtomData{
				Element: "C", Protons: diagram.Int(6), Neutrons: 6, Shells: []int{2, 4},
			}}
		},
		diagram.TypeMolecule: func() *diagram.StructuredDiagram {
			return &diagram.StructuredDiagram{Type: diagram.TypeMolecule, Data: &diagram.MoleculeData{
				Formula: "H2",
				Atoms:   []diagram.MoleculeAtom{{ID: "h1", Element: "H"}, {ID: "h2", Element: "H"}},
				Bonds:   []diagram.Bond{{From: "h1", To: "h2", Order: 1}},
			}}
		},
	}
}

func TestValidateSchemaComplete(t *testing.T) {
	diagrams := completeDiagrams()
	for _, typ := range diagram.Types() {
		build, ok := diagrams[typ]
		if !ok {
			t.Fatalf("no complete fixture for %s", typ)
		}
		t.Run(string(typ), func(t *testing.T) {
			res := ValidateSchema(build())
			if !res.Valid || len(res.Errors) != 0 || len(res.Warnings) != 0 {
				t.Errorf("complete diagram: %+v", res.Issues())
			}
			if res.Confidence != 1 {
				t.Errorf("confidence = %v, want 1", res.Confidence)
			}
		})
	}
}

func TestValidateSchemaMissingFields(t *testing.T) {
	tests := []struct {
		typ    diagram.Type
		field  string
		remove func(diagram.Data)
	}{
		{diagram.TypeFreeBody, "object", func(d diagram.Data) { d.(*diagram.FreeBodyData).Object = nil }},
		{diagram.TypeFreeBody, "forces", func(d diagram.Data) { d.(*diagram.FreeBodyData).Forces = nil }},
		{diagram.TypeFreeBody, "forces[0].magnitude", func(d diagram.Data) { d.(*diagram.FreeBodyData).Forces[0].Magnitude = nil }},
		{diagram.TypeFreeBody, "forces[0].angle", func(d diagram.Data) { d.(*diagram.FreeBodyData).Forces[0].Angle = nil }},
		{diagram.TypeFreeBody, "forces[0].type", func(d diagram.Data) { d.(*diagram.FreeBodyData).Forces[0].Type = "" }},
		{diagram.TypeInclinedPlane, "angle", func(d diagram.Data) { d.(*diagram.InclinedPlaneData).Angle = nil }},
		{diagram.TypeInclinedPlane, "object", func(d diagram.Data) { d.(*diagram.InclinedPlaneData).Object = nil }},
		{diagram.TypeInclinedPlane, "forces", func(d diagram.Data) { d.(*diagram.InclinedPlaneData).Forces = nil }},
		{diagram.TypeProjectile, "initialVelocity", func(d diagram.Data) { d.(*diagram.ProjectileData).InitialVelocity = nil }},
		{diagram.TypeProjectile, "launchAngle", func(d diagram.Data) { d.(*diagram.ProjectileData).LaunchAngle = nil }},
		{diagram.TypeCircularMotion, "radius", func(d diagram.Data) { d.(*diagram.CircularMotionData).Radius = nil }},
		{diagram.TypeCircularMotion, "speed", func(d diagram.Data) { d.(*diagram.CircularMotionData).Speed = nil }},
		{diagram.TypeCoordinatePlane, "xMin", func(d diagram.Data) { d.(*diagram.CoordinatePlaneData).XMin = nil }},
		{diagram.TypeCoordinatePlane, "xMax", func(d diagram.Data) { d.(*diagram.CoordinatePlaneData).XMax = nil }},
		{diagram.TypeCoordinatePlane, "yMin", func(d diagram.Data) { d.(*diagram.CoordinatePlaneData).YMin = nil }},
		{diagram.TypeCoordinatePlane, "yMax", func(d diagram.Data) { d.(*diagram.CoordinatePlaneData).YMax = nil }},
		{diagram.TypeNumberLine, "min", func(d diagram.Data) { d.(*diagram.NumberLineData).Min = nil }},
		{diagram.TypeNumberLine, "max", func(d diagram.Data) { d.(*diagram.NumberLineData).Max = nil }},
		{diagram.TypeLongDivision, "dividend", func(d diagram.Data) { d.(*diagram.LongDivisionData).Dividend = nil }},
		{diagram.TypeLongDivision, "divisor", func(d diagram.Data) { d.(*diagram.LongDivisionData).Divisor = nil }},
		{diagram.TypeAtom, "element", func(d diagram.Data) { d.(*diagram.AtomData).Element = "" }},
		{diagram.TypeAtom, "protons", func(d diagram.Data) { d.(*diagram.AtomData).Protons = nil }},
		{diagram.TypeMolecule, "atoms", func(d diagram.Data) { d.(*diagram.MoleculeData).Atoms = nil }},
	}

	diagrams := completeDiagrams()
	for _, tt := range tests {
		t.Run(string(tt.typ)+"/"+tt.field, func(t *testing.T) {
			d := diagrams[tt.typ]()
			tt.remove(d.Data)
			res := ValidateSchema(d)
			if res.Valid {
				t.Fatal("Valid = true, want false")
			}
			if !hasError(res, tt.field) {
				t.Errorf("no error for %s: %+v", tt.field, res.Errors)
			}
		})
	}
}

func TestValidateSchemaShortCircuit(t *testing.T) {
	tests := []struct {
		name string
		d    *diagram.StructuredDiagram
	}{
		{"Nil", nil},
		{"NoType", &diagram.StructuredDiagram{Data: &diagram.AtomData{}}},
		{"NoData", &diagram.StructuredDiagram{Type: diagram.TypeAtom}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateSchema(tt.d)
			if res.Valid || res.Confidence != 0 || len(res.Errors) != 1 || len(res.Warnings) != 0 {
				t.Errorf("got %+v", res)
			}
		})
	}
}

func TestValidateSchemaRules(t *testing.T) {
	tests := []struct {
		name      string
		d         *diagram.StructuredDiagram
		wantValid bool
		field     string
		severity  Severity
	}{
		{
			name:     "UnknownType",
			d:        &diagram.StructuredDiagram{Type: "venn", Data: &diagram.UnknownData{Kind: "venn"}},
			field:    "type",
			severity: SeverityError,
		},
		{
			name:      "EmptyForces",
			d:         freeBody(),
			wantValid: true,
			field:     "forces",
			severity:  SeverityWarning,
		},
		{
			name: "CoordinateRangeReversed",
			d: &diagram.StructuredDiagram{Type: diagram.TypeCoordinatePlane, Data: &diagram.CoordinatePlaneData{
				XMin: diagram.Float(5), XMax: diagram.Float(-5), YMin: diagram.Float(0), YMax: diagram.Float(1),
			}},
			field:    "xMin",
			severity: SeverityError,
		},
		{
			name: "NumberLineEqualBounds",
			d: &diagram.StructuredDiagram{Type: diagram.TypeNumberLine, Data: &diagram.NumberLineData{
				Min: diagram.Float(3), Max: diagram.Float(3),
			}},
			field:    "min",
			severity: SeverityError,
		},
		{
			name: "PointOutsidePlane",
			d: &diagram.StructuredDiagram{Type: diagram.TypeCoordinatePlane, Data: &diagram.CoordinatePlaneData{
				XMin: diagram.Float(0), XMax: diagram.Float(1), YMin: diagram.Float(0), YMax: diagram.Float(1),
				Points: []diagram.PlotPoint{{ID: "P", X: 2, Y: 0}},
			}},
			wantValid: true,
			field:     "points[0]",
			severity:  SeverityWarning,
		},
		{
			name: "InclineSteep",
			d: &diagram.StructuredDiagram{Type: diagram.TypeInclinedPlane, Data: &diagram.InclinedPlaneData{
				Angle: diagram.Float(120), Object: block(), Forces: []diagram.Force{},
			}},
			wantValid: true,
			field:     "angle",
			severity:  SeverityWarning,
		},
		{
			name: "ZeroDivisor",
			d: &diagram.StructuredDiagram{Type: diagram.TypeLongDivision, Data: &diagram.LongDivisionData{
				Dividend: diagram.Int(1), Divisor: diagram.Int(0),
			}},
			field:    "divisor",
			severity: SeverityError,
		},
		{
			name: "ShellMismatch",
			d: &diagram.StructuredDiagram{Type: diagram.TypeAtom, Data: &diagram.AtomData{
				Element: "O", Protons: diagram.Int(8), Shells: []int{2, 4},
			}},
			wantValid: true,
			field:     "shells",
			severity:  SeverityWarning,
		},
		{
			name: "DanglingBond",
			d: &diagram.StructuredDiagram{Type: diagram.TypeMolecule, Data: &diagram.MoleculeData{
				Atoms: []diagram.MoleculeAtom{{ID: "a", Element: "C"}},
				Bonds: []diagram.Bond{{From: "a", To: "b"}},
			}},
			field:    "bonds[0]",
			severity: SeverityError,
		},
		{
			name: "NegativeVelocity",
			d: &diagram.StructuredDiagram{Type: diagram.TypeProjectile, Data: &diagram.ProjectileData{
				InitialVelocity: diagram.Float(-1), LaunchAngle: diagram.Float(10),
			}},
			field:    "initialVelocity",
			severity: SeverityError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateSchema(tt.d)
			if res.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v (%+v)", res.Valid, tt.wantValid, res.Issues())
			}
			issues := res.Warnings
			if tt.severity == SeverityError {
				issues = res.Errors
			}
			if !containsField(issues, tt.field) {
				t.Errorf("no %s for %s: %+v", tt.severity, tt.field, res.Issues())
			}
		})
	}
}

func TestSchemaConfidence(t *testing.T) {
	d := &diagram.StructuredDiagram{Type: diagram.TypeFreeBody, Data: &diagram.FreeBodyData{
		Object: block(),
		Forces: []diagram.Force{{Type: diagram.ForceApplied}},
	}}
	res := ValidateSchema(d)
	// two errors (magnitude, angle) and one warning (id)
	want := 1 - 0.2*2 - 0.05
	if len(res.Errors) != 2 || len(res.Warnings) != 1 {
		t.Fatalf("issues = %+v", res.Issues())
	}
	if diff := res.Confidence - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("confidence = %v, want %v", res.Confidence, want)
	}
}

func TestValidatePhysics(t *testing.T) {
	inclined := func(angle float64, decomposition bool, forces ...diagram.Force) *diagram.StructuredDiagram {
		return &diagram.StructuredDiagram{Type: diagram.TypeInclinedPlane, Data: &diagram.InclinedPlaneData{
			Angle: diagram.Float(angle), Object: block(), Forces: forces, ShowDecomposition: decomposition,
		}}
	}

	tests := []struct {
		name      string
		d         *diagram.StructuredDiagram
		wantValid bool
		errors    []string
		warnings  []string
	}{
		{
			name:      "Conventional",
			d:         freeBody(force("W", diagram.ForceWeight, 50, -90), force("N", diagram.ForceNormal, 50, 90)),
			wantValid: true,
		},
		{
			name:      "WeightWithinTolerance",
			d:         freeBody(force("W", diagram.ForceWeight, 50, 270.5)),
			wantValid: true,
		},
		{
			name:   "WeightSideways",
			d:      freeBody(force("W", diagram.ForceWeight, 50, 45)),
			errors: []string{"forces.weight.angle"},
		},
		{
			name:   "NormalTiltedOnFloor",
			d:      freeBody(force("N", diagram.ForceNormal, 50, 80)),
			errors: []string{"forces.normal.angle"},
		},
		{
			name:      "FrictionNotParallel",
			d:         freeBody(force("f", diagram.ForceFriction, 5, 30)),
			wantValid: true,
			warnings:  []string{"forces.friction.angle"},
		},
		{
			name:      "FrictionBackwards",
			d:         freeBody(force("f", diagram.ForceFriction, 5, 180)),
			wantValid: true,
		},
		{
			name:   "NegativeMagnitude",
			d:      freeBody(force("F", diagram.ForceApplied, -10, 30)),
			errors: []string{"forces.F.magnitude"},
		},
		{
			name:      "InclinedConventional",
			d:         inclined(30, true, force("W", diagram.ForceWeight, 100, -90), force("N", diagram.ForceNormal, 86.6, 60), force("f", diagram.ForceFriction, 20, 150)),
			wantValid: true,
		},
		{
			name:      "InclinedNormalOff",
			d:         inclined(30, false, force("N", diagram.ForceNormal, 50, 90)),
			wantValid: true,
			warnings:  []string{"forces.normal.angle"},
		},
		{
			name:      "InclinedFrictionDownSlope",
			d:         inclined(30, false, force("f", diagram.ForceFriction, 10, -30)),
			wantValid: true,
		},
		{
			name:      "DecompositionUnbalanced",
			d:         inclined(30, true, force("W", diagram.ForceWeight, 100, -90), force("N", diagram.ForceNormal, 100, 60)),
			wantValid: true,
			warnings:  []string{"forces.normal.magnitude"},
		},
		{
			name:      "DecompositionHidden",
			d:         inclined(30, false, force("W", diagram.ForceWeight, 100, -90), force("N", diagram.ForceNormal, 100, 60)),
			wantValid: true,
		},
		{
			name: "FreeBodyInclinedSurface",
			d: &diagram.StructuredDiagram{Type: diagram.TypeFreeBody, Data: &diagram.FreeBodyData{
				Object:  block(),
				Forces:  []diagram.Force{force("N", diagram.ForceNormal, 10, 70)},
				Surface: &diagram.Surface{Type: diagram.SurfaceInclined, Angle: 20},
			}},
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidatePhysics(tt.d)
			if res.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v (%+v)", res.Valid, tt.wantValid, res.Issues())
			}
			if len(res.Errors) != len(tt.errors) || len(res.Warnings) != len(tt.warnings) {
				t.Fatalf("issues = %+v, want errors %v warnings %v", res.Issues(), tt.errors, tt.warnings)
			}
			for _, f := range tt.errors {
				if !containsField(res.Errors, f) {
					t.Errorf("missing error %s", f)
				}
			}
			for _, f := range tt.warnings {
				if !containsField(res.Warnings, f) {
					t.Errorf("missing warning %s", f)
				}
			}
		})
	}
}

func TestValidatePhysicsWeightOnAnySurface(t *testing.T) {
	for _, s := range []diagram.SurfaceType{diagram.SurfaceHorizontal, diagram.SurfaceInclined, diagram.SurfaceNone} {
		t.Run(string(s), func(t *testing.T) {
			d := freeBody(force("W", diagram.ForceWeight, 50, 45))
			d.Data.(*diagram.FreeBodyData).Surface = &diagram.Surface{Type: s, Angle: 30}
			res := ValidateDiagram(d)
			if !hasError(res, "forces.weight.angle") {
				t.Errorf("no weight error: %+v", res.Issues())
			}
		})
	}
}

func TestValidatePhysicsNonPhysics(t *testing.T) {
	for typ, build := range completeDiagrams() {
		if typ.IsPhysics() {
			continue
		}
		res := ValidatePhysics(build())
		if !res.Valid || res.Confidence != 1 {
			t.Errorf("%s: %+v", typ, res)
		}
	}
}

func TestValidatePhysicsMismatchedPayload(t *testing.T) {
	tests := []struct {
		typ  diagram.Type
		data diagram.Data
	}{
		{diagram.TypeFreeBody, &diagram.NumberLineData{}},
		{diagram.TypeInclinedPlane, &diagram.FreeBodyData{}},
		{diagram.TypeProjectile, &diagram.AtomData{}},
		{diagram.TypeCircularMotion, &diagram.InclinedPlaneData{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			res := ValidatePhysics(&diagram.StructuredDiagram{Type: tt.typ, Data: tt.data})
			if res.Valid || !hasError(res, "data") {
				t.Errorf("mismatched payload: %+v", res)
			}
		})
	}
}

func TestValidateDiagram(t *testing.T) {
	t.Run("SchemaFailureShortCircuits", func(t *testing.T) {
		d := freeBody(force("W", diagram.ForceWeight, 50, 45))
		d.Data.(*diagram.FreeBodyData).Object = nil
		res := ValidateDiagram(d)
		if hasError(res, "forces.weight.angle") {
			t.Error("physics ran on an invalid schema")
		}
		if !hasError(res, "object") {
			t.Errorf("missing object error: %+v", res.Errors)
		}
	})

	t.Run("ConfidenceProduct", func(t *testing.T) {
		d := freeBody(force("W", diagram.ForceWeight, 50, -90), force("f", diagram.ForceFriction, 5, 45))
		res := ValidateDiagram(d)
		want := 1.0 * (1 - 0.1)
		if !res.Valid || res.Confidence < want-1e-9 || res.Confidence > want+1e-9 {
			t.Errorf("got %+v, want confidence %v", res, want)
		}
	})
}

func TestAutoCorrect(t *testing.T) {
	t.Run("FlipsNegativeMagnitude", func(t *testing.T) {
		d := freeBody(force("F", diagram.ForceApplied, -10, 30))
		c := AutoCorrect(d)
		f := c.Data.(*diagram.FreeBodyData).Forces[0]
		if *f.Magnitude != 10 || *f.Angle != 210 {
			t.Errorf("force = %v@%v, want 10@210", *f.Magnitude, *f.Angle)
		}
		orig := d.Data.(*diagram.FreeBodyData).Forces[0]
		if *orig.Magnitude != -10 || *orig.Angle != 30 {
			t.Error("input was modified")
		}
	})

	t.Run("Conventions", func(t *testing.T) {
		d := freeBody(
			diagram.Force{Name: "gravity", Type: diagram.ForceWeight, Magnitude: diagram.Float(20), Angle: diagram.Float(45)},
			diagram.Force{Type: diagram.ForceNormal, Magnitude: diagram.Float(20), Angle: diagram.Float(100)},
		)
		fb := AutoCorrect(d).Data.(*diagram.FreeBodyData)
		if fb.Forces[0].ID != "gravity" || *fb.Forces[0].Angle != -90 {
			t.Errorf("weight = %+v", fb.Forces[0])
		}
		if fb.Forces[1].ID != "normal" || *fb.Forces[1].Angle != 90 {
			t.Errorf("normal = %+v", fb.Forces[1])
		}
	})

	t.Run("InclinedPlane", func(t *testing.T) {
		d := &diagram.StructuredDiagram{Type: diagram.TypeInclinedPlane, Data: &diagram.InclinedPlaneData{
			Angle:  diagram.Float(120),
			Object: block(),
			Forces: []diagram.Force{force("N", diagram.ForceNormal, 10, 0)},
		}}
		ip := AutoCorrect(d).Data.(*diagram.InclinedPlaneData)
		if *ip.Angle != 90 || *ip.Forces[0].Angle != 0 {
			t.Errorf("angle %v normal %v, want 90 and 0", *ip.Angle, *ip.Forces[0].Angle)
		}
	})

	t.Run("SwapsRanges", func(t *testing.T) {
		d := &diagram.StructuredDiagram{Type: diagram.TypeNumberLine, Data: &diagram.NumberLineData{
			Min: diagram.Float(10), Max: diagram.Float(-10),
		}}
		c := AutoCorrect(d)
		nl := c.Data.(*diagram.NumberLineData)
		if *nl.Min != -10 || *nl.Max != 10 {
			t.Errorf("range = %v..%v", *nl.Min, *nl.Max)
		}
		if !ValidateSchema(c).Valid {
			t.Error("corrected range still invalid")
		}
	})

	t.Run("NilAndEmpty", func(t *testing.T) {
		if AutoCorrect(nil) != nil {
			t.Error("AutoCorrect(nil) != nil")
		}
		d := &diagram.StructuredDiagram{Type: diagram.TypeAtom}
		if c := AutoCorrect(d); c == d || c.Type != diagram.TypeAtom {
			t.Error("expected a copy")
		}
	})
}

func TestAutoCorrectIdempotent(t *testing.T) {
	inputs := map[string]*diagram.StructuredDiagram{
		"free-body": freeBody(
			force("F", diagram.ForceApplied, -10, 30),
			diagram.Force{Type: diagram.ForceWeight, Magnitude: diagram.Float(-5), Angle: diagram.Float(10)},
			force("N", diagram.ForceNormal, 5, 0),
		),
		"inclined": {Type: diagram.TypeInclinedPlane, Data: &diagram.InclinedPlaneData{
			Angle:  diagram.Float(-15),
			Object: block(),
			Forces: []diagram.Force{{Name: "n", Type: diagram.ForceNormal, Magnitude: diagram.Float(-3), Angle: diagram.Float(12)}},
		}},
		"plane": {Type: diagram.TypeCoordinatePlane, Data: &diagram.CoordinatePlaneData{
			XMin: diagram.Float(3), XMax: diagram.Float(-3), YMin: diagram.Float(9), YMax: diagram.Float(1),
		}},
	}
	for name, d := range inputs {
		t.Run(name, func(t *testing.T) {
			once := AutoCorrect(d)
			twice := AutoCorrect(once)
			a, _ := json.Marshal(once)
			b, _ := json.Marshal(twice)
			if string(a) != string(b) {
				t.Errorf("second pass changed diagram:\n%s\n%s", a, b)
			}
		})
	}
}

func TestValidateAndCorrect(t *testing.T) {
	t.Run("CleanUnchanged", func(t *testing.T) {
		d := freeBody(force("W", diagram.ForceWeight, 50, -90), force("N", diagram.ForceNormal, 50, 90))
		res := ValidateAndCorrect(d)
		if !res.Valid || res.CorrectedData != nil {
			t.Errorf("got %+v", res)
		}
	})

	t.Run("Repairs", func(t *testing.T) {
		d := freeBody(force("W", diagram.ForceWeight, 50, 45), force("N", diagram.ForceNormal, -50, -90))
		res := ValidateAndCorrect(d)
		if !res.Valid {
			t.Errorf("corrected diagram invalid: %+v", res.Issues())
		}
		if res.CorrectedData == nil {
			t.Fatal("CorrectedData is nil")
		}
		n := res.CorrectedData.Data.(*diagram.FreeBodyData).Forces[1]
		if *n.Magnitude != 50 || *n.Angle != 90 {
			t.Errorf("normal = %v@%v", *n.Magnitude, *n.Angle)
		}
	})
}

func TestEndToEndFreeBody(t *testing.T) {
	const doc = `{
		"type": "free-body",
		"data": {
			"object": {"id": "block", "type": "box", "size": 60},
			"forces": [
				{"id": "weight", "name": "Weight", "type": "weight", "magnitude": 50, "angle": -90},
				{"id": "normal", "name": "Normal", "type": "normal", "magnitude": 50, "angle": 90}
			],
			"surface": {"type": "horizontal"}
		},
		"steps": [{"id": "both", "label": "Show both forces", "visibleElements": ["block", "weight", "normal"]}]
	}`
	d, err := diagram.Decode(strings.NewReader(doc), diagram.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	res := ValidateDiagram(d)
	if !res.Valid || len(res.Errors) != 0 {
		t.Errorf("errors = %+v", res.Errors)
	}
	if res.Confidence != 1 {
		t.Errorf("confidence = %v, want 1", res.Confidence)
	}
}

func hasError(res Result, field string) bool { return containsField(res.Errors, field) }

func containsField(issues []Issue, field string) bool {
	for _, i := range issues {
		if i.Field == field {
			return true
		}
	}
	return false
}
