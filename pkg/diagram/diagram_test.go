package diagram

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const freeBodyJSON = `{
	"type": "free-body",
	"data": {
		"object": {"id": "block", "type": "box", "position": {"x": 0, "y": 0}, "size": 60},
		"forces": [
			{"id": "W", "name": "Weight", "type": "weight", "magnitude": 50, "angle": -90},
			{"id": "N", "name": "Normal", "type": "normal", "magnitude": 50, "angle": 90}
		],
		"surface": {"type": "horizontal"}
	},
	"steps": [
		{"id": "s1", "label": "Show both forces", "visibleElements": ["block", "W", "N"], "animation": {"duration": 250}}
	]
}`

func TestUnmarshalDispatch(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, d *StructuredDiagram)
	}{
		{
			name:  "FreeBody",
			input: freeBodyJSON,
			check: func(t *testing.T, d *StructuredDiagram) {
				fb, ok := d.Data.(*FreeBodyData)
				if !ok {
					t.Fatalf("Data = %T, want *FreeBodyData", d.Data)
				}
				if len(fb.Forces) != 2 || fb.Forces[0].Type != ForceWeight {
					t.Errorf("forces = %+v", fb.Forces)
				}
				if fb.Object.Size != Square(60) {
					t.Errorf("size = %+v, want 60x60", fb.Object.Size)
				}
				if fb.Surface.Type != SurfaceHorizontal {
					t.Errorf("surface = %q", fb.Surface.Type)
				}
			},
		},
		{
			name:  "NumberLine",
			input: `{"type":"number-line","data":{"min":-5,"max":5,"points":[{"id":"p","value":2}]}}`,
			check: func(t *testing.T, d *StructuredDiagram) {
				nl, ok := d.Data.(*NumberLineData)
				if !ok {
					t.Fatalf("Data = %T, want *NumberLineData", d.Data)
				}
				if *nl.Min != -5 || *nl.Max != 5 || nl.Step != nil {
					t.Errorf("range = %v..%v step %v", *nl.Min, *nl.Max, nl.Step)
				}
			},
		},
		{
			name:  "UnknownType",
			input: `{"type":"venn","data":{"sets":3}}`,
			check: func(t *testing.T, d *StructuredDiagram) {
				u, ok := d.Data.(*UnknownData)
				if !ok {
					t.Fatalf("Data = %T, want *UnknownData", d.Data)
				}
				if u.DiagramType() != "venn" || string(u.Raw) != `{"sets":3}` {
					t.Errorf("unknown = %q %s", u.Kind, u.Raw)
				}
			},
		},
		{
			name:  "MissingData",
			input: `{"type":"atom"}`,
			check: func(t *testing.T, d *StructuredDiagram) {
				if d.Data != nil {
					t.Errorf("Data = %T, want nil", d.Data)
				}
			},
		},
		{
			name:  "SizeObject",
			input: `{"type":"inclined-plane","data":{"angle":30,"object":{"id":"b","size":{"width":40,"height":20}},"forces":[]}}`,
			check: func(t *testing.T, d *StructuredDiagram) {
				ip := d.Data.(*InclinedPlaneData)
				if ip.Object.Size != (Size{Width: 40, Height: 20}) {
					t.Errorf("size = %+v", ip.Object.Size)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Unmarshal([]byte(tt.input))
			if err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			tt.check(t, d)
		})
	}
}

func TestUnmarshalBadPayload(t *testing.T) {
	_, err := Unmarshal([]byte(`{"type":"atom","data":{"protons":"six"}}`))
	if err == nil || !strings.Contains(err.Error(), "atom") {
		t.Errorf("err = %v, want atom decode error", err)
	}
}

func TestRoundTrip(t *testing.T) {
	d, err := Unmarshal([]byte(freeBodyJSON))
	if err != nil {
		t.Fatal(err)
	}
	data, err := Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	again, err := Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := json.Marshal(d)
	b, _ := json.Marshal(again)
	if string(a) != string(b) {
		t.Errorf("round trip changed diagram:\n%s\n%s", a, b)
	}
}

func TestClone(t *testing.T) {
	d, err := Unmarshal([]byte(freeBodyJSON))
	if err != nil {
		t.Fatal(err)
	}
	c := d.Clone()

	fb := c.Data.(*FreeBodyData)
	*fb.Forces[0].Magnitude = -1
	fb.Object.ID = "changed"
	c.Steps[0].VisibleElements[0] = "x"
	*c.Steps[0].Animation.Duration = 1

	orig := d.Data.(*FreeBodyData)
	if *orig.Forces[0].Magnitude != 50 {
		t.Error("clone shares force magnitude")
	}
	if orig.Object.ID != "block" {
		t.Error("clone shares object")
	}
	if d.Steps[0].VisibleElements[0] != "block" {
		t.Error("clone shares step elements")
	}
	if *d.Steps[0].Animation.Duration != 250 {
		t.Error("clone shares animation hint")
	}

	var nilDiagram *StructuredDiagram
	if nilDiagram.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

func TestStepConfigs(t *testing.T) {
	d, err := Unmarshal([]byte(freeBodyJSON))
	if err != nil {
		t.Fatal(err)
	}
	cfgs := d.StepConfigs()
	if len(cfgs) != 1 {
		t.Fatalf("len = %d, want 1", len(cfgs))
	}
	if got := cfgs[0].Duration(time.Second); got != 250*time.Millisecond {
		t.Errorf("Duration = %v, want 250ms", got)
	}
	if got := (StepConfig{}).Duration(400 * time.Millisecond); got != 400*time.Millisecond {
		t.Errorf("fallback = %v, want 400ms", got)
	}
}

func TestReadFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plane.yaml")
	doc := `type: coordinate-plane
data:
  xMin: -10
  xMax: 10
  yMin: -10
  yMax: 10
  points:
    - id: A
      x: 3
      y: 4
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	d, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	cp, ok := d.Data.(*CoordinatePlaneData)
	if !ok {
		t.Fatalf("Data = %T", d.Data)
	}
	if *cp.XMin != -10 || len(cp.Points) != 1 || cp.Points[0].Y != 4 {
		t.Errorf("plane = %+v", cp)
	}
}

func TestWriteReadFile(t *testing.T) {
	d, err := Unmarshal([]byte(freeBodyJSON))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "fb.json")
	if err := WriteFile(d, path); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Type != TypeFreeBody || len(got.Data.(*FreeBodyData).Forces) != 2 {
		t.Errorf("got %+v", got)
	}
}

func TestReadFileNotFound(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error")
	}
}

func TestAngles(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"NormalizeNegative", NormalizeAngle(-90), 270},
		{"NormalizeWrap", NormalizeAngle(720), 0},
		{"NormalizeFlip", NormalizeAngle(30 + 180), 210},
		{"DiffAcrossZero", AngleDiff(-89.5, -90), 0.5},
		{"DiffWrap", AngleDiff(350, 10), 20},
		{"DiffOpposite", AngleDiff(0, 180), 180},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.want) > 1e-9 {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	up := Direction(90)
	if math.Abs(up.X) > 1e-9 || math.Abs(up.Y+1) > 1e-9 {
		t.Errorf("Direction(90) = %+v, want (0, -1)", up)
	}
}

func TestForceKeyAndLabel(t *testing.T) {
	f := Force{Type: ForceFriction}
	if f.Key() != "friction" || f.Label() != "friction" {
		t.Errorf("key/label = %q/%q", f.Key(), f.Label())
	}
	f.Name = "Friction"
	f.Symbol = "f"
	if f.Key() != "Friction" || f.Label() != "f" {
		t.Errorf("key/label = %q/%q", f.Key(), f.Label())
	}
	if f.HasVector() {
		t.Error("HasVector with no magnitude")
	}
	if !ForceReaction.Valid() || ForceType("gravity").Valid() {
		t.Error("ForceType.Valid mismatch")
	}
}

func TestTypes(t *testing.T) {
	if len(Types()) != 9 {
		t.Errorf("Types() = %v", Types())
	}
	for _, typ := range Types() {
		if payloads[typ]().DiagramType() != typ {
			t.Errorf("payload for %s reports %s", typ, payloads[typ]().DiagramType())
		}
	}
	if !TypeCircularMotion.IsPhysics() || TypeAtom.IsPhysics() {
		t.Error("IsPhysics mismatch")
	}
}
