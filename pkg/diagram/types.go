package diagram

import (
	"encoding/json"
	"slices"
)

// Type is the discriminator of a [StructuredDiagram].
type Type string

// Diagram types.
const (
	TypeFreeBody        Type = "free-body"
	TypeInclinedPlane   Type = "inclined-plane"
	TypeProjectile      Type = "projectile-motion"
	TypeCircularMotion  Type = "circular-motion"
	TypeCoordinatePlane Type = "coordinate-plane"
	TypeNumberLine      Type = "number-line"
	TypeLongDivision    Type = "long-division"
	TypeAtom            Type = "atom"
	TypeMolecule        Type = "molecule"
)

// Data is the type-specific payload of a diagram.
type Data interface {
	// DiagramType returns the tag this payload belongs to.
	DiagramType() Type
	// CloneData returns a deep copy of the payload.
	CloneData() Data
}

// payloads maps each type tag to a constructor for its payload. The JSON
// codec decodes "data" into the value returned here.
var payloads = map[Type]func() Data{
	TypeFreeBody:        func() Data { return &FreeBodyData{} },
	TypeInclinedPlane:   func() Data { return &InclinedPlaneData{} },
	TypeProjectile:      func() Data { return &ProjectileData{} },
	TypeCircularMotion:  func() Data { return &CircularMotionData{} },
	TypeCoordinatePlane: func() Data { return &CoordinatePlaneData{} },
	TypeNumberLine:      func() Data { return &NumberLineData{} },
	TypeLongDivision:    func() Data { return &LongDivisionData{} },
	TypeAtom:            func() Data { return &AtomData{} },
	TypeMolecule:        func() Data { return &MoleculeData{} },
}

var physicsTypes = map[Type]bool{
	TypeFreeBody:       true,
	TypeInclinedPlane:  true,
	TypeProjectile:     true,
	TypeCircularMotion: true,
}

// Known reports whether t has a registered payload.
func (t Type) Known() bool {
	_, ok := payloads[t]
	return ok
}

// IsPhysics reports whether t is a physics diagram type.
func (t Type) IsPhysics() bool { return physicsTypes[t] }

// Types returns all registered diagram types in sorted order.
func Types() []Type {
	out := make([]Type, 0, len(payloads))
	for t := range payloads {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// =============================================================================
// Physics payloads
// =============================================================================

// SurfaceType describes what the object rests on.
type SurfaceType string

// Surface types.
const (
	SurfaceHorizontal SurfaceType = "horizontal"
	SurfaceInclined   SurfaceType = "inclined"
	SurfaceNone       SurfaceType = "none"
)

// Surface is the contact surface of a free-body diagram.
type Surface struct {
	Type  SurfaceType `json:"type"`
	Angle float64     `json:"angle,omitempty"`
}

// FreeBodyData shows every force acting on a single object.
type FreeBodyData struct {
	Object         *PhysicsObject `json:"object,omitempty"`
	Forces         []Force        `json:"forces"`
	Surface        *Surface       `json:"surface,omitempty"`
	ShowComponents bool           `json:"showComponents,omitempty"`
	ShowNetForce   bool           `json:"showNetForce,omitempty"`
}

func (*FreeBodyData) DiagramType() Type { return TypeFreeBody }

func (d *FreeBodyData) CloneData() Data {
	c := *d
	c.Object = cloneObject(d.Object)
	c.Forces = cloneForces(d.Forces)
	c.Surface = clonePtr(d.Surface)
	return &c
}

// InclinedPlaneData is an object on a ramp of the given angle.
type InclinedPlaneData struct {
	Angle               *float64       `json:"angle,omitempty"`
	Object              *PhysicsObject `json:"object,omitempty"`
	Forces              []Force        `json:"forces"`
	ShowDecomposition   bool           `json:"showDecomposition,omitempty"`
	FrictionCoefficient *float64       `json:"frictionCoefficient,omitempty"`
}

func (*InclinedPlaneData) DiagramType() Type { return TypeInclinedPlane }

func (d *InclinedPlaneData) CloneData() Data {
	c := *d
	c.Angle = clonePtr(d.Angle)
	c.Object = cloneObject(d.Object)
	c.Forces = cloneForces(d.Forces)
	c.FrictionCoefficient = clonePtr(d.FrictionCoefficient)
	return &c
}

// ProjectileData is a launched object in flight.
type ProjectileData struct {
	InitialVelocity *float64       `json:"initialVelocity,omitempty"`
	LaunchAngle     *float64       `json:"launchAngle,omitempty"`
	InitialHeight   float64        `json:"initialHeight,omitempty"`
	Gravity         *float64       `json:"gravity,omitempty"`
	Object          *PhysicsObject `json:"object,omitempty"`
	Forces          []Force        `json:"forces,omitempty"`
	ShowTrajectory  bool           `json:"showTrajectory,omitempty"`
	ShowVectors     bool           `json:"showVectors,omitempty"`
}

func (*ProjectileData) DiagramType() Type { return TypeProjectile }

func (d *ProjectileData) CloneData() Data {
	c := *d
	c.InitialVelocity = clonePtr(d.InitialVelocity)
	c.LaunchAngle = clonePtr(d.LaunchAngle)
	c.Gravity = clonePtr(d.Gravity)
	c.Object = cloneObject(d.Object)
	c.Forces = cloneForces(d.Forces)
	return &c
}

// CircularMotionData is an object moving on a circle.
type CircularMotionData struct {
	Radius *float64       `json:"radius,omitempty"`
	Speed  *float64       `json:"speed,omitempty"`
	Object *PhysicsObject `json:"object,omitempty"`
	Forces []Force        `json:"forces,omitempty"`
}

func (*CircularMotionData) DiagramType() Type { return TypeCircularMotion }

func (d *CircularMotionData) CloneData() Data {
	c := *d
	c.Radius = clonePtr(d.Radius)
	c.Speed = clonePtr(d.Speed)
	c.Object = cloneObject(d.Object)
	c.Forces = cloneForces(d.Forces)
	return &c
}

// =============================================================================
// Math payloads
// =============================================================================

// PlotPoint is a labeled point on a coordinate plane.
type PlotPoint struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label,omitempty"`
}

// PlotLine is the line y = Slope·x + Intercept.
type PlotLine struct {
	ID        string  `json:"id"`
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	Label     string  `json:"label,omitempty"`
}

// CoordinatePlaneData is a Cartesian plane with points and lines.
type CoordinatePlaneData struct {
	XMin        *float64    `json:"xMin,omitempty"`
	XMax        *float64    `json:"xMax,omitempty"`
	YMin        *float64    `json:"yMin,omitempty"`
	YMax        *float64    `json:"yMax,omitempty"`
	GridSpacing *float64    `json:"gridSpacing,omitempty"`
	Points      []PlotPoint `json:"points,omitempty"`
	Lines       []PlotLine  `json:"lines,omitempty"`
	ShowGrid    bool        `json:"showGrid,omitempty"`
}

func (*CoordinatePlaneData) DiagramType() Type { return TypeCoordinatePlane }

func (d *CoordinatePlaneData) CloneData() Data {
	c := *d
	c.XMin, c.XMax = clonePtr(d.XMin), clonePtr(d.XMax)
	c.YMin, c.YMax = clonePtr(d.YMin), clonePtr(d.YMax)
	c.GridSpacing = clonePtr(d.GridSpacing)
	c.Points = cloneSlice(d.Points)
	c.Lines = cloneSlice(d.Lines)
	return &c
}

// NumberLinePoint marks a value on a number line.
type NumberLinePoint struct {
	ID    string  `json:"id"`
	Value float64 `json:"value"`
	Label string  `json:"label,omitempty"`
	Open  bool    `json:"open,omitempty"`
}

// Interval is a shaded range on a number line.
type Interval struct {
	ID           string  `json:"id"`
	Start        float64 `json:"start"`
	End          float64 `json:"end"`
	IncludeStart bool    `json:"includeStart,omitempty"`
	IncludeEnd   bool    `json:"includeEnd,omitempty"`
}

// NumberLineData is a one-dimensional axis with marked values.
type NumberLineData struct {
	Min       *float64          `json:"min,omitempty"`
	Max       *float64          `json:"max,omitempty"`
	Step      *float64          `json:"step,omitempty"`
	Points    []NumberLinePoint `json:"points,omitempty"`
	Intervals []Interval        `json:"intervals,omitempty"`
}

func (*NumberLineData) DiagramType() Type { return TypeNumberLine }

func (d *NumberLineData) CloneData() Data {
	c := *d
	c.Min, c.Max, c.Step = clonePtr(d.Min), clonePtr(d.Max), clonePtr(d.Step)
	c.Points = cloneSlice(d.Points)
	c.Intervals = cloneSlice(d.Intervals)
	return &c
}

// LongDivisionData is a worked long division.
type LongDivisionData struct {
	Dividend      *int `json:"dividend,omitempty"`
	Divisor       *int `json:"divisor,omitempty"`
	ShowRemainder bool `json:"showRemainder,omitempty"`
}

func (*LongDivisionData) DiagramType() Type { return TypeLongDivision }

func (d *LongDivisionData) CloneData() Data {
	c := *d
	c.Dividend, c.Divisor = clonePtr(d.Dividend), clonePtr(d.Divisor)
	return &c
}

// =============================================================================
// Chemistry payloads
// =============================================================================

// AtomData is a Bohr model of an atom.
type AtomData struct {
	Element   string `json:"element"`
	Protons   *int   `json:"protons,omitempty"`
	Neutrons  int    `json:"neutrons,omitempty"`
	Electrons *int   `json:"electrons,omitempty"`
	Shells    []int  `json:"shells,omitempty"`
}

func (*AtomData) DiagramType() Type { return TypeAtom }

func (d *AtomData) CloneData() Data {
	c := *d
	c.Protons, c.Electrons = clonePtr(d.Protons), clonePtr(d.Electrons)
	c.Shells = cloneSlice(d.Shells)
	return &c
}

// MoleculeAtom is one atom of a molecule.
type MoleculeAtom struct {
	ID       string `json:"id"`
	Element  string `json:"element"`
	Position *Point `json:"position,omitempty"`
}

// Bond links two atoms; Order is 1 (single) to 3 (triple).
type Bond struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Order int    `json:"order,omitempty"`
}

// MoleculeData is a structural formula.
type MoleculeData struct {
	Formula string         `json:"formula,omitempty"`
	Atoms   []MoleculeAtom `json:"atoms"`
	Bonds   []Bond         `json:"bonds,omitempty"`
}

func (*MoleculeData) DiagramType() Type { return TypeMolecule }

func (d *MoleculeData) CloneData() Data {
	c := *d
	if d.Atoms != nil {
		c.Atoms = make([]MoleculeAtom, len(d.Atoms))
		for i, a := range d.Atoms {
			a.Position = clonePtr(a.Position)
			c.Atoms[i] = a
		}
	}
	c.Bonds = cloneSlice(d.Bonds)
	return &c
}

// =============================================================================
// Unknown payloads
// =============================================================================

// UnknownData keeps the raw payload of a diagram whose type is not
// registered, so it can be reported by the validator and written back
// unchanged.
type UnknownData struct {
	Kind Type
	Raw  json.RawMessage
}

func (d *UnknownData) DiagramType() Type { return d.Kind }

func (d *UnknownData) CloneData() Data {
	return &UnknownData{Kind: d.Kind, Raw: cloneSlice(d.Raw)}
}

// MarshalJSON writes the raw payload back.
func (d *UnknownData) MarshalJSON() ([]byte, error) {
	if len(d.Raw) == 0 {
		return []byte("null"), nil
	}
	return d.Raw, nil
}
