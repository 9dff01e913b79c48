package diagram

// ForceType identifies the physical nature of a force. The set is closed.
type ForceType string

// Force types.
const (
	ForceWeight      ForceType = "weight"
	ForceNormal      ForceType = "normal"
	ForceFriction    ForceType = "friction"
	ForceTension     ForceType = "tension"
	ForceApplied     ForceType = "applied"
	ForceSpring      ForceType = "spring"
	ForceDrag        ForceType = "drag"
	ForceLift        ForceType = "lift"
	ForceThrust      ForceType = "thrust"
	ForceBuoyancy    ForceType = "buoyancy"
	ForceElectric    ForceType = "electric"
	ForceMagnetic    ForceType = "magnetic"
	ForceCentripetal ForceType = "centripetal"
	ForceNet         ForceType = "net"
	ForceComponent   ForceType = "component"
	ForceCustom      ForceType = "custom"
	ForceDrive       ForceType = "drive"
	ForceResistance  ForceType = "resistance"
	ForceReaction    ForceType = "reaction"
)

var forceTypes = map[ForceType]bool{
	ForceWeight: true, ForceNormal: true, ForceFriction: true, ForceTension: true,
	ForceApplied: true, ForceSpring: true, ForceDrag: true, ForceLift: true,
	ForceThrust: true, ForceBuoyancy: true, ForceElectric: true, ForceMagnetic: true,
	ForceCentripetal: true, ForceNet: true, ForceComponent: true, ForceCustom: true,
	ForceDrive: true, ForceResistance: true, ForceReaction: true,
}

// Valid reports whether t is one of the known force types.
func (t ForceType) Valid() bool { return forceTypes[t] }

// Force is a single force vector acting on an object.
//
// Magnitude and Angle are optional on the wire so that the schema validator
// can report them as missing; read them through [Force.Vector].
type Force struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name,omitempty"`
	Type      ForceType `json:"type"`
	Magnitude *float64  `json:"magnitude,omitempty"`
	Angle     *float64  `json:"angle,omitempty"`
	Symbol    string    `json:"symbol,omitempty"`
	Origin    *Point    `json:"origin,omitempty"`
}

// Key returns the identifier used for the force in layouts and validation
// messages: the ID, else the name, else the type.
func (f Force) Key() string {
	switch {
	case f.ID != "":
		return f.ID
	case f.Name != "":
		return f.Name
	default:
		return string(f.Type)
	}
}

// Label returns the text drawn next to the arrow.
func (f Force) Label() string {
	switch {
	case f.Symbol != "":
		return f.Symbol
	case f.Name != "":
		return f.Name
	default:
		return string(f.Type)
	}
}

// HasVector reports whether both magnitude and angle are present.
func (f Force) HasVector() bool { return f.Magnitude != nil && f.Angle != nil }

// Vector returns the force as a polar vector. Missing parts read as zero.
func (f Force) Vector() Vector2D {
	var v Vector2D
	if f.Magnitude != nil {
		v.Magnitude = *f.Magnitude
	}
	if f.Angle != nil {
		v.Angle = *f.Angle
	}
	return v
}

// Clone returns a deep copy of f.
func (f Force) Clone() Force {
	c := f
	c.Magnitude = clonePtr(f.Magnitude)
	c.Angle = clonePtr(f.Angle)
	c.Origin = clonePtr(f.Origin)
	return c
}

func cloneForces(fs []Force) []Force {
	if fs == nil {
		return nil
	}
	out := make([]Force, len(fs))
	for i, f := range fs {
		out[i] = f.Clone()
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
