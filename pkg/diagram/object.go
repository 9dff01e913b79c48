package diagram

import (
	"encoding/json"
	"fmt"
)

// Size is the extent of a physics object. On the wire it is either a
// scalar (square or circle) or an object with width and height.
type Size struct {
	Width  float64
	Height float64
}

// Square returns a Size with equal sides.
func Square(s float64) Size { return Size{Width: s, Height: s} }

// IsZero reports whether no size was given.
func (s Size) IsZero() bool { return s.Width == 0 && s.Height == 0 }

// MarshalJSON writes a scalar for square sizes, an object otherwise.
func (s Size) MarshalJSON() ([]byte, error) {
	if s.Width == s.Height {
		return json.Marshal(s.Width)
	}
	return json.Marshal(struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}{s.Width, s.Height})
}

// UnmarshalJSON accepts a scalar or {width, height}.
func (s *Size) UnmarshalJSON(data []byte) error {
	var scalar float64
	if err := json.Unmarshal(data, &scalar); err == nil {
		*s = Square(scalar)
		return nil
	}
	var wh struct {
		Width  *float64 `json:"width"`
		Height *float64 `json:"height"`
	}
	if err := json.Unmarshal(data, &wh); err != nil {
		return fmt.Errorf("size must be a number or {width, height}: %w", err)
	}
	if wh.Width != nil {
		s.Width = *wh.Width
	}
	if wh.Height != nil {
		s.Height = *wh.Height
	}
	return nil
}

// roundTypes lists object types drawn as circles.
var roundTypes = map[string]bool{
	"ball":     true,
	"sphere":   true,
	"circle":   true,
	"particle": true,
	"planet":   true,
}

// PhysicsObject is the body forces act on.
type PhysicsObject struct {
	ID       string   `json:"id"`
	Type     string   `json:"type,omitempty"`
	Label    string   `json:"label,omitempty"`
	Position Point    `json:"position"`
	Size     Size     `json:"size"`
	Rotation *float64 `json:"rotation,omitempty"`
}

// IsRound reports whether the object uses circular edge geometry.
func (o PhysicsObject) IsRound() bool { return roundTypes[o.Type] }

// Key returns the ID, falling back to the type and then "object".
func (o PhysicsObject) Key() string {
	switch {
	case o.ID != "":
		return o.ID
	case o.Type != "":
		return o.Type
	default:
		return "object"
	}
}

// IsEmpty reports whether the object carries no identity at all.
func (o PhysicsObject) IsEmpty() bool { return o.ID == "" && o.Type == "" && o.Label == "" }

// Clone returns a deep copy of o.
func (o PhysicsObject) Clone() PhysicsObject {
	c := o
	c.Rotation = clonePtr(o.Rotation)
	return c
}

func cloneObject(o *PhysicsObject) *PhysicsObject {
	if o == nil {
		return nil
	}
	c := o.Clone()
	return &c
}
