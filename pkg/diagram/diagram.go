package diagram

import (
	"encoding/json"
	"fmt"
	"time"
)

// =============================================================================
// StructuredDiagram - Discriminated Union
// =============================================================================

// StructuredDiagram is a diagram as emitted by an upstream producer: a type
// tag, the matching payload, and an ordered list of reveal steps.
//
// Data holds one of the payload structs registered for Type (for example
// *FreeBodyData for TypeFreeBody). Payloads of unregistered types decode
// into *UnknownData so they survive a round trip.
type StructuredDiagram struct {
	Type          Type          `json:"type"`
	Data          Data          `json:"data"`
	Steps         []DiagramStep `json:"steps,omitempty"`
	Source        string        `json:"source,omitempty"`
	Confidence    float64       `json:"confidence,omitempty"`
	SchemaVersion string        `json:"schemaVersion,omitempty"`
}

type wireDiagram struct {
	Type          Type            `json:"type"`
	Data          json.RawMessage `json:"data,omitempty"`
	Steps         []DiagramStep   `json:"steps,omitempty"`
	Source        string          `json:"source,omitempty"`
	Confidence    float64         `json:"confidence,omitempty"`
	SchemaVersion string          `json:"schemaVersion,omitempty"`
}

// MarshalJSON encodes the payload under "data".
func (d StructuredDiagram) MarshalJSON() ([]byte, error) {
	w := wireDiagram{
		Type:          d.Type,
		Steps:         d.Steps,
		Source:        d.Source,
		Confidence:    d.Confidence,
		SchemaVersion: d.SchemaVersion,
	}
	if d.Data != nil {
		raw, err := json.Marshal(d.Data)
		if err != nil {
			return nil, fmt.Errorf("encode %s data: %w", d.Type, err)
		}
		w.Data = raw
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes "data" into the payload registered for "type".
// A missing or null payload leaves Data nil.
func (d *StructuredDiagram) UnmarshalJSON(b []byte) error {
	var w wireDiagram
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*d = StructuredDiagram{
		Type:          w.Type,
		Steps:         w.Steps,
		Source:        w.Source,
		Confidence:    w.Confidence,
		SchemaVersion: w.SchemaVersion,
	}
	if len(w.Data) == 0 || string(w.Data) == "null" {
		return nil
	}
	factory, ok := payloads[w.Type]
	if !ok {
		d.Data = &UnknownData{Kind: w.Type, Raw: w.Data}
		return nil
	}
	data := factory()
	if err := json.Unmarshal(w.Data, data); err != nil {
		return fmt.Errorf("decode %s data: %w", w.Type, err)
	}
	d.Data = data
	return nil
}

// Clone returns a deep copy of d.
func (d *StructuredDiagram) Clone() *StructuredDiagram {
	if d == nil {
		return nil
	}
	c := *d
	if d.Data != nil {
		c.Data = d.Data.CloneData()
	}
	if d.Steps != nil {
		c.Steps = make([]DiagramStep, len(d.Steps))
		for i, s := range d.Steps {
			c.Steps[i] = s.clone()
		}
	}
	return &c
}

// StepConfigs projects the diagram steps to the configs consumed by a step
// manager.
func (d *StructuredDiagram) StepConfigs() []StepConfig {
	out := make([]StepConfig, len(d.Steps))
	for i, s := range d.Steps {
		out[i] = s.Config()
	}
	return out
}

// =============================================================================
// Steps
// =============================================================================

// Annotation is a free-text callout attached to a step.
type Annotation struct {
	ID       string `json:"id,omitempty"`
	Text     string `json:"text"`
	Target   string `json:"target,omitempty"`
	Position *Point `json:"position,omitempty"`
}

// AnimationHint tells the renderer how new elements enter. Duration is in
// milliseconds.
type AnimationHint struct {
	Kind     string `json:"type,omitempty"`
	Duration *int   `json:"duration,omitempty"`
}

// DiagramStep is one reveal step of a diagram.
type DiagramStep struct {
	ID                  string         `json:"id"`
	Label               string         `json:"label,omitempty"`
	Description         string         `json:"description,omitempty"`
	VisibleElements     []string       `json:"visibleElements,omitempty"`
	HighlightElements   []string       `json:"highlightElements,omitempty"`
	NewElements         []string       `json:"newElements,omitempty"`
	Annotations         []Annotation   `json:"annotations,omitempty"`
	Animation           *AnimationHint `json:"animation,omitempty"`
	RequiresInteraction bool           `json:"requiresInteraction,omitempty"`
}

// Config returns the step's timing and visibility descriptor.
func (s DiagramStep) Config() StepConfig {
	c := StepConfig{
		ID:                  s.ID,
		Label:               s.Label,
		HighlightElements:   cloneSlice(s.HighlightElements),
		VisibleElements:     cloneSlice(s.VisibleElements),
		RequiresInteraction: s.RequiresInteraction,
	}
	if s.Animation != nil {
		c.AnimationDuration = clonePtr(s.Animation.Duration)
	}
	return c
}

func (s DiagramStep) clone() DiagramStep {
	c := s
	c.VisibleElements = cloneSlice(s.VisibleElements)
	c.HighlightElements = cloneSlice(s.HighlightElements)
	c.NewElements = cloneSlice(s.NewElements)
	if s.Annotations != nil {
		c.Annotations = make([]Annotation, len(s.Annotations))
		for i, a := range s.Annotations {
			a.Position = clonePtr(a.Position)
			c.Annotations[i] = a
		}
	}
	if s.Animation != nil {
		a := *s.Animation
		a.Duration = clonePtr(s.Animation.Duration)
		c.Animation = &a
	}
	return c
}

// StepConfig is the immutable per-step descriptor a step manager reads.
// AnimationDuration is in milliseconds.
type StepConfig struct {
	ID                  string   `json:"id"`
	Label               string   `json:"label,omitempty"`
	AnimationDuration   *int     `json:"animationDuration,omitempty"`
	HighlightElements   []string `json:"highlightElements,omitempty"`
	VisibleElements     []string `json:"visibleElements,omitempty"`
	RequiresInteraction bool     `json:"requiresInteraction,omitempty"`
}

// Duration returns the animation duration, or fallback when unset.
func (c StepConfig) Duration(fallback time.Duration) time.Duration {
	if c.AnimationDuration == nil {
		return fallback
	}
	return time.Duration(*c.AnimationDuration) * time.Millisecond
}
