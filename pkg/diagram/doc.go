// Package diagram defines the shared data model for structured educational
// diagrams and its wire format.
//
// A [StructuredDiagram] is a discriminated union: the [Type] field selects
// which payload implementing [Data] is stored in Data. Each payload is a
// plain struct ([FreeBodyData], [InclinedPlaneData], [CoordinatePlaneData],
// ...) and the codec dispatches on Type through an explicit registry, so
// adding a diagram type is one new struct plus one registry entry.
//
// # Geometry
//
// [Point], [Vector2D] and [BoundingBox] are value types shared by the
// validator and the layout engine. Angles are in degrees using the
// mathematical convention (0° = right, 90° = up). Layout space is screen
// oriented (y grows downward), so a direction θ corresponds to the screen
// offset (cos θ, -sin θ); see [Direction].
//
// # Optional numbers
//
// Required numeric fields (force magnitude and angle, axis ranges, ...) are
// pointers so that a missing value can be told apart from zero. Use [Float]
// and [Int] to build them in Go code:
//
//	f := diagram.Force{ID: "weight", Type: diagram.ForceWeight,
//	    Magnitude: diagram.Float(50), Angle: diagram.Float(-90)}
//
// # Serialization
//
// Diagrams are read from JSON or YAML and written as indented JSON:
//
//	d, _ := diagram.ReadFile("block.yaml")     // File → StructuredDiagram
//	diagram.WriteFile(d, "block.json")         // StructuredDiagram → File
//	data, _ := diagram.Marshal(d)              // StructuredDiagram → []byte
//	parsed, _ := diagram.Unmarshal(data, diagram.FormatJSON)
package diagram
