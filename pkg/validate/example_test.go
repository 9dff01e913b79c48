package validate_test

import (
	"fmt"

	"github.com/matzehuels/diagramkit/pkg/diagram"
	"github.com/matzehuels/diagramkit/pkg/validate"
)

func ExampleValidateAndCorrect() {
	d := &diagram.StructuredDiagram{
		Type: diagram.TypeFreeBody,
		Data: &diagram.FreeBodyData{
			Object: &diagram.PhysicsObject{ID: "block", Size: diagram.Square(60)},
			Forces: []diagram.Force{
				{ID: "W", Type: diagram.ForceWeight, Magnitude: diagram.Float(50), Angle: diagram.Float(45)},
				{ID: "F", Type: diagram.ForceApplied, Magnitude: diagram.Float(-10), Angle: diagram.Float(30)},
			},
		},
	}

	before := validate.ValidateDiagram(d)
	for _, issue := range before.Errors {
		fmt.Println(issue)
	}

	after := validate.ValidateAndCorrect(d)
	fmt.Println("valid after correction:", after.Valid)
	for _, f := range after.CorrectedData.Data.(*diagram.FreeBodyData).Forces {
		fmt.Println(f.Key(), f.Vector())
	}
	// Output:
	// error: forces.weight.angle: weight must point straight down (-90°), got 45°
	// error: forces.F.magnitude: force "F" has negative magnitude -10
	// valid after correction: true
	// W {50 -90}
	// F {10 210}
}
