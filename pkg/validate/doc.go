// Package validate checks structured diagrams for schema and physics
// correctness and repairs common mistakes.
//
// Validation is split in two passes. [ValidateSchema] checks that the
// fields each diagram type needs are present and sane; [ValidatePhysics]
// checks force conventions (weight straight down, normal perpendicular to
// the surface, friction parallel to it) on physics diagrams.
// [ValidateDiagram] runs both, stopping after the schema pass when it
// fails so a malformed diagram reports a short, focused list.
//
// Problems are returned in a [Result], never as Go errors:
//
//	res := validate.ValidateDiagram(d)
//	if !res.Valid {
//	    for _, issue := range res.Errors {
//	        fmt.Println(issue.Field, issue.Message)
//	    }
//	}
//
// [AutoCorrect] returns a repaired deep copy and never fails;
// [ValidateAndCorrect] combines both steps.
package validate
