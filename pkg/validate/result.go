package validate

import (
	"fmt"
	"math"

	"github.com/matzehuels/diagramkit/pkg/diagram"
)

// Severity distinguishes blocking problems from suspicious values.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single validation finding. Field is a dotted path into the
// diagram payload, for example "forces[0].magnitude" or
// "forces.weight.angle".
type Issue struct {
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.Severity, i.Field, i.Message)
}

// Result is the outcome of a validation pass. Confidence is an advisory
// score in [0, 1].
type Result struct {
	Valid         bool                       `json:"valid"`
	Errors        []Issue                    `json:"errors"`
	Warnings      []Issue                    `json:"warnings"`
	Confidence    float64                    `json:"confidence"`
	CorrectedData *diagram.StructuredDiagram `json:"correctedData,omitempty"`
}

// Issues returns errors followed by warnings.
func (r Result) Issues() []Issue {
	out := make([]Issue, 0, len(r.Errors)+len(r.Warnings))
	out = append(out, r.Errors...)
	return append(out, r.Warnings...)
}

// HasField reports whether any issue refers to field.
func (r Result) HasField(field string) bool {
	for _, i := range r.Issues() {
		if i.Field == field {
			return true
		}
	}
	return false
}

// report collects issues during a pass.
type report struct {
	errors   []Issue
	warnings []Issue
}

func (r *report) errorf(field, format string, args ...any) {
	r.errors = append(r.errors, Issue{Field: field, Message: fmt.Sprintf(format, args...), Severity: SeverityError})
}

func (r *report) warnf(field, format string, args ...any) {
	r.warnings = append(r.warnings, Issue{Field: field, Message: fmt.Sprintf(format, args...), Severity: SeverityWarning})
}

// result builds a Result, penalising each error and warning by the given
// weights.
func (r *report) result(errPenalty, warnPenalty float64) Result {
	conf := 1 - errPenalty*float64(len(r.errors)) - warnPenalty*float64(len(r.warnings))
	return Result{
		Valid:      len(r.errors) == 0,
		Errors:     nonNil(r.errors),
		Warnings:   nonNil(r.warnings),
		Confidence: clamp01(conf),
	}
}

func nonNil(issues []Issue) []Issue {
	if issues == nil {
		return []Issue{}
	}
	return issues
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
