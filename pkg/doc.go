// Package pkg holds the libraries behind diagramkit, a validator, layout
// engine and step player for structured educational diagrams.
//
// # Overview
//
// A diagram is a typed payload (a free-body diagram, an inclined plane, a
// coordinate plane, a number line, ...) plus an ordered list of reveal
// steps. The packages split into three groups:
//
//  1. Core: [diagram] (data model and codec), [validate] (schema and physics
//     rules, auto-correction), [layout] (element placement and collision
//     resolution) and [steps] (the step state machine)
//  2. Infrastructure: [cache], [store], [config], [errors], [observability]
//  3. Orchestration: [pipeline] (validate, correct, layout) and [server]
//     (the HTTP API)
//
// # Data Flow
//
//	JSON/YAML diagram
//	        ↓
//	  [diagram] decode
//	        ↓
//	  [validate] schema + physics checks  →  auto-correct
//	        ↓
//	  [layout] placement + label relaxation
//	        ↓
//	  layout.json / HTTP response
//
// The steps of a diagram drive a [steps.Manager], either in the terminal
// player (diagramkit play) or in an HTTP playback session.
//
// # Quick Start
//
//	d, err := diagram.ReadFile("block.json")
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.Execute(ctx, d, pipeline.Options{AutoCorrect: true})
//	if err != nil {
//	    return err
//	}
//	for _, e := range res.Layout.Elements() {
//	    fmt.Println(e.ID, e.Position)
//	}
package pkg
