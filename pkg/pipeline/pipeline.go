// Package pipeline runs the validate → correct → layout pipeline shared by
// the CLI and the HTTP API.
//
// # Architecture
//
// A diagram passes through three stages:
//
//  1. Validate: schema and physics checks ([validate.ValidateDiagram])
//  2. Correct: optional automatic repair of an invalid diagram
//  3. Layout: element placement and collision resolution ([BuildLayout])
//
// Validation results and layouts are cached by content hash, so a second
// request for the same diagram and options is served from the cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, d, pipeline.Options{AutoCorrect: true})
//	if err != nil {
//	    return err
//	}
//	if result.Layout == nil {
//	    // diagram is invalid; see result.Validation
//	}
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/diagramkit/pkg/cache"
	"github.com/matzehuels/diagramkit/pkg/diagram"
	errs "github.com/matzehuels/diagramkit/pkg/errors"
	"github.com/matzehuels/diagramkit/pkg/layout"
	"github.com/matzehuels/diagramkit/pkg/validate"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultWidth  = 400.0
	DefaultHeight = 400.0

	// MaxCanvas bounds width and height.
	MaxCanvas = 10000.0
)

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run. ShowLabels has no default: callers
// start from a configured value (see config.LayoutConfig) and override it.
type Options struct {
	Width       float64 `json:"width,omitempty"`
	Height      float64 `json:"height,omitempty"`
	ForceScale  float64 `json:"force_scale,omitempty"`
	FontSize    float64 `json:"font_size,omitempty"`
	ShowLabels  bool    `json:"show_labels"`
	AutoCorrect bool    `json:"auto_correct,omitempty"`

	// Refresh bypasses cached results (new results are still stored).
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// SetDefaults fills zero fields.
func (o *Options) SetDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.ForceScale == 0 {
		o.ForceScale = layout.DefaultForceScale
	}
	if o.FontSize == 0 {
		o.FontSize = layout.DefaultFontSize
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate applies defaults and checks ranges.
func (o *Options) Validate() error {
	o.SetDefaults()
	if o.Width < 0 || o.Height < 0 || o.Width > MaxCanvas || o.Height > MaxCanvas {
		return errs.New(errs.ErrCodeInvalidInput, "canvas must be between 0 and %.0f on each side, got %gx%g", MaxCanvas, o.Width, o.Height)
	}
	if o.ForceScale < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "force_scale must be positive")
	}
	if o.FontSize < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "font_size must be positive")
	}
	return nil
}

// Canvas returns the canvas size.
func (o *Options) Canvas() diagram.Size {
	return diagram.Size{Width: o.Width, Height: o.Height}
}

// LayoutKeyOpts returns the cache key options for layouts.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:      o.Width,
		Height:     o.Height,
		ForceScale: o.ForceScale,
		FontSize:   o.FontSize,
		ShowLabels: o.ShowLabels,
	}
}

// =============================================================================
// Result
// =============================================================================

// Result holds the outputs of [Runner.Execute].
type Result struct {
	// Diagram is the diagram that was laid out: the corrected copy when a
	// correction was applied, otherwise the input.
	Diagram *diagram.StructuredDiagram `json:"diagram"`

	// DiagramHash is the content hash of the input diagram.
	DiagramHash string `json:"diagram_hash"`

	// Validation is the validation of the input diagram.
	Validation validate.Result `json:"validation"`

	// Corrected reports whether Diagram is an auto-corrected copy.
	Corrected bool `json:"corrected"`

	// Layout is nil when the diagram is still invalid.
	Layout *Layout `json:"layout,omitempty"`

	Stats     Stats     `json:"stats"`
	CacheInfo CacheInfo `json:"cache"`
}

// Stats holds timing and size information.
type Stats struct {
	Elements     int           `json:"elements"`
	Collisions   int           `json:"collisions"`
	Iterations   int           `json:"iterations"`
	ValidateTime time.Duration `json:"validate_time"`
	LayoutTime   time.Duration `json:"layout_time"`
}

// CacheInfo records which stages were served from the cache.
type CacheInfo struct {
	ValidationHit bool `json:"validation_hit"`
	LayoutHit     bool `json:"layout_hit"`
}
