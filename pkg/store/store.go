// Package store persists structured diagrams together with a summary of
// their last validation.
//
// [MemoryStore] serves tests and single-process servers; [MongoStore]
// keeps records in a MongoDB collection.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/diagramkit/pkg/diagram"
	errs "github.com/matzehuels/diagramkit/pkg/errors"
	"github.com/matzehuels/diagramkit/pkg/validate"
)

// Record is a stored diagram.
type Record struct {
	ID         string                     `json:"id"`
	Title      string                     `json:"title,omitempty"`
	Diagram    *diagram.StructuredDiagram `json:"diagram"`
	Validation Summary                    `json:"validation"`
	CreatedAt  time.Time                  `json:"created_at"`
	UpdatedAt  time.Time                  `json:"updated_at"`
}

// Type returns the diagram type, or "" when the record has no diagram.
func (r *Record) Type() diagram.Type {
	if r.Diagram == nil {
		return ""
	}
	return r.Diagram.Type
}

func (r *Record) clone() *Record {
	c := *r
	c.Diagram = r.Diagram.Clone()
	return &c
}

// Summary condenses a validation result.
type Summary struct {
	Valid      bool    `json:"valid"`
	Errors     int     `json:"errors"`
	Warnings   int     `json:"warnings"`
	Confidence float64 `json:"confidence"`
}

// Summarize condenses res.
func Summarize(res validate.Result) Summary {
	return Summary{
		Valid:      res.Valid,
		Errors:     len(res.Errors),
		Warnings:   len(res.Warnings),
		Confidence: res.Confidence,
	}
}

// ListOptions filters [Store.List].
type ListOptions struct {
	// Type keeps only diagrams of this type when set.
	Type diagram.Type
	// Limit caps the number of records. Zero means DefaultListLimit.
	Limit int
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

func (o *ListOptions) limit() int {
	switch {
	case o.Limit <= 0:
		return DefaultListLimit
	case o.Limit > MaxListLimit:
		return MaxListLimit
	}
	return o.Limit
}

// Store persists records.
type Store interface {
	// Save inserts or replaces rec. An empty ID is filled with a new UUID;
	// CreatedAt is set when zero and UpdatedAt always.
	Save(ctx context.Context, rec *Record) error

	// Get returns the record or an error with code NOT_FOUND.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns records newest first.
	List(ctx context.Context, opts ListOptions) ([]*Record, error)

	// Delete removes the record or returns an error with code NOT_FOUND.
	Delete(ctx context.Context, id string) error

	Close() error
}

// prepare fills ID and timestamps before a save.
func prepare(rec *Record, now time.Time) error {
	if rec == nil || rec.Diagram == nil {
		return errs.New(errs.ErrCodeInvalidInput, "record has no diagram")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	} else if err := errs.ValidateID(rec.ID); err != nil {
		return err
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	return nil
}

func notFound(id string) error {
	return errs.New(errs.ErrCodeNotFound, "diagram %q not found", id)
}
