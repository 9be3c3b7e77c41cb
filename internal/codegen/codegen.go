// Package codegen turns a validated schema and its resolved relationship
// views into backend-specific source text. Emitters never re-validate; an
// inconsistency here is a defect in an earlier stage.
package codegen

import (
	"fmt"
	"sync"

	"github.com/ormgen/ormgen/internal/resolve"
	"github.com/ormgen/ormgen/internal/schema"
	"github.com/ormgen/ormgen/internal/typemap"
)

// OutputUnit is one generated document.
type OutputUnit struct {
	RelativePath string
	Content      string
}

// GenerationError marks a later-stage invariant violation (accessor
// collision, unmapped type). It is fatal for the whole run.
type GenerationError struct {
	Backend typemap.Backend
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generating %s output: %v", e.Backend, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Options tunes generation beyond the backend choice.
type Options struct {
	// Diagram adds a Mermaid relationship diagram unit to the output.
	Diagram bool
}

var (
	verifyOnce sync.Once
	verifyErr  error
)

// Generate produces the output units for one backend. The schema must have
// passed validation. The backend set is closed: adding a backend is a
// compile-time change here and in the typemap, not runtime registration.
func Generate(s *schema.Schema, backend typemap.Backend, opts Options) ([]OutputUnit, error) {
	verifyOnce.Do(func() { verifyErr = typemap.Verify() })
	if verifyErr != nil {
		return nil, &GenerationError{Backend: backend, Err: verifyErr}
	}

	res, err := resolve.Relationships(s)
	if err != nil {
		return nil, &GenerationError{Backend: backend, Err: err}
	}

	var units []OutputUnit
	switch backend {
	case typemap.Prisma:
		units, err = emitPrisma(s, res)
	case typemap.Django:
		units, err = emitDjango(s, res)
	case typemap.SQLAlchemy:
		units, err = emitSQLAlchemy(s, res)
	default:
		return nil, &GenerationError{Backend: backend, Err: fmt.Errorf("unknown backend %q", backend)}
	}
	if err != nil {
		return nil, &GenerationError{Backend: backend, Err: err}
	}

	if opts.Diagram {
		units = append(units, diagramUnit(s))
	}
	return units, nil
}

// Format describes one supported output format for the CLI.
type Format struct {
	Backend     typemap.Backend
	Name        string
	Description string
	Extension   string
	Framework   string
}

// Formats lists the supported output formats in a stable order.
func Formats() []Format {
	return []Format{
		{
			Backend:     typemap.Prisma,
			Name:        "Prisma Schema",
			Description: "single schema.prisma document with datasource and client blocks",
			Extension:   ".prisma",
			Framework:   "Prisma ORM",
		},
		{
			Backend:     typemap.Django,
			Name:        "Django Models",
			Description: "single models.py module of django.db models classes",
			Extension:   ".py",
			Framework:   "Django ORM",
		},
		{
			Backend:     typemap.SQLAlchemy,
			Name:        "SQLAlchemy Models",
			Description: "declarative-base classes, one module per table",
			Extension:   ".py",
			Framework:   "SQLAlchemy ORM",
		},
	}
}

// FormatFor resolves a backend identifier to its format description.
func FormatFor(id string) (Format, bool) {
	for _, f := range Formats() {
		if string(f.Backend) == id {
			return f, true
		}
	}
	return Format{}, false
}
