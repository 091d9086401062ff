package ui

import (
	"github.com/eugenenazirov/treemap-grid/internal/treemap"
)

// FormState is a snapshot of the form. Values are never mutated: each user
// action produces a new FormState from the current field values.
type FormState struct {
	TreemapJSON string
	RowNumber   string
	Submitted   bool
	Errors      treemap.ErrorSet
	Rows        []treemap.Row
}

// NewFormState returns an unsubmitted state holding the given field values.
func NewFormState(treemapJSON, rowNumber string) FormState {
	return FormState{
		TreemapJSON: treemapJSON,
		RowNumber:   rowNumber,
	}
}

// Submit validates the current field values and, when valid, lays out the grid.
func (s FormState) Submit(gen treemap.Generator) FormState {
	errs, rows := gen.Generate(s.TreemapJSON, s.RowNumber)
	return FormState{
		TreemapJSON: s.TreemapJSON,
		RowNumber:   s.RowNumber,
		Submitted:   true,
		Errors:      errs,
		Rows:        rows,
	}
}

// Valid reports whether the state was submitted without violations.
func (s FormState) Valid() bool {
	return s.Submitted && s.Errors.Valid()
}

// FieldErrors returns the messages to list under the named field.
func (s FormState) FieldErrors(field string) []string {
	if !s.Submitted {
		return nil
	}
	return s.Errors.Messages(field)
}

// FieldClass returns the CSS class describing the validation state of a field.
func (s FormState) FieldClass(field string) string {
	if !s.Submitted {
		return ""
	}
	if len(s.Errors.Field(field)) > 0 {
		return "is-invalid"
	}
	return "is-valid"
}
