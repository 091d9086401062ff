package treemap

import "errors"

var (
	// ErrMissingInput is matched by violations raised for empty or falsy fields.
	ErrMissingInput = errors.New("missing input")
	// ErrMalformedJSON is matched by violations raised when the document cannot be parsed.
	ErrMalformedJSON = errors.New("malformed json")
	// ErrSchemaViolation is matched by violations raised for wrongly shaped documents or items.
	ErrSchemaViolation = errors.New("schema violation")
	// ErrRangeViolation is matched by violations raised for out of bounds row numbers.
	ErrRangeViolation = errors.New("range violation")
)

// Kind classifies a Violation.
type Kind string

const (
	KindMissingInput    Kind = "MissingInput"
	KindMalformedJSON   Kind = "MalformedJson"
	KindSchemaViolation Kind = "SchemaViolation"
	KindRangeViolation  Kind = "RangeViolation"
)

// Violation is a single human readable validation failure.
type Violation struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (v Violation) Error() string {
	return v.Message
}

// Is lets errors.Is match a Violation against the package sentinels.
func (v Violation) Is(target error) bool {
	switch target {
	case ErrMissingInput:
		return v.Kind == KindMissingInput
	case ErrMalformedJSON:
		return v.Kind == KindMalformedJSON
	case ErrSchemaViolation:
		return v.Kind == KindSchemaViolation
	case ErrRangeViolation:
		return v.Kind == KindRangeViolation
	}
	return false
}

// Field names used as ErrorSet keys and form field names.
const (
	FieldTreemapJSON = "treemapJson"
	FieldRowNumber   = "rowNumber"
)

// ErrorSet collects violations per form field. An empty slice means the field is valid.
type ErrorSet struct {
	TreemapJSON []Violation `json:"treemapJson"`
	RowNumber   []Violation `json:"rowNumber"`
}

func newErrorSet() ErrorSet {
	return ErrorSet{
		TreemapJSON: []Violation{},
		RowNumber:   []Violation{},
	}
}

// Valid reports whether neither field has violations.
func (e ErrorSet) Valid() bool {
	return len(e.TreemapJSON) == 0 && len(e.RowNumber) == 0
}

// Field returns the violations recorded for the named field.
func (e ErrorSet) Field(name string) []Violation {
	switch name {
	case FieldTreemapJSON:
		return e.TreemapJSON
	case FieldRowNumber:
		return e.RowNumber
	}
	return nil
}

// Messages returns the messages recorded for the named field, in order.
func (e ErrorSet) Messages(name string) []string {
	violations := e.Field(name)
	out := make([]string, 0, len(violations))
	for _, v := range violations {
		out = append(out, v.Message)
	}
	return out
}

// Err joins every violation into a single error, or returns nil when the set is valid.
func (e ErrorSet) Err() error {
	if e.Valid() {
		return nil
	}
	errs := make([]error, 0, len(e.TreemapJSON)+len(e.RowNumber))
	for _, v := range e.TreemapJSON {
		errs = append(errs, v)
	}
	for _, v := range e.RowNumber {
		errs = append(errs, v)
	}
	return errors.Join(errs...)
}

func (e *ErrorSet) addTreemap(kind Kind, msg string) {
	e.TreemapJSON = append(e.TreemapJSON, Violation{Kind: kind, Message: msg})
}

func (e *ErrorSet) addRowNumber(kind Kind, msg string) {
	e.RowNumber = append(e.RowNumber, Violation{Kind: kind, Message: msg})
}
