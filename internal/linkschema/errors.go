package linkschema

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies why a field failed validation.
type Kind string

const (
	KindMissingField  Kind = "missing_field"
	KindTypeMismatch  Kind = "type_mismatch"
	KindInvalidFormat Kind = "invalid_format"
	KindEnumMismatch  Kind = "enum_mismatch"
	KindOutOfRange    Kind = "out_of_range"
)

// Sentinels matched by errors.Is against a *ValidationError or a FieldError.
var (
	ErrMissingField  = errors.New("missing field")
	ErrTypeMismatch  = errors.New("type mismatch")
	ErrInvalidFormat = errors.New("invalid format")
	ErrEnumMismatch  = errors.New("not an allowed value")
	ErrOutOfRange    = errors.New("out of range")
)

// Err returns the sentinel error for k.
func (k Kind) Err() error {
	switch k {
	case KindMissingField:
		return ErrMissingField
	case KindTypeMismatch:
		return ErrTypeMismatch
	case KindInvalidFormat:
		return ErrInvalidFormat
	case KindEnumMismatch:
		return ErrEnumMismatch
	case KindOutOfRange:
		return ErrOutOfRange
	default:
		return nil
	}
}

// Kinds lists every failure kind.
func Kinds() []Kind {
	return []Kind{KindMissingField, KindTypeMismatch, KindInvalidFormat, KindEnumMismatch, KindOutOfRange}
}

// FieldError describes one failed field. Value holds the raw input (nil when missing).
type FieldError struct {
	Field  string
	Kind   Kind
	Value  any
	Reason string
}

func (e FieldError) Error() string {
	var b strings.Builder
	b.WriteString(e.Field)
	b.WriteString(": ")
	if s := e.Kind.Err(); s != nil {
		b.WriteString(s.Error())
	} else {
		b.WriteString(string(e.Kind))
	}
	if e.Reason != "" {
		b.WriteString(" (")
		b.WriteString(e.Reason)
		b.WriteString(")")
	}
	if e.Kind != KindMissingField {
		fmt.Fprintf(&b, ", got %#v", e.Value)
	}
	return b.String()
}

func (e FieldError) Unwrap() error { return e.Kind.Err() }

// ValidationError lists every field that failed, in schema field order.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return "invalid link entry: " + e.Fields[0].Error()
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Error()
	}
	return fmt.Sprintf("invalid link entry: %d problems: %s", len(e.Fields), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() []error {
	errs := make([]error, len(e.Fields))
	for i, f := range e.Fields {
		errs[i] = f
	}
	return errs
}

// Has reports whether field failed with kind.
func (e *ValidationError) Has(field string, kind Kind) bool {
	for _, f := range e.Fields {
		if f.Field == field && f.Kind == kind {
			return true
		}
	}
	return false
}

// Field returns the failure recorded for field, if any.
func (e *ValidationError) Field(field string) (FieldError, bool) {
	for _, f := range e.Fields {
		if f.Field == field {
			return f, true
		}
	}
	return FieldError{}, false
}

// AsValidationError extracts a *ValidationError from err.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
