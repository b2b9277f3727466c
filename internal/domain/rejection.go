package domain

import (
	"fmt"

	"github.com/MrSnakeDoc/linkdeck/internal/linkschema"
)

// Problem is one field failure, flattened for logs and JSON.
// Value is the raw input rendered with %v; it is empty for missing fields.
type Problem struct {
	Field   string `json:"field"`
	Kind    string `json:"kind"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

// Rejection is a data file that could not become a Link.
// Problems is empty when the file could not be decoded at all; Error then says why.
type Rejection struct {
	ID       string    `json:"id"`
	Path     string    `json:"path"`
	Problems []Problem `json:"problems,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// ProblemsFrom flattens a validation failure. Errors that are not validation
// failures yield nil.
func ProblemsFrom(err error) []Problem {
	ve, ok := linkschema.AsValidationError(err)
	if !ok {
		return nil
	}
	problems := make([]Problem, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		p := Problem{
			Field:   f.Field,
			Kind:    string(f.Kind),
			Message: f.Error(),
		}
		if f.Value != nil {
			p.Value = fmt.Sprintf("%v", f.Value)
		}
		problems = append(problems, p)
	}
	return problems
}
