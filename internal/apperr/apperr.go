// Package apperr defines the error taxonomy shared by the stores and the
// HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNotFound is returned when an operation targets an absent id.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a create collides with a stored id.
	ErrAlreadyExists = errors.New("already exists")
)

// FieldError describes one failed constraint in the FastAPI validation
// error shape.
type FieldError struct {
	Type  string `json:"type"`
	Loc   []any  `json:"loc"`
	Msg   string `json:"msg"`
	Input any    `json:"input,omitempty"`
}

// ValidationError carries every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		loc := make([]string, 0, len(f.Loc))
		for _, l := range f.Loc {
			loc = append(loc, fmt.Sprint(l))
		}
		parts = append(parts, strings.Join(loc, ".")+": "+f.Msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Invalid builds a ValidationError with a single field entry.
func Invalid(typ, msg string, loc ...any) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Type: typ, Loc: loc, Msg: msg}}}
}

// Status maps err onto the HTTP status code the API reports for it.
func Status(err error) int {
	var verr *ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
