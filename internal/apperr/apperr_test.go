package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"not found", ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("conversion %s: %w", "abc", ErrNotFound), http.StatusNotFound},
		{"already exists", ErrAlreadyExists, http.StatusBadRequest},
		{"validation", Invalid("missing", "Field required", "body", "name"), http.StatusUnprocessableEntity},
		{"wrapped validation", fmt.Errorf("decode: %w", Invalid("json_invalid", "bad", "body")), http.StatusUnprocessableEntity},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: []FieldError{
		{Type: "missing", Loc: []any{"body", "addresses", 0, "city"}, Msg: "Field required"},
		{Type: "string_pattern_mismatch", Loc: []any{"body", "dest_id"}, Msg: "bad pattern"},
	}}
	assert.Equal(t, "validation failed: body.addresses.0.city: Field required; body.dest_id: bad pattern", err.Error())
}
