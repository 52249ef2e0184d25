// Package validation checks request payloads at the HTTP boundary and turns
// failures into per-field apperr.ValidationError details.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alfagnish/exchange-api/internal/apperr"
	"github.com/alfagnish/exchange-api/internal/models"
)

// Validator wraps a configured validator.Validate. It is safe for
// concurrent use.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator that reports fields by their JSON names and knows
// the dest_id rule.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("dest_id", func(fl validator.FieldLevel) bool {
		return models.DestIDPattern.MatchString(fl.Field().String())
	})
	return &Validator{v: v}
}

// Struct validates s and returns nil or a *apperr.ValidationError whose
// locations are rooted at "body".
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &apperr.ValidationError{Fields: make([]apperr.FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, fieldError(fe))
	}
	return out
}

func fieldError(fe validator.FieldError) apperr.FieldError {
	loc := location(fe.Namespace())
	typ, msg := describe(fe)
	f := apperr.FieldError{Type: typ, Loc: loc, Msg: msg}
	if fe.Tag() != "required" {
		f.Input = fe.Value()
	}
	return f
}

func describe(fe validator.FieldError) (string, string) {
	switch fe.Tag() {
	case "required":
		return "missing", "Field required"
	case "email":
		return "value_error", "value is not a valid email address"
	case "dest_id":
		return "string_pattern_mismatch", fmt.Sprintf("String should match pattern '%s'", models.DestIDPattern.String())
	case "datetime":
		return "date_from_datetime_parsing", "Input should be a valid date in the format YYYY-MM-DD"
	case "gte":
		return "greater_than_equal", fmt.Sprintf("Input should be greater than or equal to %s", fe.Param())
	default:
		return "value_error", fmt.Sprintf("Input failed the %s check", fe.Tag())
	}
}

// location turns "PersonInput.addresses[1].city" into
// ["body", "addresses", 1, "city"].
func location(namespace string) []any {
	parts := strings.Split(namespace, ".")
	loc := []any{"body"}
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for _, p := range parts {
		loc = append(loc, splitIndex(p)...)
	}
	return loc
}

func splitIndex(segment string) []any {
	name, rest, ok := strings.Cut(segment, "[")
	if !ok {
		return []any{segment}
	}
	out := []any{name}
	for _, idx := range strings.Split(rest, "[") {
		idx = strings.TrimSuffix(idx, "]")
		if n, err := strconv.Atoi(idx); err == nil {
			out = append(out, n)
		} else {
			out = append(out, idx)
		}
	}
	return out
}

// DecodeJSON decodes a request body into dst, reporting malformed JSON and
// type mismatches as validation failures.
func DecodeJSON(r io.Reader, dst any) error {
	err := json.NewDecoder(r).Decode(dst)
	if err == nil {
		return nil
	}

	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.Is(err, io.EOF):
		return apperr.Invalid("missing", "Field required", "body")
	case errors.As(err, &syntaxErr):
		return apperr.Invalid("json_invalid", "JSON decode error", "body", syntaxErr.Offset)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return apperr.Invalid("json_invalid", "JSON decode error", "body")
	case errors.As(err, &typeErr):
		loc := []any{"body"}
		if typeErr.Field != "" {
			loc = location("_." + typeErr.Field)
		}
		short, long := typeName(typeErr.Type)
		return &apperr.ValidationError{Fields: []apperr.FieldError{{
			Type: short + "_type",
			Loc:  loc,
			Msg:  "Input should be a valid " + long,
		}}}
	default:
		return apperr.Invalid("json_invalid", err.Error(), "body")
	}
}

// typeName names the expected Go type the way clients of the API see it.
func typeName(t reflect.Type) (short, long string) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "int", "integer"
	case reflect.Float32, reflect.Float64:
		return "float", "number"
	case reflect.String:
		return "string", "string"
	case reflect.Bool:
		return "bool", "boolean"
	case reflect.Slice, reflect.Array:
		return "list", "list"
	default:
		return "model", "object"
	}
}
