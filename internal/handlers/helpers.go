package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alfagnish/exchange-api/internal/apperr"
	"github.com/alfagnish/exchange-api/internal/events"
	"github.com/alfagnish/exchange-api/internal/metrics"
	"github.com/alfagnish/exchange-api/internal/validation"
)

// writeJSON serialises v as JSON and writes it to the response with the
// given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a standard JSON error response of the form
// {"detail": "message"}.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeValidation writes a 422 with the per-field detail list.
func writeValidation(w http.ResponseWriter, verr *apperr.ValidationError) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"detail": verr.Fields})
}

// NotFound and MethodNotAllowed replace chi's plain-text defaults.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Not Found")
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}

// Deps are the collaborators every resource handler needs.
type Deps struct {
	Validator *validation.Validator
	Hub       *events.Hub
	Metrics   *metrics.Collector
	Logger    *zap.Logger
	// Now and NewID default to time.Now and uuid.New.
	Now   func() time.Time
	NewID func() uuid.UUID
}

func (d Deps) withDefaults() Deps {
	if d.Validator == nil {
		d.Validator = validation.New()
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NewID == nil {
		d.NewID = uuid.New
	}
	return d
}

func (d Deps) now() time.Time {
	return d.Now().UTC()
}

// touch returns the timestamp for an update of a record last touched at
// prev. It always moves strictly forward even if the clock has not.
func (d Deps) touch(prev time.Time) time.Time {
	now := d.now()
	if !now.After(prev) {
		now = prev.Add(time.Nanosecond)
	}
	return now
}

// decode reads the request body into dst and validates it.
func (d Deps) decode(r *http.Request, dst any) error {
	if err := validation.DecodeJSON(r.Body, dst); err != nil {
		return err
	}
	return d.Validator.Struct(dst)
}

// resource carries the per-resource naming shared by a handler's endpoints.
type resource struct {
	Deps
	name  string // plural, as used in routes and metrics
	label string // singular, as used in messages
}

// fail records err against op and writes the matching error response.
func (res resource) fail(w http.ResponseWriter, op string, err error) {
	res.Metrics.ObserveOperation(res.name, op, err)

	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		writeValidation(w, verr)
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, http.StatusNotFound, res.label+" not found")
	case errors.Is(err, apperr.ErrAlreadyExists):
		writeError(w, http.StatusBadRequest, "Generated ID collision; retry the request")
	default:
		res.Logger.Error("unexpected error", zap.String("resource", res.name), zap.String("op", op), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// observe records a successful read.
func (res resource) observe(op string) {
	res.Metrics.ObserveOperation(res.name, op, nil)
}

// mutated records a successful write of the store, which now holds size
// records, and publishes it.
func (res resource) mutated(op string, evt events.Type, size int, id uuid.UUID, data any) {
	res.Metrics.ObserveOperation(res.name, op, nil)
	res.Metrics.SetRecords(res.name, size)
	if res.Hub != nil {
		res.Hub.Publish(events.Event{Type: evt, Resource: res.name, ID: id, Data: data})
	}
	res.Logger.Debug(res.label+" "+string(evt), zap.Stringer("id", id))
}

// pathID parses the UUID in the named URL parameter.
func pathID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &apperr.ValidationError{Fields: []apperr.FieldError{{
			Type:  "uuid_parsing",
			Loc:   []any{"path", param},
			Msg:   "Input should be a valid UUID",
			Input: raw,
		}}}
	}
	return id, nil
}
