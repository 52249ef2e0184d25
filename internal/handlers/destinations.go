package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alfagnish/exchange-api/internal/events"
	"github.com/alfagnish/exchange-api/internal/models"
	"github.com/alfagnish/exchange-api/internal/store"
	"github.com/alfagnish/exchange-api/internal/validation"
)

// DestinationsHandler serves exchange destinations. Conversions embedded in
// a destination are copies; editing a stored Conversion does not reach them.
type DestinationsHandler struct {
	resource
	store *store.Store[models.Destination]
}

// NewDestinationsHandler creates a new DestinationsHandler.
func NewDestinationsHandler(st *store.Store[models.Destination], deps Deps) *DestinationsHandler {
	return &DestinationsHandler{
		resource: resource{Deps: deps.withDefaults(), name: "destinations", label: "Destination"},
		store:    st,
	}
}

// Routes registers destination routes on the given chi router.
func (h *DestinationsHandler) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{destination_id}", h.Get)
	r.Patch("/{destination_id}", h.Update)
}

// Create stores a new destination. The dest_id code is client supplied and
// must look like ABC123; the record id is generated.
func (h *DestinationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.DestinationInput
	if err := h.decode(r, &in); err != nil {
		h.fail(w, "create", err)
		return
	}

	d := models.NewDestination(h.NewID(), in, h.now())
	if err := h.store.Create(d.ID, d); err != nil {
		h.fail(w, "create", err)
		return
	}

	h.mutated("create", events.Created, h.store.Len(), d.ID, d)
	writeJSON(w, http.StatusCreated, d)
}

// List filters on dest_id, name, continent, country and department, and on
// host_institution across embedded conversions.
func (h *DestinationsHandler) List(w http.ResponseWriter, r *http.Request) {
	f := models.ParseDestinationFilter(r.URL.Query())
	out := h.store.List(f.Match)
	h.observe("list")
	writeJSON(w, http.StatusOK, out)
}

// Get returns a destination by its generated id.
func (h *DestinationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "destination_id")
	if err != nil {
		h.fail(w, "get", err)
		return
	}
	d, err := h.store.Get(id)
	if err != nil {
		h.fail(w, "get", err)
		return
	}
	h.observe("get")
	writeJSON(w, http.StatusOK, d)
}

// Update applies a partial update; a new dest_id is checked against the same
// pattern as on create.
func (h *DestinationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "destination_id")
	if err != nil {
		h.fail(w, "update", err)
		return
	}
	var patch models.DestinationPatch
	if err := validation.DecodeJSON(r.Body, &patch); err != nil {
		h.fail(w, "update", err)
		return
	}

	d, err := h.store.Update(id, func(cur models.Destination) (models.Destination, error) {
		in := cur.Input()
		patch.Apply(&in)
		if err := h.Validator.Struct(in); err != nil {
			return cur, err
		}
		return cur.Replace(in, h.touch(cur.UpdatedAt)), nil
	})
	if err != nil {
		h.fail(w, "update", err)
		return
	}

	h.mutated("update", events.Updated, h.store.Len(), id, d)
	writeJSON(w, http.StatusOK, d)
}
