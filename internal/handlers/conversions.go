package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alfagnish/exchange-api/internal/events"
	"github.com/alfagnish/exchange-api/internal/models"
	"github.com/alfagnish/exchange-api/internal/store"
	"github.com/alfagnish/exchange-api/internal/validation"
)

// ConversionsHandler serves course conversions. It is the only resource that
// can be deleted.
type ConversionsHandler struct {
	resource
	store *store.Store[models.Conversion]
}

// NewConversionsHandler creates a new ConversionsHandler.
func NewConversionsHandler(st *store.Store[models.Conversion], deps Deps) *ConversionsHandler {
	return &ConversionsHandler{
		resource: resource{Deps: deps.withDefaults(), name: "conversions", label: "Conversion"},
		store:    st,
	}
}

// Routes registers conversion routes on the given chi router.
func (h *ConversionsHandler) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{conversion_id}", h.Get)
	r.Patch("/{conversion_id}", h.Update)
	r.Delete("/{conversion_id}", h.Delete)
}

// Create stores a new conversion under a generated id.
func (h *ConversionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.ConversionInput
	if err := h.decode(r, &in); err != nil {
		h.fail(w, "create", err)
		return
	}

	conv := models.NewConversion(h.NewID(), in, h.now())
	if err := h.store.Create(conv.ID, conv); err != nil {
		h.fail(w, "create", err)
		return
	}

	h.mutated("create", events.Created, h.store.Len(), conv.ID, conv)
	writeJSON(w, http.StatusCreated, conv)
}

// List returns conversions matching the home_course_name, home_course_id and
// host_institution query filters.
func (h *ConversionsHandler) List(w http.ResponseWriter, r *http.Request) {
	f, err := models.ParseConversionFilter(r.URL.Query())
	if err != nil {
		h.fail(w, "list", err)
		return
	}
	out := h.store.List(f.Match)
	h.observe("list")
	writeJSON(w, http.StatusOK, out)
}

// Get returns a single conversion.
func (h *ConversionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "conversion_id")
	if err != nil {
		h.fail(w, "get", err)
		return
	}
	conv, err := h.store.Get(id)
	if err != nil {
		h.fail(w, "get", err)
		return
	}
	h.observe("get")
	writeJSON(w, http.StatusOK, conv)
}

// Update applies a partial update; only fields present in the body change.
func (h *ConversionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "conversion_id")
	if err != nil {
		h.fail(w, "update", err)
		return
	}
	var patch models.ConversionPatch
	if err := validation.DecodeJSON(r.Body, &patch); err != nil {
		h.fail(w, "update", err)
		return
	}

	conv, err := h.store.Update(id, func(cur models.Conversion) (models.Conversion, error) {
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

	h.mutated("update", events.Updated, h.store.Len(), id, conv)
	writeJSON(w, http.StatusOK, conv)
}

// Delete removes a conversion permanently.
func (h *ConversionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "conversion_id")
	if err != nil {
		h.fail(w, "delete", err)
		return
	}
	if err := h.store.Delete(id); err != nil {
		h.fail(w, "delete", err)
		return
	}
	h.mutated("delete", events.Deleted, h.store.Len(), id, nil)
	w.WriteHeader(http.StatusNoContent)
}
