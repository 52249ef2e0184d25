package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alfagnish/exchange-api/internal/events"
	"github.com/alfagnish/exchange-api/internal/models"
	"github.com/alfagnish/exchange-api/internal/store"
	"github.com/alfagnish/exchange-api/internal/validation"
)

// PersonsHandler serves persons and their embedded addresses.
type PersonsHandler struct {
	resource
	store *store.Store[models.Person]
}

// NewPersonsHandler creates a new PersonsHandler.
func NewPersonsHandler(st *store.Store[models.Person], deps Deps) *PersonsHandler {
	return &PersonsHandler{
		resource: resource{Deps: deps.withDefaults(), name: "persons", label: "Person"},
		store:    st,
	}
}

// Routes registers person routes on the given chi router.
func (h *PersonsHandler) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{person_id}", h.Get)
	r.Patch("/{person_id}", h.Update)
}

func (h *PersonsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.PersonInput
	if err := h.decode(r, &in); err != nil {
		h.fail(w, "create", err)
		return
	}

	p := models.NewPerson(h.NewID(), in, h.now())
	if err := h.store.Create(p.ID, p); err != nil {
		h.fail(w, "create", err)
		return
	}

	h.mutated("create", events.Created, h.store.Len(), p.ID, p)
	writeJSON(w, http.StatusCreated, p)
}

// List filters on contact fields; city and country match if any of the
// person's addresses has them.
func (h *PersonsHandler) List(w http.ResponseWriter, r *http.Request) {
	f := models.ParsePersonFilter(r.URL.Query())
	out := h.store.List(f.Match)
	h.observe("list")
	writeJSON(w, http.StatusOK, out)
}

func (h *PersonsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "person_id")
	if err != nil {
		h.fail(w, "get", err)
		return
	}
	p, err := h.store.Get(id)
	if err != nil {
		h.fail(w, "get", err)
		return
	}
	h.observe("get")
	writeJSON(w, http.StatusOK, p)
}

// Update applies a partial update. A present addresses list replaces the
// stored one.
func (h *PersonsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "person_id")
	if err != nil {
		h.fail(w, "update", err)
		return
	}
	var patch models.PersonPatch
	if err := validation.DecodeJSON(r.Body, &patch); err != nil {
		h.fail(w, "update", err)
		return
	}

	p, err := h.store.Update(id, func(cur models.Person) (models.Person, error) {
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

	h.mutated("update", events.Updated, h.store.Len(), id, p)
	writeJSON(w, http.StatusOK, p)
}
