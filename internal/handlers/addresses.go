package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alfagnish/exchange-api/internal/events"
	"github.com/alfagnish/exchange-api/internal/models"
	"github.com/alfagnish/exchange-api/internal/store"
	"github.com/alfagnish/exchange-api/internal/validation"
)

// AddressesHandler serves standalone addresses.
type AddressesHandler struct {
	resource
	store *store.Store[models.Address]
}

func NewAddressesHandler(st *store.Store[models.Address], deps Deps) *AddressesHandler {
	return &AddressesHandler{
		resource: resource{Deps: deps.withDefaults(), name: "addresses", label: "Address"},
		store:    st,
	}
}

func (h *AddressesHandler) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{address_id}", h.Get)
	r.Patch("/{address_id}", h.Update)
}

func (h *AddressesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.AddressInput
	if err := h.decode(r, &in); err != nil {
		h.fail(w, "create", err)
		return
	}

	a := models.NewAddress(h.NewID(), in, h.now())
	if err := h.store.Create(a.ID, a); err != nil {
		h.fail(w, "create", err)
		return
	}

	h.mutated("create", events.Created, h.store.Len(), a.ID, a)
	writeJSON(w, http.StatusCreated, a)
}

func (h *AddressesHandler) List(w http.ResponseWriter, r *http.Request) {
	f := models.ParseAddressFilter(r.URL.Query())
	out := h.store.List(f.Match)
	h.observe("list")
	writeJSON(w, http.StatusOK, out)
}

func (h *AddressesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "address_id")
	if err != nil {
		h.fail(w, "get", err)
		return
	}
	a, err := h.store.Get(id)
	if err != nil {
		h.fail(w, "get", err)
		return
	}
	h.observe("get")
	writeJSON(w, http.StatusOK, a)
}

func (h *AddressesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "address_id")
	if err != nil {
		h.fail(w, "update", err)
		return
	}
	var patch models.AddressPatch
	if err := validation.DecodeJSON(r.Body, &patch); err != nil {
		h.fail(w, "update", err)
		return
	}

	a, err := h.store.Update(id, func(cur models.Address) (models.Address, error) {
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

	h.mutated("update", events.Updated, h.store.Len(), id, a)
	writeJSON(w, http.StatusOK, a)
}
