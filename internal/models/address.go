package models

import (
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/alfagnish/exchange-api/internal/optional"
)

// AddressBase is a postal address. Persons embed it by value.
type AddressBase struct {
	Street     string  `json:"street"`
	City       string  `json:"city"`
	State      *string `json:"state"`
	PostalCode *string `json:"postal_code"`
	Country    string  `json:"country"`
}

// Address is a stored AddressBase.
type Address struct {
	ID uuid.UUID `json:"id"`
	AddressBase
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AddressInput is the create payload for an address.
type AddressInput struct {
	Street     *string `json:"street" validate:"required"`
	City       *string `json:"city" validate:"required"`
	State      *string `json:"state"`
	PostalCode *string `json:"postal_code"`
	Country    *string `json:"country" validate:"required"`
}

func (in AddressInput) Base() AddressBase {
	return AddressBase{
		Street:     deref(in.Street),
		City:       deref(in.City),
		State:      clonePtr(in.State),
		PostalCode: clonePtr(in.PostalCode),
		Country:    deref(in.Country),
	}
}

func (b AddressBase) Input() AddressInput {
	return AddressInput{
		Street:     ptr(b.Street),
		City:       ptr(b.City),
		State:      clonePtr(b.State),
		PostalCode: clonePtr(b.PostalCode),
		Country:    ptr(b.Country),
	}
}

func NewAddress(id uuid.UUID, in AddressInput, now time.Time) Address {
	return Address{ID: id, AddressBase: in.Base(), CreatedAt: now, UpdatedAt: now}
}

func (a Address) Replace(in AddressInput, now time.Time) Address {
	a.AddressBase = in.Base()
	a.UpdatedAt = now
	return a
}

type AddressPatch struct {
	Street     optional.Value[string] `json:"street"`
	City       optional.Value[string] `json:"city"`
	State      optional.Value[string] `json:"state"`
	PostalCode optional.Value[string] `json:"postal_code"`
	Country    optional.Value[string] `json:"country"`
}

func (p AddressPatch) Apply(in *AddressInput) {
	optional.ApplyPtr(p.Street, &in.Street)
	optional.ApplyPtr(p.City, &in.City)
	optional.ApplyPtr(p.State, &in.State)
	optional.ApplyPtr(p.PostalCode, &in.PostalCode)
	optional.ApplyPtr(p.Country, &in.Country)
}

type AddressFilter struct {
	Street     *string
	City       *string
	State      *string
	PostalCode *string
	Country    *string
}

func ParseAddressFilter(q url.Values) AddressFilter {
	return AddressFilter{
		Street:     queryString(q, "street"),
		City:       queryString(q, "city"),
		State:      queryString(q, "state"),
		PostalCode: queryString(q, "postal_code"),
		Country:    queryString(q, "country"),
	}
}

func (f AddressFilter) Match(a Address) bool {
	return eq(f.Street, a.Street) &&
		eq(f.City, a.City) &&
		eqPtr(f.State, a.State) &&
		eqPtr(f.PostalCode, a.PostalCode) &&
		eq(f.Country, a.Country)
}
