package models

import (
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/alfagnish/exchange-api/internal/optional"
)

// PersonBase holds a person's contact details and the addresses they are
// reachable at.
type PersonBase struct {
	UNI       string        `json:"uni"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Email     string        `json:"email"`
	Phone     *string       `json:"phone"`
	BirthDate *string       `json:"birth_date"`
	Addresses []AddressBase `json:"addresses"`
}

// Person is a stored PersonBase.
type Person struct {
	ID uuid.UUID `json:"id"`
	PersonBase
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PersonInput is the create payload for a person. BirthDate is a calendar
// date in YYYY-MM-DD form.
type PersonInput struct {
	UNI       *string        `json:"uni" validate:"required"`
	FirstName *string        `json:"first_name" validate:"required"`
	LastName  *string        `json:"last_name" validate:"required"`
	Email     *string        `json:"email" validate:"required,email"`
	Phone     *string        `json:"phone"`
	BirthDate *string        `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Addresses []AddressInput `json:"addresses" validate:"omitempty,dive"`
}

func (in PersonInput) Base() PersonBase {
	addrs := make([]AddressBase, 0, len(in.Addresses))
	for _, a := range in.Addresses {
		addrs = append(addrs, a.Base())
	}
	return PersonBase{
		UNI:       deref(in.UNI),
		FirstName: deref(in.FirstName),
		LastName:  deref(in.LastName),
		Email:     deref(in.Email),
		Phone:     clonePtr(in.Phone),
		BirthDate: clonePtr(in.BirthDate),
		Addresses: addrs,
	}
}

func (b PersonBase) Input() PersonInput {
	addrs := make([]AddressInput, 0, len(b.Addresses))
	for _, a := range b.Addresses {
		addrs = append(addrs, a.Input())
	}
	return PersonInput{
		UNI:       ptr(b.UNI),
		FirstName: ptr(b.FirstName),
		LastName:  ptr(b.LastName),
		Email:     ptr(b.Email),
		Phone:     clonePtr(b.Phone),
		BirthDate: clonePtr(b.BirthDate),
		Addresses: addrs,
	}
}

func NewPerson(id uuid.UUID, in PersonInput, now time.Time) Person {
	return Person{ID: id, PersonBase: in.Base(), CreatedAt: now, UpdatedAt: now}
}

func (p Person) Replace(in PersonInput, now time.Time) Person {
	p.PersonBase = in.Base()
	p.UpdatedAt = now
	return p
}

// PersonPatch replaces the address list wholesale when present.
type PersonPatch struct {
	UNI       optional.Value[string]         `json:"uni"`
	FirstName optional.Value[string]         `json:"first_name"`
	LastName  optional.Value[string]         `json:"last_name"`
	Email     optional.Value[string]         `json:"email"`
	Phone     optional.Value[string]         `json:"phone"`
	BirthDate optional.Value[string]         `json:"birth_date"`
	Addresses optional.Value[[]AddressInput] `json:"addresses"`
}

func (p PersonPatch) Apply(in *PersonInput) {
	optional.ApplyPtr(p.UNI, &in.UNI)
	optional.ApplyPtr(p.FirstName, &in.FirstName)
	optional.ApplyPtr(p.LastName, &in.LastName)
	optional.ApplyPtr(p.Email, &in.Email)
	optional.ApplyPtr(p.Phone, &in.Phone)
	optional.ApplyPtr(p.BirthDate, &in.BirthDate)
	optional.Apply(p.Addresses, &in.Addresses)
}

// PersonFilter matches on contact fields, and on City/Country when at least
// one embedded address has them.
type PersonFilter struct {
	UNI       *string
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	BirthDate *string
	City      *string
	Country   *string
}

func ParsePersonFilter(q url.Values) PersonFilter {
	return PersonFilter{
		UNI:       queryString(q, "uni"),
		FirstName: queryString(q, "first_name"),
		LastName:  queryString(q, "last_name"),
		Email:     queryString(q, "email"),
		Phone:     queryString(q, "phone"),
		BirthDate: queryString(q, "birth_date"),
		City:      queryString(q, "city"),
		Country:   queryString(q, "country"),
	}
}

func (f PersonFilter) Match(p Person) bool {
	if !(eq(f.UNI, p.UNI) &&
		eq(f.FirstName, p.FirstName) &&
		eq(f.LastName, p.LastName) &&
		eq(f.Email, p.Email) &&
		eqPtr(f.Phone, p.Phone) &&
		eqPtr(f.BirthDate, p.BirthDate)) {
		return false
	}
	if f.City != nil && !anyAddress(p.Addresses, func(a AddressBase) bool { return a.City == *f.City }) {
		return false
	}
	if f.Country != nil && !anyAddress(p.Addresses, func(a AddressBase) bool { return a.Country == *f.Country }) {
		return false
	}
	return true
}

func anyAddress(addrs []AddressBase, fn func(AddressBase) bool) bool {
	for _, a := range addrs {
		if fn(a) {
			return true
		}
	}
	return false
}
