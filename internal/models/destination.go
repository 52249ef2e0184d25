package models

import (
	"net/url"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/alfagnish/exchange-api/internal/optional"
)

// DestIDPattern is the shape of a destination code: three uppercase letters
// followed by three digits.
var DestIDPattern = regexp.MustCompile(`^[A-Z]{3}[0-9]{3}$`)

// DestinationBase is a university department students can be sent to, with
// the course conversions already agreed for it. Conversions is nil until
// one has been recorded.
type DestinationBase struct {
	DestID      string           `json:"dest_id"`
	Name        string           `json:"name"`
	Continent   string           `json:"continent"`
	Country     string           `json:"country"`
	Department  string           `json:"department"`
	Conversions []ConversionBase `json:"conversions"`
}

// Destination is a stored DestinationBase. ID is the server-side key; DestID
// is the code chosen by the client.
type Destination struct {
	ID uuid.UUID `json:"id"`
	DestinationBase
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DestinationInput struct {
	DestID      *string           `json:"dest_id" validate:"required,dest_id"`
	Name        *string           `json:"name" validate:"required"`
	Continent   *string           `json:"continent" validate:"required"`
	Country     *string           `json:"country" validate:"required"`
	Department  *string           `json:"department" validate:"required"`
	Conversions []ConversionInput `json:"conversions" validate:"omitempty,dive"`
}

func (in DestinationInput) Base() DestinationBase {
	var convs []ConversionBase
	if in.Conversions != nil {
		convs = make([]ConversionBase, 0, len(in.Conversions))
		for _, c := range in.Conversions {
			convs = append(convs, c.Base())
		}
	}
	return DestinationBase{
		DestID:      deref(in.DestID),
		Name:        deref(in.Name),
		Continent:   deref(in.Continent),
		Country:     deref(in.Country),
		Department:  deref(in.Department),
		Conversions: convs,
	}
}

func (b DestinationBase) Input() DestinationInput {
	var convs []ConversionInput
	if b.Conversions != nil {
		convs = make([]ConversionInput, 0, len(b.Conversions))
		for _, c := range b.Conversions {
			convs = append(convs, c.Input())
		}
	}
	return DestinationInput{
		DestID:      ptr(b.DestID),
		Name:        ptr(b.Name),
		Continent:   ptr(b.Continent),
		Country:     ptr(b.Country),
		Department:  ptr(b.Department),
		Conversions: convs,
	}
}

func NewDestination(id uuid.UUID, in DestinationInput, now time.Time) Destination {
	return Destination{ID: id, DestinationBase: in.Base(), CreatedAt: now, UpdatedAt: now}
}

func (d Destination) Replace(in DestinationInput, now time.Time) Destination {
	d.DestinationBase = in.Base()
	d.UpdatedAt = now
	return d
}

type DestinationPatch struct {
	DestID      optional.Value[string]            `json:"dest_id"`
	Name        optional.Value[string]            `json:"name"`
	Continent   optional.Value[string]            `json:"continent"`
	Country     optional.Value[string]            `json:"country"`
	Department  optional.Value[string]            `json:"department"`
	Conversions optional.Value[[]ConversionInput] `json:"conversions"`
}

func (p DestinationPatch) Apply(in *DestinationInput) {
	optional.ApplyPtr(p.DestID, &in.DestID)
	optional.ApplyPtr(p.Name, &in.Name)
	optional.ApplyPtr(p.Continent, &in.Continent)
	optional.ApplyPtr(p.Country, &in.Country)
	optional.ApplyPtr(p.Department, &in.Department)
	optional.Apply(p.Conversions, &in.Conversions)
}

// DestinationFilter matches on the destination's own fields, and on
// HostInstitution when any embedded conversion has it.
type DestinationFilter struct {
	DestID          *string
	Name            *string
	Continent       *string
	Country         *string
	Department      *string
	HostInstitution *string
}

func ParseDestinationFilter(q url.Values) DestinationFilter {
	return DestinationFilter{
		DestID:          queryString(q, "dest_id"),
		Name:            queryString(q, "name"),
		Continent:       queryString(q, "continent"),
		Country:         queryString(q, "country"),
		Department:      queryString(q, "department"),
		HostInstitution: queryString(q, "host_institution"),
	}
}

func (f DestinationFilter) Match(d Destination) bool {
	if !(eq(f.DestID, d.DestID) &&
		eq(f.Name, d.Name) &&
		eq(f.Continent, d.Continent) &&
		eq(f.Country, d.Country) &&
		eq(f.Department, d.Department)) {
		return false
	}
	if f.HostInstitution == nil {
		return true
	}
	for _, c := range d.Conversions {
		if c.HostInstitution == *f.HostInstitution {
			return true
		}
	}
	return false
}
